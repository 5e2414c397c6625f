package jsonpath

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Test normalization of the accepted grammar
func TestNormalize_Grammar(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		jsonPath string
		segments []string
	}{
		{
			name:     "dot path",
			input:    "user.email",
			jsonPath: "$.user.email",
			segments: []string{"user", "email"},
		},
		{
			name:     "prefixed jsonpath",
			input:    "$.a.b.c",
			jsonPath: "$.a.b.c",
			segments: []string{"a", "b", "c"},
		},
		{
			name:     "dollar without dot",
			input:    "$a.b",
			jsonPath: "$.a.b",
			segments: []string{"a", "b"},
		},
		{
			name:     "leading dot",
			input:    ".a.b",
			jsonPath: "$.a.b",
			segments: []string{"a", "b"},
		},
		{
			name:     "bare root",
			input:    "$",
			jsonPath: "$",
			segments: []string{},
		},
		{
			name:     "empty string",
			input:    "",
			jsonPath: "$",
			segments: []string{},
		},
		{
			name:     "root array index",
			input:    "$[0].name",
			jsonPath: "$[0].name",
			segments: []string{"0", "name"},
		},
		{
			name:     "index suffix",
			input:    "items[0].name",
			jsonPath: "$.items[0].name",
			segments: []string{"items", "0", "name"},
		},
		{
			name:     "nested index suffixes",
			input:    "items[0][1]",
			jsonPath: "$.items[0][1]",
			segments: []string{"items", "0", "1"},
		},
		{
			name:     "wildcard suffixes",
			input:    "items[*].tags[@]",
			jsonPath: "$.items[*].tags[@]",
			segments: []string{"items", "*", "tags", "@"},
		},
		{
			name:     "consecutive separators filtered",
			input:    "user..email",
			jsonPath: "$.user.email",
			segments: []string{"user", "email"},
		},
		{
			name:     "non-identifier segment quoted",
			input:    []string{"a-b"},
			jsonPath: `$["a-b"]`,
			segments: []string{"a-b"},
		},
		{
			name:     "segment with quote escaped",
			input:    []string{`a"b`},
			jsonPath: `$["a\"b"]`,
			segments: []string{`a"b`},
		},
		{
			name:     "segment array",
			input:    []string{"user", "email"},
			jsonPath: "$.user.email",
			segments: []string{"user", "email"},
		},
		{
			name:     "segment array with empty entries",
			input:    []string{"user", "", "email"},
			jsonPath: "$.user.email",
			segments: []string{"user", "email"},
		},
		{
			name:     "bracket quoted input",
			input:    `$["a-b"].c`,
			jsonPath: `$["a-b"].c`,
			segments: []string{"a-b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if err != nil {
				t.Fatalf("Normalize(%v) error = %v", tt.input, err)
			}
			if got.JSONPath != tt.jsonPath {
				t.Errorf("JSONPath = %q, expected %q", got.JSONPath, tt.jsonPath)
			}
			if !reflect.DeepEqual(got.Segments, tt.segments) && !(len(got.Segments) == 0 && len(tt.segments) == 0) {
				t.Errorf("Segments = %v, expected %v", got.Segments, tt.segments)
			}
		})
	}
}

func TestNormalize_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{name: "unterminated bracket", input: "items[0"},
		{name: "unterminated quote", input: `$["a`},
		{name: "nil input", input: nil},
		{name: "non-string segment array", input: []any{"a", 1}},
		{name: "unsupported type", input: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Normalize(tt.input); err == nil {
				t.Errorf("Normalize(%v) expected error", tt.input)
			}
		})
	}
}

// Property-based test: normalization is idempotent on its own output
func TestNormalize_PropertyIdempotence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	identGen := gen.RegexMatch(`[a-zA-Z_][a-zA-Z0-9_]{0,8}`)
	oddGen := gen.RegexMatch(`[a-z]{1,4}-[a-z0-9 "]{1,6}`)

	properties.Property("normalize(normalize(p).jsonPath) == normalize(p)", prop.ForAll(
		func(idents []string, odd string, index int, wildcard bool) bool {
			segments := append([]string{}, idents...)
			segments = append(segments, odd)

			first := NormalizeSegments(segments)
			path := first.JSONPath
			if wildcard {
				path += "[*]"
			} else {
				path += "[" + strconv.Itoa(index) + "]"
			}

			once, err := NormalizeString(path)
			if err != nil {
				return false
			}
			twice, err := NormalizeString(once.JSONPath)
			if err != nil {
				return false
			}
			return once.JSONPath == twice.JSONPath &&
				reflect.DeepEqual(once.Segments, twice.Segments)
		},
		gen.SliceOfN(3, identGen),
		oddGen,
		gen.IntRange(0, 99),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

