// internal/jsonpath/normalize.go
package jsonpath

import (
	"strings"

	"github.com/solatis/encql/internal/types"
)

/*
 * JSONPath normalization.
 *
 * Canonicalizes every accepted path representation (segment array,
 * dot-path string, prefixed JSONPath string) into one JSONPath string
 * plus one segment-array form.
 *
 * Key functions:
 *   - Normalize: Dispatches on input representation
 *   - NormalizeString: Parses and re-renders a path string
 *   - NormalizeSegments: Renders an explicit segment array
 *
 * Grammar accepted on input: a.b.c, $.a.b.c, $a.b, .a.b, $, $[0], with
 * optional [N], [*], [@] suffixes on any segment, nested suffixes
 * included (items[0][1]), and bracket-quoted segments ($["a-b"]).
 *
 * Rendering: plain identifiers (letters, digits, underscore) use dot
 * notation; anything else is bracket-quoted with internal quotes
 * backslash-escaped. Index and wildcard brackets are preserved verbatim.
 *
 * Idempotence invariant: normalizing an already-normalized JSONPath
 * returns it unchanged. Empty segments from consecutive separators are
 * filtered silently.
 */

// Normalized holds both canonical forms of one path.
type Normalized struct {
	JSONPath string   // always begins with "$"
	Segments []string // traversal keys, brackets and quotes stripped
}

type segmentKind int

const (
	segKey segmentKind = iota
	segIndex
	segWildcard
)

type segment struct {
	text string
	kind segmentKind
}

// Normalize canonicalizes a path given as a string or a []string of
// segments. Any other representation fails with a PathError.
func Normalize(input any) (Normalized, error) {
	switch v := input.(type) {
	case string:
		return NormalizeString(v)
	case []string:
		return NormalizeSegments(v), nil
	case []any:
		segs := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return Normalized{}, types.NewPathError(types.ErrMalformedPath, "")
			}
			segs = append(segs, s)
		}
		return NormalizeSegments(segs), nil
	case nil:
		return Normalized{}, types.NewPathError(types.ErrEmptyPath, "")
	default:
		return Normalized{}, types.NewPathError(types.ErrMalformedPath, "")
	}
}

// NormalizeString parses a dot-path or JSONPath string and re-renders it
// in canonical form. A bare "$" or empty string normalizes to the root
// selector "$".
func NormalizeString(path string) (Normalized, error) {
	segs, err := parsePath(path)
	if err != nil {
		return Normalized{}, err
	}
	return render(segs), nil
}

// NormalizeSegments renders an already-split segment array. Every element
// is treated as a traversal key; empty elements are filtered.
func NormalizeSegments(segments []string) Normalized {
	segs := make([]segment, 0, len(segments))
	for _, s := range segments {
		if s == "" {
			continue
		}
		segs = append(segs, segment{text: s, kind: segKey})
	}
	return render(segs)
}

func render(segs []segment) Normalized {
	var b strings.Builder
	b.WriteByte('$')
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		out = append(out, s.text)
		switch s.kind {
		case segIndex, segWildcard:
			b.WriteByte('[')
			b.WriteString(s.text)
			b.WriteByte(']')
		default:
			if isIdentifier(s.text) {
				b.WriteByte('.')
				b.WriteString(s.text)
			} else {
				b.WriteString(`["`)
				b.WriteString(escapeQuoted(s.text))
				b.WriteString(`"]`)
			}
		}
	}
	return Normalized{JSONPath: b.String(), Segments: out}
}

// parsePath scans a path string into segments. Leading "$" and "."
// prefixes are stripped; consecutive dots yield no segment.
func parsePath(path string) ([]segment, error) {
	i := 0
	if i < len(path) && path[i] == '$' {
		i++
	}

	var segs []segment
	for i < len(path) {
		switch path[i] {
		case '.':
			i++
		case '[':
			seg, next, err := parseBracket(path, i)
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
			i = next
		default:
			start := i
			for i < len(path) && path[i] != '.' && path[i] != '[' {
				i++
			}
			segs = append(segs, segment{text: path[start:i], kind: segKey})
		}
	}
	return segs, nil
}

// parseBracket consumes one bracket suffix starting at path[open] == '['.
// Returns the parsed segment and the index just past the closing bracket.
func parseBracket(path string, open int) (segment, int, error) {
	i := open + 1
	if i >= len(path) {
		return segment{}, 0, types.NewPathError(types.ErrMalformedPath, path[open:])
	}

	if path[i] == '"' {
		text, next, err := parseQuoted(path, i)
		if err != nil {
			return segment{}, 0, err
		}
		if next >= len(path) || path[next] != ']' {
			return segment{}, 0, types.NewPathError(types.ErrMalformedPath, text)
		}
		return segment{text: text, kind: segKey}, next + 1, nil
	}

	end := strings.IndexByte(path[i:], ']')
	if end < 0 {
		return segment{}, 0, types.NewPathError(types.ErrMalformedPath, path[open:])
	}
	content := path[i : i+end]
	next := i + end + 1

	switch {
	case content == "*" || content == "@":
		return segment{text: content, kind: segWildcard}, next, nil
	case isDigits(content):
		return segment{text: content, kind: segIndex}, next, nil
	default:
		return segment{text: content, kind: segKey}, next, nil
	}
}

// parseQuoted consumes a double-quoted string starting at path[open] == '"',
// handling backslash escapes. Returns the unescaped text and the index just
// past the closing quote.
func parseQuoted(path string, open int) (string, int, error) {
	var b strings.Builder
	i := open + 1
	for i < len(path) {
		switch path[i] {
		case '\\':
			if i+1 >= len(path) {
				return "", 0, types.NewPathError(types.ErrMalformedPath, path[open:])
			}
			b.WriteByte(path[i+1])
			i += 2
		case '"':
			return b.String(), i + 1, nil
		default:
			b.WriteByte(path[i])
			i++
		}
	}
	return "", 0, types.NewPathError(types.ErrMalformedPath, path[open:])
}

// isIdentifier reports whether s renders safely in dot notation:
// nonempty, letters, digits, and underscore only.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func escapeQuoted(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
