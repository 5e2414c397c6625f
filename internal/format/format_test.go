package format

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solatis/encql/internal/types"
)

func samplePayload() *types.EncryptedPayload {
	return &types.EncryptedPayload{
		Version:    2,
		Index:      types.PayloadIndex{Table: "users", Column: "email"},
		Kind:       "ct",
		Ciphertext: `cipher "with quotes" and \backslashes\`,
		UniqueHash: "ab12cd34",
	}
}

func TestFormat_Raw(t *testing.T) {
	payload := samplePayload()
	out, err := Format(payload, types.ReturnRaw)
	require.NoError(t, err)
	assert.Same(t, payload, out)
}

func TestFormat_NilPayload(t *testing.T) {
	for _, rt := range []types.ReturnType{
		types.ReturnRaw,
		types.ReturnCompositeLiteral,
		types.ReturnEscapedCompositeLiteral,
	} {
		out, err := Format(nil, rt)
		require.NoError(t, err)
		assert.Nil(t, out, "return type %v", rt)
	}
}

func TestCompositeLiteral_Shape(t *testing.T) {
	literal, err := CompositeLiteral(samplePayload())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(literal, `("`))
	assert.True(t, strings.HasSuffix(literal, `")`))
	assert.True(t, IsCompositeLiteral(literal))
	assert.False(t, IsEscapedCompositeLiteral(literal))
}

func TestCompositeLiteral_RoundTrip(t *testing.T) {
	payload := samplePayload()

	literal, err := CompositeLiteral(payload)
	require.NoError(t, err)

	decoded, err := DecodeCompositeLiteral(literal)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestEscapedCompositeLiteral_RoundTrip(t *testing.T) {
	payload := samplePayload()

	escaped, err := EscapedCompositeLiteral(payload)
	require.NoError(t, err)
	assert.True(t, IsEscapedCompositeLiteral(escaped))
	assert.False(t, IsCompositeLiteral(escaped))

	decoded, err := DecodeEscapedCompositeLiteral(escaped)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

// The escaped form is exactly the composite literal JSON-encoded once
// more: unescaping one level must yield the composite literal verbatim.
func TestEscapedCompositeLiteral_OneLevelAboveLiteral(t *testing.T) {
	payload := samplePayload()

	literal, err := CompositeLiteral(payload)
	require.NoError(t, err)
	escaped, err := EscapedCompositeLiteral(payload)
	require.NoError(t, err)

	var unescaped string
	require.NoError(t, json.Unmarshal([]byte(escaped), &unescaped))
	assert.Equal(t, literal, unescaped)
}

func TestDecodeCompositeLiteral_Malformed(t *testing.T) {
	for _, s := range []string{
		"",
		"not a literal",
		`("unterminated`,
		`{"v":2}`,
	} {
		_, err := DecodeCompositeLiteral(s)
		assert.Error(t, err, "input %q", s)
	}
}
