// internal/format/decode.go
package format

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/solatis/encql/internal/types"
)

// Wire shapes from the SQL layer's point of view. The interior of a
// composite literal, once the parentheses are stripped and the remaining
// string is JSON-parsed once, is the JSON-serialized payload.
var (
	compositeLiteralRe        = regexp.MustCompile(`^\(".*"\)$`)
	escapedCompositeLiteralRe = regexp.MustCompile(`^".*"$`)
)

// IsCompositeLiteral reports whether s has the composite-literal shape.
func IsCompositeLiteral(s string) bool {
	return compositeLiteralRe.MatchString(s)
}

// IsEscapedCompositeLiteral reports whether s has the escaped shape.
func IsEscapedCompositeLiteral(s string) bool {
	return escapedCompositeLiteralRe.MatchString(s)
}

// DecodeCompositeLiteral inverts CompositeLiteral: strips the
// parentheses, JSON-parses once to recover the serialized payload, and
// once more to recover the payload itself.
func DecodeCompositeLiteral(s string) (*types.EncryptedPayload, error) {
	if !IsCompositeLiteral(s) {
		return nil, fmt.Errorf("not a composite literal: %q", s)
	}
	quoted := strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")

	var inner string
	if err := json.Unmarshal([]byte(quoted), &inner); err != nil {
		return nil, fmt.Errorf("decoding composite literal interior: %w", err)
	}
	var payload types.EncryptedPayload
	if err := json.Unmarshal([]byte(inner), &payload); err != nil {
		return nil, fmt.Errorf("decoding composite literal payload: %w", err)
	}
	return &payload, nil
}

// DecodeEscapedCompositeLiteral inverts EscapedCompositeLiteral: one JSON
// parse recovers the composite literal, which is then decoded as above.
func DecodeEscapedCompositeLiteral(s string) (*types.EncryptedPayload, error) {
	var literal string
	if err := json.Unmarshal([]byte(s), &literal); err != nil {
		return nil, fmt.Errorf("decoding escaped composite literal: %w", err)
	}
	return DecodeCompositeLiteral(literal)
}
