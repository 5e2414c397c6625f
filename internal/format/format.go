// Package format renders encrypted payloads in the wire encodings a SQL
// layer consumes.
//
// Three encodings:
//   - raw: the payload unchanged (default)
//   - composite literal: "(" + JSON(JSON(payload)) + ")", the doubly
//     JSON-encoded, parenthesized form a SQL composite-type column
//     accepts in an equality or containment predicate
//   - escaped composite literal: the composite literal JSON-encoded once
//     more, for embedding as a single scalar string argument
//
// Round-trip invariant: stripping the composite literal's parentheses
// and JSON-parsing twice yields the payload unchanged. A nil payload
// formats to nil under every return type, no parentheses, no encoding;
// this carries the null-passthrough rule through to the final output.
package format

import (
	"encoding/json"

	"github.com/solatis/encql/internal/types"
)

// Format renders one payload. The result is the payload itself for
// ReturnRaw and a string for the literal encodings.
func Format(payload *types.EncryptedPayload, rt types.ReturnType) (any, error) {
	if payload == nil {
		return nil, nil
	}

	switch rt {
	case types.ReturnCompositeLiteral:
		return CompositeLiteral(payload)
	case types.ReturnEscapedCompositeLiteral:
		return EscapedCompositeLiteral(payload)
	default:
		return payload, nil
	}
}

// CompositeLiteral renders "(<json-in-json>)". The payload is JSON
// serialized, that string is JSON-serialized again (doubling the escape
// level), and the result is parenthesized to match a SQL composite-type
// literal.
func CompositeLiteral(payload *types.EncryptedPayload) (string, error) {
	inner, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	outer, err := json.Marshal(string(inner))
	if err != nil {
		return "", err
	}
	return "(" + string(outer) + ")", nil
}

// EscapedCompositeLiteral renders the composite literal JSON-encoded once
// more.
func EscapedCompositeLiteral(payload *types.EncryptedPayload) (string, error) {
	literal, err := CompositeLiteral(payload)
	if err != nil {
		return "", err
	}
	escaped, err := json.Marshal(literal)
	if err != nil {
		return "", err
	}
	return string(escaped), nil
}
