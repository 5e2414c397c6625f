// Package types provides domain models shared across encql components.
//
// Zero-dependency design: types.go and errors.go use only encoding/json so
// the query-building core stays lightweight. ID utilities in ids.go import
// uuid but are isolated for selective inclusion.
//
// Separation from transport: requests and responses exchanged with the
// encryption engine live in internal/engine. This package contains
// hand-written types for concepts shared by every layer (columns, query
// terms, encrypted payloads, error taxonomy).
package types

import (
	"encoding/json"
	"fmt"
)

// IndexSet holds the boolean index flags a column was declared with.
// The flags are the only part of the schema declaration DSL the query
// core looks at; everything else about a declaration is opaque to it.
type IndexSet struct {
	Equality       bool // "unique" index: exact-match predicates
	FreeTextSearch bool // "match" index: full-text predicates
	OrderAndRange  bool // "ore" index: <, <=, >, >= predicates
	SteVec         bool // "ste_vec" index: JSONPath selector and containment
}

// Count returns how many index kinds are configured.
// Used by the classifier to decide whether inference is unambiguous.
func (s IndexSet) Count() int {
	n := 0
	for _, b := range []bool{s.Equality, s.FreeTextSearch, s.OrderAndRange, s.SteVec} {
		if b {
			n++
		}
	}
	return n
}

// Column identifies one encrypted column together with its index flags.
// Immutable once declared; owned by the table it belongs to.
type Column struct {
	Name    string
	Indexes IndexSet
}

// Table groups the encrypted columns of one SQL table by column name.
type Table struct {
	Name    string
	Columns map[string]Column
}

// OperationKind selects the searchable-encryption index operation for a
// query term. KindSearchableJSON is a meta-kind: the classifier resolves
// it to KindSteVecSelector or KindSteVecTerm from the plaintext shape
// before anything reaches the engine.
type OperationKind int

const (
	KindUnspecified OperationKind = iota
	KindEquality
	KindOrderAndRange
	KindFreeTextSearch
	KindSteVecSelector
	KindSteVecTerm
	KindSearchableJSON
)

// String returns the caller-facing name of the operation kind.
func (k OperationKind) String() string {
	switch k {
	case KindEquality:
		return "equality"
	case KindOrderAndRange:
		return "orderAndRange"
	case KindFreeTextSearch:
		return "freeTextSearch"
	case KindSteVecSelector:
		return "steVecSelector"
	case KindSteVecTerm:
		return "steVecTerm"
	case KindSearchableJSON:
		return "searchableJson"
	default:
		return "unspecified"
	}
}

// IndexType returns the stable wire name the engine expects for this
// kind. The meta-kind and the zero value have no wire name; the
// classifier guarantees neither reaches an engine call.
func (k OperationKind) IndexType() string {
	switch k {
	case KindEquality:
		return "unique"
	case KindOrderAndRange:
		return "ore"
	case KindFreeTextSearch:
		return "match"
	case KindSteVecSelector:
		return "ste_vec_selector"
	case KindSteVecTerm:
		return "ste_vec_term"
	default:
		return ""
	}
}

// ParseOperationKind converts a caller-facing kind name to its enum
// value. The empty string parses to KindUnspecified (infer).
func ParseOperationKind(s string) (OperationKind, error) {
	switch s {
	case "":
		return KindUnspecified, nil
	case "equality":
		return KindEquality, nil
	case "orderAndRange":
		return KindOrderAndRange, nil
	case "freeTextSearch":
		return KindFreeTextSearch, nil
	case "steVecSelector":
		return KindSteVecSelector, nil
	case "steVecTerm":
		return KindSteVecTerm, nil
	case "searchableJson":
		return KindSearchableJSON, nil
	default:
		return KindUnspecified, fmt.Errorf("unknown operation kind %q", s)
	}
}

// ParseReturnType converts a caller-facing return type name to its enum
// value. The empty string parses to ReturnRaw.
func ParseReturnType(s string) (ReturnType, error) {
	switch s {
	case "", "raw":
		return ReturnRaw, nil
	case "composite-literal":
		return ReturnCompositeLiteral, nil
	case "escaped-composite-literal":
		return ReturnEscapedCompositeLiteral, nil
	default:
		return ReturnRaw, fmt.Errorf("unknown return type %q", s)
	}
}

// ReturnType selects the wire encoding the formatter applies to an
// encrypted payload before it is handed back to the caller.
type ReturnType int

const (
	// ReturnRaw returns the payload unchanged (default).
	ReturnRaw ReturnType = iota

	// ReturnCompositeLiteral returns "(<json-in-json>)", the literal form
	// a SQL composite-type column accepts in an equality or containment
	// predicate.
	ReturnCompositeLiteral

	// ReturnEscapedCompositeLiteral returns the composite literal
	// JSON-encoded once more, for embedding as a single scalar string
	// argument.
	ReturnEscapedCompositeLiteral
)

// QueryTerm is one logical search predicate against an encrypted column.
//
// Exactly one of the union shapes applies per term: Path (optionally with
// Value), Contains, ContainedBy, or a bare Value. The classifier rejects
// terms that mix shapes. A term whose effective plaintext is nil passes
// through every layer untouched and never causes an engine call.
type QueryTerm struct {
	Table  string
	Column Column

	// Path is a JSONPath lookup into an encrypted JSON document. Accepts
	// a dot-path string, a prefixed JSONPath string, or a []string of
	// segments. With Value set the term becomes a containment check on
	// the minimal nested object holding Value at Path.
	Path any

	// Value is the comparison plaintext. On its own (no Path), the term
	// is a direct scalar query, or a searchable-JSON term when the column
	// carries an ste_vec index.
	Value any

	// Contains asserts the encrypted document contains this subtree.
	Contains map[string]any

	// ContainedBy asserts the encrypted document is contained by this
	// subtree.
	ContainedBy map[string]any

	// QueryType forces a specific operation kind, overriding inference
	// even when it conflicts with the plaintext shape.
	QueryType OperationKind

	// ReturnType selects the formatter encoding for this term's result.
	ReturnType ReturnType
}

// PayloadIndex identifies the table and column a ciphertext belongs to.
type PayloadIndex struct {
	Table  string `json:"t"`
	Column string `json:"c"`
}

// EncryptedPayload is the opaque value the engine returns. The core
// re-encodes payloads for the SQL wire but never mutates them; the
// index-specific fields are carried verbatim.
type EncryptedPayload struct {
	Version    int             `json:"v"`
	Index      PayloadIndex    `json:"i"`
	Kind       string          `json:"k,omitempty"`
	Ciphertext string          `json:"c,omitempty"`
	OreIndex   json.RawMessage `json:"ob,omitempty"`
	MatchIndex json.RawMessage `json:"bf,omitempty"`
	UniqueHash string          `json:"hm,omitempty"`
	SteVec     json.RawMessage `json:"sv,omitempty"`
}
