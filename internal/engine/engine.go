// Package engine defines the boundary to the external encryption engine.
//
// The engine owns ciphertext production and index construction (ORE
// blocks, HMAC tokens, bloom filters, per-node ste_vec ciphertext); this
// package only specifies what crosses the boundary: plaintext plus
// column/table identity and an index type in, opaque payloads or coded
// errors out. The ordering contract on bulk calls is one-to-one: result
// i corresponds to item i, with no null filtering at this layer.
package engine

import (
	"context"

	"github.com/solatis/encql/internal/lockctx"
	"github.com/solatis/encql/internal/types"
)

// EncryptRequest carries one scalar encryption or query-term encryption.
type EncryptRequest struct {
	Plaintext any             `json:"plaintext"`
	Column    string          `json:"column"`
	Table     string          `json:"table"`
	IndexType string          `json:"indexType,omitempty"`
	Lock      *lockctx.Locked `json:"lockContext,omitempty"`
}

// BulkItem is one entry of a bulk encryption call.
type BulkItem struct {
	Plaintext any    `json:"plaintext"`
	Column    string `json:"column"`
	Table     string `json:"table"`
	IndexType string `json:"indexType,omitempty"`
}

// BulkEncryptRequest carries an ordered list of items; the engine returns
// one payload per item, same order.
type BulkEncryptRequest struct {
	Items []BulkItem      `json:"items"`
	Lock  *lockctx.Locked `json:"lockContext,omitempty"`
}

// CiphertextItem is one entry of a fallible bulk decrypt call. ID
// correlates the per-item outcome with its input.
type CiphertextItem struct {
	ID         types.ItemID            `json:"id"`
	Ciphertext *types.EncryptedPayload `json:"ciphertext"`
}

// BulkDecryptRequest carries ciphertexts for per-item fallible decryption.
type BulkDecryptRequest struct {
	Items []CiphertextItem `json:"items"`
	Lock  *lockctx.Locked  `json:"lockContext,omitempty"`
}

// DecryptOutcome is the tagged per-item result of a fallible decrypt:
// either Data or Err is set, never both.
type DecryptOutcome struct {
	ID   types.ItemID
	Data any
	Err  error
}

// Engine is the encryption engine consumed by the operation layer.
// Implementations must not retain requests after the call returns.
type Engine interface {
	// Encrypt produces one payload, or a coded error.
	Encrypt(ctx context.Context, req EncryptRequest) (*types.EncryptedPayload, error)

	// EncryptBulk produces exactly one payload per item, in item order.
	EncryptBulk(ctx context.Context, req BulkEncryptRequest) ([]*types.EncryptedPayload, error)

	// DecryptBulkFallible reports a per-item outcome for every item, in
	// item order; a malformed ciphertext fails its own item only.
	DecryptBulkFallible(ctx context.Context, req BulkDecryptRequest) ([]DecryptOutcome, error)
}
