// internal/operation/decrypt.go
package operation

import (
	"context"
	"log/slog"

	"github.com/solatis/encql/internal/engine"
	"github.com/solatis/encql/internal/lockctx"
	"github.com/solatis/encql/internal/types"
)

// BulkDecryptItem is one ciphertext of a fallible bulk decryption. A nil
// Ciphertext passes through as a nil outcome without reaching the engine.
// An empty ID gets a generated UUIDv7 before the call.
type BulkDecryptItem struct {
	ID         types.ItemID
	Ciphertext *types.EncryptedPayload
}

// Decrypted is the per-item outcome of a bulk decryption: Data on
// success, Err on a per-item failure, neither for a nil input.
type Decrypted struct {
	ID   types.ItemID
	Data any
	Err  error
}

// BulkDecrypt decrypts many ciphertexts in one engine round trip with
// per-item failure reporting.
type BulkDecrypt struct {
	base
	items []BulkDecryptItem
}

// NewBulkDecrypt constructs an unbound bulk decryption.
func NewBulkDecrypt(eng engine.Engine, log *slog.Logger, items []BulkDecryptItem) *BulkDecrypt {
	return &BulkDecrypt{base: newBase(eng, log), items: items}
}

// WithLockContext returns a bound copy.
func (o *BulkDecrypt) WithLockContext(r lockctx.Resolver) *BulkDecrypt {
	cp := *o
	cp.base = cp.base.bind(r)
	return &cp
}

// State reports the operation's lifecycle state.
func (o *BulkDecrypt) State() State { return o.state }

// Execute decrypts every non-nil ciphertext with exactly one engine
// call. Output position i corresponds to item i; a malformed ciphertext
// fails its own slot only.
func (o *BulkDecrypt) Execute(ctx context.Context) ([]Decrypted, error) {
	defer o.markExecuted()

	out := make([]Decrypted, len(o.items))
	reqItems := make([]engine.CiphertextItem, 0, len(o.items))
	slots := make([]int, 0, len(o.items))

	for i, item := range o.items {
		id := item.ID
		if id == "" {
			id = types.NewItemID()
		}
		out[i] = Decrypted{ID: id}
		if item.Ciphertext == nil {
			continue
		}
		reqItems = append(reqItems, engine.CiphertextItem{ID: id, Ciphertext: item.Ciphertext})
		slots = append(slots, i)
	}

	if len(reqItems) == 0 {
		return out, nil
	}

	locked, err := o.lock(ctx)
	if err != nil {
		return nil, err
	}

	o.log.DebugContext(ctx, "decrypting bulk",
		"items", len(o.items), "sent", len(reqItems), "bound", locked != nil)

	outcomes, err := o.eng.DecryptBulkFallible(ctx, engine.BulkDecryptRequest{
		Items: reqItems,
		Lock:  locked,
	})
	if err != nil {
		return nil, err
	}
	if len(outcomes) != len(reqItems) {
		return nil, types.NewValidationError(types.ErrResultCountMismatch,
			"engine returned %d outcomes for %d items", len(outcomes), len(reqItems))
	}

	for j, outcome := range outcomes {
		i := slots[j]
		out[i].Data = outcome.Data
		out[i].Err = outcome.Err
	}
	return out, nil
}
