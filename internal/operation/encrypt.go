// internal/operation/encrypt.go
package operation

import (
	"context"
	"log/slog"

	"github.com/solatis/encql/internal/engine"
	"github.com/solatis/encql/internal/lockctx"
	"github.com/solatis/encql/internal/query"
	"github.com/solatis/encql/internal/types"
)

// Encrypt encrypts one scalar plaintext for storage. With no index type
// set the engine builds every index the column was declared with.
type Encrypt struct {
	base
	plaintext any
	column    types.Column
	table     string
}

// NewEncrypt constructs an unbound scalar encryption.
func NewEncrypt(eng engine.Engine, log *slog.Logger, plaintext any, column types.Column, table string) *Encrypt {
	return &Encrypt{base: newBase(eng, log), plaintext: plaintext, column: column, table: table}
}

// WithLockContext returns a bound copy.
func (o *Encrypt) WithLockContext(r lockctx.Resolver) *Encrypt {
	cp := *o
	cp.base = cp.base.bind(r)
	return &cp
}

// State reports the operation's lifecycle state.
func (o *Encrypt) State() State { return o.state }

// Execute encrypts the plaintext. A nil plaintext resolves to nil without
// an engine call.
func (o *Encrypt) Execute(ctx context.Context) (*types.EncryptedPayload, error) {
	defer o.markExecuted()

	shape, err := query.ShapeOf(o.plaintext)
	if err != nil {
		return nil, err
	}
	if shape == query.ShapeNull {
		return nil, nil
	}

	locked, err := o.lock(ctx)
	if err != nil {
		return nil, err
	}

	o.log.DebugContext(ctx, "encrypting scalar",
		"table", o.table, "column", o.column.Name, "bound", locked != nil)

	return o.eng.Encrypt(ctx, engine.EncryptRequest{
		Plaintext: o.plaintext,
		Column:    o.column.Name,
		Table:     o.table,
		Lock:      locked,
	})
}

// BulkEncryptEntry is one plaintext of a bulk encryption.
type BulkEncryptEntry struct {
	Plaintext any
	Column    types.Column
	Table     string
}

// BulkEncrypt encrypts many plaintexts in a single engine round trip.
// Nil plaintexts are filtered before the call and re-inserted as nil at
// their original positions afterward.
type BulkEncrypt struct {
	base
	entries []BulkEncryptEntry
}

// NewBulkEncrypt constructs an unbound bulk encryption.
func NewBulkEncrypt(eng engine.Engine, log *slog.Logger, entries []BulkEncryptEntry) *BulkEncrypt {
	return &BulkEncrypt{base: newBase(eng, log), entries: entries}
}

// WithLockContext returns a bound copy.
func (o *BulkEncrypt) WithLockContext(r lockctx.Resolver) *BulkEncrypt {
	cp := *o
	cp.base = cp.base.bind(r)
	return &cp
}

// State reports the operation's lifecycle state.
func (o *BulkEncrypt) State() State { return o.state }

// Execute encrypts every non-nil entry with exactly one engine call.
// Output position i corresponds to entry i, nils included.
func (o *BulkEncrypt) Execute(ctx context.Context) ([]*types.EncryptedPayload, error) {
	defer o.markExecuted()

	items := make([]engine.BulkItem, 0, len(o.entries))
	slots := make([]int, 0, len(o.entries))
	for i, e := range o.entries {
		shape, err := query.ShapeOf(e.Plaintext)
		if err != nil {
			return nil, err
		}
		if shape == query.ShapeNull {
			continue
		}
		items = append(items, engine.BulkItem{
			Plaintext: e.Plaintext,
			Column:    e.Column.Name,
			Table:     e.Table,
		})
		slots = append(slots, i)
	}

	out := make([]*types.EncryptedPayload, len(o.entries))
	if len(items) == 0 {
		return out, nil
	}

	locked, err := o.lock(ctx)
	if err != nil {
		return nil, err
	}

	o.log.DebugContext(ctx, "encrypting bulk",
		"entries", len(o.entries), "items", len(items), "bound", locked != nil)

	payloads, err := o.eng.EncryptBulk(ctx, engine.BulkEncryptRequest{Items: items, Lock: locked})
	if err != nil {
		return nil, err
	}
	if len(payloads) != len(items) {
		return nil, types.NewValidationError(types.ErrResultCountMismatch,
			"engine returned %d payloads for %d items", len(payloads), len(items))
	}
	for j, p := range payloads {
		out[slots[j]] = p
	}
	return out, nil
}
