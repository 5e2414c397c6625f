// internal/operation/model.go
package operation

import (
	"context"
	"log/slog"
	"sort"

	"github.com/solatis/encql/internal/engine"
	"github.com/solatis/encql/internal/lockctx"
	"github.com/solatis/encql/internal/types"
)

/*
 * Model-shaped encrypt/decrypt.
 *
 * A model is one row as a map: encrypted columns hold plaintext (encrypt)
 * or payloads (decrypt), everything else is carried through verbatim.
 * Both directions are a single engine round trip over the columns that
 * are present and non-nil.
 *
 * Column iteration is sorted by name so the engine sees a deterministic
 * item order for identical inputs.
 */

// EncryptModel encrypts every declared encrypted column present in the
// model in one bulk engine call.
type EncryptModel struct {
	base
	model map[string]any
	table types.Table
}

// NewEncryptModel constructs an unbound model encryption.
func NewEncryptModel(eng engine.Engine, log *slog.Logger, model map[string]any, table types.Table) *EncryptModel {
	return &EncryptModel{base: newBase(eng, log), model: model, table: table}
}

// WithLockContext returns a bound copy.
func (o *EncryptModel) WithLockContext(r lockctx.Resolver) *EncryptModel {
	cp := *o
	cp.base = cp.base.bind(r)
	return &cp
}

// State reports the operation's lifecycle state.
func (o *EncryptModel) State() State { return o.state }

// Execute returns a copy of the model with every present, non-nil
// encrypted column replaced by its payload. Nil column values and keys
// that are not declared columns pass through untouched.
func (o *EncryptModel) Execute(ctx context.Context) (map[string]any, error) {
	defer o.markExecuted()

	out := make(map[string]any, len(o.model))
	for k, v := range o.model {
		out[k] = v
	}

	names := sortedColumnNames(o.table)
	entries := make([]BulkEncryptEntry, 0, len(names))
	targets := make([]string, 0, len(names))
	for _, name := range names {
		v, ok := o.model[name]
		if !ok || v == nil {
			continue
		}
		entries = append(entries, BulkEncryptEntry{
			Plaintext: v,
			Column:    o.table.Columns[name],
			Table:     o.table.Name,
		})
		targets = append(targets, name)
	}
	if len(entries) == 0 {
		return out, nil
	}

	bulk := NewBulkEncrypt(o.eng, o.log, entries)
	bulk.base.resolver = o.resolver
	bulk.base.state = o.state
	payloads, err := bulk.Execute(ctx)
	if err != nil {
		return nil, err
	}
	for i, name := range targets {
		out[name] = payloads[i]
	}
	return out, nil
}

// DecryptModel decrypts every declared encrypted column present in the
// model in one fallible bulk call. Model decryption is all-or-nothing: a
// per-item failure fails the whole operation, naming the column.
type DecryptModel struct {
	base
	model map[string]any
	table types.Table
}

// NewDecryptModel constructs an unbound model decryption.
func NewDecryptModel(eng engine.Engine, log *slog.Logger, model map[string]any, table types.Table) *DecryptModel {
	return &DecryptModel{base: newBase(eng, log), model: model, table: table}
}

// WithLockContext returns a bound copy.
func (o *DecryptModel) WithLockContext(r lockctx.Resolver) *DecryptModel {
	cp := *o
	cp.base = cp.base.bind(r)
	return &cp
}

// State reports the operation's lifecycle state.
func (o *DecryptModel) State() State { return o.state }

// Execute returns a copy of the model with every payload-valued encrypted
// column replaced by its plaintext.
func (o *DecryptModel) Execute(ctx context.Context) (map[string]any, error) {
	defer o.markExecuted()

	out := make(map[string]any, len(o.model))
	for k, v := range o.model {
		out[k] = v
	}

	names := sortedColumnNames(o.table)
	items := make([]BulkDecryptItem, 0, len(names))
	targets := make([]string, 0, len(names))
	for _, name := range names {
		v, ok := o.model[name]
		if !ok || v == nil {
			continue
		}
		payload, ok := v.(*types.EncryptedPayload)
		if !ok {
			return nil, &engine.DecryptionError{
				Message: "column " + name + " does not hold an encrypted payload",
			}
		}
		items = append(items, BulkDecryptItem{Ciphertext: payload})
		targets = append(targets, name)
	}
	if len(items) == 0 {
		return out, nil
	}

	bulk := NewBulkDecrypt(o.eng, o.log, items)
	bulk.base.resolver = o.resolver
	bulk.base.state = o.state
	decrypted, err := bulk.Execute(ctx)
	if err != nil {
		return nil, err
	}
	for i, name := range targets {
		if decrypted[i].Err != nil {
			return nil, &engine.DecryptionError{
				ItemID:  string(decrypted[i].ID),
				Message: "column " + name + ": " + decrypted[i].Err.Error(),
			}
		}
		out[name] = decrypted[i].Data
	}
	return out, nil
}

func sortedColumnNames(table types.Table) []string {
	names := make([]string, 0, len(table.Columns))
	for name := range table.Columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
