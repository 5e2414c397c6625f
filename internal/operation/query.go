// internal/operation/query.go
package operation

import (
	"context"
	"log/slog"

	"github.com/solatis/encql/internal/engine"
	"github.com/solatis/encql/internal/format"
	"github.com/solatis/encql/internal/lockctx"
	"github.com/solatis/encql/internal/query"
	"github.com/solatis/encql/internal/types"
)

// QueryTerm classifies and encrypts one search predicate, then renders
// the result in the term's return type.
type QueryTerm struct {
	base
	term types.QueryTerm
}

// NewQueryTerm constructs an unbound single-term query.
func NewQueryTerm(eng engine.Engine, log *slog.Logger, term types.QueryTerm) *QueryTerm {
	return &QueryTerm{base: newBase(eng, log), term: term}
}

// WithLockContext returns a bound copy.
func (o *QueryTerm) WithLockContext(r lockctx.Resolver) *QueryTerm {
	cp := *o
	cp.base = cp.base.bind(r)
	return &cp
}

// State reports the operation's lifecycle state.
func (o *QueryTerm) State() State { return o.state }

// Execute resolves the term to a formatted search value. A null term
// resolves to nil without an engine call.
func (o *QueryTerm) Execute(ctx context.Context) (any, error) {
	defer o.markExecuted()

	plan, err := query.PlanTerm(o.term)
	if err != nil {
		return nil, err
	}
	if plan.Null {
		return format.Format(nil, plan.ReturnType)
	}

	locked, err := o.lock(ctx)
	if err != nil {
		return nil, err
	}

	o.log.DebugContext(ctx, "encrypting query term",
		"table", plan.Table, "column", plan.Column,
		"kind", plan.Kind.String(), "bound", locked != nil)

	payload, err := o.eng.Encrypt(ctx, engine.EncryptRequest{
		Plaintext: plan.Plaintext,
		Column:    plan.Column,
		Table:     plan.Table,
		IndexType: plan.Kind.IndexType(),
		Lock:      locked,
	})
	if err != nil {
		return nil, err
	}
	return format.Format(payload, plan.ReturnType)
}

// SearchTerms classifies an ordered term list and encrypts all surviving
// terms in one engine round trip, preserving positional correspondence
// including nulls.
type SearchTerms struct {
	base
	terms []types.QueryTerm
}

// NewSearchTerms constructs an unbound batch query.
func NewSearchTerms(eng engine.Engine, log *slog.Logger, terms []types.QueryTerm) *SearchTerms {
	return &SearchTerms{base: newBase(eng, log), terms: terms}
}

// WithLockContext returns a bound copy.
func (o *SearchTerms) WithLockContext(r lockctx.Resolver) *SearchTerms {
	cp := *o
	cp.base = cp.base.bind(r)
	return &cp
}

// State reports the operation's lifecycle state.
func (o *SearchTerms) State() State { return o.state }

// Execute returns one formatted value per input term, output[i]
// corresponding to terms[i]. Null terms yield nil; an empty input yields
// an empty output; neither causes an engine call. Classification is
// atomic: any term failing fails the whole batch.
func (o *SearchTerms) Execute(ctx context.Context) ([]any, error) {
	defer o.markExecuted()

	batch, err := query.PlanBatch(o.terms)
	if err != nil {
		return nil, err
	}

	out := make([]any, batch.Size())
	if batch.Empty() {
		return out, nil
	}

	locked, err := o.lock(ctx)
	if err != nil {
		return nil, err
	}

	plans := batch.Items()
	items := make([]engine.BulkItem, len(plans))
	for i, p := range plans {
		items[i] = engine.BulkItem{
			Plaintext: p.Plaintext,
			Column:    p.Column,
			Table:     p.Table,
			IndexType: p.Kind.IndexType(),
		}
	}

	o.log.DebugContext(ctx, "encrypting search terms",
		"terms", len(o.terms), "items", len(items), "bound", locked != nil)

	payloads, err := o.eng.EncryptBulk(ctx, engine.BulkEncryptRequest{Items: items, Lock: locked})
	if err != nil {
		return nil, err
	}

	expanded, err := batch.Expand(payloads)
	if err != nil {
		return nil, err
	}
	for i, payload := range expanded {
		formatted, err := format.Format(payload, o.terms[i].ReturnType)
		if err != nil {
			return nil, err
		}
		out[i] = formatted
	}
	return out, nil
}
