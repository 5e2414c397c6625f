// internal/query/batch.go
package query

import (
	"github.com/solatis/encql/internal/types"
)

/*
 * Batch query planning.
 *
 * Fans an ordered, heterogeneous list of terms into one engine call and
 * re-expands the flat result back into the original positions.
 *
 * Invariants:
 *   - Atomicity: a classification failure for any term fails the whole
 *     batch; partial results are never produced.
 *   - Null passthrough: null terms are filtered before the engine call
 *     and re-inserted as nil at their original index afterward, so the
 *     engine payload is proportional to non-null terms only.
 *   - Order: output[i] corresponds to input[i] for every i, including
 *     interleaved nulls at arbitrary positions.
 *
 * Heterogeneous kinds are fine within one batch: each surviving plan
 * carries its own operation kind, column, and table, so a single engine
 * round trip can mix selector, containment, and scalar terms.
 */

// BatchPlan is the engine-ready form of an ordered term list.
type BatchPlan struct {
	plans []TermPlan // non-null plans, in input order
	slots []int      // slots[j] = original index of plans[j]
	size  int        // total output length including nulls
}

// PlanBatch classifies every term independently and atomically. Any
// classification failure fails the batch.
func PlanBatch(terms []types.QueryTerm) (*BatchPlan, error) {
	batch := &BatchPlan{size: len(terms)}
	for i, term := range terms {
		plan, err := PlanTerm(term)
		if err != nil {
			return nil, err
		}
		if plan.Null {
			continue
		}
		batch.plans = append(batch.plans, plan)
		batch.slots = append(batch.slots, i)
	}
	return batch, nil
}

// Items returns the non-null plans in input order. An empty slice means
// no engine call is needed.
func (b *BatchPlan) Items() []TermPlan { return b.plans }

// Size returns the output length, nulls included.
func (b *BatchPlan) Size() int { return b.size }

// Empty reports whether the batch needs an engine call at all.
func (b *BatchPlan) Empty() bool { return len(b.plans) == 0 }

// Expand re-inserts nil at every null term's original position. results
// must hold exactly one payload per non-null plan, in plan order; the
// engine's ordering contract guarantees this, and a mismatch is reported
// rather than silently mis-aligned.
func (b *BatchPlan) Expand(results []*types.EncryptedPayload) ([]*types.EncryptedPayload, error) {
	if len(results) != len(b.plans) {
		return nil, types.NewValidationError(types.ErrResultCountMismatch,
			"engine returned %d results for %d batch items", len(results), len(b.plans))
	}
	out := make([]*types.EncryptedPayload, b.size)
	for j, payload := range results {
		out[b.slots[j]] = payload
	}
	return out, nil
}
