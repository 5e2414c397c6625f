package query

import (
	"errors"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/solatis/encql/internal/types"
)

func TestPlanBatch_NullInterleave(t *testing.T) {
	col := equalityColumn("email")
	nullTerm := types.QueryTerm{Table: "users", Column: col}
	term := func(v string) types.QueryTerm {
		return types.QueryTerm{Table: "users", Column: col, Value: v}
	}

	batch, err := PlanBatch([]types.QueryTerm{
		nullTerm,
		term("a"),
		nullTerm,
		nullTerm,
		term("b"),
		nullTerm,
	})
	if err != nil {
		t.Fatalf("PlanBatch() error = %v", err)
	}

	if got := len(batch.Items()); got != 2 {
		t.Fatalf("engine items = %d, expected 2", got)
	}
	if batch.Size() != 6 {
		t.Fatalf("Size() = %d, expected 6", batch.Size())
	}

	pa := &types.EncryptedPayload{Ciphertext: "enc-a"}
	pb := &types.EncryptedPayload{Ciphertext: "enc-b"}
	out, err := batch.Expand([]*types.EncryptedPayload{pa, pb})
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}

	expected := []*types.EncryptedPayload{nil, pa, nil, nil, pb, nil}
	for i := range expected {
		if out[i] != expected[i] {
			t.Errorf("out[%d] = %v, expected %v", i, out[i], expected[i])
		}
	}
}

func TestPlanBatch_Atomic(t *testing.T) {
	col := equalityColumn("email")
	_, err := PlanBatch([]types.QueryTerm{
		{Table: "users", Column: col, Value: "fine"},
		{Table: "users", Column: types.Column{Name: "plain"}, Value: "no index"},
	})
	if !errors.Is(err, types.ErrNoIndexes) {
		t.Fatalf("error = %v, expected %v", err, types.ErrNoIndexes)
	}
}

func TestPlanBatch_AllNull(t *testing.T) {
	col := equalityColumn("email")
	batch, err := PlanBatch([]types.QueryTerm{
		{Table: "users", Column: col},
		{Table: "users", Column: col},
	})
	if err != nil {
		t.Fatalf("PlanBatch() error = %v", err)
	}
	if !batch.Empty() {
		t.Fatal("expected an empty batch")
	}

	out, err := batch.Expand(nil)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if len(out) != 2 || out[0] != nil || out[1] != nil {
		t.Fatalf("out = %v, expected two nils", out)
	}
}

func TestPlanBatch_HeterogeneousKinds(t *testing.T) {
	batch, err := PlanBatch([]types.QueryTerm{
		{Table: "users", Column: equalityColumn("email"), Value: "x"},
		{Table: "users", Column: jsonColumn("attrs"), Value: "$.user.email"},
		{Table: "users", Column: jsonColumn("attrs"), Contains: map[string]any{"role": "admin"}},
	})
	if err != nil {
		t.Fatalf("PlanBatch() error = %v", err)
	}

	kinds := []types.OperationKind{}
	for _, plan := range batch.Items() {
		kinds = append(kinds, plan.Kind)
	}
	expected := []types.OperationKind{
		types.KindEquality,
		types.KindSteVecSelector,
		types.KindSteVecTerm,
	}
	for i := range expected {
		if kinds[i] != expected[i] {
			t.Errorf("kinds[%d] = %v, expected %v", i, kinds[i], expected[i])
		}
	}
}

func TestExpand_CountMismatch(t *testing.T) {
	col := equalityColumn("email")
	batch, err := PlanBatch([]types.QueryTerm{
		{Table: "users", Column: col, Value: "a"},
		{Table: "users", Column: col, Value: "b"},
	})
	if err != nil {
		t.Fatalf("PlanBatch() error = %v", err)
	}

	_, err = batch.Expand([]*types.EncryptedPayload{{Ciphertext: "only-one"}})
	if !errors.Is(err, types.ErrResultCountMismatch) {
		t.Fatalf("error = %v, expected %v", err, types.ErrResultCountMismatch)
	}
}

// For any mix of null and non-null terms, expansion restores the
// original positions: output[i] is nil exactly when input[i] was null,
// and the non-null payloads appear in input order.
func TestPlanBatch_PropertyOrderPreserved(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	col := equalityColumn("email")

	properties.Property("null passthrough preserves order", prop.ForAll(
		func(nulls []bool) bool {
			terms := make([]types.QueryTerm, len(nulls))
			for i, isNull := range nulls {
				terms[i] = types.QueryTerm{Table: "users", Column: col}
				if !isNull {
					terms[i].Value = fmt.Sprintf("value-%d", i)
				}
			}

			batch, err := PlanBatch(terms)
			if err != nil {
				return false
			}

			results := make([]*types.EncryptedPayload, len(batch.Items()))
			for j, plan := range batch.Items() {
				results[j] = &types.EncryptedPayload{Ciphertext: plan.Plaintext.(string)}
			}

			out, err := batch.Expand(results)
			if err != nil || len(out) != len(nulls) {
				return false
			}
			for i, isNull := range nulls {
				if isNull {
					if out[i] != nil {
						return false
					}
					continue
				}
				if out[i] == nil || out[i].Ciphertext != fmt.Sprintf("value-%d", i) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}
