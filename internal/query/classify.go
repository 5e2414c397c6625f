// internal/query/classify.go
package query

import (
	"github.com/solatis/encql/internal/jsonpath"
	"github.com/solatis/encql/internal/types"
)

/*
 * Query term classification.
 *
 * For one term, decides the concrete index operation (selector,
 * containment term, equality, range, full-text) and shapes the plaintext
 * the engine will encrypt.
 *
 * Decision order:
 *   1. Union shape of the term (path / contains / containedBy / value)
 *   2. Explicit queryType, which always wins over inference
 *   3. For searchable-JSON columns, plaintext-shape inference:
 *      string -> selector, object/array -> containment term,
 *      number/boolean -> containment term (engine rejects with wrapping
 *      guidance), null -> no engine call at all
 *   4. For scalar columns, single-index inference; zero or several
 *      configured indexes without an explicit kind fail classification
 *
 * Path terms infer as selectors over the normalized JSONPath, with or
 * without a value, so the inferred plan matches the explicit
 * steVecSelector form exactly; an explicit steVecTerm turns the
 * path-with-value pair into a containment term on the minimal nested
 * object instead.
 *
 * Shape validation: steVecSelector strictly requires a string plaintext;
 * steVecTerm strictly requires an object or array, and a string fails
 * with a pointer at steVecSelector instead. Containment plaintexts are
 * shape-checked at every node, so a non-finite number nested in an
 * object or array fails classification, not the transport. Bare numbers
 * and booleans resolve to steVecTerm and are deliberately forwarded: the
 * engine rejects them with its wrap-in-an-object guidance, surfaced
 * verbatim.
 */

// TermPlan is the classified, engine-ready form of one query term.
type TermPlan struct {
	Kind       types.OperationKind
	Plaintext  any
	Table      string
	Column     string
	ReturnType types.ReturnType

	// Null marks a term whose effective plaintext is nil. Null plans
	// never reach the engine; their result slot is nil.
	Null bool
}

// Classify resolves the operation kind for one term. Convenience wrapper
// around PlanTerm for callers that only need the kind.
func Classify(term types.QueryTerm) (types.OperationKind, error) {
	plan, err := PlanTerm(term)
	if err != nil {
		return types.KindUnspecified, err
	}
	return plan.Kind, nil
}

// PlanTerm classifies a term and shapes its engine plaintext.
func PlanTerm(term types.QueryTerm) (TermPlan, error) {
	plan := TermPlan{
		Table:      term.Table,
		Column:     term.Column.Name,
		ReturnType: term.ReturnType,
	}

	if err := checkUnionShape(term); err != nil {
		return TermPlan{}, err
	}

	switch {
	case term.Path != nil:
		return planPathTerm(term, plan)
	case term.Contains != nil:
		return planContainmentTerm(term, plan, term.Contains)
	case term.ContainedBy != nil:
		return planContainmentTerm(term, plan, term.ContainedBy)
	case term.Value != nil:
		return planValueTerm(term, plan)
	default:
		// Null term: passes through untouched at every layer.
		plan.Null = true
		return plan, nil
	}
}

// checkUnionShape enforces the exactly-one-shape invariant. Value may
// accompany Path (the leaf of an explicit nested containment term) but
// nothing else.
func checkUnionShape(term types.QueryTerm) error {
	set := 0
	if term.Path != nil {
		set++
	}
	if term.Contains != nil {
		set++
	}
	if term.ContainedBy != nil {
		set++
	}
	if set > 1 {
		return types.NewValidationError(types.ErrMixedTermShapes,
			"query term for column %q mixes path and containment shapes", term.Column.Name)
	}
	if set == 1 && term.Path == nil && term.Value != nil {
		return types.NewValidationError(types.ErrMixedTermShapes,
			"query term for column %q mixes containment and value shapes", term.Column.Name)
	}
	return nil
}

// planPathTerm handles JSONPath lookups. A path term classifies as a
// selector over the normalized JSONPath, so the inferred and explicit
// steVecSelector forms produce identical plans; an explicit steVecTerm
// turns the path-with-value pair into a containment term on the minimal
// nested object holding the value.
func planPathTerm(term types.QueryTerm, plan TermPlan) (TermPlan, error) {
	norm, err := jsonpath.Normalize(term.Path)
	if err != nil {
		return TermPlan{}, err
	}

	kind := term.QueryType
	if kind == types.KindUnspecified || kind == types.KindSearchableJSON {
		kind = types.KindSteVecSelector
	}

	if kind == types.KindSteVecTerm {
		if term.Value == nil {
			return TermPlan{}, types.NewValidationError(types.ErrWrongShape,
				"steVecTerm requires an object or array plaintext; a bare path is a selector, use steVecSelector")
		}
		if err := validateTree(term.Value); err != nil {
			return TermPlan{}, err
		}
		obj, err := jsonpath.BuildNestedObject(norm.JSONPath, term.Value)
		if err != nil {
			return TermPlan{}, err
		}
		plan.Kind = kind
		plan.Plaintext = obj
		return plan, nil
	}

	// Selector, or an explicitly forced scalar kind: either way the
	// normalized path is the plaintext the engine encrypts.
	plan.Kind = kind
	plan.Plaintext = norm.JSONPath
	return plan, nil
}

// planContainmentTerm handles explicit contains / containedBy objects.
func planContainmentTerm(term types.QueryTerm, plan TermPlan, obj map[string]any) (TermPlan, error) {
	kind := term.QueryType
	if kind == types.KindUnspecified || kind == types.KindSearchableJSON {
		kind = types.KindSteVecTerm
	}
	if kind == types.KindSteVecSelector {
		return TermPlan{}, types.NewValidationError(types.ErrWrongShape,
			"steVecSelector requires a string plaintext, got a containment object")
	}
	if err := validateTree(obj); err != nil {
		return TermPlan{}, err
	}
	plan.Kind = kind
	plan.Plaintext = obj
	return plan, nil
}

// planValueTerm handles direct scalar queries and searchable-JSON terms
// given as a bare value.
func planValueTerm(term types.QueryTerm, plan TermPlan) (TermPlan, error) {
	shape, err := ShapeOf(term.Value)
	if err != nil {
		return TermPlan{}, err
	}
	if shape == ShapeNull {
		plan.Null = true
		return plan, nil
	}

	kind := term.QueryType
	if kind == types.KindUnspecified {
		if term.Column.Indexes.SteVec {
			kind = types.KindSearchableJSON
		} else {
			kind, err = inferScalarKind(term.Column)
			if err != nil {
				return TermPlan{}, err
			}
		}
	}

	if kind == types.KindSearchableJSON {
		kind = resolveSearchableJSON(shape)
	}

	switch kind {
	case types.KindSteVecSelector:
		if shape != ShapeString {
			return TermPlan{}, types.NewValidationError(types.ErrWrongShape,
				"steVecSelector requires a string plaintext, got %s", shape)
		}
		norm, err := jsonpath.NormalizeString(term.Value.(string))
		if err != nil {
			return TermPlan{}, err
		}
		plan.Plaintext = norm.JSONPath
	case types.KindSteVecTerm:
		// A string can never be a containment term; every other shape is
		// forwarded, and the engine rejects bare numbers and booleans
		// with its wrapping guidance.
		if shape == ShapeString {
			return TermPlan{}, types.NewValidationError(types.ErrWrongShape,
				"steVecTerm requires an object or array plaintext; for a JSONPath string use steVecSelector")
		}
		if shape == ShapeObject || shape == ShapeArray {
			if err := validateTree(term.Value); err != nil {
				return TermPlan{}, err
			}
		}
		plan.Plaintext = term.Value
	default:
		plan.Plaintext = term.Value
	}

	plan.Kind = kind
	return plan, nil
}

// inferScalarKind picks the operation kind from a scalar column's single
// configured index. Zero or several configured indexes cannot be
// resolved without an explicit queryType.
func inferScalarKind(col types.Column) (types.OperationKind, error) {
	switch col.Indexes.Count() {
	case 0:
		return types.KindUnspecified, types.NewValidationError(types.ErrNoIndexes,
			"no indexes configured for column %q", col.Name)
	case 1:
		switch {
		case col.Indexes.Equality:
			return types.KindEquality, nil
		case col.Indexes.OrderAndRange:
			return types.KindOrderAndRange, nil
		case col.Indexes.FreeTextSearch:
			return types.KindFreeTextSearch, nil
		}
	}
	return types.KindUnspecified, types.NewValidationError(types.ErrAmbiguousIndex,
		"column %q has several configured indexes, set an explicit queryType", col.Name)
}

// resolveSearchableJSON maps a plaintext shape to the concrete ste_vec
// operation. Numbers and booleans resolve to the containment term and are
// rejected by the engine, not locally.
func resolveSearchableJSON(shape PlaintextShape) types.OperationKind {
	if shape == ShapeString {
		return types.KindSteVecSelector
	}
	return types.KindSteVecTerm
}
