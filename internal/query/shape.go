// internal/query/shape.go
package query

import (
	"encoding/json"
	"math"
	"reflect"

	"github.com/solatis/encql/internal/types"
)

/*
 * Plaintext shape model.
 *
 * The classifier's inference rules dispatch on the runtime shape of a
 * term's plaintext. The shape is computed exactly once per term as a
 * closed enum and matched exhaustively, instead of duck-typing scattered
 * across call sites.
 *
 * Shapes: null, string, number, boolean, object, array. Anything else
 * (channels, funcs, structs without JSON meaning) is rejected up front,
 * as are non-finite floats, which no index kind can encrypt.
 */

// PlaintextShape is the closed set of runtime shapes a plaintext can take.
type PlaintextShape int

const (
	ShapeNull PlaintextShape = iota
	ShapeString
	ShapeNumber
	ShapeBool
	ShapeObject
	ShapeArray
)

// String returns the shape name used in validation messages.
func (s PlaintextShape) String() string {
	switch s {
	case ShapeNull:
		return "null"
	case ShapeString:
		return "string"
	case ShapeNumber:
		return "number"
	case ShapeBool:
		return "boolean"
	case ShapeObject:
		return "object"
	case ShapeArray:
		return "array"
	default:
		return "unknown"
	}
}

// ShapeOf computes the shape of a plaintext value. Fails with a
// ValidationError for NaN or infinite numbers and for types that have no
// JSON meaning.
func ShapeOf(v any) (PlaintextShape, error) {
	switch t := v.(type) {
	case nil:
		return ShapeNull, nil
	case string:
		return ShapeString, nil
	case bool:
		return ShapeBool, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return ShapeNumber, nil
	case float32:
		return checkFinite(float64(t))
	case float64:
		return checkFinite(t)
	case json.Number:
		return ShapeNumber, nil
	case map[string]any:
		return ShapeObject, nil
	}

	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Map:
		return ShapeObject, nil
	case reflect.Slice, reflect.Array:
		return ShapeArray, nil
	case reflect.Ptr:
		if rv.IsNil() {
			return ShapeNull, nil
		}
		return ShapeOf(rv.Elem().Interface())
	default:
		return ShapeNull, types.NewValidationError(types.ErrUnsupportedPlaintext,
			"unsupported plaintext type %T", v)
	}
}

// validateTree shape-checks every node of a containment plaintext, so a
// non-finite number or unsupported type nested inside an object or array
// fails classification instead of surfacing later as a transport error.
func validateTree(v any) error {
	shape, err := ShapeOf(v)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	switch shape {
	case ShapeObject:
		for _, key := range rv.MapKeys() {
			if err := validateTree(rv.MapIndex(key).Interface()); err != nil {
				return err
			}
		}
	case ShapeArray:
		for i := 0; i < rv.Len(); i++ {
			if err := validateTree(rv.Index(i).Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkFinite(f float64) (PlaintextShape, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ShapeNumber, types.NewValidationError(types.ErrNonFiniteNumber,
			"numeric plaintext must be finite, got %v", f)
	}
	return ShapeNumber, nil
}
