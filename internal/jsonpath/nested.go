// internal/jsonpath/nested.go
package jsonpath

import (
	"github.com/solatis/encql/internal/types"
)

/*
 * Nested object construction for containment queries.
 *
 * Turns a dotted-path-plus-leaf-value pair into the minimal nested
 * plaintext object a containment index can match against:
 * ("user.role", "admin") -> {"user": {"role": "admin"}}.
 *
 * Security contract: segments named after the object-poisoning property
 * names are rejected before any construction happens, never sanitized
 * silently. The built object is later merged and traversed generically,
 * so a poisoned key would flow into code that trusts its own keys.
 */

// forbiddenSegments are property names that corrupt generic object
// traversal when used as keys.
var forbiddenSegments = map[string]struct{}{
	"__proto__":   {},
	"constructor": {},
	"prototype":   {},
}

// BuildNestedObject reconstructs the minimal nested object holding value
// at path. Any JSONPath prefix is stripped before splitting. Fails with a
// PathError for an empty path, a root-only path, or a forbidden segment.
func BuildNestedObject(path string, value any) (map[string]any, error) {
	if path == "" {
		return nil, types.NewPathError(types.ErrEmptyPath, "")
	}

	norm, err := NormalizeString(path)
	if err != nil {
		return nil, err
	}
	segments := norm.Segments
	if len(segments) == 0 {
		return nil, types.NewPathError(types.ErrRootOnlyPath, "")
	}

	// Reject before building: the guard must run against every segment,
	// not just the ones that end up as intermediate keys.
	for _, seg := range segments {
		if _, bad := forbiddenSegments[seg]; bad {
			return nil, types.NewPathError(types.ErrForbiddenSegment, seg)
		}
	}

	// Build right to left: the last segment holds the value, each
	// preceding segment wraps the accumulator in a single-key object.
	acc := value
	for i := len(segments) - 1; i >= 0; i-- {
		acc = map[string]any{segments[i]: acc}
	}
	return acc.(map[string]any), nil
}
