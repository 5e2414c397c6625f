package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for pre-engine validation failures.
var (
	// ErrEmptyPath indicates a path with no content at all.
	ErrEmptyPath = errors.New("path is empty")

	// ErrRootOnlyPath indicates a path that strips down to the bare root
	// selector, leaving no segments to build with.
	ErrRootOnlyPath = errors.New("path has no segments after the root selector")

	// ErrMalformedPath indicates path syntax the grammar cannot parse,
	// such as an unterminated bracket or quote.
	ErrMalformedPath = errors.New("malformed path syntax")

	// ErrForbiddenSegment indicates a structurally dangerous property name
	// in a path destined for generic object construction.
	ErrForbiddenSegment = errors.New("forbidden path segment")

	// ErrNoIndexes indicates a column with zero configured index kinds and
	// no explicit queryType to fall back on.
	ErrNoIndexes = errors.New("no indexes configured for column")

	// ErrAmbiguousIndex indicates a column with several configured index
	// kinds and no explicit queryType to disambiguate.
	ErrAmbiguousIndex = errors.New("ambiguous index selection")

	// ErrMixedTermShapes indicates a query term combining path, contains,
	// containedBy, or bare-value shapes.
	ErrMixedTermShapes = errors.New("query term mixes path, containment, and value shapes")

	// ErrWrongShape indicates a plaintext whose runtime shape is not
	// legal for the chosen operation kind.
	ErrWrongShape = errors.New("plaintext shape not valid for operation kind")

	// ErrNonFiniteNumber indicates a NaN or infinite numeric plaintext.
	ErrNonFiniteNumber = errors.New("numeric plaintext must be finite")

	// ErrUnsupportedPlaintext indicates a plaintext of a type the shape
	// model has no mapping for (channels, funcs, and the like).
	ErrUnsupportedPlaintext = errors.New("unsupported plaintext type")

	// ErrResultCountMismatch indicates the engine broke its one-to-one
	// ordering contract for a bulk call.
	ErrResultCountMismatch = errors.New("engine result count does not match batch item count")
)

// ValidationError reports a pre-engine failure. It carries no code;
// callers branch on the wrapped sentinel with errors.Is.
type ValidationError struct {
	Message string
	err     error
}

// NewValidationError wraps a sentinel with term-specific detail.
func NewValidationError(err error, format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...), err: err}
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return e.err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.err }

// PathError reports a malformed or forbidden path. Segment names the
// offending segment when one exists.
type PathError struct {
	Segment string
	err     error
}

// NewPathError wraps a sentinel with the offending segment, which may be
// empty for whole-path failures.
func NewPathError(err error, segment string) *PathError {
	return &PathError{Segment: segment, err: err}
}

func (e *PathError) Error() string {
	if e.Segment == "" {
		return e.err.Error()
	}
	return fmt.Sprintf("%s: %q", e.err.Error(), e.Segment)
}

func (e *PathError) Unwrap() error { return e.err }
