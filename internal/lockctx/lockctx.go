// Package lockctx models the per-request authorization context that
// scopes encryption and decryption to one principal.
//
// A lock context is resolved asynchronously from an external authorizer,
// immutable once resolved, and consumed by exactly one operation
// execution; nothing here caches tokens. Resolution failures
// short-circuit the operation before any engine call.
package lockctx

import (
	"context"
	"fmt"
)

// Locked is a resolved identity/session binding. The session token and
// claim set travel with the engine call they authorize and nowhere else.
type Locked struct {
	SessionToken  string   `json:"sessionToken"`
	IdentityClaim []string `json:"identityClaim,omitempty"`
}

// Resolver obtains a lock context at execution time. Resolve is called at
// most once per operation execution, strictly before the engine call.
type Resolver interface {
	Resolve(ctx context.Context) (*Locked, error)
}

// Error reports a failed identity or session resolution. It never carries
// an engine code; the engine was never reached.
type Error struct {
	Message string
	cause   error
}

// NewError builds a lock-context error wrapping an underlying cause.
func NewError(message string, cause error) *Error {
	return &Error{Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("lock context: %s: %v", e.Message, e.cause)
	}
	return fmt.Sprintf("lock context: %s", e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Static returns a resolver that yields a pre-resolved context. Useful
// for callers that already hold a session token, and for tests.
func Static(locked *Locked) Resolver {
	return staticResolver{locked: locked}
}

type staticResolver struct {
	locked *Locked
}

func (r staticResolver) Resolve(ctx context.Context) (*Locked, error) {
	if r.locked == nil || r.locked.SessionToken == "" {
		return nil, NewError("static context has no session token", nil)
	}
	return r.locked, nil
}
