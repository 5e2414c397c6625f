// Package operation provides the deferred unit-of-work wrapper around
// engine calls.
//
// Every concrete operation (scalar encrypt, scalar query, batch query,
// bulk encrypt/decrypt, model-shaped encrypt/decrypt) follows one state
// machine: Unbound (constructed) -> Bound (a lock-context resolver
// attached via WithLockContext) -> Executed (terminal, entered when
// Execute returns). Only the payload built on the way to Executed
// differs.
//
// Inputs are immutable: WithLockContext returns a bound copy and never
// mutates the original, and there is no transition back to Unbound.
// Nothing guards against calling Execute twice; a re-execution just
// repeats the same engine round trip.
//
// Execution order is fixed: lock-context resolution completes (or fails,
// short-circuiting without an engine call) strictly before the engine
// call begins. No operation shares mutable state with another, so
// concurrent execution of independent operations is always safe.
//
// Nothing panics across this boundary and nothing is rethrown raw: every
// Execute returns a typed error from the taxonomy (ValidationError,
// engine.Error with its code preserved, lockctx.Error, DecryptionError).
package operation

import (
	"context"
	"io"
	"log/slog"

	"github.com/solatis/encql/internal/engine"
	"github.com/solatis/encql/internal/lockctx"
)

// State tracks where an operation is in its lifecycle.
type State int

const (
	// StateUnbound: constructed, no identity scoping attached.
	StateUnbound State = iota

	// StateBound: a lock-context resolver is attached; execution will
	// resolve it before calling the engine.
	StateBound

	// StateExecuted: Execute returned, with a result or a failure.
	// Terminal; re-execution repeats the round trip without a guard.
	StateExecuted
)

// base carries what every operation shares: the engine, the optional
// resolver, and an injected logger with a no-op default.
type base struct {
	eng      engine.Engine
	resolver lockctx.Resolver
	state    State
	log      *slog.Logger
}

func newBase(eng engine.Engine, log *slog.Logger) base {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return base{eng: eng, state: StateUnbound, log: log}
}

// bind returns a copy with the resolver attached.
func (b base) bind(r lockctx.Resolver) base {
	b.resolver = r
	b.state = StateBound
	return b
}

// markExecuted moves the operation to its terminal state. Every Execute
// defers it, so the transition happens exactly when a result or failure
// is produced.
func (b *base) markExecuted() { b.state = StateExecuted }

// lock resolves the attached context, if any. A resolver failure is
// returned as a lockctx.Error and the caller must not touch the engine.
func (b base) lock(ctx context.Context) (*lockctx.Locked, error) {
	if b.resolver == nil {
		return nil, nil
	}
	locked, err := b.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return locked, nil
}
