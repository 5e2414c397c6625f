// Package encql builds SQL search predicates against encrypted columns
// whose plaintext never leaves the client.
//
// For every logical query term the client decides which
// searchable-encryption index operation applies (JSONPath selector,
// containment term, or scalar equality/range/full-text), normalizes path
// representations into one canonical grammar, reconstructs partial
// plaintext structures for containment queries, and converts what the
// encryption engine returns into the wire format a SQL engine expects.
//
// The encryption engine itself is an external collaborator behind the
// Engine interface: it receives plaintext with column/table identity and
// an index type, and returns opaque payloads or coded errors. Key
// management and ciphertext construction live entirely on its side of
// the boundary.
//
// All operations are deferred: the client constructs an unbound
// operation, the caller may bind a per-request lock context with
// WithLockContext, and Execute performs lock-context resolution followed
// by exactly one engine round trip. Operations share no mutable state,
// so executing independent operations concurrently is always safe.
package encql

import (
	"net/http"
	"time"

	"github.com/solatis/encql/internal/engine"
	"github.com/solatis/encql/internal/lockctx"
	"github.com/solatis/encql/internal/operation"
	"github.com/solatis/encql/internal/types"
)

// Re-exported domain types. The internal packages define them; callers
// only ever need this package.
type (
	QueryTerm        = types.QueryTerm
	Column           = types.Column
	Table            = types.Table
	IndexSet         = types.IndexSet
	OperationKind    = types.OperationKind
	ReturnType       = types.ReturnType
	EncryptedPayload = types.EncryptedPayload

	Engine              = engine.Engine
	EngineError         = engine.Error
	DecryptionError     = engine.DecryptionError
	LockContext         = lockctx.Locked
	LockContextResolver = lockctx.Resolver
	LockContextError    = lockctx.Error
	ValidationError     = types.ValidationError
	PathError           = types.PathError

	BulkEncryptEntry = operation.BulkEncryptEntry
	BulkDecryptItem  = operation.BulkDecryptItem
	Decrypted        = operation.Decrypted
)

// Operation kinds.
const (
	KindEquality       = types.KindEquality
	KindOrderAndRange  = types.KindOrderAndRange
	KindFreeTextSearch = types.KindFreeTextSearch
	KindSteVecSelector = types.KindSteVecSelector
	KindSteVecTerm     = types.KindSteVecTerm
	KindSearchableJSON = types.KindSearchableJSON
)

// Return types.
const (
	ReturnRaw                     = types.ReturnRaw
	ReturnCompositeLiteral        = types.ReturnCompositeLiteral
	ReturnEscapedCompositeLiteral = types.ReturnEscapedCompositeLiteral
)

// Client is the entry point: it wires an engine and a logger into
// deferred operations. A Client is immutable and safe for concurrent use.
type Client struct {
	eng engine.Engine
	log *Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger injects a logger. The default discards everything.
func WithLogger(l *Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a client around an engine.
func New(eng Engine, opts ...Option) *Client {
	c := &Client{eng: eng, log: NoopLogger()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewHTTPEngine builds the JSON-over-HTTP engine client. The access key
// is environment-sourced by callers; it is never logged.
func NewHTTPEngine(baseURL, workspaceID, accessKey string, timeout time.Duration) Engine {
	var hc *http.Client
	if timeout > 0 {
		hc = &http.Client{Timeout: timeout}
	}
	return engine.NewClient(baseURL, workspaceID, accessKey, hc)
}

// NewTokenResolver builds a lock-context resolver against the external
// authorizer. The subject token is exchanged for a session token at
// operation execution time, never cached.
func NewTokenResolver(endpoint, subjectToken string, claims []string) LockContextResolver {
	return lockctx.NewTokenService(endpoint, subjectToken, claims, nil)
}

// StaticLockContext wraps an already-resolved session for callers that
// hold one.
func StaticLockContext(lc *LockContext) LockContextResolver {
	return lockctx.Static(lc)
}

// Encrypt encrypts one scalar plaintext for storage.
func (c *Client) Encrypt(plaintext any, column Column, table string) *operation.Encrypt {
	return operation.NewEncrypt(c.eng, c.log.Logger, plaintext, column, table)
}

// EncryptBulk encrypts many plaintexts in one engine round trip, with
// nil passthrough at the original positions.
func (c *Client) EncryptBulk(entries []BulkEncryptEntry) *operation.BulkEncrypt {
	return operation.NewBulkEncrypt(c.eng, c.log.Logger, entries)
}

// CreateQueryTerm classifies and encrypts one search predicate.
func (c *Client) CreateQueryTerm(term QueryTerm) *operation.QueryTerm {
	return operation.NewQueryTerm(c.eng, c.log.Logger, term)
}

// CreateSearchTerms classifies an ordered term list and encrypts all
// surviving terms in one engine round trip, output[i] matching terms[i]
// including interleaved nulls.
func (c *Client) CreateSearchTerms(terms []QueryTerm) *operation.SearchTerms {
	return operation.NewSearchTerms(c.eng, c.log.Logger, terms)
}

// DecryptBulk decrypts many ciphertexts with per-item failure reporting.
func (c *Client) DecryptBulk(items []BulkDecryptItem) *operation.BulkDecrypt {
	return operation.NewBulkDecrypt(c.eng, c.log.Logger, items)
}

// EncryptModel encrypts every declared encrypted column present in a
// row-shaped map.
func (c *Client) EncryptModel(model map[string]any, table Table) *operation.EncryptModel {
	return operation.NewEncryptModel(c.eng, c.log.Logger, model, table)
}

// DecryptModel decrypts every payload-valued encrypted column of a
// row-shaped map.
func (c *Client) DecryptModel(model map[string]any, table Table) *operation.DecryptModel {
	return operation.NewDecryptModel(c.eng, c.log.Logger, model, table)
}
