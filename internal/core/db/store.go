// internal/core/db/store.go
package db

import (
	"fmt"

	"github.com/solatis/encql/internal/format"
	"github.com/solatis/encql/internal/types"
)

/*
 * Encrypted record storage and predicate execution.
 *
 * This is the consumer side of the wire formats: encrypted payloads are
 * stored and matched as composite-literal strings, bound as ordinary SQL
 * parameters through the named queries. Equality and containment
 * predicates compare literals; the database never sees plaintext.
 *
 * Literal shape is validated before binding so a malformed value fails
 * here, with context, rather than as a silent non-match.
 */

// EncryptedRecord is one stored ciphertext row.
type EncryptedRecord struct {
	ID      string `db:"id"`
	Table   string `db:"record_table"`
	Column  string `db:"record_column"`
	Literal string `db:"payload"`
}

// Store executes encrypted-record queries against an open database.
type Store struct {
	q *Queries
}

// NewStore wraps loaded queries.
func NewStore(q *Queries) *Store {
	return &Store{q: q}
}

// Insert stores one payload under its table/column identity. An empty id
// gets a generated UUIDv7.
func (s *Store) Insert(table, column, literal string) (string, error) {
	if !format.IsCompositeLiteral(literal) {
		return "", fmt.Errorf("payload for %s.%s is not a composite literal", table, column)
	}
	id := string(types.NewItemID())
	if _, err := s.q.Exec("insert-encrypted-record", id, table, column, literal); err != nil {
		return "", fmt.Errorf("inserting encrypted record: %w", err)
	}
	return id, nil
}

// SelectByTerm returns the records whose stored literal matches the
// formatted search term exactly (equality predicate).
func (s *Store) SelectByTerm(table, column, literal string) ([]EncryptedRecord, error) {
	if !format.IsCompositeLiteral(literal) {
		return nil, fmt.Errorf("search term for %s.%s is not a composite literal", table, column)
	}
	var records []EncryptedRecord
	if err := s.q.Select("select-by-encrypted-term", &records, table, column, literal); err != nil {
		return nil, fmt.Errorf("selecting by encrypted term: %w", err)
	}
	return records, nil
}

// Count returns how many records are stored under one table/column
// identity.
func (s *Store) Count(table, column string) (int, error) {
	var n int
	if err := s.q.Get("count-encrypted-records", &n, table, column); err != nil {
		return 0, fmt.Errorf("counting encrypted records for %s.%s: %w", table, column, err)
	}
	return n, nil
}

// Get returns one record by id.
func (s *Store) Get(id string) (*EncryptedRecord, error) {
	var record EncryptedRecord
	if err := s.q.Get("get-encrypted-record", &record, id); err != nil {
		return nil, fmt.Errorf("getting encrypted record %s: %w", id, err)
	}
	return &record, nil
}

// Delete removes one record by id.
func (s *Store) Delete(id string) error {
	if _, err := s.q.Exec("delete-encrypted-record", id); err != nil {
		return fmt.Errorf("deleting encrypted record %s: %w", id, err)
	}
	return nil
}

// Payload decodes a stored record's literal back into the payload form.
func (r *EncryptedRecord) Payload() (*types.EncryptedPayload, error) {
	return format.DecodeCompositeLiteral(r.Literal)
}
