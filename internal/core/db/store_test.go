package db

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solatis/encql/internal/format"
	"github.com/solatis/encql/internal/types"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "encql_test.db")
	conn, err := Open("sqlite:///" + path)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, MigrateUp(conn))
	return conn
}

func testLiteral(t *testing.T, table, column, ciphertext string) string {
	t.Helper()
	literal, err := format.CompositeLiteral(&types.EncryptedPayload{
		Version:    2,
		Index:      types.PayloadIndex{Table: table, Column: column},
		Ciphertext: ciphertext,
	})
	require.NoError(t, err)
	return literal
}

func TestOpen_UnsupportedScheme(t *testing.T) {
	_, err := Open("mysql://localhost/db")
	assert.Error(t, err)
}

func TestStore_InsertGetRoundTrip(t *testing.T) {
	conn := openTestDB(t)
	queries, err := LoadQueries(conn)
	require.NoError(t, err)
	store := NewStore(queries)

	literal := testLiteral(t, "users", "email", "ct-1")
	id, err := store.Insert("users", "email", literal)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	record, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "users", record.Table)
	assert.Equal(t, "email", record.Column)
	assert.Equal(t, literal, record.Literal)

	payload, err := record.Payload()
	require.NoError(t, err)
	assert.Equal(t, "ct-1", payload.Ciphertext)
}

func TestStore_SelectByTerm(t *testing.T) {
	conn := openTestDB(t)
	queries, err := LoadQueries(conn)
	require.NoError(t, err)
	store := NewStore(queries)

	match := testLiteral(t, "users", "email", "ct-match")
	other := testLiteral(t, "users", "email", "ct-other")

	_, err = store.Insert("users", "email", match)
	require.NoError(t, err)
	_, err = store.Insert("users", "email", other)
	require.NoError(t, err)

	records, err := store.SelectByTerm("users", "email", match)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, match, records[0].Literal)

	// A term encrypted for a different column never matches.
	records, err = store.SelectByTerm("users", "name", match)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_RejectsNonLiteral(t *testing.T) {
	store := NewStore(nil)

	_, err := store.Insert("users", "email", `{"v":2}`)
	assert.Error(t, err)

	_, err = store.SelectByTerm("users", "email", "raw-ciphertext")
	assert.Error(t, err)
}

func TestStore_Count(t *testing.T) {
	conn := openTestDB(t)
	queries, err := LoadQueries(conn)
	require.NoError(t, err)
	store := NewStore(queries)

	n, err := store.Count("users", "email")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = store.Insert("users", "email", testLiteral(t, "users", "email", "ct-1"))
	require.NoError(t, err)
	_, err = store.Insert("users", "email", testLiteral(t, "users", "email", "ct-2"))
	require.NoError(t, err)
	_, err = store.Insert("users", "name", testLiteral(t, "users", "name", "ct-3"))
	require.NoError(t, err)

	n, err = store.Count("users", "email")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_Delete(t *testing.T) {
	conn := openTestDB(t)
	queries, err := LoadQueries(conn)
	require.NoError(t, err)
	store := NewStore(queries)

	id, err := store.Insert("users", "email", testLiteral(t, "users", "email", "ct-del"))
	require.NoError(t, err)
	require.NoError(t, store.Delete(id))

	_, err = store.Get(id)
	assert.Error(t, err)
}

func TestMigrateUp_Idempotent(t *testing.T) {
	conn := openTestDB(t)

	// Running again applies nothing and changes nothing.
	require.NoError(t, MigrateUp(conn))

	statuses, err := MigrateStatus(conn)
	require.NoError(t, err)
	require.NotEmpty(t, statuses)
	for _, s := range statuses {
		assert.True(t, s.Applied, "migration %s not applied", s.ID)
	}
}
