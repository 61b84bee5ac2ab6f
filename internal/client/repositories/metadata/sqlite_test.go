package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)

	return NewSQLiteRepository(db)
}

func TestSetGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "accessToken", []byte("tok-1")))

	value, err := repo.Get(ctx, "accessToken")
	require.NoError(t, err)
	require.Equal(t, []byte("tok-1"), value)
}

func TestSet_Overwrites(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "accessToken", []byte("old")))
	require.NoError(t, repo.Set(ctx, "accessToken", []byte("new")))

	value, err := repo.Get(ctx, "accessToken")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), value)
}

func TestGet_MissingKeyIsNil(t *testing.T) {
	repo := newTestRepo(t)

	value, err := repo.Get(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, value)
}

func TestDeleteAndClear(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "accessToken", []byte("tok")))
	require.NoError(t, repo.Set(ctx, "user", []byte(`{"id":1}`)))

	require.NoError(t, repo.Delete(ctx, "accessToken"))
	value, err := repo.Get(ctx, "accessToken")
	require.NoError(t, err)
	require.Nil(t, value)

	require.NoError(t, repo.Clear(ctx))
	value, err = repo.Get(ctx, "user")
	require.NoError(t, err)
	require.Nil(t, value)
}
