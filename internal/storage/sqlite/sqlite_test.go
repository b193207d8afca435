package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesDirectoriesAndEnablesForeignKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "records.db")

	store, err := Open(context.Background(), path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	assert.FileExists(t, path)

	var on int
	require.NoError(t, store.Db.QueryRow("PRAGMA foreign_keys").Scan(&on))
	assert.Equal(t, 1, on)
}
