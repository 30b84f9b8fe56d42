package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeDB_CreatesTables(t *testing.T) {
	ctx := context.Background()
	pool, err := LocalConnect(":memory:")
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, InitializeDB(ctx, pool))
	// Running twice must be harmless.
	require.NoError(t, InitializeDB(ctx, pool))

	var tables []string
	err = pool.SelectContext(ctx, &tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	require.NoError(t, err)
	assert.Equal(t, []string{"match_results", "tallies", "users"}, tables)
}
