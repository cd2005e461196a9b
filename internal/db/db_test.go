package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.db")
	conn, err := Open(path)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Migrate(conn))
	require.NoError(t, Migrate(conn), "second run is a no-op")

	var applied int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&applied))
	assert.Equal(t, 2, applied)

	_, err = conn.Exec(`INSERT INTO results
		(game_id, player_id, player_name, difficulty, time_limit, rank, started_at, finished_at, daily_date)
		VALUES ('g','p','n','easy',30,'Bronze','t','t','2026-10-18')`)
	require.NoError(t, err)
}
