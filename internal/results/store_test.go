package results

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordsearch/internal/db"
	"github.com/robalobadob/wordsearch/internal/game"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(conn))
	return NewStore(conn)
}

func summary(gameID, player, daily string, finished time.Time, won bool) game.Summary {
	return game.Summary{
		GameID:     gameID,
		PlayerID:   player,
		PlayerName: "Joe",
		Difficulty: game.Medium,
		TimeLimit:  60 * time.Second,
		Daily:      daily,
		Results:    game.Results{Score: 50, Rank: "Gold", Found: 5, Total: 8, Oranges: 5, Won: won},
		StartedAt:  finished.Add(-time.Minute),
		FinishedAt: finished,
	}
}

func TestInsertAndList(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	base := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Insert(ctx, summary("g1", "p1", "", base, false)))
	require.NoError(t, s.Insert(ctx, summary("g2", "p1", "", base.Add(time.Hour), true)))
	require.NoError(t, s.Insert(ctx, summary("g3", "p2", "", base, true)))

	rows, err := s.ForPlayer(ctx, "p1", 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "g2", rows[0].GameID)
	assert.True(t, rows[0].Won)
	assert.Equal(t, "medium", rows[0].Difficulty)
	assert.Equal(t, 60, rows[0].TimeLimit)
	assert.Equal(t, "Gold", rows[1].Rank)

	none, err := s.ForPlayer(ctx, "nobody", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDailyOncePerDate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	played, err := s.DailyPlayed(ctx, "p1", "2026-10-18")
	require.NoError(t, err)
	assert.False(t, played)

	require.NoError(t, s.Insert(ctx, summary("d1", "p1", "2026-10-18", now, true)))
	require.NoError(t, s.Insert(ctx, summary("d2", "p1", "2026-10-18", now.Add(time.Minute), false)))

	played, err = s.DailyPlayed(ctx, "p1", "2026-10-18")
	require.NoError(t, err)
	assert.True(t, played)

	rows, err := s.ForPlayer(ctx, "p1", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1, "second daily result is ignored")
	assert.Equal(t, "d1", rows[0].GameID)
	assert.Equal(t, "2026-10-18", rows[0].Daily)
}
