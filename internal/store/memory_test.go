package store

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/robalobadob/wordsearch/internal/game"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type words []string

func (w words) Pick(n, _ int, _ *rand.Rand) []string { return w }

func newGame(t *testing.T, id string) *game.Game {
	t.Helper()
	g, err := game.New(id, game.Settings{PlayerName: "p"}, words{"ALPHA", "BRAVO"}, game.SeededRand(1))
	require.NoError(t, err)
	return g
}

func TestMemory_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(0)
	defer m.Close()

	g := newGame(t, "abc")
	require.NoError(t, m.Save(ctx, g))

	got, err := m.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Same(t, g, got)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Delete(ctx, "abc"))
	_, err = m.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.Delete(ctx, "abc"), ErrNotFound)
}

func TestMemory_Reap(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(0)
	defer m.Close()

	require.NoError(t, m.Save(ctx, newGame(t, "old")))
	cutoff := time.Now().Add(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	fresh := newGame(t, "fresh")
	require.NoError(t, m.Save(ctx, fresh))

	assert.Equal(t, 1, m.Reap(cutoff))
	_, err := m.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestMemory_ReaperLoop(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(20 * time.Millisecond)
	defer m.Close()

	require.NoError(t, m.Save(ctx, newGame(t, "idle")))
	require.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)
}
