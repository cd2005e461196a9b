package grid

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestGenerate_PlacedWordsReadBack(t *testing.T) {
	words := []string{"sign", "protocol", "attest", "schema", "token", "wallet", "ledger", "proof"}

	for seed := uint64(1); seed <= 25; seed++ {
		res, err := Generate(words, DefaultSize, AllDirections, seeded(seed))
		require.NoError(t, err)
		require.NotEmpty(t, res.Placed)

		for _, p := range res.Placed {
			assert.Equal(t, p.Word, res.Grid.Word(p.Cells()), "seed %d word %s", seed, p.Word)
		}
	}
}

func TestGenerate_FillsEveryCell(t *testing.T) {
	res, err := Generate([]string{"alpha", "beta"}, 8, AllDirections, seeded(7))
	require.NoError(t, err)

	for _, row := range res.Grid.Rows() {
		require.Len(t, row, 8)
		for i := 0; i < len(row); i++ {
			assert.True(t, row[i] >= 'A' && row[i] <= 'Z', "unexpected byte %q", row[i])
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	words := []string{"merkle", "oracle", "bridge", "rollup"}

	a, err := Generate(words, DefaultSize, AllDirections, seeded(42))
	require.NoError(t, err)
	b, err := Generate(words, DefaultSize, AllDirections, seeded(42))
	require.NoError(t, err)

	if diff := cmp.Diff(a.Grid.Rows(), b.Grid.Rows()); diff != "" {
		t.Fatalf("grids differ (-a +b):\n%s", diff)
	}
	if diff := cmp.Diff(a.Placed, b.Placed); diff != "" {
		t.Fatalf("placements differ (-a +b):\n%s", diff)
	}
}

func TestGenerate_RespectsDirections(t *testing.T) {
	words := []string{"one", "two", "six", "ten", "key", "hash"}
	dirs := []Direction{Horizontal, Vertical}

	for seed := uint64(1); seed <= 10; seed++ {
		res, err := Generate(words, DefaultSize, dirs, seeded(seed))
		require.NoError(t, err)
		for _, p := range res.Placed {
			assert.Contains(t, dirs, p.Dir)
		}
	}
}

func TestGenerate_SkipsWordsThatCannotFit(t *testing.T) {
	res, err := Generate([]string{"toolongforthisgrid", "ok"}, 4, AllDirections, seeded(3))
	require.NoError(t, err)

	assert.NotContains(t, res.Words(), "TOOLONGFORTHISGRID")
}

func TestGenerate_UppercasesAndDedupes(t *testing.T) {
	res, err := Generate([]string{"abc", "ABC", " abc "}, 6, AllDirections, seeded(9))
	require.NoError(t, err)

	assert.Equal(t, []string{"ABC"}, res.Words())
}

func TestGenerate_Errors(t *testing.T) {
	_, err := Generate([]string{"a"}, 0, AllDirections, seeded(1))
	assert.ErrorIs(t, err, ErrBadSize)

	_, err = Generate([]string{"a"}, 5, nil, seeded(1))
	assert.ErrorIs(t, err, ErrNoDirections)

	_, err = Generate([]string{"a"}, 5, []Direction{"X"}, seeded(1))
	assert.ErrorIs(t, err, ErrNoDirections)
}

func TestCanPlace(t *testing.T) {
	g := New(5)
	g.place(Placement{Word: "CAT", Row: 0, Col: 0, Dir: Horizontal})

	assert.True(t, g.canPlace(Placement{Word: "COW", Row: 0, Col: 0, Dir: Vertical}), "shared first letter")
	assert.False(t, g.canPlace(Placement{Word: "DOG", Row: 0, Col: 0, Dir: Vertical}), "letter collision")
	assert.False(t, g.canPlace(Placement{Word: "HORSE", Row: 0, Col: 1, Dir: Horizontal}), "runs off the right edge")
	assert.False(t, g.canPlace(Placement{Word: "ANT", Row: 0, Col: 1, Dir: DiagonalBack}), "runs off the left edge")
	assert.True(t, g.canPlace(Placement{Word: "ANT", Row: 1, Col: 2, Dir: DiagonalBack}))
}

func TestPlacementCells(t *testing.T) {
	p := Placement{Word: "ABC", Row: 1, Col: 3, Dir: DiagonalBack}
	want := []Cell{{1, 3}, {2, 2}, {3, 1}}
	if diff := cmp.Diff(want, p.Cells()); diff != "" {
		t.Fatalf("cells (-want +got):\n%s", diff)
	}
}

func TestFromRowsHelper(t *testing.T) {
	g, err := fromRows([]string{"abc", "def", "ghi"})
	require.NoError(t, err)
	assert.Equal(t, "AEI", g.Word([]Cell{{0, 0}, {1, 1}, {2, 2}}))
	assert.Equal(t, byte(0), g.At(Cell{3, 0}))

	_, err = fromRows([]string{"ab", "c"})
	assert.Error(t, err)
}
