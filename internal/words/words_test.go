package words

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"sign", "SIGN", true},
		{" Token Table ", "TOKENTABLE", true},
		{"zk-proof", "ZKPROOF", true},
		{"ab", "", false},
		{"web3", "", false},
		{"café", "", false},
	}
	for _, tt := range tests {
		got, ok := Normalize(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParse(t *testing.T) {
	b, err := Parse([]byte(`{"B":["ledger","oracle","x1"],"A":["Ledger","proof"]}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, b.Categories())
	assert.Equal(t, []string{"LEDGER", "PROOF", "ORACLE"}, b.all)
	assert.Equal(t, []string{"LEDGER", "ORACLE"}, b.Category("B"))

	cats, n := b.Stats()
	assert.Equal(t, 2, cats)
	assert.Equal(t, 3, n)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`not json`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"A":["x","12"]}`))
	assert.Error(t, err)
}

func TestPick(t *testing.T) {
	b, err := Parse([]byte(`{"A":["one","three","seven","eleven","fifteen","sixteen"]}`))
	require.NoError(t, err)
	rng := rand.New(rand.NewPCG(1, 2))

	got := b.Pick(3, 0, rng)
	assert.Len(t, got, 3)

	short := b.Pick(10, 5, rng)
	assert.ElementsMatch(t, []string{"ONE", "THREE", "SEVEN"}, short)

	assert.Empty(t, b.Pick(-1, 0, rng))
}

func TestDefaultBank(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)

	cats, n := b.Stats()
	assert.Equal(t, 6, cats)
	assert.GreaterOrEqual(t, n, 10)
	for _, w := range b.all {
		_, ok := Normalize(w)
		assert.True(t, ok, w)
	}
}

func TestParse_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Custom":["alpha","bravo"]}`), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	b, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"ALPHA", "BRAVO"}, b.all)
}
