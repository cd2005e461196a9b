// internal/words/words.go
//
// Word bank for the puzzle.
//
// Responsibilities:
//   - Load themed word categories from a JSON file named by WORDS_FILE, or
//     fall back to the embedded bank in assets/wordbank.json.
//   - Normalize entries to uppercase A–Z (spaces and hyphens dropped; other
//     entries discarded).
//   - Pick a random subset of distinct words that fits a given grid size.
//
// Bank format:
//   { "CategoryName": ["WORD", "WORD", ...], ... }
//
// Initialization is run once (sync.Once); Init reports the load error.

package words

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/robalobadob/wordsearch/assets"
)

// MinLen is the shortest word worth hiding.
const MinLen = 3

// Bank holds normalized words grouped by category.
type Bank struct {
	categories map[string][]string
	all        []string // deduped union, category order then entry order
}

var (
	initOnce   sync.Once
	defaultBk  *Bank
	initialErr error
)

// Init loads the default bank exactly once.
func Init() error {
	initOnce.Do(func() {
		var data []byte
		if path := os.Getenv("WORDS_FILE"); path != "" {
			data, initialErr = os.ReadFile(path)
		} else {
			data, initialErr = assets.WordBank()
		}
		if initialErr != nil {
			return
		}
		defaultBk, initialErr = Parse(data)
	})
	return initialErr
}

// Default returns the bank loaded by Init, loading it on first use.
func Default() (*Bank, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	return defaultBk, nil
}

// Parse decodes a JSON bank and normalizes every entry.
func Parse(data []byte) (*Bank, error) {
	raw := map[string][]string{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("words: decode bank: %w", err)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	b := &Bank{categories: make(map[string][]string, len(raw))}
	seen := map[string]struct{}{}
	for _, name := range names {
		var list []string
		for _, w := range raw[name] {
			n, ok := Normalize(w)
			if !ok {
				continue
			}
			list = append(list, n)
			if _, dup := seen[n]; !dup {
				seen[n] = struct{}{}
				b.all = append(b.all, n)
			}
		}
		if len(list) > 0 {
			b.categories[name] = list
		}
	}
	if len(b.all) == 0 {
		return nil, errors.New("words: bank is empty")
	}
	return b, nil
}

// Normalize uppercases w and strips spaces and hyphens. It reports false
// when the result is too short or contains anything but A–Z.
func Normalize(w string) (string, bool) {
	w = strings.ToUpper(strings.TrimSpace(w))
	w = strings.NewReplacer(" ", "", "-", "").Replace(w)
	if len(w) < MinLen {
		return "", false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return "", false
		}
	}
	return w, true
}

// Categories returns the category names in sorted order.
func (b *Bank) Categories() []string {
	out := make([]string, 0, len(b.categories))
	for name := range b.categories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Category returns the words of one category.
func (b *Bank) Category(name string) []string {
	return b.categories[name]
}

// Stats reports (categories, distinct words).
func (b *Bank) Stats() (int, int) {
	return len(b.categories), len(b.all)
}

// Pick returns up to n distinct random words no longer than maxLen.
// maxLen <= 0 disables the length filter.
func (b *Bank) Pick(n, maxLen int, rng *rand.Rand) []string {
	pool := make([]string, 0, len(b.all))
	for _, w := range b.all {
		if maxLen > 0 && len(w) > maxLen {
			continue
		}
		pool = append(pool, w)
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n < 0 {
		n = 0
	}
	if n < len(pool) {
		pool = pool[:n]
	}
	return pool
}
