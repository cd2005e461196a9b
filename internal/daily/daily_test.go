package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	ts := time.Date(2026, 10, 18, 5, 0, 0, 0, loc)
	assert.Equal(t, "2026-10-17", DateKey(ts))
}

func TestSeed(t *testing.T) {
	day := time.Date(2026, 10, 18, 1, 0, 0, 0, time.UTC)
	later := time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC)
	next := day.Add(24 * time.Hour)

	assert.Equal(t, Seed(day, "salt"), Seed(later, "salt"), "same date, same seed")
	assert.NotEqual(t, Seed(day, "salt"), Seed(next, "salt"))
	assert.NotEqual(t, Seed(day, "salt"), Seed(day, "pepper"))
}
