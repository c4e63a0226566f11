package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeks_SundayStart(t *testing.T) {
	// June 2025 starts on a Sunday
	weeks := Weeks(Month{2025, time.June}, true)

	require.Len(t, weeks, 5)
	assert.Equal(t, [7]int{1, 2, 3, 4, 5, 6, 7}, weeks[0].Days)
	assert.True(t, weeks[0].IsComplete())
	assert.Equal(t, [7]int{29, 30, 0, 0, 0, 0, 0}, weeks[4].Days)
	assert.False(t, weeks[4].IsComplete())
	assert.Equal(t, []int{29, 30}, weeks[4].InMonthDays())
}

func TestWeeks_MondayStart(t *testing.T) {
	weeks := Weeks(Month{2025, time.June}, false)

	require.Len(t, weeks, 6)
	// Sunday 1 June belongs to the week starting Monday 26 May
	assert.Equal(t, time.Date(2025, time.May, 26, 0, 0, 0, 0, time.UTC), weeks[0].Start)
	assert.Equal(t, [7]int{0, 0, 0, 0, 0, 0, 1}, weeks[0].Days)
	assert.Equal(t, [7]int{2, 3, 4, 5, 6, 7, 8}, weeks[1].Days)
	assert.Equal(t, [7]int{30, 0, 0, 0, 0, 0, 0}, weeks[5].Days)
}

func TestWeeks_CoverEveryDayOnce(t *testing.T) {
	for _, sunday := range []bool{true, false} {
		m := Month{2024, time.February}
		seen := make(map[int]int)
		for _, w := range Weeks(m, sunday) {
			for _, d := range w.InMonthDays() {
				seen[d]++
			}
		}
		require.Len(t, seen, 29)
		for d, count := range seen {
			assert.Equal(t, 1, count, "day %d", d)
		}
	}
}
