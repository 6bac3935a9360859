package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestISOWeekStartRoundTrips(t *testing.T) {
	cases := []struct {
		year, week int
	}{
		{2024, 10},
		{2024, 1},
		{2021, 1},  // Monday 2021-01-04
		{2020, 53}, // long year
		{2015, 53}, // long year
		{2019, 1},  // starts 2018-12-31
		{2026, 31},
	}
	for _, tc := range cases {
		start := ISOWeekStart(tc.year, tc.week)
		assert.Equal(t, time.Monday, start.Weekday(), "%d/%d", tc.year, tc.week)
		y, w := start.ISOWeek()
		assert.Equal(t, tc.year, y, "%d/%d", tc.year, tc.week)
		assert.Equal(t, tc.week, w, "%d/%d", tc.year, tc.week)
	}
}

func TestISOWeekStartKnownDates(t *testing.T) {
	assert.Equal(t, "2021-01-04", ISOWeekStart(2021, 1).Format("2006-01-02"))
	assert.Equal(t, "2018-12-31", ISOWeekStart(2019, 1).Format("2006-01-02"))
	assert.Equal(t, "2020-12-28", ISOWeekStart(2020, 53).Format("2006-01-02"))
	assert.Equal(t, "2024-03-04", ISOWeekStart(2024, 10).Format("2006-01-02"))
}

func TestValidISOWeek(t *testing.T) {
	assert.True(t, ValidISOWeek(2020, 53))
	assert.True(t, ValidISOWeek(2015, 53))
	assert.True(t, ValidISOWeek(2024, 1))
	assert.True(t, ValidISOWeek(2024, 52))

	assert.False(t, ValidISOWeek(2021, 53)) // 2021 has 52 weeks
	assert.False(t, ValidISOWeek(2024, 53))
	assert.False(t, ValidISOWeek(2024, 0))
	assert.False(t, ValidISOWeek(2024, 54))
	assert.False(t, ValidISOWeek(2024, -3))
}
