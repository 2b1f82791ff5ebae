package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestAge(t *testing.T) {
	birth := day(1975, time.June, 15)

	assert.Equal(t, 50, Age(birth, day(2025, time.June, 15)))
	assert.Equal(t, 49, Age(birth, day(2025, time.June, 14)))
	assert.Equal(t, 50, Age(birth, day(2025, time.December, 31)))
}

func TestIsLongTerm(t *testing.T) {
	acquired := day(2023, time.March, 10)

	// Exactly 365 days is still short-term; the threshold is strict.
	assert.False(t, IsLongTerm(acquired, day(2024, time.March, 9)))
	assert.False(t, IsLongTerm(acquired, acquired.AddDate(0, 0, 365)))
	assert.True(t, IsLongTerm(acquired, acquired.AddDate(0, 0, 366)))
	assert.True(t, IsLongTerm(acquired, day(2025, time.March, 10)))
}

func TestSameCalendarDay(t *testing.T) {
	morning := time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC)
	evening := time.Date(2024, time.March, 5, 21, 0, 0, 0, time.UTC)
	nextDay := time.Date(2024, time.March, 6, 0, 0, 1, 0, time.UTC)

	assert.True(t, SameCalendarDay(morning, evening))
	assert.False(t, SameCalendarDay(evening, nextDay))
}

func TestWithinDays(t *testing.T) {
	a := day(2024, time.June, 15)

	assert.True(t, WithinDays(a, day(2024, time.July, 1), 30))
	assert.True(t, WithinDays(day(2024, time.July, 1), a, 30))
	assert.True(t, WithinDays(a, a.AddDate(0, 0, 30), 30))
	assert.False(t, WithinDays(a, a.AddDate(0, 0, 31), 30))
}
