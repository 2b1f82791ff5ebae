package dateutil

import (
	"time"
)

// longTermDays is the holding period threshold: a position held strictly more
// than this many days qualifies for long-term capital gains treatment.
const longTermDays = 365

// Age calculates the age at a given date.
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// IsLongTerm reports whether a sale on saleDate of a lot acquired on
// acquisitionDate qualifies as long-term.
func IsLongTerm(acquisitionDate, saleDate time.Time) bool {
	return saleDate.Sub(acquisitionDate) > longTermDays*24*time.Hour
}

// SameCalendarDay reports whether two timestamps fall on the same calendar
// day, ignoring time of day.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// WithinDays reports whether the absolute difference between two dates is at
// most n days.
func WithinDays(a, b time.Time, n int) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d <= time.Duration(n)*24*time.Hour
}
