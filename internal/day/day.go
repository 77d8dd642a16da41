// Package day models calendar days with no time-of-day component and the
// YYYY-MM-DD keys the ledger is indexed by.
package day

import (
	"errors"
	"fmt"
	"time"
)

// KeyFormat is the canonical day-key layout.
const KeyFormat = "2006-01-02"

// ErrInvalidKey is returned when a string is not a valid YYYY-MM-DD day key.
var ErrInvalidKey = errors.New("invalid day key")

// Date is a calendar day.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date, so New(2026, 1, 32) is February 1st.
func New(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{t.Year(), t.Month(), t.Day()}
}

// Of returns the calendar day of t in t's location.
func Of(t time.Time) Date { return New(t.Date()) }

// Parse parses a strict YYYY-MM-DD key. Out-of-range days such as
// 2026-02-30 are rejected.
func Parse(key string) (Date, error) {
	t, err := time.Parse(KeyFormat, key)
	if err != nil {
		return Date{}, fmt.Errorf("%w %q: %v", ErrInvalidKey, key, err)
	}
	return Of(t), nil
}

// MustParse is like Parse but panics on error.
func MustParse(key string) Date {
	d, err := Parse(key)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// ValidKey reports whether key is a canonical day key.
func ValidKey(key string) bool {
	_, err := Parse(key)
	return err == nil
}

func (d Date) utc() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Year returns the year of d.
func (d Date) Year() int { return d.y }

// Month returns the month of d.
func (d Date) Month() time.Month { return d.m }

// Day returns the day of the month.
func (d Date) Day() int { return d.d }

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday { return d.utc().Weekday() }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Add returns d shifted by n days.
func (d Date) Add(n int) Date { return New(d.y, d.m, d.d+n) }

// Before reports whether d is strictly before x.
func (d Date) Before(x Date) bool { return d.utc().Before(x.utc()) }

// After reports whether d is strictly after x.
func (d Date) After(x Date) bool { return d.utc().After(x.utc()) }

// Sub returns the number of days from x to d.
func (d Date) Sub(x Date) int { return int(d.utc().Sub(x.utc()).Hours() / 24) }

// String returns the day key.
func (d Date) String() string { return d.utc().Format(KeyFormat) }

// Label returns a short display label such as "Jan 2".
func (d Date) Label() string { return d.utc().Format("Jan 2") }

// Midnight returns the start of d in loc.
func (d Date) Midnight(loc *time.Location) time.Time {
	return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, loc)
}

// StartOfWeek returns the Monday on or before d.
func (d Date) StartOfWeek() Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.Add(-offset)
}

// EndOfWeek returns the Sunday on or after d.
func (d Date) EndOfWeek() Date { return d.StartOfWeek().Add(6) }
