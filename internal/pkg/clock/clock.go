package clock

import (
	"time"
)

// Clock supplies the current instant. Injected everywhere instead of calling
// time.Now directly so jobs and services can be exercised with a fixed time.
type Clock interface {
	Now() time.Time
}

// System is the production clock. Instants are always UTC; conversion to a
// company's wall clock happens through Zoned.
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed returns the same instant on every call. Test helper.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time {
	return f.T
}

// Zoned wraps a Clock with timezone-aware date helpers. Every operation that
// needs "today for this company" goes through Zoned so check-in, check-out and
// the sweeper all normalize dates identically.
type Zoned struct {
	clk Clock
}

func NewZoned(clk Clock) Zoned {
	return Zoned{clk: clk}
}

func (z Zoned) Now() time.Time {
	return z.clk.Now()
}

// NowIn returns the current instant converted to the named timezone.
// Unknown timezone names fall back to UTC rather than failing the operation.
func (z Zoned) NowIn(timezone string) time.Time {
	return z.clk.Now().In(LocationFor(timezone))
}

// Today returns midnight of the current day in the named timezone.
// This is the normalized date key for attendance records.
func (z Zoned) Today(timezone string) time.Time {
	return DayStart(z.NowIn(timezone))
}

// LocationFor resolves an IANA timezone name, falling back to UTC.
func LocationFor(timezone string) *time.Location {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DayStart truncates an instant to midnight in its own location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two instants fall on the same calendar day
// when both are viewed in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
