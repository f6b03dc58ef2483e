package core

import (
	"errors"
	"time"
)

// DayLayout is the calendar-date format used across the app (DD-MM-YYYY).
const DayLayout = "02-01-2006"

// Day is a canonical calendar date. All bucketing uses UTC day boundaries so
// an entry lands in exactly one day regardless of the device time zone.
type Day struct {
	time.Time
}

// NewDay builds a Day at UTC midnight.
func NewDay(year int, month time.Month, day int) Day {
	return Day{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf normalizes a timestamp to its UTC calendar day.
func DayOf(ts time.Time) Day {
	y, m, d := ts.UTC().Date()
	return NewDay(y, m, d)
}

// Today returns the current UTC calendar day.
func Today() Day {
	return DayOf(time.Now())
}

// ParseDay parses a DD-MM-YYYY string.
func ParseDay(s string) (Day, error) {
	t, err := time.ParseInLocation(DayLayout, s, time.UTC)
	if err != nil {
		return Day{}, errors.New("invalid date, expected DD-MM-YYYY")
	}
	return Day{Time: t}, nil
}

func (d Day) String() string {
	return d.Format(DayLayout)
}

// Contains reports whether the timestamp falls on this calendar day.
func (d Day) Contains(ts time.Time) bool {
	return DayOf(ts).Equal(d.Time)
}
