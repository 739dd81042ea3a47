package calendar

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidDate indicates the year/month/day triple does not exist in
	// the Gregorian calendar.
	ErrInvalidDate = errors.New("invalid calendar date")
	// ErrInvalidMonth indicates the month is not in the 1..12 range.
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
	// ErrDayNotFound indicates a selection target has no day cell in the grid.
	ErrDayNotFound = errors.New("day not found in grid")
)

var daysInMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in month of year.
func DaysInMonth(year, month int) (int, error) {
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}
	if month == 2 && IsLeap(year) {
		return 29, nil
	}
	return daysInMonth[month], nil
}

// Date is a day in the proleptic Gregorian calendar. The zero value is not a
// valid date and is used to mean "no date".
type Date struct {
	year  int
	month int
	day   int
}

// NewDate validates and returns the Date for year, month and day.
func NewDate(year, month, day int) (Date, error) {
	n, err := DaysInMonth(year, month)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d: %w", ErrInvalidDate, year, month, day, err)
	}
	if day < 1 || day > n {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d: day must be between 1 and %d", ErrInvalidDate, year, month, day, n)
	}
	return Date{year: year, month: month, day: day}, nil
}

// MustDate is like NewDate but panics on an invalid date. It is intended for
// tests and package-level literals.
func MustDate(year, month, day int) Date {
	d, err := NewDate(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime returns the Date of t in t's location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: int(m), day: d}
}

func (d Date) Year() int  { return d.year }
func (d Date) Month() int { return d.month }
func (d Date) Day() int   { return d.day }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.year, time.Month(d.month), d.day, 0, 0, 0, 0, time.UTC)
}

// Weekday returns the day of the week d falls on.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// SameMonth reports whether d lies in month of year.
func (d Date) SameMonth(year, month int) bool {
	return !d.IsZero() && d.year == year && d.month == month
}

func (d Date) String() string {
	if d.IsZero() {
		return "0000-00-00"
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

// WeekdayOffset returns how many columns d sits to the right of weekStart in
// a seven column week. A grid built with weekStart places day 1 of a month
// at this index, and weekday headers rotated to weekStart line up with it.
func WeekdayOffset(d Date, weekStart time.Weekday) int {
	return (int(d.Weekday()) - int(weekStart) + 7) % 7
}
