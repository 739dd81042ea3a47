package calendar

import "fmt"

// YearMonth identifies a displayed month.
type YearMonth struct {
	Year  int
	Month int
}

// Of returns the YearMonth containing d.
func Of(d Date) YearMonth {
	return YearMonth{Year: d.year, Month: d.month}
}

// Normalize keeps the month within 1..12 by rolling the year value.
func (ym YearMonth) Normalize() YearMonth {
	for ym.Month > 12 {
		ym.Month -= 12
		ym.Year++
	}
	for ym.Month < 1 {
		ym.Month += 12
		ym.Year--
	}
	return ym
}

// Next moves to the following month.
func (ym YearMonth) Next() YearMonth {
	ym.Month++
	return ym.Normalize()
}

// Previous moves to the preceding month.
func (ym YearMonth) Previous() YearMonth {
	ym.Month--
	return ym.Normalize()
}

// NextYear moves to the same month of the following year.
func (ym YearMonth) NextYear() YearMonth {
	ym.Year++
	return ym
}

// PreviousYear moves to the same month of the preceding year.
func (ym YearMonth) PreviousYear() YearMonth {
	ym.Year--
	return ym
}

// Days returns the number of days in the month.
func (ym YearMonth) Days() (int, error) {
	return DaysInMonth(ym.Year, ym.Month)
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}
