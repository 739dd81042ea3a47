// Package lunar annotates Gregorian days with Chinese lunisolar calendar
// labels. It only decorates cells; grid layout stays Gregorian.
package lunar

import (
	"time"

	calendarlib "github.com/Lofanmi/chinese-calendar-golang/calendar"

	"github.com/lululau/gridcal/internal/calendar"
)

// Gregorian year range supported by the upstream library.
const (
	MinSupportedYear = 1900
	MaxSupportedYear = 3000
)

// firstDayAlias is the day alias of the first day of a lunar month.
const firstDayAlias = "初一"

// Day is the lunar metadata of a Gregorian day.
type Day struct {
	DayAlias   string
	MonthAlias string
	SolarTerm  string
}

// Label selects the string rendered beneath the Gregorian date. Solar terms
// take precedence, followed by the lunar month name on the first day of a
// lunar month.
func (d Day) Label() string {
	if d.SolarTerm != "" {
		return d.SolarTerm
	}
	if d.DayAlias == firstDayAlias && d.MonthAlias != "" {
		return d.MonthAlias
	}
	return d.DayAlias
}

// Supported reports whether lunar data can be computed for year.
func Supported(year int) bool {
	return year >= MinSupportedYear && year <= MaxSupportedYear
}

// Lookup returns the lunar metadata of d.
func Lookup(d calendar.Date) (Day, bool) {
	if !Supported(d.Year()) {
		return Day{}, false
	}
	cal := calendarlib.BySolar(
		int64(d.Year()),
		int64(d.Month()),
		int64(d.Day()),
		12, 0, 0,
	)
	out := Day{
		DayAlias:   cal.Lunar.DayAlias(),
		MonthAlias: cal.Lunar.MonthAlias(),
	}
	if term := cal.Solar.CurrentSolarterm; term != nil {
		day := time.Date(d.Year(), time.Month(d.Month()), d.Day(), 0, 0, 0, 0, time.Local)
		if term.IsInDay(&day) {
			out.SolarTerm = term.Alias()
		}
	}
	return out, true
}

// Annotator sets the secondary label of day cells to the lunar label.
type Annotator struct{}

// Annotate implements calendar.Annotator.
func (Annotator) Annotate(d calendar.Date) calendar.Annotation {
	day, ok := Lookup(d)
	if !ok {
		return calendar.Annotation{}
	}
	return calendar.Annotation{Secondary: day.Label()}
}
