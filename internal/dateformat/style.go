package dateformat

import (
	"fmt"
	"strings"
)

// Style selects which fields of a date are rendered and how they are grouped.
// The grouping is the same for every locale; only the names, separators and
// field order come from the locale.
type Style int

const (
	// ShortNumeric renders day, month and year as numbers, e.g. 01/01/1970.
	ShortNumeric Style = iota
	// LongWithWeekday renders weekday, day, month name and year,
	// e.g. Thursday, 01 January 1970.
	LongWithWeekday
	// MonthAndDay renders month name and day, e.g. January 01.
	MonthAndDay
	// MonthAndYear renders year and month name, e.g. 1970 January.
	MonthAndYear
)

// Styles lists every Style in declaration order.
var Styles = []Style{ShortNumeric, LongWithWeekday, MonthAndDay, MonthAndYear}

var styleNames = [...]string{
	ShortNumeric:    "short",
	LongWithWeekday: "long",
	MonthAndDay:     "month-day",
	MonthAndYear:    "month-year",
}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleNames[s]
}

// Next returns the style following s, wrapping around.
func (s Style) Next() Style {
	return Style((int(s) + 1) % len(styleNames))
}

// ParseStyle accepts the names printed by String and the single letter
// standard format specifiers d, D, m/M and y/Y.
func ParseStyle(v string) (Style, error) {
	switch v {
	case "d":
		return ShortNumeric, nil
	case "D":
		return LongWithWeekday, nil
	case "m", "M":
		return MonthAndDay, nil
	case "y", "Y":
		return MonthAndYear, nil
	}
	name := strings.ToLower(strings.TrimSpace(v))
	name = strings.NewReplacer("_", "-", " ", "-").Replace(name)
	for i, n := range styleNames {
		if n == name {
			return Style(i), nil
		}
	}
	switch name {
	case "short-numeric", "numeric":
		return ShortNumeric, nil
	case "long-with-weekday", "full":
		return LongWithWeekday, nil
	case "month-and-day":
		return MonthAndDay, nil
	case "month-and-year", "year-month":
		return MonthAndYear, nil
	}
	return 0, fmt.Errorf("unknown date style %q", v)
}

// MarshalText implements encoding.TextMarshaler.
func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Style) UnmarshalText(text []byte) error {
	v, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
