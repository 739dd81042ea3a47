package dateformat

import "github.com/lululau/gridcal/internal/calendar"

// Formatter binds a locale to a default style, or to a custom pattern that
// takes precedence over the style when set.
type Formatter struct {
	Locale  Locale
	Style   Style
	Pattern string
}

// NewFormatter returns a Formatter for loc rendering style by default.
func NewFormatter(loc Locale, style Style) Formatter {
	return Formatter{Locale: loc.orInvariant(), Style: style}
}

// WithPattern returns a copy of f that renders pattern instead of its style.
func (f Formatter) WithPattern(pattern string) Formatter {
	f.Pattern = pattern
	return f
}

// Format renders d in the default style or pattern.
func (f Formatter) Format(d calendar.Date) string {
	if f.Pattern != "" {
		return FormatPattern(d, f.Locale, f.Pattern)
	}
	return Format(d, f.Locale, f.Style)
}

// FormatStyle renders d in style.
func (f Formatter) FormatStyle(d calendar.Date, style Style) string {
	return Format(d, f.Locale, style)
}
