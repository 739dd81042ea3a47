package dateformat

import (
	"strconv"
	"strings"
	"time"

	"github.com/lululau/gridcal/internal/calendar"
)

// Format renders d in loc using style. The zero Locale formats as the
// invariant locale; the zero Date formats as "".
func Format(d calendar.Date, loc Locale, style Style) string {
	loc = loc.orInvariant()
	return FormatPattern(d, loc, loc.Pattern(style))
}

// FormatPattern renders d with an explicit pattern using loc's names.
func FormatPattern(d calendar.Date, loc Locale, pattern string) string {
	if d.IsZero() {
		return ""
	}
	return expand(d, loc.orInvariant(), pattern)
}

// WeekdayNames returns the full weekday names starting at the locale's first
// day of week.
func WeekdayNames(loc Locale) []string {
	loc = loc.orInvariant()
	return WeekdayNamesFrom(loc, loc.firstDay, false)
}

// WeekdayNamesFrom returns the weekday names starting at start. Index i
// names the column that a grid built with the same week start fills after i
// leading fillers.
func WeekdayNamesFrom(loc Locale, start time.Weekday, abbreviated bool) []string {
	loc = loc.orInvariant()
	if abbreviated {
		return rotate(loc.absDays, start)
	}
	return rotate(loc.weekdays, start)
}

// MonthNames returns the twelve month names, January first.
func MonthNames(loc Locale) []string {
	return append([]string(nil), loc.orInvariant().months...)
}

func rotate(names []string, start time.Weekday) []string {
	out := make([]string, 7)
	for i := range out {
		out[i] = names[(int(start)+i)%7]
	}
	return out
}

// token is a run of one pattern letter or a literal.
type token struct {
	letter  byte
	count   int
	literal string
}

func tokenize(pattern string) []token {
	var toks []token
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			toks = append(toks, token{literal: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(pattern); {
		c := pattern[i]
		switch c {
		case 'd', 'M', 'y':
			flush()
			n := 1
			for i+n < len(pattern) && pattern[i+n] == c {
				n++
			}
			toks = append(toks, token{letter: c, count: n})
			i += n
		case '\'', '"':
			end := strings.IndexByte(pattern[i+1:], c)
			if end < 0 {
				lit.WriteString(pattern[i+1:])
				i = len(pattern)
				continue
			}
			lit.WriteString(pattern[i+1 : i+1+end])
			i += end + 2
		case '\\':
			if i+1 < len(pattern) {
				lit.WriteByte(pattern[i+1])
			}
			i += 2
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	return toks
}

func hasDayOfMonth(toks []token) bool {
	for _, t := range toks {
		if t.letter == 'd' && t.count <= 2 {
			return true
		}
	}
	return false
}

func expand(d calendar.Date, loc Locale, pattern string) string {
	toks := tokenize(pattern)
	months := loc.months
	if len(loc.genitive) == 12 && hasDayOfMonth(toks) {
		months = loc.genitive
	}
	var out strings.Builder
	for _, t := range toks {
		switch t.letter {
		case 'd':
			switch t.count {
			case 1:
				out.WriteString(strconv.Itoa(d.Day()))
			case 2:
				out.WriteString(pad(d.Day(), 2))
			case 3:
				out.WriteString(loc.absDays[d.Weekday()])
			default:
				out.WriteString(loc.weekdays[d.Weekday()])
			}
		case 'M':
			switch t.count {
			case 1:
				out.WriteString(strconv.Itoa(d.Month()))
			case 2:
				out.WriteString(pad(d.Month(), 2))
			case 3:
				out.WriteString(loc.absMonths[d.Month()-1])
			default:
				out.WriteString(months[d.Month()-1])
			}
		case 'y':
			switch t.count {
			case 1:
				out.WriteString(strconv.Itoa(abs(d.Year()) % 100))
			case 2:
				out.WriteString(pad(abs(d.Year())%100, 2))
			default:
				out.WriteString(pad(d.Year(), t.count))
			}
		default:
			out.WriteString(t.literal)
		}
	}
	return out.String()
}

func pad(v, width int) string {
	s := strconv.Itoa(abs(v))
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	if v < 0 {
		return "-" + s
	}
	return s
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
