// Package dateformat renders calendar dates as text for a locale and resolves
// locale identifiers against the built-in locale set.
package dateformat

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"gopkg.in/yaml.v3"
)

// InvariantID is the identifier of the culture-neutral locale.
const InvariantID = "invariant"

//go:embed locales.yaml
var localesYAML []byte

// Locale is a resolved formatting ruleset. Locale values are immutable and
// safe to share.
type Locale struct {
	tag       language.Tag
	invariant bool
	firstDay  time.Weekday
	months    []string
	genitive  []string
	absMonths []string
	weekdays  []string
	absDays   []string
	patterns  [len(styleNames)]string
}

// Tag returns the BCP-47 tag, language.Und for the invariant locale.
func (l Locale) Tag() language.Tag {
	return l.tag
}

// ID returns the identifier the locale is known by.
func (l Locale) ID() string {
	if l.invariant {
		return InvariantID
	}
	return l.tag.String()
}

// IsInvariant reports whether l is the invariant locale.
func (l Locale) IsInvariant() bool {
	return l.invariant
}

// Name returns the locale's name in its own language.
func (l Locale) Name() string {
	if l.invariant {
		return "Invariant Language (Invariant Country)"
	}
	if n := display.Self.Name(l.tag); n != "" {
		return n
	}
	return l.tag.String()
}

// FirstDayOfWeek returns the weekday the locale starts its weeks on.
func (l Locale) FirstDayOfWeek() time.Weekday {
	return l.firstDay
}

// Pattern returns the date pattern used for style.
func (l Locale) Pattern(style Style) string {
	if style < 0 || int(style) >= len(l.patterns) {
		return ""
	}
	return l.patterns[style]
}

// orInvariant maps the zero Locale to the invariant locale.
func (l Locale) orInvariant() Locale {
	if l.months == nil {
		return Invariant()
	}
	return l
}

func (l Locale) String() string {
	return l.ID()
}

type localeSpec struct {
	Tag                 string   `yaml:"tag"`
	FirstDayOfWeek      string   `yaml:"first_day_of_week"`
	Months              []string `yaml:"months"`
	GenitiveMonths      []string `yaml:"genitive_months"`
	AbbreviatedMonths   []string `yaml:"abbreviated_months"`
	Weekdays            []string `yaml:"weekdays"`
	AbbreviatedWeekdays []string `yaml:"abbreviated_weekdays"`
	Patterns            struct {
		ShortNumeric    string `yaml:"short_numeric"`
		LongWithWeekday string `yaml:"long_with_weekday"`
		MonthAndDay     string `yaml:"month_and_day"`
		MonthAndYear    string `yaml:"month_and_year"`
	} `yaml:"patterns"`
}

func (s localeSpec) locale() (Locale, error) {
	l := Locale{
		months:    s.Months,
		genitive:  s.GenitiveMonths,
		absMonths: s.AbbreviatedMonths,
		weekdays:  s.Weekdays,
		absDays:   s.AbbreviatedWeekdays,
	}
	if s.Tag == InvariantID {
		l.tag, l.invariant = language.Und, true
	} else {
		tag, err := language.Parse(s.Tag)
		if err != nil {
			return Locale{}, fmt.Errorf("locale %q: %w", s.Tag, err)
		}
		l.tag = tag
	}
	day, err := ParseWeekday(s.FirstDayOfWeek)
	if err != nil {
		return Locale{}, fmt.Errorf("locale %q: %w", s.Tag, err)
	}
	l.firstDay = day
	for name, list := range map[string][]string{"months": l.months, "abbreviated_months": l.absMonths} {
		if len(list) != 12 {
			return Locale{}, fmt.Errorf("locale %q: %s has %d entries, want 12", s.Tag, name, len(list))
		}
	}
	if n := len(l.genitive); n != 0 && n != 12 {
		return Locale{}, fmt.Errorf("locale %q: genitive_months has %d entries, want 12", s.Tag, n)
	}
	for name, list := range map[string][]string{"weekdays": l.weekdays, "abbreviated_weekdays": l.absDays} {
		if len(list) != 7 {
			return Locale{}, fmt.Errorf("locale %q: %s has %d entries, want 7", s.Tag, name, len(list))
		}
	}
	l.patterns = [len(styleNames)]string{
		ShortNumeric:    s.Patterns.ShortNumeric,
		LongWithWeekday: s.Patterns.LongWithWeekday,
		MonthAndDay:     s.Patterns.MonthAndDay,
		MonthAndYear:    s.Patterns.MonthAndYear,
	}
	for i, p := range l.patterns {
		if p == "" {
			return Locale{}, fmt.Errorf("locale %q: missing %v pattern", s.Tag, Style(i))
		}
	}
	return l, nil
}

func parseLocales(data []byte) ([]Locale, error) {
	var specs []localeSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("failed to parse locale data: %w", err)
	}
	if len(specs) == 0 || specs[0].Tag != InvariantID {
		return nil, fmt.Errorf("locale data must start with the %s locale", InvariantID)
	}
	out := make([]Locale, 0, len(specs))
	for _, s := range specs {
		l, err := s.locale()
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// builtin holds the embedded locales, invariant first.
var builtin = mustParseLocales(localesYAML)

func mustParseLocales(data []byte) []Locale {
	l, err := parseLocales(data)
	if err != nil {
		panic(err)
	}
	return l
}

// Invariant returns the culture-neutral locale used as the fallback.
func Invariant() Locale {
	return builtin[0]
}

// Available returns the built-in locales, invariant first.
func Available() []Locale {
	return append([]Locale(nil), builtin...)
}

var weekdayByName = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseWeekday parses an English weekday name or three letter abbreviation.
func ParseWeekday(v string) (time.Weekday, error) {
	if d, ok := weekdayByName[strings.ToLower(strings.TrimSpace(v))]; ok {
		return d, nil
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", v)
}
