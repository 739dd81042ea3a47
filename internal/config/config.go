// Package config holds the host-side settings of the date picker: the
// selectable year range, the default locale and display style, and the
// optional annotation sources.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lululau/gridcal/internal/dateformat"
	"github.com/lululau/gridcal/internal/holidays"
)

// Default year bounds of the year list.
const (
	DefaultMinYear = 2022
	DefaultMaxYear = 2030
)

// WeekStartLocale defers the first grid column to the resolved locale.
const WeekStartLocale = "locale"

// Config is the file format, in YAML.
type Config struct {
	MinYear   int              `yaml:"min_year"`
	MaxYear   int              `yaml:"max_year"`
	Locale    string           `yaml:"locale"`
	Style     dateformat.Style `yaml:"style"`
	Pattern   string           `yaml:"pattern"` // replaces Style for the selected-date line when set
	WeekStart string           `yaml:"week_start"`
	Lunar     bool             `yaml:"lunar"`
	NoColor   bool             `yaml:"no_color"`

	HolidaysFile string `yaml:"holidays_file"`
	HolidaysURL  string `yaml:"holidays_url"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		MinYear:   DefaultMinYear,
		MaxYear:   DefaultMaxYear,
		Style:       dateformat.ShortNumeric,
		WeekStart:   WeekStartLocale,
		HolidaysURL: holidays.DefaultURL,
	}
}

// Parse decodes YAML on top of Default. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Load reads and parses the config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields that cannot be repaired.
func (c Config) Validate() error {
	if _, _, err := c.ParseWeekStart(); err != nil {
		return err
	}
	if c.Style < dateformat.ShortNumeric || c.Style > dateformat.MonthAndYear {
		return fmt.Errorf("invalid style %d", int(c.Style))
	}
	if c.Locale != "" {
		if _, err := dateformat.NewResolver().Lookup(c.Locale); err != nil {
			return fmt.Errorf("locale: %w", err)
		}
	}
	return nil
}

// Normalize repairs an inverted year range by raising the maximum to the
// minimum.
func (c Config) Normalize() Config {
	if c.MinYear > c.MaxYear {
		c.MaxYear = c.MinYear
	}
	return c
}

// ParseWeekStart returns the configured week start. ok is false when the
// locale's first day of week should be used.
func (c Config) ParseWeekStart() (day time.Weekday, ok bool, err error) {
	v := strings.TrimSpace(c.WeekStart)
	if v == "" || strings.EqualFold(v, WeekStartLocale) {
		return time.Sunday, false, nil
	}
	day, err = dateformat.ParseWeekday(v)
	if err != nil {
		return time.Sunday, false, fmt.Errorf("week_start: %w", err)
	}
	return day, true, nil
}

// WeekStartFor returns the week start to use with loc.
func (c Config) WeekStartFor(loc dateformat.Locale) time.Weekday {
	if day, ok, err := c.ParseWeekStart(); err == nil && ok {
		return day
	}
	return loc.FirstDayOfWeek()
}
