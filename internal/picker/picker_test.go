package picker

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lululau/gridcal/internal/calendar"
	"github.com/lululau/gridcal/internal/config"
	"github.com/lululau/gridcal/internal/dateformat"
)

func fixedNow(y, m, d int) Option {
	return WithNow(func() time.Time {
		return time.Date(y, time.Month(m), d, 10, 0, 0, 0, time.Local)
	})
}

func newController(t *testing.T, cfg config.Config, loc dateformat.Locale, opts ...Option) *Controller {
	t.Helper()
	c, err := New(cfg, loc, opts...)
	require.NoError(t, err)
	return c
}

func TestNewStartsOnToday(t *testing.T) {
	c := newController(t, config.Default(), dateformat.Invariant(), fixedNow(2025, 11, 18))
	assert.Equal(t, calendar.YearMonth{Year: 2025, Month: 11}, c.Shown())
	assert.Equal(t, calendar.MustDate(2025, 11, 18), c.Selected())
	assert.True(t, c.Grid().IsSelected(18))
	assert.Equal(t, "2025 November", c.Title())
}

func TestNewOutsideRangeUsesFirstListedYear(t *testing.T) {
	cfg := config.Default()
	cfg.MinYear, cfg.MaxYear = 2000, 2005
	c := newController(t, cfg, dateformat.Invariant(), fixedNow(2025, 11, 18))
	assert.Equal(t, []int{2005, 2004, 2003, 2002, 2001, 2000}, c.Years())
	assert.Equal(t, calendar.MustDate(2005, 1, 1), c.Selected())
	assert.Equal(t, calendar.YearMonth{Year: 2005, Month: 1}, c.Shown())
}

func TestNewRepairsInvertedRange(t *testing.T) {
	cfg := config.Default()
	cfg.MinYear, cfg.MaxYear = 2040, 2030
	c := newController(t, cfg, dateformat.Invariant(), fixedNow(2025, 1, 1))
	assert.Equal(t, []int{2040}, c.Years())
}

func TestClickNotifiesBoundDisplays(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var short, long []string
	var selected []calendar.Date
	c := newController(t, config.Default(), dateformat.Invariant(),
		fixedNow(2024, 1, 10),
		WithLogger(logger),
		OnSelect(func(d calendar.Date) { selected = append(selected, d) }),
	)
	c.Bind(dateformat.ShortNumeric, DisplayFunc(func(s string) { short = append(short, s) }))
	c.Bind(dateformat.LongWithWeekday, DisplayFunc(func(s string) { long = append(long, s) }))

	require.NoError(t, c.Click(1))
	require.NoError(t, c.Click(1))

	assert.Equal(t, []string{"01/10/2024", "01/01/2024"}, short)
	assert.Equal(t, []string{"Wednesday, 10 January 2024", "Monday, 01 January 2024"}, long)
	assert.Equal(t, []calendar.Date{calendar.MustDate(2024, 1, 1)}, selected)
	assert.Equal(t, calendar.MustDate(2024, 1, 1), c.Selected())
	assert.Contains(t, logs.String(), "date selected")
}

func TestClickMissingDay(t *testing.T) {
	c := newController(t, config.Default(), dateformat.Invariant(), fixedNow(2024, 4, 10))
	err := c.Click(31)
	assert.True(t, errors.Is(err, calendar.ErrDayNotFound), err)
	assert.Equal(t, calendar.MustDate(2024, 4, 10), c.Selected())
}

func TestNavigationKeepsSelection(t *testing.T) {
	c := newController(t, config.Default(), dateformat.Invariant(), fixedNow(2024, 1, 10))

	require.NoError(t, c.NextMonth())
	assert.Equal(t, calendar.YearMonth{Year: 2024, Month: 2}, c.Shown())
	_, ok := c.Grid().Selected()
	assert.False(t, ok, "selection belongs to January")

	require.NoError(t, c.PreviousMonth())
	got, ok := c.Grid().Selected()
	assert.True(t, ok)
	assert.Equal(t, calendar.MustDate(2024, 1, 10), got)

	require.NoError(t, c.SetMonth(12))
	require.NoError(t, c.SetYear(2030))
	assert.ErrorIs(t, c.NextMonth(), ErrYearOutOfRange)
	assert.Equal(t, calendar.YearMonth{Year: 2030, Month: 12}, c.Shown())

	assert.ErrorIs(t, c.SetYear(1999), ErrYearOutOfRange)
	assert.ErrorIs(t, c.SetMonth(13), calendar.ErrInvalidMonth)

	require.NoError(t, c.PreviousYear())
	require.NoError(t, c.NextYear())
	require.NoError(t, c.Today())
	assert.Equal(t, calendar.YearMonth{Year: 2024, Month: 1}, c.Shown())
}

func TestLocaleDrivesHeadersAndAlignment(t *testing.T) {
	de, err := dateformat.NewResolver().Lookup("de-DE")
	require.NoError(t, err)
	c := newController(t, config.Default(), de, fixedNow(2024, 1, 10))

	headers := c.WeekdayHeaders()
	assert.Equal(t, "Mo", headers[0])
	assert.Equal(t, time.Monday, c.WeekStart())
	// 2024-01-01 is a Monday: first column, no fillers.
	assert.Equal(t, 0, c.Grid().Leading())
	assert.Equal(t, "Januar", c.Months()[0])
	assert.Equal(t, "Januar 2024", c.Title())

	cfg := config.Default()
	cfg.WeekStart = "sunday"
	c = newController(t, cfg, de, fixedNow(2024, 1, 10))
	assert.Equal(t, "So", c.WeekdayHeaders()[0])
	assert.Equal(t, 1, c.Grid().Leading())
}

func TestSelectedText(t *testing.T) {
	c := newController(t, config.Default(), dateformat.Invariant(), fixedNow(2024, 3, 5))
	assert.Equal(t, "March 05", c.SelectedText(dateformat.MonthAndDay))
	assert.Equal(t, "2024 March", c.SelectedText(dateformat.MonthAndYear))
}

func TestBindDefaultUsesConfiguredPattern(t *testing.T) {
	cfg := config.Default()
	cfg.Pattern = "ddd d MMM"
	c := newController(t, cfg, dateformat.Invariant(), fixedNow(2024, 3, 5))

	var got []string
	c.BindDefault(DisplayFunc(func(s string) { got = append(got, s) }))
	require.NoError(t, c.Click(8))
	assert.Equal(t, []string{"Tue 5 Mar", "Fri 8 Mar"}, got)

	// Style-specific bindings and SelectedText ignore the pattern.
	assert.Equal(t, "03/08/2024", c.SelectedText(dateformat.ShortNumeric))
}

func TestSelectionOnlyChangesThroughClick(t *testing.T) {
	c := newController(t, config.Default(), dateformat.Invariant(), fixedNow(2024, 3, 5))
	_, ok := any(c).(calendar.SelectionListener)
	assert.False(t, ok, "controller must not accept selections from outside")

	assert.ErrorIs(t, c.SetYear(1999), ErrYearOutOfRange)
	assert.Equal(t, calendar.MustDate(2024, 3, 5), c.Selected())
}

func TestNewRejectsUnknownConfiguredLocale(t *testing.T) {
	cfg := config.Default()
	cfg.Locale = "zh-TW"
	_, err := New(cfg, dateformat.Invariant())
	assert.ErrorIs(t, err, dateformat.ErrUnknownLocale)
}
