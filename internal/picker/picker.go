// Package picker is the widget controller that sits between a UI and the
// two core components. It owns the displayed month and the selected date,
// asks the calendar service for grids, and pushes formatted text to bound
// displays when the selection changes. The calendar and formatter never
// call each other; the controller mediates.
//
// A Controller is not safe for concurrent use; UIs drive it from their
// event loop.
package picker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lululau/gridcal/internal/calendar"
	"github.com/lululau/gridcal/internal/config"
	"github.com/lululau/gridcal/internal/dateformat"
)

// ErrYearOutOfRange indicates a year outside the configured year list.
var ErrYearOutOfRange = errors.New("year outside selectable range")

// Display receives formatted text for the selected date.
type Display interface {
	SetText(text string)
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(text string)

// SetText implements Display.
func (f DisplayFunc) SetText(text string) { f(text) }

type binding struct {
	format  dateformat.Formatter
	display Display
}

// Controller holds picker state.
type Controller struct {
	cfg        config.Config
	locale     dateformat.Locale
	formatter  dateformat.Formatter
	weekStart  time.Weekday
	svc        *calendar.Service
	annotators []calendar.Annotator
	shown      calendar.YearMonth
	selected   calendar.Date
	grid       calendar.MonthGrid
	bindings   []binding
	onSelect   []func(calendar.Date)
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithNow overrides the clock, which is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithLogger sets the logger, slog.Default() otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithAnnotators forwards annotators to the calendar service.
func WithAnnotators(a ...calendar.Annotator) Option {
	return func(c *Controller) {
		c.annotators = append(c.annotators, a...)
	}
}

// OnSelect registers a callback run after the selection changes.
func OnSelect(fn func(calendar.Date)) Option {
	return func(c *Controller) {
		c.onSelect = append(c.onSelect, fn)
	}
}

// New returns a controller showing today when today's year is selectable,
// or January of the first listed year otherwise. The initial day is
// selected without notifying anyone.
func New(cfg config.Config, loc dateformat.Locale, opts ...Option) (*Controller, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		cfg:       cfg,
		locale:    loc,
		formatter: dateformat.NewFormatter(loc, cfg.Style).WithPattern(cfg.Pattern),
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.weekStart = cfg.WeekStartFor(loc)
	c.svc = calendar.NewService(
		calendar.WithWeekStart(c.weekStart),
		calendar.WithSelectionListener(calendar.SelectionFunc(c.selectionChanged)),
		calendar.WithAnnotators(c.annotators...),
		calendar.WithLogger(c.logger),
	)

	today := calendar.FromTime(c.now())
	if c.inRange(today.Year()) {
		c.selected = today
	} else {
		c.selected = calendar.MustDate(c.Years()[0], 1, 1)
	}
	c.shown = calendar.Of(c.selected)
	if err := c.rebuild(); err != nil {
		return nil, err
	}
	return c, nil
}

// Locale returns the locale used for names and bound displays.
func (c *Controller) Locale() dateformat.Locale { return c.locale }

// Service returns the calendar service backing the controller.
func (c *Controller) Service() *calendar.Service { return c.svc }

// WeekStart returns the weekday of the first grid column.
func (c *Controller) WeekStart() time.Weekday { return c.weekStart }

// Shown returns the displayed month.
func (c *Controller) Shown() calendar.YearMonth { return c.shown }

// Selected returns the selected date, which may lie outside the shown month.
func (c *Controller) Selected() calendar.Date { return c.selected }

// Grid returns the grid of the shown month.
func (c *Controller) Grid() calendar.MonthGrid { return c.grid }

// Years returns the selectable years, newest first.
func (c *Controller) Years() []int {
	years := make([]int, 0, c.cfg.MaxYear-c.cfg.MinYear+1)
	for y := c.cfg.MaxYear; y >= c.cfg.MinYear; y-- {
		years = append(years, y)
	}
	return years
}

// Months returns the localized month names for a month list.
func (c *Controller) Months() []string {
	return dateformat.MonthNames(c.locale)
}

// WeekdayHeaders returns abbreviated weekday names aligned with the grid
// columns.
func (c *Controller) WeekdayHeaders() []string {
	return dateformat.WeekdayNamesFrom(c.locale, c.weekStart, true)
}

// Title returns the shown month rendered as MonthAndYear.
func (c *Controller) Title() string {
	first := calendar.MustDate(c.shown.Year, c.shown.Month, 1)
	return c.formatter.FormatStyle(first, dateformat.MonthAndYear)
}

// SetYear shows the same month of year.
func (c *Controller) SetYear(year int) error {
	return c.show(calendar.YearMonth{Year: year, Month: c.shown.Month})
}

// SetMonth shows month of the current year.
func (c *Controller) SetMonth(month int) error {
	if _, err := calendar.DaysInMonth(c.shown.Year, month); err != nil {
		return err
	}
	return c.show(calendar.YearMonth{Year: c.shown.Year, Month: month})
}

// Show displays ym.
func (c *Controller) Show(ym calendar.YearMonth) error {
	if _, err := ym.Days(); err != nil {
		return err
	}
	return c.show(ym)
}

// NextMonth moves the display forward a month.
func (c *Controller) NextMonth() error { return c.show(c.shown.Next()) }

// PreviousMonth moves the display back a month.
func (c *Controller) PreviousMonth() error { return c.show(c.shown.Previous()) }

// NextYear moves the display forward a year.
func (c *Controller) NextYear() error { return c.show(c.shown.NextYear()) }

// PreviousYear moves the display back a year.
func (c *Controller) PreviousYear() error { return c.show(c.shown.PreviousYear()) }

// Now returns today's date according to the controller clock.
func (c *Controller) Now() calendar.Date { return calendar.FromTime(c.now()) }

// Today shows the current month.
func (c *Controller) Today() error {
	return c.show(calendar.Of(c.Now()))
}

// Click selects day of the shown month.
func (c *Controller) Click(day int) error {
	grid, err := c.svc.SelectDay(c.grid, day)
	if err != nil {
		return err
	}
	c.grid = grid
	return nil
}

// Bind attaches a display that renders the selection in style. The display
// receives the current selection immediately.
func (c *Controller) Bind(style dateformat.Style, d Display) {
	c.bind(dateformat.NewFormatter(c.locale, style), d)
}

// BindDefault attaches a display using the configured style, or the
// configured pattern when one is set.
func (c *Controller) BindDefault(d Display) {
	c.bind(c.formatter, d)
}

func (c *Controller) bind(f dateformat.Formatter, d Display) {
	c.bindings = append(c.bindings, binding{format: f, display: d})
	d.SetText(f.Format(c.selected))
}

// SelectedText renders the selected date in style.
func (c *Controller) SelectedText(style dateformat.Style) string {
	return c.formatter.FormatStyle(c.selected, style)
}

func (c *Controller) selectionChanged(d calendar.Date) {
	c.selected = d
	c.logger.Debug("date selected", "date", d.String())
	for _, b := range c.bindings {
		b.display.SetText(b.format.Format(d))
	}
	for _, fn := range c.onSelect {
		fn(d)
	}
}

func (c *Controller) inRange(year int) bool {
	return year >= c.cfg.MinYear && year <= c.cfg.MaxYear
}

func (c *Controller) show(ym calendar.YearMonth) error {
	if !c.inRange(ym.Year) {
		return fmt.Errorf("%w: %d not in %d..%d", ErrYearOutOfRange, ym.Year, c.cfg.MinYear, c.cfg.MaxYear)
	}
	prev := c.shown
	c.shown = ym
	if err := c.rebuild(); err != nil {
		c.shown = prev
		return err
	}
	return nil
}

func (c *Controller) rebuild() error {
	grid, err := c.svc.Build(c.shown.Year, c.shown.Month, c.selected)
	if err != nil {
		return err
	}
	c.grid = grid
	return nil
}
