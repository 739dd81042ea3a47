package calendar

import (
	"fmt"
	"log/slog"
	"time"
)

// SelectionListener is notified when SelectDay moves the selection.
type SelectionListener interface {
	SelectionChanged(d Date)
}

// SelectionFunc adapts a function to SelectionListener.
type SelectionFunc func(d Date)

// SelectionChanged implements SelectionListener.
func (f SelectionFunc) SelectionChanged(d Date) { f(d) }

// Annotator supplies decorations for day cells. Implementations must be safe
// for concurrent use.
type Annotator interface {
	Annotate(d Date) Annotation
}

// Service lays out month grids. A Service is immutable once constructed and
// may be shared between goroutines.
type Service struct {
	weekStart  time.Weekday
	listeners  []SelectionListener
	annotators []Annotator
	logger     *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithWeekStart sets the weekday occupying the first grid column.
func WithWeekStart(day time.Weekday) Option {
	return func(s *Service) {
		if day >= time.Sunday && day <= time.Saturday {
			s.weekStart = day
		}
	}
}

// WithSelectionListener registers listeners for selection changes.
func WithSelectionListener(l ...SelectionListener) Option {
	return func(s *Service) {
		s.listeners = append(s.listeners, l...)
	}
}

// WithAnnotators adds annotators consulted for every day cell, in order.
// Earlier annotators win when two provide the same field.
func WithAnnotators(a ...Annotator) Option {
	return func(s *Service) {
		s.annotators = append(s.annotators, a...)
	}
}

// WithLogger sets the logger, slog.Default() otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService constructs a Service.
func NewService(opts ...Option) *Service {
	s := &Service{
		weekStart: time.Sunday,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WeekStart returns the configured first column weekday.
func (s *Service) WeekStart() time.Weekday {
	return s.weekStart
}

// Build lays out month of year. A non-zero selected date marks its cell
// when it falls within that month; otherwise no cell is selected.
func (s *Service) Build(year, month int, selected Date) (MonthGrid, error) {
	days, err := DaysInMonth(year, month)
	if err != nil {
		return MonthGrid{}, err
	}
	first := Date{year: year, month: month, day: 1}
	g := MonthGrid{
		year:      year,
		month:     month,
		weekStart: s.weekStart,
		leading:   WeekdayOffset(first, s.weekStart),
		days:      days,
	}
	// Cells outside [leading, leading+days) keep the zero Cell, a filler.
	for day := 1; day <= days; day++ {
		d := Date{year: year, month: month, day: day}
		g.cells[g.leading+day-1] = Cell{
			Kind:       KindDay,
			Date:       d,
			Selected:   selected == d,
			Annotation: s.annotate(d),
		}
	}
	return g, nil
}

// Month is Build without a selection.
func (s *Service) Month(year, month int) (MonthGrid, error) {
	return s.Build(year, month, Date{})
}

// Year builds the twelve grids of year.
func (s *Service) Year(year int, selected Date) ([]MonthGrid, error) {
	grids := make([]MonthGrid, 0, 12)
	for m := 1; m <= 12; m++ {
		g, err := s.Build(year, m, selected)
		if err != nil {
			return nil, err
		}
		grids = append(grids, g)
	}
	return grids, nil
}

// SelectDay returns a copy of grid with day selected and every other cell
// deselected. Listeners are notified only when the selection changed.
func (s *Service) SelectDay(grid MonthGrid, day int) (MonthGrid, error) {
	idx := grid.IndexOf(day)
	if idx < 0 || !grid.cells[idx].IsDay() {
		return grid, fmt.Errorf("%w: day %d in %04d-%02d", ErrDayNotFound, day, grid.year, grid.month)
	}
	changed := !grid.cells[idx].Selected
	for i := range grid.cells {
		grid.cells[i].Selected = i == idx
	}
	if changed {
		d := grid.cells[idx].Date
		s.logger.Debug("selection changed", "date", d.String())
		for _, l := range s.listeners {
			l.SelectionChanged(d)
		}
	}
	return grid, nil
}

func (s *Service) annotate(d Date) Annotation {
	var a Annotation
	for _, an := range s.annotators {
		a = a.merge(an.Annotate(d))
	}
	return a
}
