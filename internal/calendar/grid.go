package calendar

import "time"

// Grid dimensions of a month view.
const (
	Rows      = 6
	Columns   = 7
	GridCells = Rows * Columns
)

// CellKind distinguishes real days from padding.
type CellKind int

const (
	// KindFiller is a non-interactive placeholder before day 1 or after the
	// last day of the month.
	KindFiller CellKind = iota
	// KindDay is a day of the displayed month.
	KindDay
)

func (k CellKind) String() string {
	if k == KindDay {
		return "day"
	}
	return "filler"
}

// Annotation carries optional decorations for a day cell. The zero value
// means no annotation.
type Annotation struct {
	// Secondary is a short label rendered beneath the day number, such as a
	// lunar day alias or a solar term.
	Secondary string
	// Holiday names the public holiday or make-up workday covering the day.
	Holiday string
	// Workday is set when Holiday names a make-up working day rather than a
	// day off.
	Workday bool
}

// IsZero reports whether a carries no decoration.
func (a Annotation) IsZero() bool {
	return a == Annotation{}
}

// merge fills fields of a that are empty from b.
func (a Annotation) merge(b Annotation) Annotation {
	if a.Secondary == "" {
		a.Secondary = b.Secondary
	}
	if a.Holiday == "" {
		a.Holiday = b.Holiday
		a.Workday = b.Workday
	}
	return a
}

// Cell is one position of a MonthGrid.
type Cell struct {
	Kind       CellKind
	Date       Date
	Selected   bool
	Annotation Annotation
}

// IsDay reports whether c is a day cell.
func (c Cell) IsDay() bool {
	return c.Kind == KindDay
}

// MonthGrid is the 6x7 cell layout of a month. It is a value: operations that
// change selection return a new grid.
type MonthGrid struct {
	year      int
	month     int
	weekStart time.Weekday
	leading   int
	days      int
	cells     [GridCells]Cell
}

func (g MonthGrid) Year() int { return g.year }
func (g MonthGrid) Month() int { return g.month }
func (g MonthGrid) WeekStart() time.Weekday { return g.weekStart }
func (g MonthGrid) Leading() int { return g.leading }
func (g MonthGrid) DayCount() int { return g.days }
func (g MonthGrid) Cell(i int) Cell { return g.cells[i] }
func (g MonthGrid) Cells() [GridCells]Cell { return g.cells }

// Weeks returns the cells split into rows of seven.
func (g MonthGrid) Weeks() [Rows][Columns]Cell {
	var out [Rows][Columns]Cell
	for i, c := range g.cells {
		out[i/Columns][i%Columns] = c
	}
	return out
}

// Selected returns the selected date, if any cell is selected.
func (g MonthGrid) Selected() (Date, bool) {
	for _, c := range g.cells {
		if c.Selected {
			return c.Date, true
		}
	}
	return Date{}, false
}

// IndexOf returns the cell index holding day, or -1.
func (g MonthGrid) IndexOf(day int) int {
	if day < 1 || day > g.days {
		return -1
	}
	return g.leading + day - 1
}

// IsSelected reports whether day is the selected day of g.
func (g MonthGrid) IsSelected(day int) bool {
	i := g.IndexOf(day)
	return i >= 0 && g.cells[i].Selected
}
