package render

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/lululau/gridcal/internal/calendar"
	"github.com/lululau/gridcal/internal/dateformat"
)

// PlainOptions controls how the non-interactive renderer behaves.
type PlainOptions struct {
	Writer   io.Writer
	Service  *calendar.Service
	Locale   dateformat.Locale
	Month    calendar.YearMonth
	Year     bool
	Selected calendar.Date
	Today    calendar.Date
	Width    int
	// Legend prints the holiday color legend below the grid.
	Legend bool
}

// RunPlain renders the requested view exactly once.
func RunPlain(opts PlainOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Service == nil {
		opts.Service = calendar.NewService(calendar.WithWeekStart(opts.Locale.FirstDayOfWeek()))
	}

	grids, err := fetchGrids(opts)
	if err != nil {
		return err
	}
	views := make([]MonthView, len(grids))
	for i, g := range grids {
		views[i] = NewMonthView(g, opts.Locale, opts.Today)
	}
	blocks, err := BuildBlocks(views)
	if err != nil {
		return err
	}
	width := opts.Width
	if width == 0 {
		width = DetectWidth()
	}
	output := Layout(blocks, width)
	if output == "" {
		return nil
	}
	if _, err := fmt.Fprintln(opts.Writer, output); err != nil {
		return err
	}
	if opts.Legend {
		_, err = fmt.Fprintln(opts.Writer, "\n"+ColorLegend())
	}
	return err
}

// DetectWidth tries to determine the terminal width, falling back to 100 cols.
func DetectWidth() int {
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) {
		if w, _, err := term.GetSize(int(fd)); err == nil {
			return w
		}
	}
	return 100
}

func fetchGrids(opts PlainOptions) ([]calendar.MonthGrid, error) {
	if opts.Year {
		return opts.Service.Year(opts.Month.Year, opts.Selected)
	}
	g, err := opts.Service.Build(opts.Month.Year, opts.Month.Month, opts.Selected)
	if err != nil {
		return nil, err
	}
	return []calendar.MonthGrid{g}, nil
}
