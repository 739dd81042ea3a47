package calendar

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var dateOpt = cmp.AllowUnexported(Date{})

func countKinds(g MonthGrid) (days, fillers, selected int) {
	for _, c := range g.Cells() {
		if c.IsDay() {
			days++
		} else {
			fillers++
		}
		if c.Selected {
			selected++
		}
	}
	return
}

func leadingFillers(g MonthGrid) int {
	n := 0
	for _, c := range g.Cells() {
		if c.IsDay() {
			break
		}
		n++
	}
	return n
}

func TestBuildAlwaysFortyTwoCells(t *testing.T) {
	svc := NewService()
	for year := 1899; year <= 2101; year++ {
		for month := 1; month <= 12; month++ {
			g, err := svc.Month(year, month)
			if err != nil {
				t.Fatalf("Build(%d, %d): %v", year, month, err)
			}
			want, _ := DaysInMonth(year, month)
			days, fillers, selected := countKinds(g)
			if days+fillers != GridCells {
				t.Fatalf("%d-%02d: %d cells, want %d", year, month, days+fillers, GridCells)
			}
			if days != want {
				t.Fatalf("%d-%02d: %d day cells, want %d", year, month, days, want)
			}
			if selected != 0 {
				t.Fatalf("%d-%02d: %d selected cells without a selection", year, month, selected)
			}
		}
	}
}

func TestBuildDayCellsAreContiguous(t *testing.T) {
	g, err := NewService().Month(2024, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range g.Cells() {
		inMonth := i >= g.Leading() && i < g.Leading()+g.DayCount()
		if inMonth != c.IsDay() {
			t.Fatalf("cell %d: kind %v, in month %v", i, c.Kind, inMonth)
		}
		if c.IsDay() && c.Date.Day() != i-g.Leading()+1 {
			t.Fatalf("cell %d holds day %d", i, c.Date.Day())
		}
		if !c.IsDay() && !c.Date.IsZero() {
			t.Fatalf("filler %d carries date %v", i, c.Date)
		}
	}
}

func TestBuildAlignment(t *testing.T) {
	tests := []struct {
		year, month int
		weekStart   time.Weekday
		want        int
	}{
		{2024, 1, time.Sunday, 1},    // Monday
		{2024, 1, time.Monday, 0},    // Monday
		{2024, 2, time.Sunday, 4},    // Thursday
		{2024, 2, time.Monday, 3},    // Thursday
		{2023, 10, time.Sunday, 0},   // Sunday
		{2023, 10, time.Monday, 6},   // Sunday
		{2025, 11, time.Sunday, 6},   // Saturday
		{2025, 11, time.Saturday, 0}, // Saturday
		{1970, 1, time.Sunday, 4},    // Thursday
	}
	for _, tt := range tests {
		svc := NewService(WithWeekStart(tt.weekStart))
		g, err := svc.Month(tt.year, tt.month)
		if err != nil {
			t.Fatal(err)
		}
		if got := leadingFillers(g); got != tt.want {
			t.Errorf("%d-%02d week start %v: %d leading fillers, want %d", tt.year, tt.month, tt.weekStart, got, tt.want)
		}
		if g.Leading() != tt.want {
			t.Errorf("%d-%02d week start %v: Leading()=%d, want %d", tt.year, tt.month, tt.weekStart, g.Leading(), tt.want)
		}
	}
}

func TestBuildFebruary2015FillsFourRows(t *testing.T) {
	g, err := NewService().Month(2015, 2)
	if err != nil {
		t.Fatal(err)
	}
	weeks := g.Weeks()
	for col := 0; col < Columns; col++ {
		if weeks[0][col].Date.Day() != col+1 {
			t.Fatalf("first row col %d = %v", col, weeks[0][col].Date)
		}
		if weeks[4][col].IsDay() || weeks[5][col].IsDay() {
			t.Fatalf("rows 5 and 6 should be filler")
		}
	}
}

func TestBuildSelection(t *testing.T) {
	svc := NewService()
	sel := MustDate(2024, 3, 15)

	g, err := svc.Build(2024, 3, sel)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := g.Selected()
	if !ok || got != sel {
		t.Fatalf("Selected() = %v, %v; want %v", got, ok, sel)
	}
	if _, _, n := countKinds(g); n != 1 {
		t.Fatalf("%d selected cells, want 1", n)
	}

	for _, other := range []YearMonth{{2024, 4}, {2023, 3}} {
		g, err := svc.Build(other.Year, other.Month, sel)
		if err != nil {
			t.Fatal(err)
		}
		if _, _, n := countKinds(g); n != 0 {
			t.Fatalf("%v: %d selected cells for a date in another month", other, n)
		}
	}
}

func TestBuildInvalidMonth(t *testing.T) {
	svc := NewService()
	for _, m := range []int{0, 13, -1} {
		if _, err := svc.Month(2024, m); !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("Build(2024, %d) error = %v, want ErrInvalidMonth", m, err)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	svc := NewService(WithWeekStart(time.Monday))
	sel := MustDate(2026, 8, 31)
	a, _ := svc.Build(2026, 8, sel)
	b, _ := svc.Build(2026, 8, sel)
	if diff := cmp.Diff(a.Cells(), b.Cells(), dateOpt); diff != "" {
		t.Fatalf("grids differ (-a +b):\n%s", diff)
	}
	if a != b {
		t.Fatalf("grids compare unequal")
	}
}

func TestSelectDay(t *testing.T) {
	svc := NewService()
	g, _ := svc.Build(2024, 1, MustDate(2024, 1, 3))

	for _, d := range []int{1, 17, 31} {
		next, err := svc.SelectDay(g, d)
		if err != nil {
			t.Fatalf("SelectDay(%d): %v", d, err)
		}
		if _, _, n := countKinds(next); n != 1 {
			t.Fatalf("SelectDay(%d): %d selected cells", d, n)
		}
		got, _ := next.Selected()
		if got.Day() != d {
			t.Fatalf("SelectDay(%d) selected %v", d, got)
		}
		if !next.IsSelected(d) {
			t.Fatalf("IsSelected(%d) = false", d)
		}
	}
	// The input grid is not modified.
	if got, _ := g.Selected(); got.Day() != 3 {
		t.Fatalf("original grid selection changed to %v", got)
	}
}

func TestSelectDayIdempotent(t *testing.T) {
	svc := NewService()
	g, _ := svc.Month(2024, 6)
	once, err := svc.SelectDay(g, 12)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := svc.SelectDay(once, 12)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(once.Cells(), twice.Cells(), dateOpt); diff != "" {
		t.Fatalf("second SelectDay changed grid (-once +twice):\n%s", diff)
	}
}

func TestSelectDayNotFound(t *testing.T) {
	svc := NewService()
	g, _ := svc.Build(2024, 4, MustDate(2024, 4, 2))
	for _, d := range []int{0, 31, 99, -3} {
		next, err := svc.SelectDay(g, d)
		if !errors.Is(err, ErrDayNotFound) {
			t.Fatalf("SelectDay(%d) error = %v, want ErrDayNotFound", d, err)
		}
		if next != g {
			t.Fatalf("SelectDay(%d) failure altered the grid", d)
		}
	}
}

func TestSelectDayNotifiesOnChange(t *testing.T) {
	var got []Date
	svc := NewService(WithSelectionListener(SelectionFunc(func(d Date) {
		got = append(got, d)
	})))
	g, _ := svc.Month(2024, 5)

	g, _ = svc.SelectDay(g, 7)
	g, _ = svc.SelectDay(g, 7)
	g, _ = svc.SelectDay(g, 9)
	_, _ = svc.SelectDay(g, 40)

	want := []Date{MustDate(2024, 5, 7), MustDate(2024, 5, 9)}
	if diff := cmp.Diff(want, got, dateOpt); diff != "" {
		t.Fatalf("notifications (-want +got):\n%s", diff)
	}
}

type fixedAnnotator map[Date]Annotation

func (f fixedAnnotator) Annotate(d Date) Annotation { return f[d] }

func TestBuildAnnotations(t *testing.T) {
	d := MustDate(2024, 10, 1)
	svc := NewService(WithAnnotators(
		fixedAnnotator{d: {Secondary: "first"}},
		fixedAnnotator{d: {Secondary: "ignored", Holiday: "National Day"}},
	))
	g, err := svc.Month(2024, 10)
	if err != nil {
		t.Fatal(err)
	}
	got := g.Cell(g.IndexOf(1)).Annotation
	want := Annotation{Secondary: "first", Holiday: "National Day"}
	if got != want {
		t.Fatalf("annotation = %+v, want %+v", got, want)
	}
	if a := g.Cell(g.IndexOf(2)).Annotation; !a.IsZero() {
		t.Fatalf("unexpected annotation %+v", a)
	}
}

func TestServiceConcurrentUse(t *testing.T) {
	svc := NewService(WithWeekStart(time.Monday))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(month int) {
			defer wg.Done()
			g, err := svc.Month(2024, month%12+1)
			if err != nil {
				t.Error(err)
				return
			}
			if _, err := svc.SelectDay(g, 1); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()
}

func TestYearLoadsAllMonths(t *testing.T) {
	grids, err := NewService().Year(2024, Date{})
	if err != nil {
		t.Fatalf("Year returned error: %v", err)
	}
	if len(grids) != 12 {
		t.Fatalf("expected 12 months, got %d", len(grids))
	}
	for i, g := range grids {
		if g.Month() != i+1 || g.Year() != 2024 {
			t.Fatalf("grid %d is %d-%d", i, g.Year(), g.Month())
		}
	}
}
