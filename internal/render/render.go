package render

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/lululau/gridcal/internal/calendar"
	"github.com/lululau/gridcal/internal/dateformat"
	"github.com/lululau/gridcal/internal/textwidth"
)

const (
	cellPadding = 1
	// blockGap separates month blocks laid out side by side.
	blockGap = 2
)

var (
	noColorMode bool // Global flag to disable all color output
)

// SetNoColor sets the global no-color flag
func SetNoColor(disable bool) {
	noColorMode = disable
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FEC260"))
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A5B4FC"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	legendStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	selectedStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FEC260"))
	tableWrapperStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#475569")).
				Padding(0, 1)
)

// Truecolor sequences applied after table layout so bubbles/table measures
// plain text.
const (
	holidayColor = "\x1b[38;2;59;130;246m" // blue
	workdayColor = "\x1b[38;2;249;115;22m" // orange
	todayColor   = "\x1b[38;2;52;211;153m" // green
	colorEnd     = "\x1b[0m"
)

// MonthView is a grid plus the localized text needed to draw it.
type MonthView struct {
	Title   string
	Headers []string
	Grid    calendar.MonthGrid
	Today   calendar.Date
}

// NewMonthView labels grid for loc. Headers are rotated to the grid's week
// start so column i carries the weekday of leading-filler count i.
func NewMonthView(grid calendar.MonthGrid, loc dateformat.Locale, today calendar.Date) MonthView {
	first := calendar.MustDate(grid.Year(), grid.Month(), 1)
	return MonthView{
		Title:   dateformat.Format(first, loc, dateformat.MonthAndYear),
		Headers: dateformat.WeekdayNamesFrom(loc, grid.WeekStart(), true),
		Grid:    grid,
		Today:   today,
	}
}

// MonthBlock packages rendered lines with their visual width/height.
type MonthBlock struct {
	Lines  []string
	Width  int
	Height int
}

// BuildBlocks converts month views into renderable blocks.
func BuildBlocks(views []MonthView) ([]MonthBlock, error) {
	blocks := make([]MonthBlock, len(views))
	for i, view := range views {
		block, err := buildMonthBlock(view)
		if err != nil {
			return nil, err
		}
		blocks[i] = block
	}
	return blocks, nil
}

// Layout places blocks left to right, wrapping when the next block would
// exceed width. Blocks on one row are top aligned.
func Layout(blocks []MonthBlock, width int) string {
	if len(blocks) == 0 {
		return ""
	}
	perRow := 1
	if bw := blocks[0].Width; bw > 0 && width > bw {
		perRow = (width + blockGap) / (bw + blockGap)
	}
	var lines []string
	for start := 0; start < len(blocks); start += perRow {
		end := min(start+perRow, len(blocks))
		row := blocks[start:end]
		height := 0
		for _, b := range row {
			height = max(height, b.Height)
		}
		if start > 0 {
			lines = append(lines, "")
		}
		for i := 0; i < height; i++ {
			var sb strings.Builder
			for j, b := range row {
				var line string
				if i < len(b.Lines) {
					line = b.Lines[i]
				}
				if j == len(row)-1 {
					sb.WriteString(line)
					continue
				}
				sb.WriteString(textwidth.PadRight(line, b.Width))
				sb.WriteString(strings.Repeat(" ", blockGap))
			}
			lines = append(lines, strings.TrimRight(sb.String(), " "))
		}
	}
	return strings.Join(lines, "\n")
}

// hasAnnotations reports whether any day cell carries a label worth a
// second text row.
func hasAnnotations(g calendar.MonthGrid) bool {
	for _, c := range g.Cells() {
		if c.Annotation.Secondary != "" || c.Annotation.Holiday != "" {
			return true
		}
	}
	return false
}

func buildMonthBlock(view MonthView) (MonthBlock, error) {
	if len(view.Headers) != calendar.Columns {
		return MonthBlock{}, fmt.Errorf("need %d weekday headers, got %d", calendar.Columns, len(view.Headers))
	}
	colWidth := determineColumnWidth(view) + cellPadding*2
	columns := make([]table.Column, calendar.Columns)
	for i, title := range view.Headers {
		columns[i] = table.Column{
			Title: title,
			Width: colWidth,
		}
	}

	annotated := hasAnnotations(view.Grid)
	weeks := view.Grid.Weeks()
	rows := make([]table.Row, 0, len(weeks)*3+1)
	rows = append(rows, blankRow(calendar.Columns))
	for weekIdx, week := range weeks {
		dayRow := make(table.Row, len(week))
		labelRow := make(table.Row, len(week))
		for idx, cell := range week {
			dayRow[idx] = renderDayCell(cell)
			labelRow[idx] = renderLabelCell(cell)
		}
		rows = append(rows, dayRow)
		if annotated {
			rows = append(rows, labelRow)
		}
		if annotated && weekIdx != len(weeks)-1 {
			rows = append(rows, blankRow(len(week)))
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+2),
	)
	t.SetStyles(tableStyles())
	t.Blur()

	var tableView string
	if noColorMode {
		tableView = strings.TrimRight(t.View(), "\n")
	} else {
		tableView = tableWrapperStyle.Render(strings.TrimRight(t.View(), "\n"))
	}

	// Colors are applied after rendering to avoid width calculation issues.
	tableView = applyColors(tableView, collectHighlights(view))

	width := textwidth.StringWidth(tableView)
	title := strings.TrimRight(textwidth.Center(view.Title, width), " ")
	if !noColorMode {
		title = titleStyle.Render(title)
	}
	lines := append([]string{title, ""}, strings.Split(tableView, "\n")...)
	width = max(width, textwidth.StringWidth(title))

	return MonthBlock{
		Lines:  lines,
		Width:  width,
		Height: len(lines),
	}, nil
}

func determineColumnWidth(view MonthView) int {
	width := 4
	for _, h := range view.Headers {
		width = max(width, textwidth.StringWidth(h))
	}
	for _, c := range view.Grid.Cells() {
		width = max(width, textwidth.StringWidth(renderDayCell(c)))
		width = max(width, textwidth.StringWidth(renderLabelCell(c)))
	}
	return width
}

// renderDayCell brackets the selected day so it stays visible without color.
func renderDayCell(c calendar.Cell) string {
	if !c.IsDay() {
		return ""
	}
	if c.Selected {
		return fmt.Sprintf("[%d]", c.Date.Day())
	}
	return textwidth.PadLeft(strconv.Itoa(c.Date.Day()), 2)
}

func renderLabelCell(c calendar.Cell) string {
	if !c.IsDay() {
		return ""
	}
	if c.Annotation.Holiday != "" {
		return c.Annotation.Holiday
	}
	return c.Annotation.Secondary
}

func blankRow(cols int) table.Row {
	row := make(table.Row, cols)
	for i := range row {
		row[i] = ""
	}
	return row
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	if noColorMode {
		styles.Header = lipgloss.NewStyle().Padding(0, 1)
	} else {
		styles.Header = headerStyle.Copy().Padding(0, 1)
	}
	styles.Selected = lipgloss.NewStyle()
	styles.Cell = lipgloss.NewStyle().Padding(0, cellPadding)
	return styles
}

// highlight is a day number that needs coloring.
type highlight struct {
	day      int
	color    string
	selected bool
}

// collectHighlights picks a color per day. Priority: holiday/workday colors
// over today's green. The selected day is emboldened on top.
func collectHighlights(view MonthView) []highlight {
	var out []highlight
	for _, c := range view.Grid.Cells() {
		if !c.IsDay() {
			continue
		}
		h := highlight{day: c.Date.Day(), selected: c.Selected}
		switch {
		case c.Annotation.Holiday != "" && c.Annotation.Workday:
			h.color = workdayColor
		case c.Annotation.Holiday != "":
			h.color = holidayColor
		case c.Date == view.Today:
			h.color = todayColor
		}
		if h.color != "" || h.selected {
			out = append(out, h)
		}
	}
	// Two digit numbers first so "1" never matches inside "11".
	sort.Slice(out, func(i, j int) bool { return out[i].day > out[j].day })
	return out
}

// applyColors adds colors to day numbers in the rendered table.
func applyColors(output string, highlights []highlight) string {
	if noColorMode {
		return output
	}
	for _, h := range highlights {
		dayStr := fmt.Sprintf("%d", h.day)
		if h.selected {
			marker := "[" + dayStr + "]"
			styled := selectedStyle.Render(marker)
			if h.color != "" {
				styled = h.color + marker + colorEnd
			}
			output = strings.Replace(output, marker, styled, 1)
			continue
		}
		// Single digits need a leading space so they do not match part of a
		// two digit number.
		var pattern string
		if h.day < 10 {
			pattern = fmt.Sprintf(`(\s+)%s(\s+|│)`, regexp.QuoteMeta(dayStr))
		} else {
			pattern = fmt.Sprintf(`(\s|│)%s(\s+|│)`, regexp.QuoteMeta(dayStr))
		}
		re := regexp.MustCompile(pattern)
		replaced := false
		output = re.ReplaceAllStringFunc(output, func(m string) string {
			if replaced {
				return m
			}
			replaced = true
			sub := re.FindStringSubmatch(m)
			return sub[1] + h.color + dayStr + colorEnd + sub[2]
		})
	}
	return output
}

// HelpLine describes the interactive key bindings.
func HelpLine() string {
	helpText := "←/→/↑/↓ select  ]/[ month  }/{ year  . today  y year  m month  s style  q quit"
	if noColorMode {
		return helpText
	}
	return helpStyle.Render(helpText)
}

// ColorLegend explains the color coding for holidays.
func ColorLegend() string {
	legend := "blue=holiday  orange=make-up workday  green=today"
	if noColorMode {
		return legend
	}
	return legendStyle.Render(legend)
}
