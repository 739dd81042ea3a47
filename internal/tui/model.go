package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lululau/gridcal/internal/calendar"
	"github.com/lululau/gridcal/internal/dateformat"
	"github.com/lululau/gridcal/internal/picker"
	"github.com/lululau/gridcal/internal/render"
)

var (
	noColorMode bool // Global flag to disable all color output
)

// SetNoColor sets the global no-color flag
func SetNoColor(disable bool) {
	noColorMode = disable
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	pickedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#34D399"))
)

type inputMode int

const (
	inputNone inputMode = iota
	inputYear
	inputMonth
)

// Options tunes the interactive view.
type Options struct {
	// Style is the initial preview style, cycled with "s".
	Style dateformat.Style
	// Legend shows the holiday color legend under the grid.
	Legend bool
	// Notice is an extra dimmed line, e.g. a hint about missing holiday data.
	Notice string
}

// Run starts the interactive Bubble Tea UI on c.
func Run(c *picker.Controller, opts Options) error {
	m := newModel(c, opts)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err := prog.Run()
	return err
}

// pickedLine is bound to the controller and keeps the last pushed text.
type pickedLine struct {
	text string
}

func (p *pickedLine) SetText(text string) { p.text = text }

type model struct {
	c         *picker.Controller
	opts      Options
	style     dateformat.Style
	picked    *pickedLine
	width     int
	inputMode inputMode
	input     textinput.Model
	statusMsg string
}

func newModel(c *picker.Controller, opts Options) model {
	ti := textinput.New()
	ti.CharLimit = 16
	ti.Prompt = "> "

	picked := &pickedLine{}
	c.BindDefault(picked)
	return model{
		c:      c,
		opts:   opts,
		style:  opts.Style,
		picked: picked,
		input:  ti,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		if m.inputMode != inputNone {
			return m.handleInputKey(msg)
		}
		var err error
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "left", "h":
			err = m.moveSelection(-1)
		case "right", "l":
			err = m.moveSelection(1)
		case "up", "k":
			err = m.moveSelection(-calendar.Columns)
		case "down", "j":
			err = m.moveSelection(calendar.Columns)
		case "[":
			err = m.c.PreviousMonth()
		case "]":
			err = m.c.NextMonth()
		case "{":
			err = m.c.PreviousYear()
		case "}":
			err = m.c.NextYear()
		case ".":
			err = m.c.Today()
		case "s":
			m.style = m.style.Next()
		case "y":
			m.activateInput(inputYear, strconv.Itoa(m.c.Shown().Year))
			return m, nil
		case "m":
			m.activateInput(inputMonth, strconv.Itoa(m.c.Shown().Month))
			return m, nil
		default:
			return m, nil
		}
		m.setStatus(err)
	}
	return m, nil
}

// moveSelection selects the day delta days away from the current anchor,
// switching months when the target falls outside the shown one. The anchor
// is the selected day when it is visible, day 1 of the shown month otherwise.
func (m *model) moveSelection(delta int) error {
	shown := m.c.Shown()
	anchor := m.c.Selected()
	if calendar.Of(anchor) != shown {
		anchor = calendar.MustDate(shown.Year, shown.Month, 1)
		delta = 0
	}
	target := calendar.FromTime(anchor.Time().AddDate(0, 0, delta))
	if ym := calendar.Of(target); ym != shown {
		if err := m.c.Show(ym); err != nil {
			return err
		}
	}
	return m.c.Click(target.Day())
}

func (m *model) setStatus(err error) {
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.statusMsg = ""
}

func (m model) View() string {
	if m.inputMode != inputNone {
		return m.inputView()
	}

	body, err := m.renderCalendar()
	status := m.statusMsg
	if err != nil {
		status = err.Error()
	}

	sb := strings.Builder{}
	sb.WriteString(body)
	sb.WriteString("\n\n")
	sb.WriteString(m.paint(pickedStyle, m.picked.text))
	sb.WriteString("\n")
	sb.WriteString(m.style.String() + ": " + m.c.SelectedText(m.style))
	if m.opts.Legend {
		sb.WriteString("\n")
		sb.WriteString(render.ColorLegend())
	}
	sb.WriteString("\n\n")
	sb.WriteString(render.HelpLine())
	if status != "" {
		sb.WriteString("\n")
		sb.WriteString(m.paint(statusStyle, status))
	}
	if m.opts.Notice != "" {
		sb.WriteString("\n\n")
		sb.WriteString(m.paint(noticeStyle, m.opts.Notice))
	}
	return sb.String()
}

func (m model) paint(style lipgloss.Style, s string) string {
	if noColorMode {
		return s
	}
	return style.Render(s)
}

func (m model) renderCalendar() (string, error) {
	view := render.NewMonthView(m.c.Grid(), m.c.Locale(), m.c.Now())
	blocks, err := render.BuildBlocks([]render.MonthView{view})
	if err != nil {
		return "", err
	}
	width := m.width
	if width <= 0 {
		width = 100
	}
	return render.Layout(blocks, width), nil
}

func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode = inputNone
		m.statusMsg = ""
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.applyInput()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) activateInput(mode inputMode, placeholder string) {
	m.inputMode = mode
	m.input.SetValue("")
	m.input.Placeholder = placeholder
	m.input.CursorEnd()
	m.input.Focus()
	m.statusMsg = ""
}

// applyInput leaves input mode only when the value was accepted.
func (m *model) applyInput() {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		m.statusMsg = "enter a number"
		return
	}
	switch m.inputMode {
	case inputYear:
		fields := strings.Fields(value)
		if len(fields) > 2 {
			m.statusMsg = "expected: year or year month"
			return
		}
		year, err := strconv.Atoi(fields[0])
		if err != nil {
			m.statusMsg = "invalid year"
			return
		}
		ym := calendar.YearMonth{Year: year, Month: m.c.Shown().Month}
		if len(fields) == 2 {
			month, err := strconv.Atoi(fields[1])
			if err != nil {
				m.statusMsg = "invalid month"
				return
			}
			ym.Month = month
		}
		if err := m.c.Show(ym); err != nil {
			m.statusMsg = err.Error()
			return
		}
	case inputMonth:
		num, err := strconv.Atoi(value)
		if err != nil {
			m.statusMsg = "invalid month"
			return
		}
		if err := m.c.SetMonth(num); err != nil {
			m.statusMsg = err.Error()
			return
		}
	}
	m.statusMsg = ""
	m.inputMode = inputNone
	m.input.Blur()
}

func (m model) inputView() string {
	var label string
	switch m.inputMode {
	case inputYear:
		label = "Year, optionally followed by month (enter to confirm / esc to cancel)"
	case inputMonth:
		label = "Month 1-12 (enter to confirm / esc to cancel)"
	default:
		return ""
	}
	if noColorMode {
		return label + "\n\n" + m.input.View()
	}
	return lipgloss.NewStyle().
		Bold(true).
		Render(label) + "\n\n" + m.input.View()
}
