package holidays

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultURL serves holiday data in the format Parse reads.
const DefaultURL = "https://raw.githubusercontent.com/lululau/lucal/main/holidays.json"

// progressInterval throttles progress callbacks.
const progressInterval = 100 * time.Millisecond

// YearInfo summarizes the years covered by a holiday file.
type YearInfo struct {
	MinYear int
	MaxYear int
	Count   int
}

// Progress reports a running download. Total is -1 when the server did not
// send a length.
type Progress struct {
	Downloaded int64
	Total      int64
	Speed      float64 // bytes per second
}

// Percent returns the completed fraction, or 0 when Total is unknown.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(float64(p.Downloaded)/float64(p.Total), 1)
}

// Fetch downloads url to dest. The body must parse as holiday data before it
// replaces dest, so a failed download leaves an existing file untouched.
// onProgress may be nil.
func Fetch(ctx context.Context, client *http.Client, url, dest string, onProgress func(Progress)) (*YearInfo, error) {
	if client == nil {
		client = http.DefaultClient
	}
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start download: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to start download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download failed: HTTP %s", resp.Status)
	}

	tmp, err := os.CreateTemp(dir, ".holidays-*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	pw := &progressWriter{total: resp.ContentLength, start: time.Now(), report: onProgress}
	_, err = io.Copy(tmp, io.TeeReader(resp.Body, pw))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	pw.flush()

	data, err := os.ReadFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to read download: %w", err)
	}
	table, err := Parse(data)
	if err != nil {
		return nil, err
	}
	info := table.YearInfo()
	if info == nil {
		return nil, errors.New("downloaded holiday data has no years")
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return nil, fmt.Errorf("failed to save holiday data: %w", err)
	}
	return info, nil
}

type progressWriter struct {
	written atomic.Int64
	total   int64
	start   time.Time
	last    time.Time
	report  func(Progress)
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	pw.written.Add(int64(len(p)))
	if pw.report != nil && time.Since(pw.last) >= progressInterval {
		pw.last = time.Now()
		pw.report(pw.snapshot())
	}
	return len(p), nil
}

func (pw *progressWriter) flush() {
	if pw.report != nil {
		pw.report(pw.snapshot())
	}
}

func (pw *progressWriter) snapshot() Progress {
	n := pw.written.Load()
	p := Progress{Downloaded: n, Total: pw.total}
	if elapsed := time.Since(pw.start).Seconds(); elapsed > 0 {
		p.Speed = float64(n) / elapsed
	}
	return p
}

// IsCacheValid reports whether the file at path exists and was written
// within the last six months of now.
func IsCacheValid(path string, now time.Time) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.ModTime().After(now.AddDate(0, -6, 0)), nil
}

type downloadProgressMsg Progress

type downloadCompleteMsg struct {
	info *YearInfo
	err  error
}

type downloadModel struct {
	ctx        context.Context
	client     *http.Client
	url        string
	destPath   string
	state      Progress
	bar        progress.Model
	done       bool
	info       *YearInfo
	err        error
	events     chan tea.Msg
	waitingKey bool // completion shown, any key quits
}

func newDownloadModel(ctx context.Context, client *http.Client, url, destPath string) downloadModel {
	return downloadModel{
		ctx:      ctx,
		client:   client,
		url:      url,
		destPath: destPath,
		state:    Progress{Total: -1},
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(50)),
		events:   make(chan tea.Msg, 10),
	}
}

func (m downloadModel) Init() tea.Cmd {
	return tea.Batch(m.startDownload, m.listen)
}

func (m downloadModel) listen() tea.Msg {
	return <-m.events
}

func (m downloadModel) startDownload() tea.Msg {
	go func() {
		info, err := Fetch(m.ctx, m.client, m.url, m.destPath, func(p Progress) {
			select {
			case m.events <- downloadProgressMsg(p):
			default:
				// Channel is full, skip this update
			}
		})
		select {
		case m.events <- downloadCompleteMsg{info: info, err: err}:
		case <-m.ctx.Done():
		}
	}()
	return nil
}

func (m downloadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.waitingKey {
			return m, tea.Quit
		}
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.err = context.Canceled
			return m, tea.Quit
		}
	case downloadProgressMsg:
		m.state = Progress(msg)
		return m, m.listen
	case downloadCompleteMsg:
		m.done = true
		m.info = msg.info
		m.err = msg.err
		m.waitingKey = true
		return m, nil
	}
	return m, nil
}

func (m downloadModel) View() string {
	if m.done {
		if m.err != nil {
			var sb strings.Builder
			fmt.Fprintf(&sb, "Download failed\n\n%v\n\n", m.err)
			fmt.Fprintf(&sb, "You can fetch the file by hand:\n1. Download %s\n2. Save it as %s\n\n", m.url, m.destPath)
			sb.WriteString("Press any key to exit...\n")
			return sb.String()
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Download complete\n\nSaved to: %s\n", m.destPath)
		if m.info != nil {
			fmt.Fprintf(&sb, "Years: %d - %d (%d in total)\n", m.info.MinYear, m.info.MaxYear, m.info.Count)
		}
		sb.WriteString("\nPress any key to exit...\n")
		return sb.String()
	}

	info := formatBytes(m.state.Downloaded)
	if m.state.Total > 0 {
		info = fmt.Sprintf("%s / %s  %.1f%%", info, formatBytes(m.state.Total), m.state.Percent()*100)
	}
	if m.state.Speed > 0 {
		info += "  " + formatSpeed(m.state.Speed)
	}
	return fmt.Sprintf("Downloading holiday data...\n\n%s\n%s\n\nPress Ctrl+C to cancel\n", m.bar.ViewAs(m.state.Percent()), info)
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatSpeed(speed float64) string {
	return fmt.Sprintf("%s/s", formatBytes(int64(speed)))
}

// DownloadWithProgress runs Fetch behind a full-screen progress view and
// waits for a key press once it finishes.
func DownloadWithProgress(ctx context.Context, url, dest string) (*YearInfo, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p := tea.NewProgram(newDownloadModel(ctx, nil, url, dest), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m := final.(downloadModel)
	if !m.done && m.err == nil {
		return nil, context.Canceled
	}
	return m.info, m.err
}
