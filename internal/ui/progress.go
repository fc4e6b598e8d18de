package ui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"frel/internal/buildpipeline"
)

// maxRows ограничивает список файлов; остальные сворачиваются в "+N more".
const maxRows = 12

type fileState uint8

const (
	stateQueued fileState = iota
	stateRunning
	stateDone
	stateFailed
)

type fileRow struct {
	path    string
	state   fileState
	stage   buildpipeline.Stage
	elapsed time.Duration
}

func (r fileRow) finished() bool { return r.state == stateDone || r.state == stateFailed }

func (r fileRow) label() string {
	switch r.state {
	case stateDone:
		return "done"
	case stateFailed:
		return "error"
	case stateRunning:
		if l, ok := stageVerbs[r.stage]; ok {
			return l
		}
		return "working"
	}
	return "queued"
}

var stageVerbs = map[buildpipeline.Stage]string{
	buildpipeline.StageLex:      "lexing",
	buildpipeline.StageParse:    "parsing",
	buildpipeline.StageValidate: "validating",
	buildpipeline.StageEncode:   "encoding",
	buildpipeline.StageWrite:    "writing",
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type progressModel struct {
	title   string
	events  <-chan buildpipeline.Event
	spin    spinner.Model
	bar     progress.Model
	rows    []fileRow
	byPath  map[string]int
	phase   string
	width   int
	started time.Time
	closed  bool
}

type progressMsg buildpipeline.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model showing per-file compile
// progress. It quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan buildpipeline.Event) tea.Model {
	spin := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(runningStyle))
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	m := &progressModel{
		title:   title,
		events:  events,
		spin:    spin,
		bar:     bar,
		rows:    make([]fileRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		started: time.Now(),
	}
	for i, f := range files {
		m.rows[i] = fileRow{path: f}
		m.byPath[f] = i
	}
	m.resize(80)
	return m
}

// Run drives the model on the terminal until events is closed.
func Run(title string, files []string, events <-chan buildpipeline.Event) error {
	_, err := tea.NewProgram(NewProgressModel(title, files, events)).Run()
	return err
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.next())
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return progressMsg(ev)
		}
		return closedMsg{}
	}
}

func (m *progressModel) resize(width int) {
	if width <= 0 {
		return
	}
	m.width = width
	m.bar.Width = max(width-4, 10)
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		return m, tea.Batch(m.apply(buildpipeline.Event(msg)), m.next())
	case closedMsg:
		m.closed = true
		return m, tea.Quit
	case tea.KeyMsg:
		// Ctrl+C только закрывает UI; сборка доживает сама.
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
	case spinner.TickMsg:
		if !m.closed {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		next, cmd := m.bar.Update(msg)
		m.bar = next.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) apply(ev buildpipeline.Event) tea.Cmd {
	if ev.File == "" {
		if ev.Status == buildpipeline.StatusWorking {
			m.phase = stageVerbs[ev.Stage]
		}
		return nil
	}
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[i]
	if row.finished() {
		return nil
	}
	switch ev.Status {
	case buildpipeline.StatusWorking:
		row.state = stateRunning
		row.stage = ev.Stage
	case buildpipeline.StatusDone:
		row.state = stateDone
	case buildpipeline.StatusError:
		row.state = stateFailed
	default:
		return nil
	}
	row.elapsed += ev.Elapsed
	return m.bar.SetPercent(m.Percent())
}

// Percent is overall completion. A running file counts by the position of
// its current stage in buildpipeline.Stages.
func (m *progressModel) Percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		switch {
		case r.finished():
			sum++
		case r.state == stateRunning:
			sum += stageWeight(r.stage)
		}
	}
	return sum / float64(len(m.rows))
}

func stageWeight(stage buildpipeline.Stage) float64 {
	i := slices.Index(buildpipeline.Stages, stage)
	if i < 0 {
		return 0
	}
	return float64(i+1) / float64(len(buildpipeline.Stages)+1)
}

func (m *progressModel) counts() (done, failed, pending int) {
	for _, r := range m.rows {
		switch r.state {
		case stateDone:
			done++
		case stateFailed:
			failed++
		default:
			pending++
		}
	}
	return
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	done, failed, pending := m.counts()

	head := m.title
	if m.phase != "" && !m.closed {
		head += " · " + m.phase
	}
	switch {
	case m.closed && failed > 0:
		head = failStyle.Render(fmt.Sprintf("failed: %s (%d of %d)", m.title, failed, len(m.rows)))
	case m.closed:
		head = doneStyle.Render("done: " + m.title)
	default:
		head = m.spin.View() + " " + headerStyle.Render(head)
	}

	var b strings.Builder
	b.WriteString(head)
	b.WriteString("\n\n")

	nameWidth := max(m.width-20, 20)
	for _, r := range m.visibleRows() {
		fmt.Fprintf(&b, "  %s %s", rowStyle(r.state).Render(fmt.Sprintf("%-10s", r.label())), truncate(r.path, nameWidth))
		if r.finished() && r.elapsed > 0 {
			b.WriteString(mutedStyle.Render(fmt.Sprintf(" %s", r.elapsed.Round(time.Millisecond))))
		}
		b.WriteByte('\n')
	}
	if hidden := len(m.rows) - maxRows; hidden > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  +%d more", hidden)))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.closed {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d done, %d failed, %d pending, %s",
		done, failed, pending, time.Since(m.started).Round(10*time.Millisecond))))
	b.WriteByte('\n')
	return b.String()
}

// visibleRows keeps running and failed files on screen first, then the rest
// in input order.
func (m *progressModel) visibleRows() []fileRow {
	if len(m.rows) <= maxRows {
		return m.rows
	}
	out := make([]fileRow, 0, maxRows)
	for _, pick := range []func(fileRow) bool{
		func(r fileRow) bool { return r.state == stateRunning || r.state == stateFailed },
		func(r fileRow) bool { return r.state == stateQueued || r.state == stateDone },
	} {
		for _, r := range m.rows {
			if len(out) == maxRows {
				return out
			}
			if pick(r) {
				out = append(out, r)
			}
		}
	}
	return out
}

func rowStyle(s fileState) lipgloss.Style {
	switch s {
	case stateDone:
		return doneStyle
	case stateFailed:
		return failStyle
	case stateRunning:
		return runningStyle
	}
	return mutedStyle
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
