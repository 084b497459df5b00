// Package ui renders pipeline progress in the terminal.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"letc/internal/buildpipeline"
)

// stageInfo is how a working stage is shown: its verb, the share of a file
// it stands for on the bar, and its color.
type stageInfo struct {
	label    string
	fraction float64
	color    lipgloss.Color
}

var stages = map[buildpipeline.Stage]stageInfo{
	buildpipeline.StageParse:   {"parsing", 0.2, "6"},
	buildpipeline.StageResolve: {"resolving", 0.5, "6"},
	buildpipeline.StageFlatten: {"flattening", 0.8, "4"},
	buildpipeline.StageEmit:    {"emitting", 0.95, "5"},
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	queuedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	elapsedStyle = lipgloss.NewStyle().Faint(true)
)

const statusWidth = 12

type progressModel struct {
	title      string
	events     <-chan buildpipeline.Event
	spinner    spinner.Model
	prog       progress.Model
	items      []fileItem
	index      map[string]int
	stageLabel string
	width      int
	done       bool
	failed     bool
}

type fileItem struct {
	path    string
	status  string
	stage   buildpipeline.Stage
	elapsed time.Duration
}

type eventMsg buildpipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model showing one line per file.
// It quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		items:   make([]fileItem, len(files)),
		index:   make(map[string]int, len(files)),
		width:   80,
	}
	for i, file := range files {
		m.items[i] = fileItem{path: file, status: string(buildpipeline.StatusQueued), stage: buildpipeline.StageParse}
		m.index[file] = i
	}
	return m
}

// RunProgress shows the model on out until events is closed.
func RunProgress(out io.Writer, title string, files []string, events <-chan buildpipeline.Event) error {
	_, err := tea.NewProgram(NewProgressModel(title, files, events), tea.WithOutput(out)).Run()
	return err
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(buildpipeline.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		model, cmd := m.prog.Update(msg)
		m.prog = model.(progress.Model)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	header := m.title
	if m.stageLabel != "" {
		header += " (" + m.stageLabel + ")"
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")
	nameWidth := max(m.width-statusWidth-14, 20)
	for _, item := range m.items {
		status := item.style().Render(fmt.Sprintf("%*s", statusWidth, item.status))
		fmt.Fprintf(&b, "  %s %s", status, truncate(item.path, nameWidth))
		if item.elapsed > 0 {
			b.WriteString(elapsedStyle.Render(fmt.Sprintf("  %.1fms", float64(item.elapsed)/float64(time.Millisecond))))
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.prog.ViewAs(1))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteByte('\n')
	return b.String()
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev buildpipeline.Event) tea.Cmd {
	label := statusLabel(ev)
	if ev.File == "" {
		if label != "" {
			m.stageLabel = label
		}
		m.failed = m.failed || ev.Status == buildpipeline.StatusError
		return nil
	}
	idx, ok := m.index[ev.File]
	if !ok || label == "" {
		return nil
	}
	item := &m.items[idx]
	item.status = label
	item.stage = ev.Stage
	if ev.Elapsed > 0 {
		item.elapsed = ev.Elapsed
	}
	return m.prog.SetPercent(m.percent())
}

// percent counts finished files as whole and working ones by the share of
// their current stage.
func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	var total float64
	for _, item := range m.items {
		switch item.status {
		case string(buildpipeline.StatusDone), string(buildpipeline.StatusError):
			total++
		case string(buildpipeline.StatusQueued):
		default:
			total += stages[item.stage].fraction
		}
	}
	return total / float64(len(m.items))
}

func statusLabel(ev buildpipeline.Event) string {
	if ev.Status == buildpipeline.StatusWorking {
		return stages[ev.Stage].label
	}
	return string(ev.Status)
}

func (item fileItem) style() lipgloss.Style {
	switch item.status {
	case string(buildpipeline.StatusDone):
		return doneStyle
	case string(buildpipeline.StatusError):
		return errorStyle
	case string(buildpipeline.StatusQueued):
		return queuedStyle
	default:
		return lipgloss.NewStyle().Foreground(stages[item.stage].color)
	}
}

// truncate shortens value to width terminal cells, marking the cut with
// "..." when there is room for it.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
