package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"srccheck/internal/checker"
)

// maxRows bounds the file list; finished files scroll off first.
const maxRows = 12

type progressModel struct {
	title      string
	events     <-chan checker.Event
	spinner    spinner.Model
	prog       progress.Model
	items      []fileItem
	index      map[string]int
	stageLabel string
	finished   int
	violations int
	cached     int
	tick       int
	width      int
	done       bool
}

type fileItem struct {
	path       string
	status     checker.Status
	violations int
	cached     bool
	seq        int // order of the last status change
}

type eventMsg checker.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders scan progress.
// Files missing from files are added when their queued event arrives.
// The model quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan checker.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items = append(items, fileItem{path: file, status: checker.StatusQueued})
		index[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(checker.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.stageLabel != "" {
		header = fmt.Sprintf("%s (%s)", header, m.stageLabel)
	}
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 10
	nameWidth := m.width - statusWidth - 16
	if nameWidth < 20 {
		nameWidth = 20
	}
	for _, item := range m.visibleItems() {
		status := styleStatus(item.status).Render(fmt.Sprintf("%10s", item.status))
		line := fmt.Sprintf("  %s %s", status, truncate(item.path, nameWidth))
		if item.status == checker.StatusDone && item.violations > 0 {
			line += lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render(fmt.Sprintf("  %d", item.violations))
		}
		if item.cached {
			line += lipgloss.NewStyle().Faint(true).Render("  cached")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n  %d/%d files, %d violations", m.finished, len(m.items), m.violations)
	if m.cached > 0 {
		fmt.Fprintf(&b, ", %d cached", m.cached)
	}
	b.WriteString("\n")
	if m.done || len(m.items) == 0 {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

// visibleItems keeps unfinished files and the most recently finished ones,
// in file order.
func (m *progressModel) visibleItems() []fileItem {
	if len(m.items) <= maxRows {
		return m.items
	}
	keep := make([]bool, len(m.items))
	n := 0
	for i, item := range m.items {
		if item.status == checker.StatusChecking || item.status == checker.StatusError {
			keep[i] = true
			n++
		}
	}
	for n < maxRows {
		best := -1
		for i, item := range m.items {
			if keep[i] || item.seq == 0 {
				continue
			}
			if best < 0 || item.seq > m.items[best].seq {
				best = i
			}
		}
		if best < 0 {
			break
		}
		keep[best] = true
		n++
	}
	for i := 0; n < maxRows && i < len(m.items); i++ {
		if !keep[i] {
			keep[i] = true
			n++
		}
	}
	out := make([]fileItem, 0, maxRows)
	for i, item := range m.items {
		if keep[i] {
			out = append(out, item)
		}
	}
	return out
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev checker.Event) tea.Cmd {
	if ev.File == "" {
		m.stageLabel = stageLabel(ev.Stage, ev.Status)
		return nil
	}
	idx, ok := m.index[ev.File]
	if !ok {
		if ev.Status != checker.StatusQueued {
			return nil
		}
		idx = len(m.items)
		m.items = append(m.items, fileItem{path: ev.File})
		m.index[ev.File] = idx
	}
	item := &m.items[idx]
	wasFinished := finished(item.status)
	item.status = ev.Status
	m.stageLabel = stageLabel(ev.Stage, checker.StatusChecking)
	if ev.Status == checker.StatusQueued {
		return nil
	}
	m.tick++
	item.seq = m.tick
	if !finished(ev.Status) || wasFinished {
		return nil
	}
	m.finished++
	item.violations = ev.Violations
	item.cached = ev.Cached
	m.violations += ev.Violations
	if ev.Cached {
		m.cached++
	}
	return m.prog.SetPercent(float64(m.finished) / float64(len(m.items)))
}

func finished(status checker.Status) bool {
	return status == checker.StatusDone || status == checker.StatusError
}

func stageLabel(stage checker.Stage, status checker.Status) string {
	switch status {
	case checker.StatusError:
		return string(stage) + " failed"
	case checker.StatusDone:
		return string(stage) + " done"
	}
	switch stage {
	case checker.StageScan:
		return "scanning"
	case checker.StageVersion:
		return "checking versions"
	case checker.StageLint:
		return "running lint"
	default:
		return string(stage)
	}
}

func styleStatus(status checker.Status) lipgloss.Style {
	switch status {
	case checker.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case checker.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case checker.StatusChecking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
