// Package ui renders build progress as a small terminal interface.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"pasclang/internal/buildpipeline"
)

type progressModel struct {
	title   string
	input   string
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	prog    progress.Model
	stages  []stageItem
	index   map[buildpipeline.Stage]int
	width   int
	done    bool
}

type stageItem struct {
	stage  buildpipeline.Stage
	status buildpipeline.Status
}

type eventMsg buildpipeline.Event
type doneMsg struct{}

var pipelineStages = []buildpipeline.Stage{
	buildpipeline.StageParse,
	buildpipeline.StageCheck,
	buildpipeline.StageEmit,
	buildpipeline.StageBuild,
	buildpipeline.StageLink,
}

// NewProgressModel returns a Bubble Tea model that renders pipeline
// progress for one input file.
func NewProgressModel(title, input string, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	stages := make([]stageItem, 0, len(pipelineStages))
	index := make(map[buildpipeline.Stage]int, len(pipelineStages))
	for i, stage := range pipelineStages {
		stages = append(stages, stageItem{stage: stage, status: buildpipeline.StatusQueued})
		index[stage] = i
	}
	return &progressModel{
		title:   title,
		input:   input,
		events:  events,
		spinner: sp,
		prog:    prog,
		stages:  stages,
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
		cmd := m.applyEvent(buildpipeline.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
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
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		model, cmd := m.prog.Update(msg)
		m.prog = model.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s %s", m.title, truncate(m.input, m.width-len(m.title)-10))
	if m.done {
		header = "done: " + header
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	for _, item := range m.stages {
		label := string(item.status)
		line := fmt.Sprintf("  %s %-8s", styleStatus(label).Render(fmt.Sprintf("%8s", label)), item.stage)
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
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

func (m *progressModel) applyEvent(ev buildpipeline.Event) tea.Cmd {
	idx, ok := m.index[ev.Stage]
	if !ok {
		return nil
	}
	m.stages[idx].status = ev.Status

	finished := 0.0
	for _, item := range m.stages {
		if item.status == buildpipeline.StatusDone || item.status == buildpipeline.StatusError {
			finished++
		} else if item.status == buildpipeline.StatusWorking {
			finished += 0.5
		}
	}
	return m.prog.SetPercent(finished / float64(len(m.stages)))
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "working":
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
	return runewidth.Truncate(value, width-3, "...")
}
