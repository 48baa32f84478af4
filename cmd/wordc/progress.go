package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles descend directly from repl.go's palette (titleStyle,
// promptStyle, resultStyle, errorStyle) repurposed from an
// interactive prompt into a compile-progress view.
var (
	progressTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#7D56F4")).
				Padding(0, 1)

	phasePendingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#767676"))

	phaseRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7D56F4")).
				Bold(true)

	phaseDoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	phaseFailedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF5F87")).
				Bold(true)

	diagnosticStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF8700"))
)

type phaseStatus int

const (
	statusPending phaseStatus = iota
	statusRunning
	statusDone
	statusFailed
)

type phaseEntry struct {
	phase  phase
	detail string
	status phaseStatus
}

// progressMsg reports a phase transition; pipelineDoneMsg reports the
// final outcome. Both are fed from the goroutine running compile().
type progressMsg struct {
	phase  phase
	detail string
}

type pipelineDoneMsg struct {
	result *pipelineResult
	err    error
}

type progressModel struct {
	label   string
	spin    spinner.Model
	phases  []phaseEntry
	events  <-chan any
	done    bool
	result  *pipelineResult
	runErr  error
}

func newProgressModel(label string, events <-chan any) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))
	return progressModel{label: label, spin: s, events: events}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForEvent(m.events))
}

func waitForEvent(events <-chan any) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return pipelineDoneMsg{}
		}
		return msg
	}
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case progressMsg:
		found := false
		for i := range m.phases {
			if m.phases[i].phase == msg.phase {
				m.phases[i].status = statusRunning
				m.phases[i].detail = msg.detail
				found = true
				break
			}
		}
		if !found {
			m.phases = append(m.phases, phaseEntry{phase: msg.phase, detail: msg.detail, status: statusRunning})
		}
		for i := range m.phases {
			if m.phases[i].phase != msg.phase && m.phases[i].status == statusRunning {
				m.phases[i].status = statusDone
			}
		}
		return m, waitForEvent(m.events)

	case pipelineDoneMsg:
		m.done = true
		m.result = msg.result
		m.runErr = msg.err
		for i := range m.phases {
			if m.phases[i].status == statusRunning {
				if msg.result != nil && msg.result.failed && msg.result.failedPhase == m.phases[i].phase {
					m.phases[i].status = statusFailed
				} else {
					m.phases[i].status = statusDone
				}
			}
		}
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	var s strings.Builder
	s.WriteString(progressTitleStyle.Render(" " + m.label + " "))
	s.WriteString("\n\n")

	for _, p := range m.phases {
		switch p.status {
		case statusRunning:
			s.WriteString(m.spin.View())
			s.WriteString(" ")
			s.WriteString(phaseRunningStyle.Render(p.phase.String()))
		case statusDone:
			s.WriteString(phaseDoneStyle.Render("✓ " + p.phase.String()))
		case statusFailed:
			s.WriteString(phaseFailedStyle.Render("✗ " + p.phase.String()))
		default:
			s.WriteString(phasePendingStyle.Render("  " + p.phase.String()))
		}
		if p.detail != "" {
			s.WriteString(phasePendingStyle.Render(" — " + p.detail))
		}
		s.WriteString("\n")
	}

	if m.done && m.result != nil {
		s.WriteString("\n")
		for _, d := range m.result.diagnostics {
			s.WriteString(diagnosticStyle.Render(d))
			s.WriteString("\n")
		}
		if !m.result.failed {
			s.WriteString(fmt.Sprintf("\n%s\n", m.result.optimizeStat.Summary()))
		}
	}

	return s.String()
}

// runWithProgress drives compile() in a goroutine, piping phase
// transitions into a Bubble Tea program for the verbose display, and
// blocks until the program exits.
func runWithProgress(label, path string, opts options) (*pipelineResult, error) {
	events := make(chan any)
	go func() {
		result, err := compile(path, opts, func(ph phase, detail string) {
			events <- progressMsg{phase: ph, detail: detail}
		})
		events <- pipelineDoneMsg{result: result, err: err}
		close(events)
	}()

	p := tea.NewProgram(newProgressModel(label, events))
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	fm := finalModel.(progressModel)
	return fm.result, fm.runErr
}
