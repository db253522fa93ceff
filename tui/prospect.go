// Package tui shows a streaming prospect report as an accordion of sections.
//
// The stream runs on its own goroutine and delivers snapshots with
// tea.Program.Send; the model only ever renders the latest one.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/revkit/revkit/render"
	"github.com/revkit/revkit/toolkit"
)

// SnapshotMsg carries a run snapshot into the program.
type SnapshotMsg toolkit.ProspectSnapshot

// headerLines and footerLines are the rows around the viewport.
const (
	headerLines = 2
	footerLines = 2
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(render.ColorAccent)
	statusStyle   = lipgloss.NewStyle().Foreground(render.ColorMuted)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626"))
	activeStyle   = lipgloss.NewStyle().Bold(true).Foreground(render.ColorAccent)
	inactiveStyle = lipgloss.NewStyle().Foreground(render.ColorText)
	helpStyle     = lipgloss.NewStyle().Foreground(render.ColorMuted)
)

// Model is the Bubble Tea model for one prospect run.
type Model struct {
	company  string
	cancel   context.CancelFunc
	term     *render.Terminal
	spinner  spinner.Model
	viewport viewport.Model

	runID  uuid.UUID
	snap   toolkit.ProspectSnapshot
	active int
	open   int // index of the expanded section, -1 when all are closed
}

// New creates a model for company. cancel is called when the user stops the
// run or quits.
func New(company string, cancel context.CancelFunc) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(render.ColorAccent)

	vp := viewport.New(80, 20)
	// Up and down move between sections instead of scrolling.
	vp.KeyMap.Up = key.NewBinding()
	vp.KeyMap.Down = key.NewBinding()

	if cancel == nil {
		cancel = func() {}
	}
	return Model{
		company:  company,
		cancel:   cancel,
		term:     render.NewTerminal().WithWidth(76),
		spinner:  s,
		viewport: vp,
		snap:     toolkit.ProspectSnapshot{Company: company, State: toolkit.StateIdle},
		open:     0,
	}
}

// Snapshot returns the latest snapshot the model has seen.
func (m Model) Snapshot() toolkit.ProspectSnapshot {
	return m.snap
}

// Active returns the selected section index.
func (m Model) Active() int {
	return m.active
}

// Open returns the expanded section index, or -1.
func (m Model) Open() int {
	return m.open
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-headerLines-footerLines)
		m.term = m.term.WithWidth(max(20, msg.Width-4))
		m.refresh()
		return m, nil

	case SnapshotMsg:
		snap := toolkit.ProspectSnapshot(msg)
		if m.runID == uuid.Nil {
			m.runID = snap.RunID
		}
		if snap.RunID != m.runID {
			return m, nil
		}
		m.snap = snap
		if n := len(snap.Sections); m.active >= n && n > 0 {
			m.active = n - 1
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.snap.State.Done() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		case "esc":
			m.cancel()
			return m, nil
		case "up", "k":
			if m.active > 0 {
				m.active--
				m.refresh()
			}
			return m, nil
		case "down", "j":
			if m.active < len(m.snap.Sections)-1 {
				m.active++
				m.refresh()
			}
			return m, nil
		case "enter", " ":
			if m.open == m.active {
				m.open = -1
			} else {
				m.open = m.active
			}
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Prospect Research: "+m.company) + "\n")
	sb.WriteString(m.status() + "\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render("↑/↓ select • enter expand • pgup/pgdn scroll • esc stop • q quit"))
	return sb.String()
}

func (m Model) status() string {
	state := m.snap.State
	switch state {
	case toolkit.StateLoading, toolkit.StateStreaming:
		return m.spinner.View() + statusStyle.Render(fmt.Sprintf(" %s… %d sections", state, len(m.snap.Sections)))
	case toolkit.StateError:
		msg := "error"
		if m.snap.Err != nil {
			msg = m.snap.Err.Error()
		}
		return errorStyle.Render("✗ " + msg)
	default:
		return statusStyle.Render(fmt.Sprintf("%s • %d sections", state, len(m.snap.Sections)))
	}
}

// refresh redraws the accordion into the viewport.
func (m *Model) refresh() {
	m.viewport.SetContent(m.accordion())
}

func (m Model) accordion() string {
	if len(m.snap.Sections) == 0 {
		if m.snap.State.Done() {
			return statusStyle.Render("No sections received.")
		}
		return statusStyle.Render("Waiting for the first section…")
	}

	var sb strings.Builder
	for i, s := range m.snap.Sections {
		marker, style := "▸ ", inactiveStyle
		if i == m.open {
			marker = "▾ "
		}
		if i == m.active {
			style = activeStyle
		}
		sb.WriteString(style.Render(marker+s.Title) + "\n")
		if i == m.open {
			if body := m.term.Body(s.Body); body != "" {
				sb.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(body) + "\n")
			}
		}
	}
	return sb.String()
}

// Run streams the report for company inside a full-screen program and returns
// the final snapshot once the user quits. Stopping the run with esc or q
// returns context.Canceled with the sections received so far.
func Run(ctx context.Context, svc *toolkit.Service, company string, opts ...tea.ProgramOption) (toolkit.ProspectSnapshot, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(New(company, cancel), opts...)

	type result struct {
		snap toolkit.ProspectSnapshot
		err  error
	}
	done := make(chan result, 1)
	go func() {
		snap, err := svc.StreamProspectReport(runCtx, company, func(s toolkit.ProspectSnapshot) {
			p.Send(SnapshotMsg(s))
		})
		done <- result{snap, err}
	}()

	_, err := p.Run()
	cancel()
	r := <-done
	if err != nil {
		return r.snap, err
	}
	return r.snap, r.err
}
