// Package tui provides a Bubble Tea terminal user interface for covercluster.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/covercluster/internal/cluster"
	"github.com/handiism/covercluster/internal/config"
	cerrors "github.com/handiism/covercluster/internal/errors"
	"github.com/handiism/covercluster/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	focusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateRendering
	StateComplete
	StateError
)

// Input fields, in tab order.
const (
	fieldIndex = iota
	fieldCovers
	fieldOutput
	fieldCount
)

var fieldLabels = [fieldCount]string{"Index file", "Covers directory", "Output image"}

// maxLogs is how many log lines stay on screen.
const maxLogs = 10

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   model.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	inputs   [fieldCount]textinput.Model
	focus    int
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	logs     []LogEntry
	result   *cluster.Result
	err      error

	// Render context
	ctx    context.Context
	cancel context.CancelFunc

	renderer *cluster.Renderer
	events   chan model.ProgressEvent

	drawn int32
	total int32

	// Options
	kind        model.Kind
	placeholder bool
	center      bool
	verbose     bool

	width  int
	height int
}

// NewModel creates a new TUI model prefilled from settings.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	var inputs [fieldCount]textinput.Model
	for i, value := range []string{settings.IndexPath, settings.CoversDir, settings.OutputPath} {
		ti := textinput.New()
		ti.Placeholder = value
		ti.SetValue(value)
		ti.CharLimit = 500
		ti.Width = 60
		inputs[i] = ti
	}
	inputs[fieldIndex].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	kind := model.KindAlbum
	if kinds, err := settings.Kinds(); err == nil && len(kinds) == 1 {
		kind = kinds[0]
	}

	return Model{
		state:       StateInput,
		inputs:      inputs,
		spinner:     sp,
		progress:    prog,
		settings:    settings,
		logs:        make([]LogEntry, 0),
		ctx:         ctx,
		cancel:      cancel,
		kind:        kind,
		placeholder: strings.EqualFold(settings.Missing, "placeholder"),
		center:      strings.EqualFold(settings.Align, "center"),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg is sent for every event the renderer emits.
	ProgressMsg struct {
		Event model.ProgressEvent
	}

	// RenderDoneMsg is sent when the run has finished.
	RenderDoneMsg struct {
		Result *cluster.Result
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateRendering {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "tab", "down", "shift+tab", "up":
			if m.state == StateInput {
				step := 1
				if msg.String() == "shift+tab" || msg.String() == "up" {
					step = fieldCount - 1
				}
				m.inputs[m.focus].Blur()
				m.focus = (m.focus + step) % fieldCount
				cmds = append(cmds, m.inputs[m.focus].Focus())
				return m, tea.Batch(cmds...)
			}

		case "enter":
			if m.state == StateInput && m.inputs[fieldIndex].Value() != "" {
				return m.start()
			}

		case "ctrl+k":
			if m.state == StateInput {
				m.kind = (m.kind + 1) % 2
				return m, nil
			}

		case "ctrl+p":
			if m.state == StateInput {
				m.placeholder = !m.placeholder
				return m, nil
			}

		case "ctrl+a":
			if m.state == StateInput {
				m.center = !m.center
				return m, nil
			}

		case "ctrl+v":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new run
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.result = nil
				m.drawn, m.total = 0, 0
				m.renderer = nil
				m.events = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				cmds = append(cmds, m.inputs[m.focus].Focus())
				return m, tea.Batch(cmds...)
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		cmds = append(cmds, m.waitForEvent())
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level == model.LevelVerbose && !m.verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{Message: msg.Event.Message, Level: msg.Event.Level})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case RenderDoneMsg:
		if m.renderer != nil {
			m.drawn, m.total = m.renderer.Progress()
		}
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
			m.result = msg.Result
		}

	case TickMsg:
		// Update progress from the renderer
		if m.renderer != nil && m.state == StateRendering {
			m.drawn, m.total = m.renderer.Progress()

			var percent float64
			if m.total > 0 {
				percent = float64(m.drawn) / float64(m.total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text inputs
	if m.state == StateInput {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// start validates the options and launches the render in the background.
func (m Model) start() (tea.Model, tea.Cmd) {
	settings := *m.settings
	settings.IndexPath = m.inputs[fieldIndex].Value()
	settings.CoversDir = m.inputs[fieldCovers].Value()
	settings.OutputPath = m.inputs[fieldOutput].Value()
	settings.Kind = m.kind.String()
	settings.Missing = "skip"
	if m.placeholder {
		settings.Missing = "placeholder"
	}
	settings.Align = "left"
	if m.center {
		settings.Align = "center"
	}

	if err := settings.Validate(); err != nil {
		m.state = StateError
		m.err = err
		return m, nil
	}
	opts, err := settings.ToRenderOptions()
	if err != nil {
		m.state = StateError
		m.err = err
		return m, nil
	}

	events := make(chan model.ProgressEvent, 64)
	m.events = events
	m.renderer = cluster.NewRenderer(opts, func(e model.ProgressEvent) {
		select {
		case events <- e:
		default: // the UI only shows the latest lines
		}
	})
	m.state = StateRendering

	req := cluster.Request{
		IndexPath:  settings.IndexPath,
		CoversDir:  settings.CoversDir,
		OutputPath: settings.OutputPath,
		Kind:       m.kind,
	}
	return m, tea.Batch(m.runRender(req), m.waitForEvent(), m.tickProgress(), m.spinner.Tick)
}

// runRender runs the pipeline and reports the outcome. The event channel is
// closed once the renderer can no longer emit.
func (m Model) runRender(req cluster.Request) tea.Cmd {
	renderer, ctx, events := m.renderer, m.ctx, m.events
	return func() tea.Msg {
		res, err := renderer.Render(ctx, req)
		close(events)
		return RenderDoneMsg{Result: res, Err: err}
	}
}

// waitForEvent delivers the next renderer event as a ProgressMsg.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: e}
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("▦ covercluster"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Paint your library as a cover mosaic"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateRendering:
		b.WriteString(m.viewRendering())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	for i, in := range m.inputs {
		label := subtitleStyle.Render(fieldLabels[i] + ":")
		if i == m.focus {
			label = focusStyle.Render("› " + fieldLabels[i] + ":")
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Kind: %s (ctrl+k)\n", m.kind))
	b.WriteString(fmt.Sprintf("  %s Placeholders for missing covers (ctrl+p)\n", check(m.placeholder)))
	b.WriteString(fmt.Sprintf("  %s Center rows (ctrl+a)\n", check(m.center)))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (ctrl+v)\n", check(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Canvas: %dx%d, covers %d-%d px",
		m.settings.CanvasWidth, m.settings.CanvasHeight, m.settings.MinPx, m.settings.MaxPx)))
	b.WriteString("\n")

	return b.String()
}

func check(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewRendering() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Rendering %s covers...", m.kind)))
	b.WriteString("\n\n")

	var percent float64
	if m.total > 0 {
		percent = float64(m.drawn) / float64(m.total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Covers: %d/%d", m.drawn, m.total)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	res := m.result
	c := res.Diagnostics.Counts()
	box := boxStyle.Render(fmt.Sprintf(
		"✨ Cluster Complete!\n\n"+
			"Output: %s\n"+
			"Covers placed: %d\n"+
			"Missing: %d  Dropped: %d  Broken: %d  Bad lines: %d\n"+
			"Time: %s",
		res.OutputPath,
		len(res.Placements),
		c.Unresolved, c.Dropped, c.LoadFailures, c.Malformed,
		res.Duration.Round(time.Millisecond),
	))
	b.WriteString(box)
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", cerrors.UserMessage(m.err)))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case model.LevelError:
			style = errorStyle
			prefix = "✗"
		case model.LevelWarning:
			style = warningStyle
			prefix = "!"
		case model.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case model.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: render • tab: next field • ctrl+k: kind • ctrl+p: placeholders • ctrl+a: center • ctrl+v: verbose • esc: quit"
	case StateRendering:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new render • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
