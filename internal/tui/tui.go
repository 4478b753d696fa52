// Package tui provides a Bubble Tea terminal user interface for ebook-packager.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/ebook-packager/internal/config"
	"github.com/handiism/ebook-packager/internal/download"
	"github.com/handiism/ebook-packager/internal/model"
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
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateProcessing
	StateSavePrompt
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Options configures where the TUI reads its settings and credentials.
type Options struct {
	ConfigPath string
	EnvFile    string
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	bookInput textarea.Model
	saveInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	opts      Options
	logs      []LogEntry
	err       error

	ctx    context.Context
	cancel context.CancelFunc

	// run identifies the pipeline whose messages the model accepts.
	run      int
	bridge   *bridge
	manager  *download.Manager
	report   *download.Report
	snapshot download.Progress
	matched  int

	verbose bool

	width  int
	height int
}

// bridge connects one pipeline run to the running program. It is the
// pipeline's SaveLocator: the question is posted as a message tagged with
// the run and the answer comes back on replies.
type bridge struct {
	program *tea.Program
	run     int
	replies chan saveReply
}

func newBridge(program *tea.Program, run int) *bridge {
	return &bridge{program: program, run: run, replies: make(chan saveReply, 1)}
}

type saveReply struct {
	path string
	ok   bool
}

// ChooseDestination asks the user for a path through the UI.
func (b *bridge) ChooseDestination(ctx context.Context, matched int) (string, bool, error) {
	b.send(SavePromptMsg{Run: b.run, Matched: matched})
	select {
	case r := <-b.replies:
		return r.path, r.ok, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

func (b *bridge) send(msg tea.Msg) {
	if b.program != nil {
		b.program.Send(msg)
	}
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings, opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Dune; Frank Herbert; 1965"
	ta.Focus()
	ta.SetWidth(70)
	ta.SetHeight(8)
	ta.CharLimit = 0

	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		bookInput: ta,
		saveInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		opts:      opts,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
		bridge:    newBridge(nil, 0),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg is sent when pipeline progress updates.
	ProgressMsg struct {
		Run   int
		Event download.ProgressEvent
	}

	// SavePromptMsg is sent when the pipeline needs a save location.
	SavePromptMsg struct {
		Run     int
		Matched int
	}

	// DoneMsg is sent when the batch finishes.
	DoneMsg struct {
		Run    int
		Report *download.Report
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
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			switch m.state {
			case StateInput:
				return m, tea.Quit
			case StateSavePrompt:
				m.bridge.replies <- saveReply{ok: false}
				m.state = StateProcessing
				return m, nil
			case StateProcessing:
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "ctrl+s":
			if m.state == StateInput {
				return m.start()
			}

		case "ctrl+v":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "enter":
			if m.state == StateSavePrompt {
				path := strings.TrimSpace(m.saveInput.Value())
				if path == "" {
					return m, nil
				}
				m.bridge.replies <- saveReply{path: path, ok: true}
				m.state = StateProcessing
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				return m.reset(), textarea.Blink
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Run != m.run {
			return m, nil
		}
		if msg.Event.Level == download.LevelVerbose && !m.verbose {
			return m, nil
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		// Keep only last 10 logs
		if len(m.logs) > 10 {
			m.logs = m.logs[len(m.logs)-10:]
		}

	case SavePromptMsg:
		if msg.Run != m.run || m.state != StateProcessing {
			return m, nil
		}
		m.matched = msg.Matched
		m.state = StateSavePrompt
		m.saveInput.SetValue(defaultSavePath(m.settings.ArchiveFileName))
		m.saveInput.Focus()
		cmds = append(cmds, textinput.Blink)

	case DoneMsg:
		if msg.Run != m.run {
			return m, nil
		}
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
			m.report = msg.Report
		}

	case TickMsg:
		if m.manager != nil && (m.state == StateProcessing || m.state == StateSavePrompt) {
			m.snapshot = m.manager.GetProgress()
			cmds = append(cmds, m.progress.SetPercent(percent(m.snapshot)), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	switch m.state {
	case StateInput:
		var cmd tea.Cmd
		m.bookInput, cmd = m.bookInput.Update(msg)
		cmds = append(cmds, cmd)
	case StateSavePrompt:
		var cmd tea.Cmd
		m.saveInput, cmd = m.saveInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// start validates the book list and launches the pipeline.
func (m Model) start() (tea.Model, tea.Cmd) {
	books, err := model.ParseBookList(m.bookInput.Value())
	if err == nil && len(books) == 0 {
		err = download.ErrEmptyBatch
	}
	if err != nil {
		m.state = StateError
		m.err = err
		return m, nil
	}

	creds, err := config.LoadCredentials(m.opts.EnvFile, m.settings)
	if err != nil {
		m.state = StateError
		m.err = err
		return m, nil
	}

	m.run++
	b := newBridge(m.bridge.program, m.run)
	m.bridge = b
	m.manager = download.NewManager(m.settings, creds, b, func(event download.ProgressEvent) {
		b.send(ProgressMsg{Run: b.run, Event: event})
	})
	m.state = StateProcessing
	m.bookInput.Blur()

	manager, ctx, id := m.manager, m.ctx, m.run
	run := func() tea.Msg {
		report, err := manager.Process(ctx, books)
		return DoneMsg{Run: id, Report: report, Err: err}
	}
	return m, tea.Batch(run, m.spinner.Tick, m.tickProgress())
}

// reset returns the model to the input screen, keeping the book list.
// Messages still in flight from the previous run are ignored afterwards.
func (m Model) reset() Model {
	m.run++
	m.state = StateInput
	m.logs = nil
	m.err = nil
	m.report = nil
	m.manager = nil
	m.snapshot = download.Progress{}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.bookInput.Focus()
	m.bridge = newBridge(m.bridge.program, m.run)
	return m
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
	b.WriteString(titleStyle.Render("Ebook Packager"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Find books and bundle them into one zip"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateProcessing:
		b.WriteString(m.viewProcessing())
	case StateSavePrompt:
		b.WriteString(m.viewSavePrompt())
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

	b.WriteString(subtitleStyle.Render("Books, one per line (Title; Author; Year):"))
	b.WriteString("\n\n")
	b.WriteString(m.bookInput.View())
	b.WriteString("\n\n")

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}
	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (ctrl+v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("API host: %s", m.settings.APIHost)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewProcessing() string {
	var b strings.Builder

	p := m.snapshot
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	switch p.Phase {
	case download.PhaseDownloading, download.PhaseArchiving:
		b.WriteString(subtitleStyle.Render("Downloading books..."))
	default:
		b.WriteString(subtitleStyle.Render("Searching..."))
	}
	b.WriteString("\n\n")

	b.WriteString(m.progress.ViewAs(percent(p)))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Searched: %d/%d | Downloaded: %d/%d | %.2f MB",
		p.Searched, p.ToSearch, p.Downloaded, p.ToDownload,
		float64(p.ReceivedBytes)/1024/1024,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewSavePrompt() string {
	var b strings.Builder

	b.WriteString(successStyle.Render(fmt.Sprintf("Found %d book(s) to download.", m.matched)))
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render("Save ebook package to:"))
	b.WriteString("\n\n")
	b.WriteString(m.saveInput.View())
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewComplete() string {
	if m.report == nil {
		return ""
	}
	return boxStyle.Render(m.report.Summary())
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
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
		return "ctrl+s: start • ctrl+v: verbose • esc: quit"
	case StateSavePrompt:
		return "enter: save • esc: cancel"
	case StateProcessing:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new batch • q: quit"
	}
	return ""
}

// percent is the share of the current phase that has completed.
func percent(p download.Progress) float64 {
	switch p.Phase {
	case download.PhaseSearching:
		if p.ToSearch > 0 {
			return float64(p.Searched) / float64(p.ToSearch)
		}
	case download.PhaseDownloading:
		if p.ToDownload > 0 {
			return float64(p.Downloaded) / float64(p.ToDownload)
		}
	case download.PhaseArchiving, download.PhaseDone:
		return 1
	}
	return 0
}

func defaultSavePath(name string) string {
	dir, err := os.Getwd()
	if err != nil {
		return name
	}
	return filepath.Join(dir, name)
}

// Run starts the TUI application.
func Run(opts Options) error {
	settings := config.DefaultSettings()
	if opts.ConfigPath != "" {
		var err error
		settings, err = config.Load(opts.ConfigPath)
		if err != nil {
			return err
		}
	}

	m := NewModel(settings, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.bridge.program = p
	_, err := p.Run()
	return err
}
