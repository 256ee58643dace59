package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeeftor/tether/internal/automata"
	"github.com/jeeftor/tether/internal/constants"
	"github.com/jeeftor/tether/internal/render"
	"github.com/jeeftor/tether/internal/script"
	"github.com/jeeftor/tether/internal/selector"
	"github.com/jeeftor/tether/internal/styles"
)

// Opener builds the automation context for one run or preview
type Opener func(hooks automata.Hooks) (automata.Automata, error)

// Focusable is implemented by config views that take keyboard input
type Focusable interface {
	Focus() tea.Cmd
	Blur()
}

const (
	logLines    = 8
	eventBuffer = 64
)

type taskDoneMsg struct {
	task *script.Task
	err  error
}

type eventMsg struct {
	text  string
	level LogLevel
	saved bool
}

type previewMsg struct {
	frame string
	err   error
}

// RunnerModel is the interactive script runner: a script list, the
// active script's options and the log of the current run
type RunnerModel struct {
	*BaseTUIModel

	ctx  context.Context
	sel  *selector.Selector
	open Opener

	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	logView viewport.Model
	logs    *LogManager

	editing bool
	focused Focusable

	running   script.Script
	task      *script.Task
	started   time.Time
	saved     int
	quitAfter bool

	preview string
	events  chan tea.Msg
}

var _ tea.Model = (*RunnerModel)(nil)

// NewRunnerModel creates a runner over sel. Scripts run under ctx.
func NewRunnerModel(ctx context.Context, sel *selector.Selector, open Opener) *RunnerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(styles.Primary))

	m := &RunnerModel{
		BaseTUIModel: NewBaseTUIModel(),
		ctx:          ctx,
		sel:          sel,
		open:         open,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		spinner:      sp,
		logView:      viewport.New(78, logLines),
		logs:         NewLogManager(200),
		events:       make(chan tea.Msg, eventBuffer),
	}

	sel.OnChange(m.onSelectionChange)
	if idx, _ := sel.Active(); idx == 0 && sel.HasScripts() {
		_ = sel.SelectIndex(1)
	}
	return m
}

// Running reports whether a script is executing
func (m *RunnerModel) Running() bool {
	return m.task != nil
}

// Task returns the task of the current run, or nil
func (m *RunnerModel) Task() *script.Task {
	return m.task
}

// Editing reports whether the options view has keyboard focus
func (m *RunnerModel) Editing() bool {
	return m.editing
}

// Logs returns the run log
func (m *RunnerModel) Logs() []LogEntry {
	return m.logs.GetEntries()
}

func (m *RunnerModel) Init() tea.Cmd {
	return m.listen()
}

func (m *RunnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.HandleWindowResize(msg)
		m.logView.Width = msg.Width - 2
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		if m.editing {
			return m, m.updateEditing(msg)
		}
		return m, m.updateNormal(msg)

	case eventMsg:
		if msg.saved {
			m.saved++
		}
		m.addLog(msg.text, msg.level)
		return m, m.listen()

	case taskDoneMsg:
		return m, m.finish(msg)

	case previewMsg:
		if msg.err != nil {
			m.addLog("Preview failed: "+msg.err.Error(), LogLevelError)
			return m, nil
		}
		m.preview = msg.frame
		return m, nil

	case TickMsg:
		if m.Running() {
			return m, m.TickCmd()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.Running() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.editing {
		return m, m.forwardToView(msg)
	}
	return m, nil
}

func (m *RunnerModel) updateNormal(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Up):
		m.move(-1)

	case key.Matches(msg, m.keys.Down):
		m.move(1)

	case key.Matches(msg, m.keys.Run):
		return m.run()

	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Back):
		m.cancel()

	case key.Matches(msg, m.keys.Config):
		return m.edit()

	case key.Matches(msg, m.keys.Preview):
		return m.fetchPreview()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func (m *RunnerModel) updateEditing(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Back) {
		m.stopEditing()
		return nil
	}
	return m.forwardToView(msg)
}

func (m *RunnerModel) forwardToView(msg tea.Msg) tea.Cmd {
	_, entry := m.sel.Active()
	view, ok := entry.View.(tea.Model)
	if !ok {
		return nil
	}
	_, cmd := view.Update(msg)
	return cmd
}

// move shifts the selection over the real scripts, never onto the sentinel
func (m *RunnerModel) move(delta int) {
	if m.Running() || !m.sel.HasScripts() {
		return
	}
	idx, _ := m.sel.Active()
	next := idx + delta
	if next < 1 {
		next = 1
	}
	if last := m.sel.Len() - 1; next > last {
		next = last
	}
	_ = m.sel.SelectIndex(next)
}

func (m *RunnerModel) edit() tea.Cmd {
	if m.Running() {
		return nil
	}
	_, entry := m.sel.Active()
	f, ok := entry.View.(Focusable)
	if !ok {
		return nil
	}
	m.editing = true
	m.focused = f
	return f.Focus()
}

func (m *RunnerModel) stopEditing() {
	if m.focused != nil {
		m.focused.Blur()
	}
	m.focused = nil
	m.editing = false
}

func (m *RunnerModel) onSelectionChange(c selector.Change) {
	if m.editing {
		m.stopEditing()
	}
	m.preview = ""
}

func (m *RunnerModel) run() tea.Cmd {
	if m.Running() {
		return nil
	}
	sc := m.sel.Selected()
	if sc == nil {
		m.addLog("No script selected", LogLevelWarn)
		return nil
	}

	a, err := m.open(m.hooks())
	if err != nil {
		m.addLog("Failed to open camera: "+err.Error(), LogLevelError)
		return nil
	}

	m.stopEditing()
	m.running = sc
	m.saved = 0
	m.started = time.Now()
	m.task = sc.ExecuteAsync(m.ctx, a)
	m.addLog("Running "+sc.Title(), LogLevelInfo)

	return tea.Batch(m.spinner.Tick, m.TickCmd(), waitForTask(sc, m.task))
}

func (m *RunnerModel) cancel() {
	if !m.Running() {
		return
	}
	if m.task.Context().Err() == nil {
		m.addLog("Cancelling "+m.running.Title(), LogLevelWarn)
	}
	m.task.Cancel()
}

func (m *RunnerModel) quit() tea.Cmd {
	if m.Running() {
		m.quitAfter = true
		m.cancel()
		return nil
	}
	m.State.Quitting = true
	return tea.Quit
}

func (m *RunnerModel) finish(msg taskDoneMsg) tea.Cmd {
	if msg.task != m.task {
		return nil
	}
	elapsed := time.Since(m.started).Round(time.Millisecond)
	title := m.running.Title()

	switch {
	case msg.err == nil:
		m.addLog(fmt.Sprintf("%s finished: %d saved in %v", title, m.saved, elapsed), LogLevelSuccess)
	case script.IsCancelled(msg.err):
		m.addLog(fmt.Sprintf("%s cancelled after %d saved", title, m.saved), LogLevelWarn)
	default:
		m.addLog(fmt.Sprintf("%s failed: %v", title, msg.err), LogLevelError)
	}

	m.task = nil
	m.running = nil
	if m.quitAfter {
		m.State.Quitting = true
		return tea.Quit
	}
	return nil
}

func (m *RunnerModel) fetchPreview() tea.Cmd {
	a, err := m.open(automata.Hooks{})
	if err != nil {
		m.addLog("Failed to open camera: "+err.Error(), LogLevelError)
		return nil
	}
	cols := constants.DefaultPreviewCols
	if w := m.State.Width - 4; w > 0 && w < cols {
		cols = w
	}
	ctx := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, constants.GetTimeout("preview"))
		defer cancel()
		img, err := a.Preview(ctx)
		if err != nil {
			return previewMsg{err: err}
		}
		return previewMsg{frame: render.FormatImage(img, cols, true)}
	}
}

// hooks forward automation events into the update loop. Events are
// dropped rather than block a capture when the buffer is full.
func (m *RunnerModel) hooks() automata.Hooks {
	send := func(msg tea.Msg) {
		select {
		case m.events <- msg:
		default:
		}
	}
	return automata.Hooks{
		CaptureBegin: func() { send(eventMsg{text: "Capturing", level: LogLevelInfo}) },
		FileAdded: func(path string) {
			send(eventMsg{text: "Saved " + path, level: LogLevelSuccess, saved: true})
		},
	}
}

func (m *RunnerModel) listen() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return <-events
	}
}

func waitForTask(sc script.Script, t *script.Task) tea.Cmd {
	return func() tea.Msg {
		return taskDoneMsg{task: t, err: sc.ExecuteFinish(t)}
	}
}

func (m *RunnerModel) addLog(text string, level LogLevel) {
	m.logs.Add(text, level)
	m.logView.SetContent(m.renderLogs())
	m.logView.GotoBottom()
}

func (m *RunnerModel) renderLogs() string {
	var b strings.Builder
	for _, e := range m.logs.GetEntries() {
		style := styles.InfoStyle
		switch e.Level {
		case LogLevelWarn:
			style = styles.WarningStyle
		case LogLevelError:
			style = styles.ErrorStyle
		case LogLevelSuccess:
			style = styles.SuccessStyle
		}
		b.WriteString(styles.MutedStyle.Render(e.Timestamp.Format("15:04:05")))
		b.WriteString(" ")
		b.WriteString(style.Render(e.Content))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *RunnerModel) View() string {
	if m.IsQuitting() {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("tether"))
	b.WriteString("\n\n")
	b.WriteString(m.renderScripts())
	b.WriteString("\n")
	b.WriteString(m.renderOptions())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n\n")
	b.WriteString(m.logView.View())
	b.WriteString("\n")
	if m.preview != "" {
		b.WriteString("\n")
		b.WriteString(m.preview)
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *RunnerModel) renderScripts() string {
	var b strings.Builder
	b.WriteString(styles.SectionStyle.Render("Scripts"))
	b.WriteString("\n")

	if !m.sel.HasScripts() {
		b.WriteString(styles.MutedStyle.Render("  " + selector.NoScriptTitle))
		b.WriteString("\n")
		return b.String()
	}

	active, _ := m.sel.Active()
	for i, e := range m.sel.Entries() {
		if e.IsSentinel() {
			continue
		}
		if i == active {
			b.WriteString(styles.SelectedRowStyle.Render("> " + e.Title()))
		} else {
			b.WriteString(styles.RowStyle.Render("  " + e.Title()))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *RunnerModel) renderOptions() string {
	_, entry := m.sel.Active()

	var body string
	switch v := entry.View.(type) {
	case tea.Model:
		body = strings.TrimRight(v.View(), "\n")
	case fmt.Stringer:
		body = styles.MutedStyle.Render(v.String())
	default:
		body = styles.MutedStyle.Render(selector.NoConfigOptions.String())
	}

	box := styles.BoxStyle
	if m.editing {
		box = styles.FocusedBoxStyle
	}
	return styles.SectionStyle.Render("Options") + "\n" + box.Render(body)
}

func (m *RunnerModel) renderStatus() string {
	if !m.Running() {
		return styles.MutedStyle.Render(fmt.Sprintf("Idle, up %v", m.GetUptime().Round(time.Second)))
	}
	elapsed := time.Since(m.started).Round(time.Second)
	return fmt.Sprintf("%s %s %s",
		m.spinner.View(),
		styles.ValueStyle.Render(m.running.Title()),
		styles.MutedStyle.Render(fmt.Sprintf("%v, %d saved", elapsed, m.saved)))
}
