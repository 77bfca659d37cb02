package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/habsync/internal/events"
	"github.com/desertthunder/habsync/internal/models"
	"github.com/desertthunder/habsync/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	BoardView ViewState = iota
	SyncView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.NoteEngine
	width        int
	height       int
	lists        map[events.Kind]list.Model
	active       int
	subs         []*events.Subscription
	eventChan    chan tasksUpdatedMsg
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.SyncResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model around a sync engine. Panel group
// listeners are registered for every event kind so the board tracks
// emits from any source in the process.
func NewModel(ctx context.Context, engine *tasks.NoteEngine) *Model {
	m := &Model{
		ctx:       ctx,
		view:      BoardView,
		engine:    engine,
		lists:     make(map[events.Kind]list.Model),
		eventChan: make(chan tasksUpdatedMsg, 16),
		help:      help.New(),
		keys:      newKeyMap(),
	}
	for _, kind := range events.Kinds() {
		l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
		l.Title = kind.String()
		l.SetShowHelp(false)
		m.lists[kind] = l

		k := kind
		sub := engine.Hub().Subscribe(k, events.GroupPanel, func(batch []models.Task) error {
			select {
			case m.eventChan <- tasksUpdatedMsg{kind: k, tasks: batch}:
			default:
			}
			return nil
		})
		m.subs = append(m.subs, sub)
	}
	return m
}

// Close detaches the model's hub subscriptions.
func (m *Model) Close() {
	for _, sub := range m.subs {
		m.engine.Hub().Unsubscribe(sub)
	}
}

// Init starts the event pump and triggers the initial refresh.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), m.refresh())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for kind, l := range m.lists {
			l.SetSize(msg.Width-4, msg.Height-8)
			m.lists[kind] = l
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case BoardView:
			return m.handleBoardKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}
		return m, nil

	case tasksUpdatedMsg:
		l := m.lists[msg.kind]
		items := make([]list.Item, len(msg.tasks))
		for i, task := range msg.tasks {
			items[i] = taskItem{task: task}
		}
		l.SetItems(items)
		m.lists[msg.kind] = l
		return m, m.waitForEvent()

	case refreshDoneMsg:
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case syncCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateActiveList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case BoardView:
		return m.renderBoard()
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.left):
		m.active = (m.active + len(events.Kinds()) - 1) % len(events.Kinds())
		return m, nil
	case key.Matches(msg, m.keys.right):
		m.active = (m.active + 1) % len(events.Kinds())
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		m.err = nil
		return m, m.refresh()
	case key.Matches(msg, m.keys.sync):
		m.err = nil
		m.view = SyncView
		return m, m.startSync()
	}
	return m.updateActiveList(msg)
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = BoardView
		m.result = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) activeKind() events.Kind {
	return events.Kinds()[m.active]
}

func (m *Model) updateActiveList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != BoardView {
		return m, nil
	}
	kind := m.activeKind()
	l, cmd := m.lists[kind].Update(msg)
	m.lists[kind] = l
	return m, cmd
}

func (m *Model) refresh() tea.Cmd {
	return func() tea.Msg {
		_, err := m.engine.Refresh(m.ctx)
		return refreshDoneMsg{err: err}
	}
}

func (m *Model) startSync() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progress := m.progressChan

	done := make(chan syncCompleteMsg, 1)
	go func() {
		result, err := m.engine.SyncAll(m.ctx, progress)
		done <- syncCompleteMsg{result: result, err: err}
		close(progress)
	}()

	return tea.Batch(m.waitForProgress(), func() tea.Msg { return <-done })
}

func (m *Model) waitForProgress() tea.Cmd {
	progress := m.progressChan
	if progress == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			return nil
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.eventChan
	}
}

func (m *Model) renderBoard() string {
	tabs := ""
	for i, kind := range events.Kinds() {
		label := kind.String()
		if i == m.active {
			label = styles.title.Render(label)
		} else {
			label = styles.help.Render(label)
		}
		if i > 0 {
			tabs += "  "
		}
		tabs += label
	}

	body := m.lists[m.activeKind()].View()
	helpKeys := []key.Binding{m.keys.left, m.keys.right, m.keys.refresh, m.keys.sync, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	out := fmt.Sprintf("%s\n\n%s\n\n%s", tabs, body, helpView)
	if m.err != nil {
		out = fmt.Sprintf("%s\n%s", styles.err.Render(fmt.Sprintf("Error: %v", m.err)), out)
	}
	return out
}

func (m *Model) renderSync() string {
	title := styles.title.Render("Syncing Notes")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchTasks:
		phase = "Fetching tasks from Habitica..."
	case tasks.ClassifyTasks:
		phase = "Classifying tasks..."
	case tasks.WriteNotes:
		phase = fmt.Sprintf("Writing notes (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s",
			styles.err.Render(fmt.Sprintf("Sync failed: %v", m.err)), helpView)
	}
	if m.result == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	title := styles.ok.Render("✓ Sync Complete")
	info := fmt.Sprintf("\nTasks synced: %d\nNotes written: %d", m.result.Collection.Total(), len(m.result.Written))
	if m.result.Dropped > 0 {
		info += "\n" + styles.warn.Render(fmt.Sprintf("Dropped %d unrecognized tasks", m.result.Dropped))
	}
	for _, path := range m.result.Written {
		info += fmt.Sprintf("\n  • %s", path)
	}

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
