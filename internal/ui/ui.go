package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/playersync/internal/shared"
	"github.com/desertthunder/playersync/internal/tasks"
)

// recentLimit is how many file actions the progress view keeps on screen.
const recentLimit = 8

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ProgressView ViewState = iota
	ResultView
)

// SyncFunc runs a sync, reporting progress on the channel.
type SyncFunc func(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.SyncResult, error)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	cancel       context.CancelFunc
	view         ViewState
	run          SyncFunc
	width        int
	height       int
	progressChan chan tasks.ProgressUpdate
	done         chan syncOutcome
	progress     tasks.ProgressUpdate
	recent       []string
	quitting     bool
	spinner      spinner.Model
	fileList     list.Model
	result       *tasks.SyncResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model that runs fn when started.
func NewModel(ctx context.Context, fn SyncFunc) *Model {
	ctx, cancel := context.WithCancel(ctx)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.title.UnsetMarginBottom()

	return &Model{
		ctx:     ctx,
		cancel:  cancel,
		view:    ProgressView,
		run:     fn,
		spinner: s,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Result returns the sync result once the model has finished.
func (m *Model) Result() *tasks.SyncResult { return m.result }

// Err returns the error the sync returned, if any.
func (m *Model) Err() error { return m.err }

// Init starts the spinner and the sync.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startSync())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.view == ResultView {
			m.fileList.SetSize(msg.Width-4, msg.Height-12)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ProgressView:
			return m.handleProgressKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case spinner.TickMsg:
		if m.view != ProgressView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			update := msg.data.(tasks.ProgressUpdate)
			m.progress = update
			if _, ok := update.Data.(tasks.FileResult); ok {
				m.recent = append(m.recent, update.Message)
				if len(m.recent) > recentLimit {
					m.recent = m.recent[len(m.recent)-recentLimit:]
				}
			}
			return m, m.waitForProgress()

		case MsgSyncComplete:
			outcome := msg.data.(syncOutcome)
			m.result = outcome.result
			m.err = outcome.err
			m.view = ResultView
			m.cancel()
			if m.quitting {
				return m, tea.Quit
			}
			m.buildFileList()
			return m, nil
		}
	}

	if m.view == ResultView {
		var cmd tea.Cmd
		m.fileList, cmd = m.fileList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ProgressView:
		return m.renderProgress()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleProgressKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		m.quitting = true
		m.cancel()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.fileList.FilterState() != list.Filtering && key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.fileList, cmd = m.fileList.Update(msg)
	return m, cmd
}

func (m *Model) buildFileList() {
	var items []list.Item
	if m.result != nil {
		items = fileItems(m.result)
	}
	m.fileList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.fileList.Title = "Files"
	m.fileList.SetShowHelp(false)
	if m.width > 0 {
		m.fileList.SetSize(m.width-4, m.height-12)
	}
}

// startSync runs the synchronizer in the background. The progress channel is closed
// once it returns, after which the outcome is available on done.
func (m *Model) startSync() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.done = make(chan syncOutcome, 1)

	go func() {
		result, err := m.run(m.ctx, m.progressChan)
		m.done <- syncOutcome{result: result, err: err}
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.done
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			outcome := <-done
			return syncCompleteMsg(outcome.result, outcome.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderProgress() string {
	title := styles.title.Render("Syncing Player")

	var phase string
	switch m.progress.Phase {
	case tasks.LoadPlaylist:
		phase = "Loading playlist..."
	case tasks.NegativeSync:
		phase = "Removing files not in the playlist..."
	case tasks.PositiveSync:
		phase = fmt.Sprintf("Copying files (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Finishing..."
	}
	if m.quitting {
		phase = styles.warn.Render("Stopping after the current file...")
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s\n%s %s\n", title, m.spinner.View(), phase))
	if m.progress.Phase == tasks.PositiveSync && m.progress.Total > 0 {
		b.WriteString(renderBar(m.progress.Step, m.progress.Total, 40) + "\n")
	}
	b.WriteString("\n")
	for _, line := range m.recent {
		b.WriteString(styles.help.Render(line) + "\n")
	}
	b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{m.keys.quit}))
	return b.String()
}

func (m *Model) renderResult() string {
	if m.result == nil {
		msg := "Sync failed"
		if m.err != nil {
			msg = fmt.Sprintf("Sync failed: %v", m.err)
		}
		return styles.err.Render(msg+"\n\nPress q to quit") + "\n"
	}

	var title string
	switch {
	case m.err != nil:
		title = styles.warn.Render(fmt.Sprintf("! Sync finished with errors: %v", m.err))
	case m.result.DryRun:
		title = styles.ok.Render("✓ Dry run complete")
	default:
		title = styles.ok.Render("✓ Sync complete")
	}

	info := fmt.Sprintf(
		"\nCopied: %d (%s)\nSkipped: %d\nDeleted: %d files, %d directories\nFailed: %d",
		m.result.Copied,
		shared.FormatBytes(m.result.BytesCopied),
		m.result.Skipped,
		m.result.Deleted,
		m.result.RemovedDirs,
		m.result.Failed,
	)

	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.filter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, info, m.fileList.View(), helpView)
}

func renderBar(step, total, width int) string {
	if total <= 0 {
		return ""
	}
	filled := min(width*step/total, width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return styles.bar.Render(bar) + fmt.Sprintf(" %3d%%", 100*step/total)
}
