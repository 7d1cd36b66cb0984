package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/desertthunder/playersync/internal/playlist"
	"github.com/desertthunder/playersync/internal/shared"
	"github.com/desertthunder/playersync/internal/tasks"
	"github.com/desertthunder/playersync/internal/ui"
)

const tuiLogPath = "./tmp/playersync-tui.log"

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// redirectLogs sends logs to a file so they do not interfere with TUI rendering.
func (r *Runner) redirectLogs() error {
	fileLogger, err := shared.NewFileLogger(tuiLogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)
	return nil
}

// syncWithTUI runs s under the interactive progress view.
func (r *Runner) syncWithTUI(ctx context.Context, s *tasks.Synchronizer, pl *playlist.Playlist) (*tasks.SyncResult, error) {
	model := ui.NewModel(ctx, func(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.SyncResult, error) {
		return s.Run(ctx, pl, progress)
	})

	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(r.output))
	if _, err := p.Run(); err != nil {
		return nil, fmt.Errorf("error running TUI: %w", err)
	}

	return model.Result(), model.Err()
}
