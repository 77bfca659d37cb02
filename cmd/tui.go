package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/habsync/internal/shared"
	"github.com/desertthunder/habsync/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive task panel.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.service == nil {
		return fmt.Errorf("%w: Habitica service not initialized, run 'habsync setup' and add credentials", shared.ErrServiceUnavailable)
	}
	if !r.config.Notes.PanelEnabled {
		return fmt.Errorf("%w: live panel is disabled in config (notes.panel_enabled)", shared.ErrInvalidConfig)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/habsync-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.engine)
	defer model.Close()
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
