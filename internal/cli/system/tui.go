package system

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/lifemap/internal/cli"
	"github.com/julianstephens/lifemap/internal/logger"
	"github.com/julianstephens/lifemap/internal/subscription"
	"github.com/julianstephens/lifemap/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Open()
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	n, err := ctx.Narrator()
	if err != nil {
		logger.Warn("Narrator unavailable, summaries will be local", "error", err)
		n = nil
	}

	watchCtx, cancel := context.WithCancel(ctx.Background())
	defer cancel()
	go func() {
		if err := sess.Journal.Watch(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("Change feed stopped", "error", err)
		}
	}()

	model := tui.NewModel(watchCtx, tui.Options{
		Store:    sess.Journal,
		Narrator: n,
		Profile:  &sess.Profile,
		Policy:   subscription.PolicyFromSettings(sess.Settings),
		Clock:    sess.Clock,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard exited with an error: %w", err)
	}
	return nil
}
