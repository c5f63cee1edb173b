package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/venuebook/internal/logger"
	"github.com/naveenspark/venuebook/internal/session"
	"github.com/naveenspark/venuebook/internal/tui"
)

type TUICmd struct {
	ExportDir string `help:"Directory exports are written to." type:"path" default:"."`
}

func (t *TUICmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}

	// Log to a file so lines never land on the alt screen.
	f, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	rt, err := wire(cfg, logger.Setup(f, cfg.Debug, false))
	if err != nil {
		return err
	}

	app := tui.NewApp(tui.Deps{
		Client:    rt.client,
		Session:   rt.store,
		ExportDir: t.ExportDir,
		Version:   globals.Version,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	rt.store.OnLogout(func(r session.Reason) {
		p.Send(tui.SessionEndedMsg{Reason: r})
	})

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
