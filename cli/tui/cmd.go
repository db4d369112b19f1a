// Package tui implements the full screen notebook interface.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.design/x/clipboard"

	"github.com/malonaz/notebook/internal/app"
	"github.com/malonaz/notebook/internal/configuration"
)

// NewCmd instantiates and returns the tui command.
func NewCmd(config *configuration.Config, client app.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the full screen interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd, config, client)
		},
	}
}

// Run starts the interface and blocks until the user quits.
func Run(cmd *cobra.Command, config *configuration.Config, client app.Client) error {
	ctx := cmd.Context()

	// Create the model
	m, err := New(ctx, config, client)
	if err != nil {
		return err
	}
	if err := clipboard.Init(); err != nil {
		log.Warn("clipboard unavailable", "error", err)
	} else {
		m.EnableClipboard()
	}

	// Create the Bubble Tea program
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithFilter(m.Filter()),
		tea.WithReportFocus(),
	)

	// Set the program reference for async message sending
	m.SetProgram(p)

	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "running notebook")
	}
	return nil
}
