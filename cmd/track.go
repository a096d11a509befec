package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tunebase/tunecli/internal/tx"
	"github.com/tunebase/tunecli/internal/ui"
)

var trackCmd = &cobra.Command{
	Use:   "track <hash>",
	Short: "Follow a transaction to its terminal state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash := args[0]
		if err := connectWallet(cmd.Context()); err != nil {
			return err
		}

		model := ui.NewTrackModel(hash, application.Network().DisplayName)
		program := tea.NewProgram(model)

		application.Tracker.Track(cmd.Context(), hash, func(p tx.Progress) {
			program.Send(ui.ProgressMsg(p))
		})

		final, err := program.Run()
		if err != nil {
			return fmt.Errorf("running tracker ui: %w", err)
		}
		if m, ok := final.(ui.TrackModel); ok && m.Progress != nil && m.Progress.Error != "" {
			return fmt.Errorf("transaction %s: %s", hash, m.Progress.Error)
		}
		return nil
	},
}
