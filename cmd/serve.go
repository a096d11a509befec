package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tunebase/tunecli/internal/api"
	"github.com/tunebase/tunecli/internal/ui"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local HTTP API",
	Long: `Run the local HTTP API used by the desktop player and scripts.

Examples:
  tunecli serve
  tunecli serve --addr 127.0.0.1:9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		fmt.Println(ui.Meta(fmt.Sprintf("API listening on %s", addr)))
		return api.NewServer(application).Run(addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}
