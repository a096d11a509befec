// Package cmd contains the tunecli command tree.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tunebase/tunecli/internal/app"
	"github.com/tunebase/tunecli/internal/config"
	"github.com/tunebase/tunecli/internal/notify"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/tunebase/tunecli/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	cfgDir      string
	networkFlag string
	verbose     bool

	cfg         *config.Config
	application *app.App
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "tunecli",
	Short: "Music NFTs from the terminal",
	Long: `tunecli — mint, collect, stake and vote on music NFTs.

  Upload tracks to IPFS, mint them as NFTs, browse the marketplace,
  stake into artist pools and vote on tracks, from any supported chain.

The --network flag overrides the configured default network for a single
invocation. Persist a default with: tunecli networks use <name>`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if networkFlag != "" {
			cfg.DefaultNetwork = networkFlag
		}

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		application, err = app.New(cfg, log, notify.NewTerminal(os.Stdout))
		if err != nil {
			return fmt.Errorf("initializing: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if application != nil {
			application.Teardown()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// connectWallet connects the configured default wallet if nothing is
// connected yet. Commands that submit transactions call this first.
func connectWallet(ctx context.Context) error {
	if application.Wallets.Active() != nil {
		return nil
	}
	t := cfg.DefaultWallet
	if _, err := application.Wallets.Connect(ctx, walletType(t)); err != nil {
		return fmt.Errorf("connecting %s: %w", t, err)
	}
	return nil
}

func init() {
	// TUNECLI_CONFIG_DIR env var overrides --config flag.
	if envDir := os.Getenv("TUNECLI_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.tunecli)")
	rootCmd.PersistentFlags().StringVarP(&networkFlag, "network", "n", "", "network to use for this invocation")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Register all sub-commands.
	rootCmd.AddCommand(
		initCmd,
		networksCmd,
		walletCmd,
		mintCmd,
		buyCmd,
		nftsCmd,
		marketCmd,
		stakeCmd,
		unstakeCmd,
		rewardsCmd,
		positionsCmd,
		voteCmd,
		gasCmd,
		trackCmd,
		historyCmd,
		serveCmd,
	)
}
