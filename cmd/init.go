package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tunebase/tunecli/internal/ui"
	"github.com/tunebase/tunecli/internal/wallet"
)

var (
	initNetwork string
	initWallet  string
	initKey     string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up tunecli",
	Long: `Write the initial configuration and optionally store a signing key.

The key is stored in the OS keyring, never in the config file.

Examples:
  tunecli init --network base
  tunecli init --network sepolia --wallet metamask --key 0xac09...f80`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.Banner())

		if initNetwork != "" {
			if _, err := application.Networks.GetByName(initNetwork); err != nil {
				return fmt.Errorf("unknown network %q — run `tunecli networks list`", initNetwork)
			}
			cfg.DefaultNetwork = initNetwork
		}
		if initWallet != "" {
			if _, err := wallet.ParseWalletType(initWallet); err != nil {
				return err
			}
			cfg.DefaultWallet = initWallet
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		if initKey != "" {
			keys := wallet.DefaultKeystore()
			ref, err := keys.Store(cfg.KeyRef(cfg.DefaultWallet), initKey)
			if err != nil {
				return fmt.Errorf("storing key: %w", err)
			}
			fmt.Println(ui.Success(fmt.Sprintf("Key stored in keyring as %s", ref)))
		}

		fmt.Println(ui.Success("tunecli configured! Run `tunecli --help` to explore commands."))
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initNetwork, "network", "", "default network")
	initCmd.Flags().StringVar(&initWallet, "wallet", "", "default wallet type (metamask, walletconnect, coinbase)")
	initCmd.Flags().StringVar(&initKey, "key", "", "hex private key to store in the OS keyring")
}
