package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tunebase/tunecli/internal/ui"
	"github.com/tunebase/tunecli/internal/wallet"
)

func walletType(s string) wallet.WalletType {
	return wallet.WalletType(s)
}

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallet connections",
}

var walletConnectCmd = &cobra.Command{
	Use:   "connect [type]",
	Short: "Connect a wallet (metamask, walletconnect, coinbase)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t := cfg.DefaultWallet
		if len(args) == 1 {
			t = args[0]
		}
		conn, err := application.Wallets.Connect(cmd.Context(), walletType(t))
		if err != nil {
			return err
		}
		fmt.Println(ui.KeyValueBlock("Wallet", [][2]string{
			{"Type", string(conn.Type)},
			{"Address", conn.Address},
			{"Chain ID", fmt.Sprintf("%d", conn.ChainID)},
		}))
		return nil
	},
}

var walletDisconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Disconnect all wallets",
	RunE: func(cmd *cobra.Command, args []string) error {
		application.Wallets.Disconnect()
		return nil
	},
}

var walletSwitchCmd = &cobra.Command{
	Use:   "switch <type>",
	Short: "Make a previously connected wallet the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.Wallets.SwitchWallet(walletType(args[0])); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Active wallet: %s", args[0])))
		return nil
	},
}

var walletStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active wallet connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn := application.Wallets.Active()
		if conn == nil {
			fmt.Println(ui.Meta("No wallet connected"))
			return nil
		}

		pairs := [][2]string{
			{"Type", string(conn.Type)},
			{"Address", conn.Address},
			{"Chain ID", fmt.Sprintf("%d", conn.ChainID)},
		}
		if names := application.Bindings.Names(); len(names) > 0 {
			for _, name := range names {
				addr, _ := application.Book.Deployed(conn.ChainID, name)
				pairs = append(pairs, [2]string{name, ui.TruncateAddr(addr)})
			}
		}
		fmt.Println(ui.KeyValueBlock("Wallet", pairs))
		return nil
	},
}

func init() {
	walletCmd.AddCommand(walletConnectCmd, walletDisconnectCmd, walletSwitchCmd, walletStatusCmd)
}
