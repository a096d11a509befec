package cmd

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/tunebase/tunecli/internal/tx"
	"github.com/tunebase/tunecli/internal/ui"
)

var (
	buyPrice  string
	buyYes    bool
	buyNoWait bool
)

var buyCmd = &cobra.Command{
	Use:   "buy <token-id>",
	Short: "Buy a listed track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tokenID, ok := new(big.Int).SetString(args[0], 10)
		if !ok {
			return fmt.Errorf("invalid token id %q", args[0])
		}

		if err := connectWallet(cmd.Context()); err != nil {
			return err
		}

		if !buyYes && !ui.Confirm(fmt.Sprintf("Buy token %s for %s %s?", tokenID, buyPrice, application.Network().NativeCurrency)) {
			fmt.Println(ui.Meta("Aborted"))
			return nil
		}

		done := make(chan tx.Progress, 1)
		hash, err := application.Service.PurchaseNFT(cmd.Context(), tokenID, buyPrice, func(p tx.Progress) { done <- p })
		if err != nil {
			return err
		}

		if buyNoWait {
			fmt.Println(ui.Success(fmt.Sprintf("Submitted: %s", hash)))
			return nil
		}

		spin := ui.NewSpinner(fmt.Sprintf("Waiting for %s…", ui.TruncateAddr(hash)))
		spin.Start()
		p := <-done
		spin.Stop()
		if p.Status != tx.StatusConfirmed {
			return fmt.Errorf("transaction %s: %s", p.Hash, p.Error)
		}
		fmt.Println(ui.Success(fmt.Sprintf("Track %s is yours (block %d)", tokenID, p.BlockNumber)))
		return nil
	},
}

func init() {
	buyCmd.Flags().StringVar(&buyPrice, "price", "", "listing price in the native currency (required)")
	buyCmd.Flags().BoolVarP(&buyYes, "yes", "y", false, "skip confirmation prompt")
	buyCmd.Flags().BoolVar(&buyNoWait, "no-wait", false, "return after submission instead of waiting for confirmation")
	_ = buyCmd.MarkFlagRequired("price")
}
