package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tunebase/tunecli/internal/chain"
	"github.com/tunebase/tunecli/internal/ui"
)

var gasCmd = &cobra.Command{
	Use:   "gas",
	Short: "Show current gas prices",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connectWallet(cmd.Context()); err != nil {
			return err
		}

		provider := application.Wallets.CurrentProvider()
		fd, err := provider.FeeData(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching fee data: %w", err)
		}

		pairs := [][2]string{}
		if fd.BaseFee != nil {
			pairs = append(pairs, [2]string{"Base fee", fmt.Sprintf("%.2f gwei", chain.WeiToGwei(fd.BaseFee))})
		}
		if fd.TipCap != nil {
			pairs = append(pairs, [2]string{"Priority tip", fmt.Sprintf("%.2f gwei", chain.WeiToGwei(fd.TipCap))})
		}
		if fd.MaxFeePerGas != nil {
			pairs = append(pairs, [2]string{"Max fee", fmt.Sprintf("%.2f gwei", chain.WeiToGwei(fd.MaxFeePerGas))})
		}
		if fd.GasPrice != nil {
			pairs = append(pairs, [2]string{"Legacy price", fmt.Sprintf("%.2f gwei", chain.WeiToGwei(fd.GasPrice))})
		}

		best, err := application.Tracker.OptimizeGasPrice(cmd.Context())
		if err == nil {
			pairs = append(pairs, [2]string{"Recommended", fmt.Sprintf("%.2f gwei", chain.WeiToGwei(best))})
		}

		fmt.Println(ui.KeyValueBlock(fmt.Sprintf("Gas · %s", application.Network().DisplayName), pairs))
		return nil
	},
}
