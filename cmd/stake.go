package cmd

import (
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"

	"github.com/tunebase/tunecli/internal/ui"
)

var stakeLockDays int

var stakeCmd = &cobra.Command{
	Use:   "stake <amount>",
	Short: "Stake into the artist pool",
	Long: `Lock native currency in the staking contract.

Examples:
  tunecli stake 1.5
  tunecli stake 1.5 --lock-days 90`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connectWallet(cmd.Context()); err != nil {
			return err
		}
		lock := int64(stakeLockDays) * int64(24*time.Hour/time.Second)
		hash, err := application.Service.Stake(cmd.Context(), args[0], lock)
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Submitted: %s", hash)))
		fmt.Println(ui.Meta(fmt.Sprintf("follow it with: tunecli track %s", hash)))
		return nil
	},
}

var unstakeCmd = &cobra.Command{
	Use:   "unstake <position-id>",
	Short: "Withdraw a staking position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, ok := new(big.Int).SetString(args[0], 10)
		if !ok {
			return fmt.Errorf("invalid position id %q", args[0])
		}
		if err := connectWallet(cmd.Context()); err != nil {
			return err
		}
		hash, err := application.Service.Unstake(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Submitted: %s", hash)))
		return nil
	},
}

var rewardsCmd = &cobra.Command{
	Use:   "rewards <position-id>",
	Short: "Claim staking rewards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, ok := new(big.Int).SetString(args[0], 10)
		if !ok {
			return fmt.Errorf("invalid position id %q", args[0])
		}
		if err := connectWallet(cmd.Context()); err != nil {
			return err
		}
		hash, err := application.Service.ClaimRewards(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Submitted: %s", hash)))
		return nil
	},
}

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "List staking positions",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connectWallet(cmd.Context()); err != nil {
			return err
		}

		positions := application.Service.GetStakingPositions(cmd.Context(), application.Wallets.Active().Address)
		if len(positions) == 0 {
			fmt.Println(ui.Meta("No staking positions"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "ID", Width: 6},
			{Title: "Staked", Width: 14},
			{Title: "Unlocks", Width: 20},
			{Title: "Rewards", Width: 14},
		})
		for _, p := range positions {
			unlock := "—"
			if p.UnlockTime > 0 {
				unlock = time.Unix(p.UnlockTime, 0).Format("2006-01-02 15:04")
			}
			t.AddRow(ui.Row{
				p.ID,
				formatPrice(p.AmountWei),
				unlock,
				formatPrice(p.RewardsWei),
			})
		}
		fmt.Println(t.Render())
		return nil
	},
}

func init() {
	stakeCmd.Flags().IntVar(&stakeLockDays, "lock-days", 30, "lock period in days")
}
