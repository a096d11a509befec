package cmd

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/tunebase/tunecli/internal/ui"
)

var voteDown bool

var voteCmd = &cobra.Command{
	Use:   "vote <track-id>",
	Short: "Vote on a track",
	Long: `Cast an up-vote (default) or down-vote for a track, then show the tally.

Examples:
  tunecli vote 42
  tunecli vote 42 --down`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		trackID, ok := new(big.Int).SetString(args[0], 10)
		if !ok {
			return fmt.Errorf("invalid track id %q", args[0])
		}
		if err := connectWallet(cmd.Context()); err != nil {
			return err
		}

		hash, err := application.Service.Vote(cmd.Context(), trackID, !voteDown)
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Submitted: %s", hash)))

		up, down := application.Service.VotesFor(cmd.Context(), trackID)
		fmt.Println(ui.Meta(fmt.Sprintf("track %s: %s up / %s down (before this vote confirms)", trackID, up, down)))
		return nil
	},
}

func init() {
	voteCmd.Flags().BoolVar(&voteDown, "down", false, "cast a down-vote")
}
