package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tunebase/tunecli/internal/service"
	"github.com/tunebase/tunecli/internal/tx"
	"github.com/tunebase/tunecli/internal/ui"
)

var (
	mintTitle       string
	mintGenre       string
	mintDescription string
	mintDuration    int
	mintPrice       string
	mintRoyalty     int
	mintAudio       string
	mintCover       string
	mintNoWait      bool
)

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint a track as a music NFT",
	Long: `Upload a track (and optional cover art) to IPFS and mint it.

Examples:
  tunecli mint --title "Midnight" --audio track.mp3 --price 0.05 --royalty 10
  tunecli mint --title "Midnight" --audio track.mp3 --cover art.png --price 0.05 --royalty 10 --genre electronic`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connectWallet(cmd.Context()); err != nil {
			return err
		}

		audio, err := os.Open(mintAudio)
		if err != nil {
			return fmt.Errorf("opening audio file: %w", err)
		}
		defer audio.Close()

		meta := service.TrackMetadata{
			Title:             mintTitle,
			Artist:            application.Wallets.Active().Address,
			Genre:             mintGenre,
			Description:       mintDescription,
			Duration:          mintDuration,
			Price:             mintPrice,
			RoyaltyPercentage: mintRoyalty,
			AudioFile:         audio,
			AudioName:         filepath.Base(mintAudio),
		}
		if mintCover != "" {
			cover, err := os.Open(mintCover)
			if err != nil {
				return fmt.Errorf("opening cover image: %w", err)
			}
			defer cover.Close()
			meta.CoverImage = cover
			meta.CoverName = filepath.Base(mintCover)
		}

		spin := ui.NewSpinner("Uploading and minting…")
		spin.Start()

		done := make(chan tx.Progress, 1)
		hash, err := application.Service.MintMusicNFT(cmd.Context(), meta, &service.MintOptions{
			OnProgress: func(p tx.Progress) { done <- p },
		})
		if err != nil {
			spin.Stop()
			return err
		}

		if mintNoWait {
			spin.StopWithMsg(ui.Success(fmt.Sprintf("Submitted: %s", hash)))
			fmt.Println(ui.Meta(fmt.Sprintf("follow it with: tunecli track %s", hash)))
			return nil
		}

		spin.StopWithMsg(ui.Meta(fmt.Sprintf("Submitted %s, waiting for confirmation…", ui.TruncateAddr(hash))))
		return waitForProgress(done)
	},
}

// waitForProgress blocks until a terminal state arrives and renders it.
func waitForProgress(done <-chan tx.Progress) error {
	p := <-done
	if p.Status != tx.StatusConfirmed {
		return fmt.Errorf("transaction %s: %s", p.Hash, p.Error)
	}
	fmt.Println(ui.KeyValueBlock("Confirmed", [][2]string{
		{"Hash", p.Hash},
		{"Block", fmt.Sprintf("%d", p.BlockNumber)},
		{"Confirmations", fmt.Sprintf("%d", p.Confirmations)},
		{"Gas used", p.GasUsed},
	}))
	return nil
}

func init() {
	mintCmd.Flags().StringVar(&mintTitle, "title", "", "track title (required)")
	mintCmd.Flags().StringVar(&mintGenre, "genre", "", "genre")
	mintCmd.Flags().StringVar(&mintDescription, "description", "", "description")
	mintCmd.Flags().IntVar(&mintDuration, "duration", 0, "duration in seconds")
	mintCmd.Flags().StringVar(&mintPrice, "price", "", "listing price in the native currency (required)")
	mintCmd.Flags().IntVar(&mintRoyalty, "royalty", 0, "royalty percentage, 0-50")
	mintCmd.Flags().StringVar(&mintAudio, "audio", "", "audio file to upload (required)")
	mintCmd.Flags().StringVar(&mintCover, "cover", "", "cover image to upload")
	mintCmd.Flags().BoolVar(&mintNoWait, "no-wait", false, "return after submission instead of waiting for confirmation")
	_ = mintCmd.MarkFlagRequired("title")
	_ = mintCmd.MarkFlagRequired("price")
	_ = mintCmd.MarkFlagRequired("audio")
}
