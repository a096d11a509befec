package cmd

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/tunebase/tunecli/internal/service"
	"github.com/tunebase/tunecli/internal/ui"
)

var (
	nftsOwner  string
	nftsArtist string
)

var nftsCmd = &cobra.Command{
	Use:   "nfts",
	Short: "List owned tracks",
	Long: `List the tracks owned by an address, or minted by an artist.

Examples:
  tunecli nfts                        # tracks owned by the connected wallet
  tunecli nfts --owner 0xabc...       # tracks owned by another address
  tunecli nfts --artist 0xdef...      # tracks minted by an artist`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connectWallet(cmd.Context()); err != nil && nftsOwner == "" && nftsArtist == "" {
			return err
		}

		var nfts []service.NFT
		switch {
		case nftsArtist != "":
			nfts = application.Service.GetNFTsByArtist(cmd.Context(), nftsArtist)
		case nftsOwner != "":
			nfts = application.Service.GetOwnedNFTs(cmd.Context(), nftsOwner)
		default:
			nfts = application.Service.GetOwnedNFTs(cmd.Context(), application.Wallets.Active().Address)
		}

		printNFTs(nfts)
		return nil
	},
}

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Browse the marketplace",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connectWallet(cmd.Context()); err != nil {
			return err
		}
		printNFTs(application.Service.GetMarketplaceNFTs(cmd.Context()))
		return nil
	},
}

func printNFTs(nfts []service.NFT) {
	if len(nfts) == 0 {
		fmt.Println(ui.Meta("No tracks found"))
		return
	}

	t := ui.NewTable([]ui.Column{
		{Title: "ID", Width: 6},
		{Title: "Title", Width: 24},
		{Title: "Artist", Width: 14},
		{Title: "Price", Width: 14},
		{Title: "Royalty", Width: 8},
		{Title: "Listed", Width: 6},
	})
	for _, n := range nfts {
		title := ui.Meta("(no metadata)")
		if n.Metadata != nil {
			title = ui.Track(n.Metadata.Name)
		}
		listed := ""
		if n.Listed {
			listed = "yes"
		}
		t.AddRow(ui.Row{
			n.TokenID,
			title,
			ui.Addr(ui.TruncateAddr(n.Artist)),
			formatPrice(n.PriceWei),
			fmt.Sprintf("%.1f%%", float64(n.RoyaltyBps)/10),
			listed,
		})
	}
	fmt.Println(t.Render())
	fmt.Println(ui.Meta(fmt.Sprintf("%d track(s)", len(nfts))))
}

// formatPrice renders a wei amount with 4 decimals for table display.
func formatPrice(weiStr string) string {
	wei, ok := new(big.Int).SetString(weiStr, 10)
	if !ok {
		return "—"
	}
	f := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e18))
	return f.Text('f', 4)
}

func init() {
	nftsCmd.Flags().StringVar(&nftsOwner, "owner", "", "address to list tracks for")
	nftsCmd.Flags().StringVar(&nftsArtist, "artist", "", "artist address to list tracks for")
}
