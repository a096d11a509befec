package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tunebase/tunecli/internal/chain"
	"github.com/tunebase/tunecli/internal/ui"
)

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "Manage networks",
}

var networksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported networks and deployed contracts",
	RunE: func(cmd *cobra.Command, args []string) error {
		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 14},
			{Title: "Display", Width: 22},
			{Title: "Chain ID", Width: 10},
			{Title: "Currency", Width: 9},
			{Title: "Contracts", Width: 28},
			{Title: "Testnet", Width: 8},
		})

		for _, n := range application.Networks.All() {
			contracts := "—"
			if names := deployedNames(n.ChainID); len(names) > 0 {
				contracts = strings.Join(names, ", ")
			}
			testnet := ""
			if n.Testnet {
				testnet = "yes"
			}
			t.AddRow(ui.Row{
				ui.ChainName(n.Name),
				n.DisplayName,
				fmt.Sprintf("%d", n.ChainID),
				n.NativeCurrency,
				contracts,
				testnet,
			})
		}

		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("current: %s", application.Network().Name)))
		return nil
	},
}

var networksUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the default network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if _, err := application.Networks.GetByName(name); err != nil {
			return fmt.Errorf("unknown network %q — run `tunecli networks list`", name)
		}

		cfg.DefaultNetwork = name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default network set to %s", ui.ChainName(name))))
		return nil
	},
}

func deployedNames(chainID int64) []string {
	var names []string
	for _, name := range chain.ContractNames() {
		if _, ok := application.Book.Deployed(chainID, name); ok {
			names = append(names, name)
		}
	}
	return names
}

func init() {
	networksCmd.AddCommand(networksListCmd, networksUseCmd)
}
