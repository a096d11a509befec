package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/tunebase/tunecli/internal/tx"
	"github.com/tunebase/tunecli/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded transaction history",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := application.Store()
		if store == nil {
			fmt.Println(ui.Meta("History unavailable (cache failed to open)"))
			return nil
		}

		raws, err := store.Transactions()
		if err != nil {
			return fmt.Errorf("reading history: %w", err)
		}
		if len(raws) == 0 {
			fmt.Println(ui.Meta("No transactions recorded"))
			return nil
		}

		records := make([]tx.Progress, 0, len(raws))
		for _, raw := range raws {
			var p tx.Progress
			if err := json.Unmarshal(raw, &p); err != nil {
				continue
			}
			records = append(records, p)
		}
		sort.Slice(records, func(i, j int) bool { return records[i].Timestamp > records[j].Timestamp })

		t := ui.NewTable([]ui.Column{
			{Title: "Hash", Width: 14},
			{Title: "Status", Width: 10},
			{Title: "Block", Width: 10},
			{Title: "Gas", Width: 10},
			{Title: "When", Width: 18},
		})
		for _, p := range records {
			status := string(p.Status)
			switch p.Status {
			case tx.StatusConfirmed:
				status = ui.Success(status)
			case tx.StatusFailed:
				status = ui.Err(status)
			}
			t.AddRow(ui.Row{
				ui.Addr(ui.TruncateAddr(p.Hash)),
				status,
				fmt.Sprintf("%d", p.BlockNumber),
				p.GasUsed,
				time.UnixMilli(p.Timestamp).Format("2006-01-02 15:04"),
			})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d transaction(s)", len(records))))
		return nil
	},
}
