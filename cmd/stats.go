package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/discolog/vinylbot/internal/config"
	"github.com/discolog/vinylbot/internal/models"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := newStore(ctx, cfg)
			if err != nil {
				return err
			}

			views, err := store.ListAll(ctx, "")
			if err != nil {
				return err
			}
			if len(views) == 0 {
				fmt.Println("No records cataloged yet")
				return nil
			}

			var pending, published, sold int
			for _, v := range views {
				switch strings.ToLower(v.Status) {
				case string(models.StatusPending):
					pending++
				case string(models.StatusPublished):
					published++
				case string(models.StatusSold):
					sold++
				}
			}
			total := len(views)

			tw := table.NewWriter()
			tw.SetStyle(table.StyleRounded)
			tw.SetTitle("Catalog summary")
			tw.AppendRow(table.Row{"Total records", total})
			tw.AppendRow(table.Row{"Pending", pending})
			tw.AppendRow(table.Row{"Published", published})
			tw.AppendRow(table.Row{"Sold", sold})
			tw.AppendSeparator()
			tw.AppendRow(table.Row{"Publication rate", fmt.Sprintf("%.1f%%", rate(published, total))})
			tw.AppendRow(table.Row{"Conversion rate", fmt.Sprintf("%.1f%%", rate(sold, published))})
			fmt.Println(tw.Render())
			return nil
		},
	}

	return cmd
}

func rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
