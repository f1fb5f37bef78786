package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/discolog/vinylbot/internal/config"
	"github.com/discolog/vinylbot/internal/models"
)

func newListCmd() *cobra.Command {
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cataloged records",
		Example: `  # All records
  vinylbot list

  # Only pending records
  vinylbot list --status pendente`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !validStatusFilter(status) {
				return fmt.Errorf("invalid status %q (use todos, pendente, publicado or vendido)", status)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := newStore(ctx, cfg)
			if err != nil {
				return err
			}

			filter := status
			if filter == "todos" {
				filter = ""
			}
			views, err := store.ListAll(ctx, filter)
			if err != nil {
				return err
			}
			if len(views) == 0 {
				fmt.Println("No records found")
				return nil
			}
			if limit > 0 && len(views) > limit {
				views = views[:limit]
			}

			tw := table.NewWriter()
			tw.SetStyle(table.StyleRounded)
			tw.SetTitle("Cataloged records (%d)", len(views))
			tw.AppendHeader(table.Row{"#", "Nome", "Artista", "Ano", "Preço", "Status", "Publicado"})
			for i, v := range views {
				tw.AppendRow(table.Row{
					i + 1,
					truncate(v.Name, 30),
					truncate(v.Artist, 20),
					v.Year,
					v.Price,
					v.Status,
					v.PublishedAt,
				})
			}
			fmt.Println(tw.Render())
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "todos", "Filter by status (todos, pendente, publicado, vendido)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of rows to show (0 for all)")

	return cmd
}

func validStatusFilter(s string) bool {
	switch s {
	case "todos", string(models.StatusPending), string(models.StatusPublished), string(models.StatusSold):
		return true
	}
	return false
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
