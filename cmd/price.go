package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/discolog/vinylbot/internal/catalog"
	"github.com/discolog/vinylbot/internal/config"
)

func newPriceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price <row> <price>",
		Short: "Set the price of a record by sheet row number",
		Example: `  # Set R$ 49,90 on sheet row 10
  vinylbot price 10 49.90`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			row, err := strconv.Atoi(args[0])
			if err != nil || row < 2 {
				return fmt.Errorf("invalid row number %q (data rows start at 2)", args[0])
			}
			price, err := strconv.ParseFloat(args[1], 64)
			if err != nil || price <= 0 {
				return fmt.Errorf("invalid price %q", args[1])
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := newStore(ctx, cfg)
			if err != nil {
				return err
			}

			if err := store.UpdatePrice(ctx, row, price); err != nil {
				return err
			}
			fmt.Printf("Price set to %s on row %d\n", catalog.FormatPrice(price), row)
			return nil
		},
	}

	return cmd
}
