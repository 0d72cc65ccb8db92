package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/storefront-simulator/internal/catalog"
)

var insightCmd = &cobra.Command{
	Use:   "insight <product-id>",
	Short: "Print the advisor insight for one product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			return err
		}
		p, err := cat.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), newAdvisor().GetInsight(cmd.Context(), p))
		return nil
	},
}
