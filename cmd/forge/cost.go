package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func costCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Show today's semantic search spend",
		RunE:  runCost,
	}

	cmd.Flags().Bool("json", false, "emit the ledger entry as JSON")

	return cmd
}

func runCost(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entry, limit, err := initGateway(store).CostStatus(ctx)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(struct {
			Day          string  `json:"day"`
			DailyCost    float64 `json:"daily_cost"`
			RequestCount int     `json:"request_count"`
			Limit        float64 `json:"limit"`
			Remaining    float64 `json:"remaining"`
		}{
			Day:          entry.Day,
			DailyCost:    entry.CumulativeCost,
			RequestCount: entry.RequestCount,
			Limit:        limit,
			Remaining:    limit - entry.CumulativeCost,
		})
	}

	fmt.Printf("Spend for %s: $%.4f of $%.2f (%d requests, $%.4f remaining)\n",
		entry.Day, entry.CumulativeCost, limit, entry.RequestCount, limit-entry.CumulativeCost)
	return nil
}
