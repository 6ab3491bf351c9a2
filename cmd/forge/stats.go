package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog-wide pattern statistics",
		RunE:  runStats,
	}

	cmd.Flags().Bool("json", false, "emit statistics as JSON")

	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(stats)
	}

	fmt.Printf("Catalog: %d patterns\n\n", stats.Total)
	for _, c := range stats.ByCategory {
		fmt.Printf("  %-16s %d\n", c.Category, c.Count)
	}
	if len(stats.Sources) > 0 {
		fmt.Printf("\nSources:\n")
		for _, s := range stats.Sources {
			fmt.Printf("  %-24s %4d patterns  ingested %s\n",
				s.DisplayName, s.PatternCount, s.IngestedAt.Format("2006-01-02"))
		}
	}
	return nil
}
