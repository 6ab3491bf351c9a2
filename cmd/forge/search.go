package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog with natural language",
		Long: `Rank catalog patterns against a natural language query.

Semantic ranking uses a language model under a hard daily cost cap with a
24h answer cache. When no credential is configured, the cap is reached, or
the model misbehaves, search degrades to keyword matching and says so.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().Int("limit", 10, "maximum patterns to return")
	cmd.Flags().Bool("json", false, "emit results as JSON")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	gateway := initGateway(store)
	result, err := gateway.Search(ctx, strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(result)
	}

	fmt.Printf("%d patterns (%s search)\n\n", result.Total, result.Method)
	for _, p := range result.Patterns {
		star := " "
		if p.Favorited {
			star = "★"
		}
		fmt.Printf("%s %4d  [%s] %-40s complexity=%d uses=%d\n",
			star, p.ID, p.Category, p.Name, p.ComplexityScore, p.UseCount)
	}
	return nil
}

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the search answer cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop all cached search answers",
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			dropped, err := initGateway(store).ClearCache(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Cleared %d cached answers\n", dropped)
			return nil
		},
	})
	return cmd
}
