package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"patternforge/internal/model"
)

func patternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Browse and manage catalog patterns",
	}

	cmd.AddCommand(patternsListCmd())
	cmd.AddCommand(patternsShowCmd())
	cmd.AddCommand(patternsFavoriteCmd())

	return cmd
}

func patternsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List patterns with optional filters",
		RunE:  runPatternsList,
	}

	cmd.Flags().String("category", "", "filter by category")
	cmd.Flags().String("type", "", "filter by pattern type")
	cmd.Flags().String("object", "", "filter by source object")
	cmd.Flags().String("query", "", "keyword filter")
	cmd.Flags().Int("min-complexity", 0, "minimum complexity score")
	cmd.Flags().Int("max-complexity", 0, "maximum complexity score")
	cmd.Flags().Bool("favorites", false, "only favorited patterns")
	cmd.Flags().Int("page", 1, "result page")
	cmd.Flags().Int("page-size", 20, "patterns per page")
	cmd.Flags().Bool("json", false, "emit results as JSON")

	return cmd
}

func runPatternsList(cmd *cobra.Command, _ []string) error {
	filter := model.PatternFilter{}
	filter.Category, _ = cmd.Flags().GetString("category")
	filter.PatternType, _ = cmd.Flags().GetString("type")
	filter.SourceObject, _ = cmd.Flags().GetString("object")
	filter.Query, _ = cmd.Flags().GetString("query")
	filter.MinComplexity, _ = cmd.Flags().GetInt("min-complexity")
	filter.MaxComplexity, _ = cmd.Flags().GetInt("max-complexity")
	filter.FavoritedOnly, _ = cmd.Flags().GetBool("favorites")
	filter.Page, _ = cmd.Flags().GetInt("page")
	filter.PageSize, _ = cmd.Flags().GetInt("page-size")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	page, err := store.QueryPatterns(ctx, filter)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(page)
	}

	fmt.Printf("%d patterns (page %d of %d)\n\n", page.Total, page.Page, page.Pages)
	for _, p := range page.Patterns {
		star := " "
		if p.Favorited {
			star = "★"
		}
		fmt.Printf("%s %4d  [%s] %-40s complexity=%d uses=%d\n",
			star, p.ID, p.Category, p.Name, p.ComplexityScore, p.UseCount)
	}
	return nil
}

func patternsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one pattern with its full structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid pattern id %q", args[0])
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			pattern, err := store.GetPattern(ctx, id)
			if err != nil {
				return err
			}
			return printJSON(pattern)
		},
	}
}

func patternsFavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <id>",
		Short: "Toggle a pattern's favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid pattern id %q", args[0])
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			favorited, err := store.ToggleFavorite(ctx, id)
			if err != nil {
				return err
			}
			if favorited {
				fmt.Printf("Pattern %d favorited\n", id)
			} else {
				fmt.Printf("Pattern %d unfavorited\n", id)
			}
			return nil
		},
	}
}
