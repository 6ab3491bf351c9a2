package main

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"patternforge/internal/config"
	"patternforge/internal/ingest"
)

func ingestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <project-dir>",
		Short: "Extract anonymized patterns from a metadata export",
		Long: `Walk a project export, parse every supported metadata document,
anonymize it, and store the deduplicated patterns in the catalog.

Per-file failures are reported at the end; they never abort the run.`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().String("name", "", "display name for this source (default: directory name)")
	cmd.Flags().StringSlice("terms", nil, "extra brand terms to alias before detection")
	cmd.Flags().Int("workers", 0, "parallel parse workers (default: number of CPUs)")
	cmd.Flags().Bool("json", false, "emit the run summary as JSON")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	terms, _ := cmd.Flags().GetStringSlice("terms")
	workers, _ := cmd.Flags().GetInt("workers")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ingestCfg := config.LoadIngestConfig()
	if workers == 0 {
		workers = ingestCfg.Workers
	}

	opts := ingest.Options{
		ProjectDir:     args[0],
		DisplayName:    name,
		CustomTerms:    append(ingestCfg.CustomTerms, terms...),
		DictionaryPath: ingestCfg.DictionaryPath,
		AllowlistPath:  ingestCfg.AllowlistPath,
		Workers:        workers,
	}

	var bar *progressbar.ProgressBar
	if !asJSON {
		opts.Progress = func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetDescription("Extracting patterns"),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}
			_ = bar.Set(done)
		}
	}

	service := ingest.NewService(store, slog.Default())
	result, err := service.Run(ctx, opts)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(result)
	}

	fmt.Printf("\nIngested %d files: %d patterns (%d new, %d duplicates)\n",
		result.FilesScanned, result.PatternsFound, result.NewPatterns, result.Duplicates)
	kinds := make([]string, 0, len(result.MetadataCounts))
	for kind := range result.MetadataCounts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Printf("  %-12s %d\n", kind, result.MetadataCounts[kind])
	}
	if len(result.Errors) > 0 {
		fmt.Printf("\n%d files skipped:\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  %s: %s\n", e.File, e.Reason)
		}
	}
	return nil
}
