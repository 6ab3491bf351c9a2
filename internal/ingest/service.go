package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"patternforge/internal/anonymize"
	"patternforge/internal/extract"
	"patternforge/internal/model"
	"patternforge/internal/parser"
	"patternforge/internal/storage"
)

// Options configures one ingestion run.
type Options struct {
	// ProjectDir is the root of the metadata export to ingest.
	ProjectDir string
	// DisplayName names the source in the catalog; defaults to the
	// directory base name. It passes through the scrubber like any other
	// derived string.
	DisplayName string
	// CustomTerms are aliased before detection runs.
	CustomTerms []string
	// DictionaryPath and AllowlistPath point at optional YAML term files.
	DictionaryPath string
	AllowlistPath  string
	// Workers bounds the parallel parse stage; 0 means NumCPU.
	Workers int
	// Progress, when set, is called after each document is processed.
	Progress func(done, total int)
}

// Service runs the extract-anonymize-deduplicate pipeline over project
// exports.
type Service struct {
	store  *storage.SQLiteStorage
	logger *slog.Logger
}

// NewService creates an ingestion service.
func NewService(store *storage.SQLiteStorage, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Run ingests one project export. Parsing fans out across workers since
// parsers are pure; anonymization, extraction, and storage run as a single
// ordered stage so alias assignment and use counts stay deterministic for
// a given input tree. Per-file failures are recorded and skipped, never
// fatal to the batch.
func (s *Service) Run(ctx context.Context, opts Options) (*model.IngestResult, error) {
	if opts.ProjectDir == "" {
		return nil, fmt.Errorf("project directory is required")
	}

	absDir, err := filepath.Abs(opts.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}

	scanned, err := scan(absDir)
	if err != nil {
		return nil, err
	}

	result := &model.IngestResult{
		RunID:          uuid.New().String(),
		SourceHash:     sourceHash(absDir),
		MetadataCounts: make(map[string]int),
		Errors:         scanned.errors,
		FilesScanned:   len(scanned.docs),
	}

	dictionary, err := anonymize.LoadTerms(opts.DictionaryPath)
	if err != nil {
		return nil, err
	}
	allowlist, err := anonymize.LoadTerms(opts.AllowlistPath)
	if err != nil {
		return nil, err
	}
	anon := anonymize.New(anonymize.Options{
		CustomTerms: opts.CustomTerms,
		Dictionary:  dictionary,
		Allowlist:   allowlist,
	})
	anon.SeedFieldNames(scanned.fieldNames)
	extractor := extract.New(anon.ScrubString)

	s.logger.Info("starting ingestion",
		"run_id", result.RunID,
		"source_hash", result.SourceHash,
		"files", len(scanned.docs))

	trees, parseErrs := s.parseAll(ctx, scanned.docs, opts.Workers)

	done := 0
	for i, doc := range scanned.docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		done++
		if opts.Progress != nil {
			opts.Progress(done, len(scanned.docs))
		}

		if parseErrs[i] != nil {
			result.Errors = append(result.Errors, toIngestError(doc, parseErrs[i]))
			continue
		}
		result.MetadataCounts[string(doc.Kind)]++

		tree, changes := anon.Anonymize(trees[i])
		if residual := anon.Verify(tree); len(residual) > 0 {
			s.logger.Warn("anonymization incomplete",
				"file", doc.Path,
				"residual_tokens", residual)
		}
		s.logger.Debug("anonymized document",
			"file", doc.Path,
			"changes", len(changes))

		pattern, err := extractor.Extract(tree, doc.Path, result.SourceHash)
		if err != nil {
			result.Errors = append(result.Errors, model.IngestError{
				File:   doc.Path,
				Reason: err.Error(),
			})
			continue
		}

		_, _, isNew, err := s.store.InsertOrIncrement(ctx, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to store pattern from %s: %w", doc.Path, err)
		}
		result.PatternsFound++
		if isNew {
			result.NewPatterns++
		} else {
			result.Duplicates++
		}
	}

	displayName := opts.DisplayName
	if displayName == "" {
		displayName = filepath.Base(absDir)
	}
	source := model.Source{
		SourceHash:     result.SourceHash,
		DisplayName:    anon.ScrubString(displayName),
		MetadataCounts: result.MetadataCounts,
		PatternCount:   result.PatternsFound,
	}
	if err := s.store.UpsertSource(ctx, source); err != nil {
		return nil, err
	}

	s.logger.Info("ingestion complete",
		"run_id", result.RunID,
		"patterns_found", result.PatternsFound,
		"new_patterns", result.NewPatterns,
		"duplicates", result.Duplicates,
		"errors", len(result.Errors))
	return result, nil
}

// parseAll parses documents across a bounded worker pool, keeping results
// indexed by document position.
func (s *Service) parseAll(ctx context.Context, docs []parser.Document, workers int) ([]*model.Node, []error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	trees := make([]*model.Node, len(docs))
	parseErrs := make([]error, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, ok := parser.For(docs[i].Kind)
			if !ok {
				parseErrs[i] = fmt.Errorf("no parser for kind %q", docs[i].Kind)
				return nil
			}
			trees[i], parseErrs[i] = p.Parse(docs[i])
			return nil
		})
	}
	// Workers only report context cancellation; per-file errors land in
	// parseErrs and are handled by the caller.
	_ = g.Wait()

	return trees, parseErrs
}

func toIngestError(doc parser.Document, err error) model.IngestError {
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return model.IngestError{File: doc.Path, Reason: parseErr.Reason}
	}
	return model.IngestError{File: doc.Path, Reason: err.Error()}
}

// sourceHash derives the stable 12-hex-char project identity from its
// absolute path.
func sourceHash(absDir string) string {
	sum := sha256.Sum256([]byte(absDir))
	return hex.EncodeToString(sum[:])[:12]
}
