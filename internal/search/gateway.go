package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"patternforge/internal/common"
	"patternforge/internal/model"
	"patternforge/internal/storage"
)

// Search methods reported in results.
const (
	MethodLLM     = "llm"
	MethodKeyword = "keyword"
)

// Result is one search answer. Method records whether semantic ranking or
// the keyword fallback produced it.
type Result struct {
	Query    string          `json:"query"`
	Method   string          `json:"method"`
	Patterns []model.Summary `json:"patterns"`
	Total    int             `json:"total"`
}

// Config bounds the gateway's spend and behavior.
type Config struct {
	// DailyCostLimit is the hard dollar cap per UTC day.
	DailyCostLimit float64
	// CacheTTL is how long a ranked answer stays valid.
	CacheTTL time.Duration
	// Timeout bounds each ranking call.
	Timeout time.Duration
	// CandidateLimit caps how many summaries go into one prompt.
	CandidateLimit int
}

// Gateway answers natural language queries against the catalog. Semantic
// ranking is strictly best-effort: a missing credential, the daily cap, a
// timeout, or a malformed answer all degrade to keyword search, never to
// an error. Search must always return something.
type Gateway struct {
	store  *storage.SQLiteStorage
	ranker Ranker
	logger *slog.Logger
	cfg    Config
	now    func() time.Time
}

// NewGateway creates a search gateway. A nil ranker means no credential is
// configured; every query then takes the keyword path.
func NewGateway(store *storage.SQLiteStorage, ranker Ranker, cfg Config, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DailyCostLimit <= 0 {
		cfg.DailyCostLimit = 1.00
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = 200
	}
	return &Gateway{
		store:  store,
		ranker: ranker,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
}

// NormalizeQuery lowercases and collapses whitespace so trivially
// different spellings share one cache entry.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// Search answers a query with at most limit patterns.
func (g *Gateway) Search(ctx context.Context, query string, limit int) (*Result, error) {
	key := NormalizeQuery(query)
	if key == "" {
		return nil, fmt.Errorf("%w: query must not be empty", common.ErrInvalidFilter)
	}
	if limit <= 0 {
		limit = 10
	}

	// Cache first: a hit answers without spending.
	ids, total, hit, err := g.store.CacheGet(ctx, key, g.cfg.CacheTTL)
	if err != nil {
		return nil, err
	}
	if hit {
		summaries, err := g.store.SummariesByIDs(ctx, truncateIDs(ids, limit))
		if err != nil {
			return nil, err
		}
		g.logger.Debug("search cache hit", "query", key)
		return &Result{Query: key, Method: MethodLLM, Patterns: summaries, Total: total}, nil
	}

	if g.ranker == nil {
		g.logger.Debug("no ranking credential configured, using keyword search", "query", key)
		return g.keyword(ctx, key, limit)
	}

	result, err := g.semantic(ctx, key, limit)
	if err != nil {
		if !common.IsFallback(err) {
			return nil, err
		}
		g.logger.Warn("semantic search unavailable, falling back to keyword",
			"query", key,
			"reason", err)
		return g.keyword(ctx, key, limit)
	}
	return result, nil
}

// semantic runs one ranked query: budget check, model call, ledger charge,
// cache write. Any error wrapping a fallback sentinel sends the caller to
// the keyword path.
func (g *Gateway) semantic(ctx context.Context, key string, limit int) (*Result, error) {
	candidates, err := g.store.AllSummaries(ctx, g.cfg.CandidateLimit)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return &Result{Query: key, Method: MethodLLM, Patterns: nil, Total: 0}, nil
	}

	day := g.today()
	estimate := EstimateCost(len(BuildPrompt(key, candidates, limit)), 500)
	entry, err := g.store.DailyCost(ctx, day)
	if err != nil {
		return nil, err
	}
	if entry.CumulativeCost+estimate > g.cfg.DailyCostLimit {
		return nil, fmt.Errorf("%w: estimated charge %.4f would cross daily cap %.2f",
			common.ErrCostLimitExceeded, estimate, g.cfg.DailyCostLimit)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	ranking, err := g.ranker.Rank(callCtx, key, candidates, limit)
	if err != nil {
		return nil, err
	}

	// Charge actual usage before serving the answer. A cap hit here means
	// the answer is discarded rather than overspending the ledger.
	cost := ActualCost(ranking.InputTokens, ranking.OutputTokens)
	if err := g.store.AddCost(ctx, day, cost, g.cfg.DailyCostLimit); err != nil {
		return nil, err
	}
	g.logger.Info("semantic search charged",
		"query", key,
		"cost", cost,
		"input_tokens", ranking.InputTokens,
		"output_tokens", ranking.OutputTokens)

	ids := filterKnownIDs(ranking.IDs, candidates)
	if err := g.store.CachePut(ctx, key, ids, len(ids)); err != nil {
		return nil, err
	}

	summaries, err := g.store.SummariesByIDs(ctx, truncateIDs(ids, limit))
	if err != nil {
		return nil, err
	}
	return &Result{Query: key, Method: MethodLLM, Patterns: summaries, Total: len(ids)}, nil
}

// keyword is the zero-cost fallback path over the catalog's ranked
// substring search.
func (g *Gateway) keyword(ctx context.Context, key string, limit int) (*Result, error) {
	page, err := g.store.QueryPatterns(ctx, model.PatternFilter{
		Query:    key,
		Page:     1,
		PageSize: limit,
	})
	if err != nil {
		return nil, err
	}
	return &Result{
		Query:    key,
		Method:   MethodKeyword,
		Patterns: page.Patterns,
		Total:    page.Total,
	}, nil
}

// CostStatus reports today's ledger entry and the configured cap.
func (g *Gateway) CostStatus(ctx context.Context) (model.CostEntry, float64, error) {
	entry, err := g.store.DailyCost(ctx, g.today())
	if err != nil {
		return model.CostEntry{}, 0, err
	}
	return entry, g.cfg.DailyCostLimit, nil
}

// ClearCache drops all cached search answers.
func (g *Gateway) ClearCache(ctx context.Context) (int64, error) {
	return g.store.CacheClear(ctx)
}

// today returns the UTC ledger day.
func (g *Gateway) today() string {
	return g.now().UTC().Format("2006-01-02")
}

// filterKnownIDs drops ids the model invented; only ids from the candidate
// set are servable.
func filterKnownIDs(ids []int64, candidates []model.Summary) []int64 {
	known := make(map[int64]bool, len(candidates))
	for _, c := range candidates {
		known[c.ID] = true
	}
	var out []int64
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if known[id] && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func truncateIDs(ids []int64, limit int) []int64 {
	if len(ids) > limit {
		return ids[:limit]
	}
	return ids
}
