package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"patternforge/internal/common"
	"patternforge/internal/model"
	"patternforge/internal/storage"
)

type fakeRanker struct {
	ranking  *Ranking
	err      error
	calls    int
	gotQuery string
}

func (f *fakeRanker) Rank(ctx context.Context, query string, candidates []model.Summary, limit int) (*Ranking, error) {
	f.calls++
	f.gotQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return f.ranking, nil
}

func newTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return store
}

func seedPatterns(t *testing.T, store *storage.SQLiteStorage, names ...string) []int64 {
	t.Helper()

	ids := make([]int64, 0, len(names))
	for i, name := range names {
		p := &model.Pattern{
			Fingerprint:     fmt.Sprintf("fp-%d", i),
			Name:            name,
			PatternType:     "flow",
			Category:        model.CategoryFlowLogic,
			Structure:       model.NewNode("flow").Set("label", name),
			ComplexityScore: 2,
		}
		id, _, _, err := store.InsertOrIncrement(context.Background(), p)
		if err != nil {
			t.Fatalf("Failed to seed pattern %q: %v", name, err)
		}
		ids = append(ids, id)
	}
	return ids
}

func TestGateway_EmptyQuery(t *testing.T) {
	g := NewGateway(newTestStore(t), nil, Config{}, nil)

	_, err := g.Search(context.Background(), "   ", 5)
	if !errors.Is(err, common.ErrInvalidFilter) {
		t.Errorf("Expected ErrInvalidFilter, got %v", err)
	}
}

func TestGateway_NilRankerUsesKeyword(t *testing.T) {
	store := newTestStore(t)
	seedPatterns(t, store, "Lead Routing", "Case Escalation")
	g := NewGateway(store, nil, Config{}, nil)

	result, err := g.Search(context.Background(), "lead", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.Method != MethodKeyword {
		t.Errorf("Method = %q, want keyword", result.Method)
	}
	if result.Total != 1 || result.Patterns[0].Name != "Lead Routing" {
		t.Errorf("Unexpected result: total %d, patterns %v", result.Total, result.Patterns)
	}
}

func TestGateway_SemanticRanksChargesAndCaches(t *testing.T) {
	store := newTestStore(t)
	ids := seedPatterns(t, store, "Lead Routing", "Case Escalation", "Renewal Reminder")
	ranker := &fakeRanker{ranking: &Ranking{
		IDs:          []int64{ids[2], ids[0], 9999, ids[0]},
		InputTokens:  100000,
		OutputTokens: 400,
	}}
	g := NewGateway(store, ranker, Config{}, nil)
	ctx := context.Background()

	result, err := g.Search(ctx, "  Renewal   FOLLOWUPS ", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.Method != MethodLLM {
		t.Errorf("Method = %q, want llm", result.Method)
	}
	if ranker.gotQuery != "renewal followups" {
		t.Errorf("Ranker saw query %q", ranker.gotQuery)
	}

	// The invented id and the repeat are dropped; order is the model's.
	if result.Total != 2 || len(result.Patterns) != 2 {
		t.Fatalf("Total = %d, patterns %d, want 2/2", result.Total, len(result.Patterns))
	}
	if result.Patterns[0].ID != ids[2] || result.Patterns[1].ID != ids[0] {
		t.Errorf("Ranked order wrong: %d, %d", result.Patterns[0].ID, result.Patterns[1].ID)
	}

	entry, limit, err := g.CostStatus(ctx)
	if err != nil {
		t.Fatalf("CostStatus failed: %v", err)
	}
	wantCost := ActualCost(100000, 400)
	if math.Abs(entry.CumulativeCost-wantCost) > 1e-9 {
		t.Errorf("CumulativeCost = %f, want %f", entry.CumulativeCost, wantCost)
	}
	if entry.RequestCount != 1 {
		t.Errorf("RequestCount = %d, want 1", entry.RequestCount)
	}
	if limit != 1.00 {
		t.Errorf("Limit = %f, want default 1.00", limit)
	}

	// A trivially respelled query hits the cache: same answer, no new call,
	// no new charge.
	again, err := g.Search(ctx, "renewal followups", 5)
	if err != nil {
		t.Fatalf("Cached search failed: %v", err)
	}
	if again.Method != MethodLLM || again.Total != 2 {
		t.Errorf("Cached result: method %q total %d", again.Method, again.Total)
	}
	if ranker.calls != 1 {
		t.Errorf("Ranker called %d times, want 1", ranker.calls)
	}
	entry, _, _ = g.CostStatus(ctx)
	if entry.RequestCount != 1 {
		t.Errorf("Cache hit charged the ledger: %+v", entry)
	}
}

func TestGateway_CapPreCheckFallsBack(t *testing.T) {
	store := newTestStore(t)
	seedPatterns(t, store, "Lead Routing")
	ranker := &fakeRanker{ranking: &Ranking{IDs: []int64{1}}}
	// The output budget alone estimates above this cap.
	g := NewGateway(store, ranker, Config{DailyCostLimit: 0.0001}, nil)

	result, err := g.Search(context.Background(), "lead", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.Method != MethodKeyword {
		t.Errorf("Method = %q, want keyword fallback", result.Method)
	}
	if ranker.calls != 0 {
		t.Errorf("Ranker called %d times before the budget check, want 0", ranker.calls)
	}
}

func TestGateway_PostCallCapDiscardsAnswer(t *testing.T) {
	store := newTestStore(t)
	ids := seedPatterns(t, store, "Lead Routing")
	// Reported usage prices the call above the default $1.00 cap.
	ranker := &fakeRanker{ranking: &Ranking{
		IDs:         []int64{ids[0]},
		InputTokens: 5_000_000,
	}}
	g := NewGateway(store, ranker, Config{}, nil)
	ctx := context.Background()

	result, err := g.Search(ctx, "lead", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.Method != MethodKeyword {
		t.Errorf("Method = %q, want keyword fallback", result.Method)
	}

	// The discarded answer must not be served from cache later.
	_, _, hit, err := store.CacheGet(ctx, "lead", 24*time.Hour)
	if err != nil {
		t.Fatalf("CacheGet failed: %v", err)
	}
	if hit {
		t.Error("Discarded answer was cached")
	}
}

func TestGateway_RankerErrors(t *testing.T) {
	store := newTestStore(t)
	seedPatterns(t, store, "Lead Routing")
	ctx := context.Background()

	// Service trouble degrades to keyword.
	ranker := &fakeRanker{err: fmt.Errorf("rank: %w", common.ErrServiceUnavailable)}
	g := NewGateway(store, ranker, Config{}, nil)
	result, err := g.Search(ctx, "lead", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.Method != MethodKeyword {
		t.Errorf("Method = %q, want keyword fallback", result.Method)
	}

	// Anything else surfaces.
	ranker = &fakeRanker{err: errors.New("corrupt state")}
	g = NewGateway(store, ranker, Config{}, nil)
	if _, err := g.Search(ctx, "lead", 5); err == nil {
		t.Error("Expected non-fallback error to surface")
	}
}

func TestGateway_EmptyCatalog(t *testing.T) {
	store := newTestStore(t)
	ranker := &fakeRanker{ranking: &Ranking{IDs: []int64{1}}}
	g := NewGateway(store, ranker, Config{}, nil)

	result, err := g.Search(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.Method != MethodLLM || result.Total != 0 {
		t.Errorf("Empty catalog: method %q total %d", result.Method, result.Total)
	}
	if ranker.calls != 0 {
		t.Errorf("Ranker called %d times on an empty catalog, want 0", ranker.calls)
	}
}

func TestGateway_ClearCache(t *testing.T) {
	store := newTestStore(t)
	ids := seedPatterns(t, store, "Lead Routing")
	ranker := &fakeRanker{ranking: &Ranking{IDs: []int64{ids[0]}, InputTokens: 100, OutputTokens: 10}}
	g := NewGateway(store, ranker, Config{}, nil)
	ctx := context.Background()

	if _, err := g.Search(ctx, "lead", 5); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	dropped, err := g.ClearCache(ctx)
	if err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}
	if dropped != 1 {
		t.Errorf("Dropped %d entries, want 1", dropped)
	}

	// Next search goes back to the ranker.
	if _, err := g.Search(ctx, "lead", 5); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if ranker.calls != 2 {
		t.Errorf("Ranker called %d times, want 2", ranker.calls)
	}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Lead Routing", "lead routing"},
		{"  LEAD\t\trouting \n", "lead routing"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := NormalizeQuery(tt.in); got != tt.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilterKnownIDs(t *testing.T) {
	candidates := []model.Summary{{ID: 1}, {ID: 2}, {ID: 3}}

	got := filterKnownIDs([]int64{3, 99, 1, 3}, candidates)
	want := []int64{3, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("filterKnownIDs = %v, want %v", got, want)
	}
}

func TestCostArithmetic(t *testing.T) {
	if got := ActualCost(1_000_000, 0); got != 0.25 {
		t.Errorf("Input cost = %f, want 0.25", got)
	}
	if got := ActualCost(0, 1_000_000); got != 1.25 {
		t.Errorf("Output cost = %f, want 1.25", got)
	}
	if EstimateCost(4000, 500) <= ActualCost(1000, 0) {
		t.Error("Estimate must include the output budget")
	}
}
