package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"patternforge/internal/common"
	"patternforge/internal/model"
)

func TestNewAnthropicRanker_RequiresKey(t *testing.T) {
	_, err := NewAnthropicRanker(ClientConfig{})
	if !errors.Is(err, common.ErrMissingConfig) {
		t.Errorf("Expected ErrMissingConfig, got %v", err)
	}
}

func TestBuildPrompt(t *testing.T) {
	candidates := []model.Summary{
		{
			ID:              7,
			Name:            "Lead Routing",
			Category:        model.CategoryFlowLogic,
			PatternType:     "flow",
			SourceObject:    "Lead",
			ComplexityScore: 3,
			Tags:            []string{"flow", "has-loop"},
		},
	}

	prompt := BuildPrompt("route new leads", candidates, 5)

	if !strings.Contains(prompt, "Query: route new leads") {
		t.Errorf("Missing query line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "at most 5 pattern ids") {
		t.Errorf("Missing result budget:\n%s", prompt)
	}
	if !strings.Contains(prompt, "7 | Lead Routing | Flow Logic | flow | object=Lead | complexity=3 | tags=flow,has-loop") {
		t.Errorf("Missing candidate line:\n%s", prompt)
	}
}

func TestParseIDArray(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []int64
		wantErr bool
	}{
		{"bare array", "[3, 1, 2]", []int64{3, 1, 2}, false},
		{"fenced", "```json\n[5, 9]\n```", []int64{5, 9}, false},
		{"with prose", "The most relevant are: [12, 4]. Others did not match.", []int64{12, 4}, false},
		{"empty array", "[]", []int64{}, false},
		{"no array", "none of these match", nil, true},
		{"not numbers", `["a", "b"]`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIDArray(tt.content)
			if tt.wantErr {
				if !errors.Is(err, common.ErrMalformedLLMResponse) {
					t.Errorf("Expected ErrMalformedLLMResponse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseIDArray failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnthropicRanker_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		sentinel error
	}{
		{
			"http error status",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			common.ErrServiceUnavailable,
		},
		{
			"invalid envelope",
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
			common.ErrMalformedLLMResponse,
		},
		{
			"empty content",
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"content": [], "usage": {"input_tokens": 1, "output_tokens": 0}}`))
			},
			common.ErrMalformedLLMResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			ranker := &anthropicRanker{
				apiKey:     "test-key",
				model:      "claude-3-5-haiku-20241022",
				maxTokens:  500,
				httpClient: server.Client(),
				endpoint:   server.URL,
				retry:      common.RetryOptions{MaxAttempts: 1},
			}

			_, err := ranker.Rank(context.Background(), "query", []model.Summary{{ID: 1}}, 5)
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("Expected %v, got %v", tt.sentinel, err)
			}
		})
	}
}

func TestAnthropicRanker_ParsesUsage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got == "" {
			t.Error("Missing anthropic-version header")
		}
		_, _ = w.Write([]byte(`{
			"content": [{"type": "text", "text": "[2, 1]"}],
			"usage": {"input_tokens": 321, "output_tokens": 12}
		}`))
	}))
	defer server.Close()

	ranker := &anthropicRanker{
		apiKey:     "test-key",
		model:      "claude-3-5-haiku-20241022",
		maxTokens:  500,
		httpClient: server.Client(),
		endpoint:   server.URL,
		retry:      common.RetryOptions{MaxAttempts: 1},
	}

	ranking, err := ranker.Rank(context.Background(), "query", []model.Summary{{ID: 1}, {ID: 2}}, 5)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if !reflect.DeepEqual(ranking.IDs, []int64{2, 1}) {
		t.Errorf("IDs = %v", ranking.IDs)
	}
	if ranking.InputTokens != 321 || ranking.OutputTokens != 12 {
		t.Errorf("Usage = %d/%d", ranking.InputTokens, ranking.OutputTokens)
	}
}
