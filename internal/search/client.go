// Package search provides the cost-bounded semantic search gateway over
// the pattern catalog.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"patternforge/internal/common"
	"patternforge/internal/model"
)

// Ranking is a ranker's answer: candidate ids ordered most relevant first,
// plus the token usage the call consumed.
type Ranking struct {
	IDs          []int64
	InputTokens  int
	OutputTokens int
}

// Ranker orders catalog candidates by relevance to a natural language
// query.
type Ranker interface {
	Rank(ctx context.Context, query string, candidates []model.Summary, limit int) (*Ranking, error)
}

// ClientConfig configures the Anthropic-backed ranker.
type ClientConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

const defaultEndpoint = "https://api.anthropic.com/v1/messages"

// anthropicRanker implements Ranker against the Anthropic messages API.
type anthropicRanker struct {
	httpClient *http.Client
	apiKey     string
	model      string
	endpoint   string
	maxTokens  int
	retry      common.RetryOptions
}

// NewAnthropicRanker creates a ranker. An empty API key is an error;
// callers decide whether that means fallback or failure.
func NewAnthropicRanker(cfg ClientConfig) (Ranker, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: anthropic API key is required", common.ErrMissingConfig)
	}

	model := cfg.Model
	if model == "" {
		model = "claude-3-5-haiku-20241022"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}

	return &anthropicRanker{
		apiKey:    cfg.APIKey,
		model:     model,
		endpoint:  defaultEndpoint,
		maxTokens: maxTokens,
		retry: common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 250 * time.Millisecond,
			MaxDelay:     2 * time.Second,
		},
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

const rankSystemPrompt = "You rank reusable metadata patterns by relevance to a query. " +
	"Respond only with a JSON array of pattern ids, most relevant first. " +
	"Include only genuinely relevant ids."

// Rank sends the candidate set and query to the model and parses the
// returned id ordering.
func (c *anthropicRanker) Rank(ctx context.Context, query string, candidates []model.Summary, limit int) (*Ranking, error) {
	requestBody := map[string]any{
		"model":      c.model,
		"max_tokens": c.maxTokens,
		"system":     rankSystemPrompt,
		"messages": []map[string]string{
			{
				"role":    "user",
				"content": BuildPrompt(query, candidates, limit),
			},
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Transient transport failures and rate limits retry with backoff;
	// everything else fails fast.
	var body []byte
	err = common.WithRetry(ctx, func() error {
		b, exchangeErr := c.exchange(ctx, jsonBody)
		if exchangeErr != nil {
			return exchangeErr
		}
		body = b
		return nil
	}, c.retry)
	if err != nil {
		return nil, err
	}

	var response anthropicResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response envelope: %v", common.ErrMalformedLLMResponse, err)
	}
	if len(response.Content) == 0 {
		return nil, fmt.Errorf("%w: no content in response", common.ErrMalformedLLMResponse)
	}

	ids, err := parseIDArray(response.Content[0].Text)
	if err != nil {
		return nil, err
	}

	return &Ranking{
		IDs:          ids,
		InputTokens:  response.Usage.InputTokens,
		OutputTokens: response.Usage.OutputTokens,
	}, nil
}

// exchange performs one HTTP round trip and classifies failures for the
// retry loop.
func (c *anthropicRanker) exchange(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("%w: request failed: %v", common.ErrServiceUnavailable, err),
			Retryable: true,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("%w: failed to read response: %v", common.ErrServiceUnavailable, err),
			Retryable: true,
		}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("%w: %w", common.ErrServiceUnavailable, common.ErrRateLimit),
			Retryable: true,
		}
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("%w: anthropic API error (status %d)", common.ErrServiceUnavailable, resp.StatusCode),
			Retryable: true,
		}
	case resp.StatusCode != http.StatusOK:
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("%w: anthropic API error (status %d): %s", common.ErrServiceUnavailable, resp.StatusCode, string(body)),
			Retryable: false,
		}
	}

	return body, nil
}

// BuildPrompt renders one candidate per line plus the query and result
// budget. Exported so the gateway can estimate prompt size before spending.
func BuildPrompt(query string, candidates []model.Summary, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\nReturn at most %d pattern ids.\n\nPatterns:\n", query, limit)
	for _, c := range candidates {
		fmt.Fprintf(&b, "%d | %s | %s | %s | object=%s | complexity=%d | tags=%s\n",
			c.ID, c.Name, c.Category, c.PatternType, c.SourceObject,
			c.ComplexityScore, strings.Join(c.Tags, ","))
	}
	return b.String()
}

// parseIDArray extracts the first JSON array from model output, tolerating
// markdown fences and surrounding prose.
func parseIDArray(content string) ([]int64, error) {
	content = cleanMarkdownWrapper(content)

	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON array in output", common.ErrMalformedLLMResponse)
	}

	var ids []int64
	if err := json.Unmarshal([]byte(content[start:end+1]), &ids); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedLLMResponse, err)
	}
	return ids, nil
}

// cleanMarkdownWrapper strips markdown code fences from model output.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		if idx := strings.Index(content, "\n"); idx >= 0 {
			content = content[idx+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}
	return strings.TrimSpace(content)
}

// anthropicResponse represents the Anthropic API response structure.
type anthropicResponse struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Role       string `json:"role"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}
