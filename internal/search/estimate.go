package search

// Pricing per million tokens for the default ranking model.
const (
	inputCostPerMTok  = 0.25
	outputCostPerMTok = 1.25

	// Rough chars-per-token ratio used for pre-call estimates.
	charsPerToken = 4
)

// EstimateCost predicts the worst-case dollar cost of a ranking call from
// the prompt size and output budget. Estimates intentionally round up:
// overestimating keeps the ledger under the cap even when usage reporting
// is unavailable.
func EstimateCost(promptChars, maxOutputTokens int) float64 {
	inputTokens := promptChars/charsPerToken + 1
	return tokenCost(inputTokens, maxOutputTokens)
}

// ActualCost computes the dollar cost from reported token usage.
func ActualCost(inputTokens, outputTokens int) float64 {
	return tokenCost(inputTokens, outputTokens)
}

func tokenCost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)/1e6*inputCostPerMTok +
		float64(outputTokens)/1e6*outputCostPerMTok
}
