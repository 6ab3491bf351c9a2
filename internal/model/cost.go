package model

// CostEntry is the per-day record of spend against the external search
// service. CumulativeCost only grows within a day and resets at the day
// boundary (a new row per date).
type CostEntry struct {
	Day            string  `json:"day"`
	CumulativeCost float64 `json:"daily_cost"`
	RequestCount   int     `json:"request_count"`
}
