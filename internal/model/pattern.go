// Package model defines the core data structures for the patternforge application.
package model

import (
	"time"
)

// Category is the fixed display category a pattern belongs to.
type Category string

// Pattern categories.
const (
	CategoryFlowLogic      Category = "Flow Logic"
	CategoryDataValidation Category = "Data Validation"
	CategoryDataModel      Category = "Data Model"
	CategoryUIComponent    Category = "UI Component"
	CategoryReporting      Category = "Reporting"
	CategoryPageLayout     Category = "Page Layout"
	CategoryOtherLogic     Category = "Other-Logic"
)

// Categories lists all valid categories in display order.
func Categories() []Category {
	return []Category{
		CategoryFlowLogic,
		CategoryDataValidation,
		CategoryDataModel,
		CategoryUIComponent,
		CategoryReporting,
		CategoryPageLayout,
		CategoryOtherLogic,
	}
}

// Pattern is a single extracted, anonymized metadata pattern.
// Patterns are deduplicated by Fingerprint: re-extracting the same structure
// increments UseCount instead of creating a new row.
type Pattern struct {
	CreatedAt       time.Time `json:"created_at"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	PatternType     string    `json:"pattern_type"`
	Category        Category  `json:"category"`
	SourceObject    string    `json:"source_object"`
	SourceFile      string    `json:"source_file"`
	SourceHash      string    `json:"source_hash"`
	APIVersion      string    `json:"api_version"`
	Fingerprint     string    `json:"fingerprint"`
	Structure       *Node     `json:"structure"`
	FieldReferences []string  `json:"field_references"`
	Tags            []string  `json:"tags"`
	ID              int64     `json:"id"`
	ComplexityScore int       `json:"complexity_score"`
	UseCount        int       `json:"use_count"`
	Favorited       bool      `json:"favorited"`
}

// Summary is the lightweight projection of a pattern used for list views
// and for building semantic search prompts.
type Summary struct {
	Name            string   `json:"name"`
	PatternType     string   `json:"pattern_type"`
	Category        Category `json:"category"`
	SourceObject    string   `json:"source_object"`
	Tags            []string `json:"tags"`
	ID              int64    `json:"id"`
	ComplexityScore int      `json:"complexity_score"`
	UseCount        int      `json:"use_count"`
	Favorited       bool     `json:"favorited"`
}

// Summarize returns the lightweight projection of p.
func (p *Pattern) Summarize() Summary {
	return Summary{
		ID:              p.ID,
		Name:            p.Name,
		PatternType:     p.PatternType,
		Category:        p.Category,
		SourceObject:    p.SourceObject,
		Tags:            p.Tags,
		ComplexityScore: p.ComplexityScore,
		UseCount:        p.UseCount,
		Favorited:       p.Favorited,
	}
}

// PatternFilter holds the optional query filters for the catalog. All set
// filters combine with logical AND. Zero values mean "not filtered".
type PatternFilter struct {
	Category      string `json:"category,omitempty"`
	PatternType   string `json:"pattern_type,omitempty"`
	SourceObject  string `json:"source_object,omitempty"`
	Query         string `json:"q,omitempty"`
	MinComplexity int    `json:"min_complexity,omitempty"`
	MaxComplexity int    `json:"max_complexity,omitempty"`
	Page          int    `json:"page,omitempty"`
	PageSize      int    `json:"page_size,omitempty"`
	FavoritedOnly bool   `json:"favorited,omitempty"`
}

// PatternPage is one page of catalog query results.
type PatternPage struct {
	Patterns []Summary `json:"patterns"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
}

// CategoryStat is an aggregate pattern count for one category.
type CategoryStat struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// CatalogStats aggregates catalog-wide counts.
type CatalogStats struct {
	ByCategory []CategoryStat `json:"by_category"`
	Sources    []Source       `json:"sources"`
	Total      int            `json:"total_patterns"`
}

// Source records one ingested project export (anonymized).
type Source struct {
	IngestedAt     time.Time      `json:"ingested_at"`
	SourceHash     string         `json:"source_hash"`
	DisplayName    string         `json:"display_name"`
	MetadataCounts map[string]int `json:"metadata_counts"`
	ID             int64          `json:"id"`
	PatternCount   int            `json:"pattern_count"`
}
