// Package extract turns anonymized trees into catalog patterns: it
// classifies, names, scores, tags, and fingerprints each tree.
package extract

import (
	"fmt"
	"strings"

	"patternforge/internal/model"
)

// categoryByType maps root node types to catalog categories.
var categoryByType = map[string]model.Category{
	"flow":             model.CategoryFlowLogic,
	"validationRule":   model.CategoryDataValidation,
	"objectDefinition": model.CategoryDataModel,
	"fieldDefinition":  model.CategoryDataModel,
	"lwcComponent":     model.CategoryUIComponent,
	"report":           model.CategoryReporting,
	"layout":           model.CategoryPageLayout,
	"apexClass":        model.CategoryOtherLogic,
}

// Extractor builds Pattern records from anonymized trees. The scrub
// function cleans derived strings such as names and tags, since those are
// built from attribute values that may predate anonymization.
type Extractor struct {
	scrub func(string) string
}

// New creates an Extractor. A nil scrub function means pass-through.
func New(scrub func(string) string) *Extractor {
	if scrub == nil {
		scrub = func(s string) string { return s }
	}
	return &Extractor{scrub: scrub}
}

// Extract produces one pattern per tree. Every document yields exactly one
// pattern whose root is the whole tree; elements stay as children so the
// structure survives intact. sourceFile is the project-relative path and
// sourceHash identifies the ingested project.
func (e *Extractor) Extract(root *model.Node, sourceFile, sourceHash string) (*model.Pattern, error) {
	if root == nil {
		return nil, fmt.Errorf("extract: nil tree")
	}
	category, ok := categoryByType[root.Type]
	if !ok {
		return nil, fmt.Errorf("extract: unknown root type %q", root.Type)
	}

	p := &model.Pattern{
		Name:            e.scrub(patternName(root)),
		Description:     e.scrub(describe(root)),
		PatternType:     root.Type,
		Category:        category,
		SourceObject:    e.scrub(root.Get("object")),
		SourceFile:      sourceFile,
		SourceHash:      sourceHash,
		APIVersion:      root.Get("apiVersion"),
		Structure:       root,
		ComplexityScore: Complexity(root),
		Fingerprint:     Fingerprint(root),
	}
	p.FieldReferences = e.fieldReferences(root)
	p.Tags = e.tags(p, root)
	return p, nil
}

// Complexity scores structural richness from 1 to 5: one point each for
// the presence-weighted counts of decisions, loops, fault paths, and
// subcomponents, on top of a base of 1.
func Complexity(root *model.Node) int {
	score := 1
	score += root.CountType("decision")
	score += root.CountType("loop")
	score += root.CountType("faultConnector") + root.CountType("faultHandler")
	score += root.CountType("subflow") + root.CountType("childComponent")
	if score > 5 {
		score = 5
	}
	return score
}

// tags derives searchable facets from the pattern. Tag values pass through
// the scrubber so derived strings never leak raw identifiers.
func (e *Extractor) tags(p *model.Pattern, root *model.Node) []string {
	tags := []string{
		p.PatternType,
		slug(string(p.Category)),
	}
	if p.SourceObject != "" {
		tags = append(tags, e.scrub(strings.ToLower(p.SourceObject)))
	}
	if trigger := root.Get("triggerType"); trigger != "" {
		tags = append(tags, slug(trigger))
	}
	if root.CountType("loop") > 0 {
		tags = append(tags, "has-loop")
	}
	if root.CountType("faultConnector")+root.CountType("faultHandler") > 0 {
		tags = append(tags, "has-fault-path")
	}
	if p.ComplexityScore >= 4 {
		tags = append(tags, "complex")
	} else if p.ComplexityScore <= 2 {
		tags = append(tags, "simple")
	}
	return dedupe(tags)
}

func slug(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	return s
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
