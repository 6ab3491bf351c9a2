// Package anonymize strips org-identifying data from normalized trees.
//
// The pipeline runs a fixed sequence of passes: structured-identifier regex
// scrubbing, heuristic brand detection, dictionary matching against known
// organization names, and an ecosystem allowlist that exempts third-party
// product names. The regex and dictionary passes are total; the heuristic
// pass is best-effort and documented as such. A pattern should reveal WHAT
// it does structurally, never WHO it was built for.
package anonymize

import (
	"fmt"
	"regexp"
	"strings"

	"patternforge/internal/model"
)

// Pass names recorded in the change log.
const (
	PassRegex      = "regex"
	PassHeuristic  = "heuristic"
	PassDictionary = "dictionary"
	PassRedact     = "redact"
)

// Change records one replacement made by the pipeline.
type Change struct {
	Pass        string `json:"pass"`
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
}

// Options configures an Anonymizer for one ingestion run.
type Options struct {
	// CustomTerms are aliased up front, before any detection.
	CustomTerms []string
	// Dictionary adds to the built-in list of known organization names.
	Dictionary []string
	// Allowlist adds to the built-in list of ecosystem product names.
	Allowlist []string
}

// Anonymizer applies the anonymization pipeline to normalized trees. It is
// constructed per ingestion run and owns all alias state: aliases are
// assigned in first-seen order and are stable within a run, but fresh
// aliases are chosen on every new run.
type Anonymizer struct {
	aliases   map[string]string
	dict      map[string]struct{}
	allowSet  map[string]struct{}
	order     []string
	allowSubs []string
}

// New creates an Anonymizer. Custom terms are aliased immediately, in the
// order given.
func New(opts Options) *Anonymizer {
	a := &Anonymizer{
		aliases:  make(map[string]string),
		dict:     make(map[string]struct{}),
		allowSet: make(map[string]struct{}),
	}

	for _, name := range builtinDictionary {
		a.dict[strings.ToLower(name)] = struct{}{}
	}
	for _, name := range opts.Dictionary {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			a.dict[name] = struct{}{}
		}
	}

	for _, product := range builtinAllowlist {
		a.addAllowlisted(product)
	}
	for _, product := range opts.Allowlist {
		a.addAllowlisted(product)
	}

	for _, term := range opts.CustomTerms {
		term = strings.TrimSpace(term)
		if term != "" {
			a.aliasFor(term)
		}
	}

	return a
}

func (a *Anonymizer) addAllowlisted(product string) {
	product = strings.ToLower(strings.TrimSpace(product))
	if product == "" {
		return
	}
	if _, ok := a.allowSet[product]; ok {
		return
	}
	a.allowSet[product] = struct{}{}
	// Substring matching needs 4+ chars to avoid short false positives.
	if len(product) >= 4 {
		a.allowSubs = append(a.allowSubs, product)
	}
}

// aliasFor returns the alias for a raw token, assigning the next sequential
// label on first sight. Lookup is case-insensitive so every casing of the
// same token maps to one alias.
func (a *Anonymizer) aliasFor(token string) string {
	key := strings.ToLower(token)
	if alias, ok := a.aliases[key]; ok {
		return alias
	}
	a.order = append(a.order, token)
	alias := genericLabel(len(a.order))
	a.aliases[key] = alias
	return alias
}

// genericLabel produces Brand_A..Brand_Z, then Brand_27 onward.
func genericLabel(n int) string {
	if n <= 26 {
		return fmt.Sprintf("Brand_%c", 'A'+n-1)
	}
	return fmt.Sprintf("Brand_%d", n)
}

// Aliases returns the raw-token-to-alias map in first-seen order.
func (a *Anonymizer) Aliases() []Change {
	out := make([]Change, 0, len(a.order))
	for _, raw := range a.order {
		out = append(out, Change{
			Pass:        PassHeuristic,
			Original:    raw,
			Replacement: a.aliases[strings.ToLower(raw)],
		})
	}
	return out
}

// Anonymize runs the full pipeline over a tree, returning a new tree and
// the change log. The input is never mutated. Re-running the pipeline on
// its own output is a no-op.
func (a *Anonymizer) Anonymize(n *model.Node) (*model.Node, []Change) {
	if n == nil {
		return nil, nil
	}

	clone := n.Clone()
	var changes []Change
	logged := make(map[string]bool)

	record := func(pass, original, replacement string) {
		key := pass + "\x00" + original
		if logged[key] {
			return
		}
		logged[key] = true
		changes = append(changes, Change{Pass: pass, Original: original, Replacement: replacement})
	}

	clone.Walk(func(node *model.Node) {
		for _, key := range node.AttrKeys() {
			value := node.Attrs[key]
			if value == "" {
				continue
			}
			if redactedKeys[key] {
				placeholder := "[" + strings.ToUpper(key) + "]"
				if value != placeholder {
					node.Attrs[key] = placeholder
					record(PassRedact, value, placeholder)
				}
				continue
			}
			node.Attrs[key] = a.scrub(value, record)
		}
	})

	return clone, changes
}

// ScrubString applies the regex and brand passes to a standalone string.
// Used for pattern names, tags, and field references, which need scrubbing
// but not redaction.
func (a *Anonymizer) ScrubString(s string) string {
	return a.scrub(s, func(string, string, string) {})
}

func (a *Anonymizer) scrub(value string, record func(pass, original, replacement string)) string {
	result := value

	for _, cp := range categoryPatterns {
		result = cp.re.ReplaceAllStringFunc(result, func(match string) string {
			if cp.accept != nil && !cp.accept(match) {
				return match
			}
			record(PassRegex, match, cp.placeholder)
			return cp.placeholder
		})
	}

	result = tokenRe.ReplaceAllStringFunc(result, func(token string) string {
		return a.scrubToken(token, record)
	})

	return result
}

// scrubToken applies the brand passes to one word token. Allowlisted
// ecosystem product names are exempt: their presence signals an integration
// requirement, which is transferable structural knowledge.
func (a *Anonymizer) scrubToken(token string, record func(pass, original, replacement string)) string {
	lower := strings.ToLower(token)

	if a.isAllowlisted(lower) {
		return token
	}
	if alias, ok := a.aliases[lower]; ok {
		return alias
	}
	if _, ok := a.dict[lower]; ok {
		alias := a.aliasFor(token)
		record(PassDictionary, token, alias)
		return alias
	}
	if standardObjects[token] || standardFields[token] || structuralWords[lower] {
		return token
	}
	if looksLikeBrand(token) {
		alias := a.aliasFor(token)
		record(PassHeuristic, token, alias)
		return alias
	}
	return token
}

func (a *Anonymizer) isAllowlisted(lower string) bool {
	if _, ok := a.allowSet[lower]; ok {
		return true
	}
	for _, product := range a.allowSubs {
		if strings.Contains(lower, product) {
			return true
		}
	}
	return false
}

// Verify reports residual tokens that still match a scrub regex or a
// dictionary entry after anonymization, excluding allowlisted tokens. A
// non-empty result signals incomplete anonymization; callers log it and
// continue, since the heuristic pass carries no completeness guarantee.
func (a *Anonymizer) Verify(n *model.Node) []string {
	var residual []string
	seen := make(map[string]bool)

	report := func(token string) {
		if !seen[token] {
			seen[token] = true
			residual = append(residual, token)
		}
	}

	n.Walk(func(node *model.Node) {
		for _, key := range node.AttrKeys() {
			value := node.Attrs[key]
			if value == "" {
				continue
			}
			for _, cp := range categoryPatterns {
				for _, match := range cp.re.FindAllString(value, -1) {
					if cp.accept == nil || cp.accept(match) {
						report(match)
					}
				}
			}
			for _, token := range tokenRe.FindAllString(value, -1) {
				lower := strings.ToLower(token)
				if _, ok := a.dict[lower]; ok && !a.isAllowlisted(lower) {
					report(token)
				}
			}
		}
	})

	return residual
}

// tokenRe matches letter-led word tokens. Underscores act as boundaries so
// compound API names decompose into their segments.
var tokenRe = regexp.MustCompile(`[A-Za-z][A-Za-z0-9]*`)

// redactedKeys are content attributes whose free text is replaced wholesale
// rather than scrubbed; prose carries too much risk to keep.
var redactedKeys = map[string]bool{
	"errorMessage":   true,
	"helpText":       true,
	"inputText":      true,
	"outputText":     true,
	"choiceText":     true,
	"interviewLabel": true,
	"description":    true,
}
