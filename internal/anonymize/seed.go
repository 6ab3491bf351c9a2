package anonymize

import (
	"regexp"
	"strings"
)

var (
	fieldPartsRe = regexp.MustCompile(`^(\w+)\.(\w+)$`)
	namespaceRe  = regexp.MustCompile(`^(\w+?)__(\w+__c)$`)
)

// SeedFieldNames scans "Object.Field" references from a whole project and
// pre-registers aliases for likely brand prefixes before any tree is
// anonymized. Cross-object frequency makes this more reliable than
// per-token detection: a prefix recurring on two or more objects is a
// naming convention, and conventions carry the org's vocabulary.
//
// Seeding keeps alias assignment deterministic for a given input order.
func (a *Anonymizer) SeedFieldNames(fieldNames []string) {
	prefixObjects := make(map[string]map[string]bool)
	var prefixOrder []string

	for _, full := range fieldNames {
		m := fieldPartsRe.FindStringSubmatch(full)
		if m == nil {
			continue
		}
		object, field := m[1], m[2]

		// Managed package namespaces alias immediately unless allowlisted.
		if nm := namespaceRe.FindStringSubmatch(field); nm != nil {
			ns := nm[1]
			a.seedCandidate(ns)
			field = nm[2]
		}

		base := strings.TrimSuffix(strings.TrimSuffix(field, "__c"), "__r")
		prefix, _, ok := strings.Cut(base, "_")
		if !ok || len(prefix) < 4 {
			continue
		}
		lower := strings.ToLower(prefix)
		if structuralWords[lower] || commonWords[lower] ||
			standardObjects[prefix] || standardFields[prefix] || a.isAllowlisted(lower) {
			continue
		}
		if prefixObjects[prefix] == nil {
			prefixObjects[prefix] = make(map[string]bool)
			prefixOrder = append(prefixOrder, prefix)
		}
		prefixObjects[prefix][object] = true
	}

	// Recurrence across objects is evidence enough; no shape check here.
	// First-seen order keeps alias labels stable for one input.
	for _, prefix := range prefixOrder {
		if len(prefixObjects[prefix]) >= 2 {
			a.aliasFor(prefix)
		}
	}
}

// seedCandidate aliases a package namespace unless it is structural
// vocabulary or an allowlisted product.
func (a *Anonymizer) seedCandidate(token string) {
	lower := strings.ToLower(token)
	if len(token) < 3 || a.isAllowlisted(lower) || structuralWords[lower] || commonWords[lower] {
		return
	}
	a.aliasFor(token)
}
