package extract

import (
	"regexp"
	"sort"
	"strings"

	"patternforge/internal/model"
)

var (
	customFieldRe = regexp.MustCompile(`\b\w+__[cr]\b`)
	dottedRefRe   = regexp.MustCompile(`\b[A-Z]\w*\.[A-Z]\w*\b`)
	mergeFieldRe  = regexp.MustCompile(`\$\w+\.\w+`)
)

// fieldReferences collects field API names referenced anywhere in the
// tree: custom field suffixes, dotted Object.Field pairs, and $-prefixed
// global references. Results are scrubbed, deduplicated, and sorted.
func (e *Extractor) fieldReferences(root *model.Node) []string {
	seen := make(map[string]bool)

	root.Walk(func(node *model.Node) {
		for _, key := range node.AttrKeys() {
			value := node.Attrs[key]
			if value == "" || strings.HasPrefix(value, "[") {
				continue
			}
			for _, re := range []*regexp.Regexp{customFieldRe, dottedRefRe, mergeFieldRe} {
				for _, match := range re.FindAllString(value, -1) {
					seen[e.scrub(match)] = true
				}
			}
		}
	})

	if len(seen) == 0 {
		return nil
	}
	refs := make([]string, 0, len(seen))
	for ref := range seen {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}
