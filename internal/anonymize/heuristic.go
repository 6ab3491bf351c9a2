package anonymize

import (
	"regexp"
	"strings"
)

var (
	tokenPartRe  = regexp.MustCompile(`[A-Z]+[a-z]*|[a-z]+|\d+`)
	hasCamelRe   = regexp.MustCompile(`[a-z][A-Z]`)
	allCapsRunRe = regexp.MustCompile(`[A-Z]{2,}[a-z]`)
	mixedNumRe   = regexp.MustCompile(`[A-Za-z]\d|\d[A-Za-z]`)
)

// splitParts decomposes a token into its camelCase words. The part pattern
// keeps an all-caps run glued to any lowercase run that follows it; the
// run's last capital belongs to the next word, and is peeled off here
// ("MQLScore" yields "MQL" and "Score").
func splitParts(token string) []string {
	raw := tokenPartRe.FindAllString(token, -1)
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		upper := 0
		for upper < len(p) && p[upper] >= 'A' && p[upper] <= 'Z' {
			upper++
		}
		if upper >= 2 && upper < len(p) {
			parts = append(parts, p[:upper-1], p[upper-1:])
			continue
		}
		parts = append(parts, p)
	}
	return parts
}

// looksLikeBrand reports whether a token resembles an invented product or
// company name rather than generic business vocabulary. Candidates show
// multi-word naming (camelCase, an all-caps run against lowercase, or
// letter-digit mixing); a candidate is rejected when every decomposed part
// is a common business or platform word, since compounds of ordinary words
// are far more often field vocabulary than brands.
func looksLikeBrand(token string) bool {
	if len(token) < 4 {
		return false
	}

	shaped := hasCamelRe.MatchString(token) ||
		allCapsRunRe.MatchString(token) ||
		(len(token) >= 6 && mixedNumRe.MatchString(token))
	if !shaped {
		return false
	}

	parts := splitParts(token)
	if len(parts) < 2 {
		return false
	}
	for _, part := range parts {
		if !isCommonWord(part) {
			return true
		}
	}
	return false
}

func isCommonWord(part string) bool {
	if len(part) <= 1 || isDigits(part) {
		return true
	}
	return commonWords[strings.ToLower(part)]
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
