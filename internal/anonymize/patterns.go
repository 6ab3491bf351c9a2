package anonymize

import (
	"regexp"
	"strings"
)

// categoryPattern pairs a structured-identifier regex with its category
// placeholder. An optional accept func narrows matches the regex alone
// cannot express.
type categoryPattern struct {
	re          *regexp.Regexp
	accept      func(match string) bool
	placeholder string
}

// categoryPatterns run in a fixed order: broad composite identifiers first
// so narrower patterns never match inside an already-replaced span.
var categoryPatterns = []categoryPattern{
	{
		re:          regexp.MustCompile(`https?://[^\s<>"']+`),
		placeholder: "[URL]",
	},
	{
		re:          regexp.MustCompile(`\b[\w.+-]+@[\w-]+\.[\w.-]+\b`),
		placeholder: "[EMAIL]",
	},
	{
		re:          regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
		placeholder: "[IP]",
	},
	{
		re:          regexp.MustCompile(`\+?\d{1,2}[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`),
		placeholder: "[PHONE]",
	},
	{
		re:          regexp.MustCompile(`\$\s?\d[\d,]*(?:\.\d+)?\b`),
		placeholder: "[AMOUNT]",
	},
	{
		re:          regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b|\b\d{1,2}/\d{1,2}/\d{4}\b`),
		placeholder: "[DATE]",
	},
	{
		re:          regexp.MustCompile(`\b[a-zA-Z0-9]{15}(?:[a-zA-Z0-9]{3})?\b`),
		accept:      isRecordID,
		placeholder: "[RECORD_ID]",
	},
}

// recordIDPrefixes are the three-character key prefixes of the platform's
// common record types. The 15/18-char alphanumeric shape alone matches too
// much, so a candidate must also carry a known prefix and mixed case or a
// digit.
var recordIDPrefixes = map[string]bool{
	"001": true, "003": true, "005": true, "006": true, "00D": true,
	"00E": true, "00G": true, "00N": true, "00Q": true, "00T": true,
	"00U": true, "00e": true, "01I": true, "01p": true, "01t": true,
	"02i": true, "066": true, "068": true, "069": true, "0Af": true,
	"0Hn": true, "500": true, "701": true, "800": true, "801": true,
	"a00": true, "a01": true, "a02": true, "a03": true, "a04": true,
}

func isRecordID(match string) bool {
	if len(match) != 15 && len(match) != 18 {
		return false
	}
	if !recordIDPrefixes[match[:3]] {
		return false
	}
	hasDigit := strings.ContainsAny(match, "0123456789")
	hasUpper := match != strings.ToLower(match)
	hasLower := match != strings.ToUpper(match)
	return hasDigit && hasUpper && hasLower
}
