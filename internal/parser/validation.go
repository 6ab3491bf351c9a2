package parser

import (
	"path/filepath"
	"strconv"
	"strings"

	"patternforge/internal/model"
)

// Formula functions recognized when analyzing validation rule conditions.
var formulaFunctions = []string{
	"AND", "OR", "NOT", "IF", "CASE", "ISBLANK", "ISNULL",
	"ISPICKVAL", "ISCHANGED", "ISNEW", "PRIORVALUE",
	"TEXT", "VALUE", "LEN", "LEFT", "RIGHT", "MID",
	"CONTAINS", "BEGINS", "INCLUDES",
	"TODAY", "NOW", "DATEVALUE", "DATETIMEVALUE",
	"YEAR", "MONTH", "DAY",
	"REGEX", "SUBSTITUTE", "TRIM",
	"NULLVALUE", "BLANKVALUE",
}

// ValidationParser parses validation rule metadata. The formula's boolean
// branches become decision children so rule intricacy is visible to the
// complexity scorer.
type ValidationParser struct{}

// Parse implements Parser.
func (p *ValidationParser) Parse(doc Document) (*model.Node, error) {
	root, err := decodeXML(doc.Content)
	if err != nil {
		return nil, newParseError(doc, "invalid validation rule XML", err)
	}
	if root.Tag != "ValidationRule" {
		return nil, newParseError(doc, "unexpected root element "+strconv.Quote(root.Tag), nil)
	}

	stem := strings.TrimSuffix(doc.Name(), ".validationRule-meta.xml")
	formula := root.findText("errorConditionFormula", "")
	formulaUpper := strings.ToUpper(formula)

	rule := model.NewNode("validationRule").
		Set("fullName", root.findText("fullName", stem)).
		Set("active", root.findText("active", "false")).
		Set("errorMessage", root.findText("errorMessage", "")).
		Set("errorDisplayField", root.findText("errorDisplayField", "")).
		Set("formula", formula)

	if obj := objectFromPath(doc.Path); obj != "" {
		rule.Set("object", obj)
	}

	var functionsUsed []string
	for _, fn := range formulaFunctions {
		if strings.Contains(formulaUpper, fn+"(") {
			functionsUsed = append(functionsUsed, fn)
		}
	}
	if len(functionsUsed) > 0 {
		rule.Set("functionsUsed", strings.Join(functionsUsed, ","))
	}

	rule.Set("nestingDepth", strconv.Itoa(nestingDepth(formula)))

	if strings.Contains(formula, "$Permission") {
		rule.Set("usesPermissions", "true")
	}
	if strings.Contains(formula, "RecordType") {
		rule.Set("usesRecordType", "true")
	}
	if strings.Contains(formula, "$Profile") || strings.Contains(formula, "$UserRole") {
		rule.Set("usesProfile", "true")
	}

	// Each boolean branch is one decision point.
	branches := strings.Count(formulaUpper, "AND(") + strings.Count(formulaUpper, "OR(")
	for i := 0; i < branches; i++ {
		rule.Add(model.NewNode("decision").Set("branch", strconv.Itoa(i+1)))
	}

	return rule, nil
}

// nestingDepth returns the maximum parenthesis depth of a formula.
func nestingDepth(formula string) int {
	maxDepth, depth := 0, 0
	for _, r := range formula {
		switch r {
		case '(':
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case ')':
			depth--
		}
	}
	return maxDepth
}

// objectFromPath extracts the parent object name from a metadata path like
// objects/Account/validationRules/MyRule.validationRule-meta.xml.
func objectFromPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for i, part := range parts {
		if part == "objects" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}
