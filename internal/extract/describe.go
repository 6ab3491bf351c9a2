package extract

import (
	"fmt"
	"strings"

	"patternforge/internal/model"
)

// patternName picks a human-readable name from the tree, preferring the
// authored label and falling back to a type-derived one.
func patternName(root *model.Node) string {
	switch root.Type {
	case "flow":
		if label := root.Get("label"); label != "" {
			return label
		}
		return fallbackName("Flow", root.Get("object"))
	case "validationRule":
		if name := root.Get("fullName"); name != "" {
			return name
		}
		return fallbackName("Validation rule", root.Get("object"))
	case "objectDefinition":
		return root.Get("objectName") + " object"
	case "fieldDefinition":
		return root.Get("fieldName") + " field"
	case "lwcComponent":
		return root.Get("componentName")
	case "report":
		if name := root.Get("name"); name != "" {
			return name
		}
		return "Report"
	case "layout":
		if label := root.Get("label"); label != "" {
			return label
		}
		return fallbackName("Layout", root.Get("object"))
	case "apexClass":
		return root.Get("className")
	}
	return root.Type
}

func fallbackName(kind, object string) string {
	if object != "" {
		return kind + " on " + object
	}
	return kind
}

// describe writes a one-line structural summary. Summaries are built from
// counts and type attributes only, never from authored prose.
func describe(root *model.Node) string {
	switch root.Type {
	case "flow":
		return describeFlow(root)
	case "validationRule":
		return describeValidation(root)
	case "objectDefinition":
		return fmt.Sprintf("Object definition with %s sharing and %d action overrides",
			defaultStr(root.Get("sharingModel"), "default"), root.CountType("actionOverride"))
	case "fieldDefinition":
		desc := fmt.Sprintf("%s field", defaultStr(root.Get("dataType"), "Custom"))
		if root.Get("isFormula") == "true" {
			desc += " driven by a formula"
		}
		if root.CountType("reference") > 0 {
			desc += " referencing another object"
		}
		return desc
	case "lwcComponent":
		return describeComponent(root)
	case "report":
		return fmt.Sprintf("%s report with %d columns, %d filters, and %d groupings",
			defaultStr(root.Get("format"), "Tabular"),
			root.CountType("column"), root.CountType("filter"), root.CountType("grouping"))
	case "layout":
		return fmt.Sprintf("Page layout with %d sections and %d related lists",
			root.CountType("section"), root.CountType("relatedList"))
	case "apexClass":
		return describeApex(root)
	}
	return ""
}

func describeFlow(root *model.Node) string {
	var b strings.Builder
	switch root.Get("triggerType") {
	case "RecordAfterSave", "RecordBeforeSave", "RecordBeforeDelete":
		b.WriteString("Record-triggered flow")
	case "Scheduled":
		b.WriteString("Scheduled flow")
	case "PlatformEvent":
		b.WriteString("Platform event flow")
	default:
		if root.Get("processType") == "Flow" {
			b.WriteString("Screen flow")
		} else {
			b.WriteString("Autolaunched flow")
		}
	}
	if object := root.Get("object"); object != "" {
		b.WriteString(" on " + object)
	}

	var parts []string
	if n := root.CountType("decision"); n > 0 {
		parts = append(parts, countPhrase(n, "decision", "decisions"))
	}
	if n := root.CountType("loop"); n > 0 {
		parts = append(parts, countPhrase(n, "loop", "loops"))
	}
	if n := root.CountType("subflow"); n > 0 {
		parts = append(parts, countPhrase(n, "subflow", "subflows"))
	}
	if n := root.CountType("faultConnector"); n > 0 {
		parts = append(parts, countPhrase(n, "fault path", "fault paths"))
	}
	if len(parts) > 0 {
		b.WriteString(" with " + joinAnd(parts))
	}
	return b.String()
}

func describeValidation(root *model.Node) string {
	desc := "Validation rule"
	if root.Get("usesPermissions") == "true" {
		desc += " gated by permission checks"
	}
	if depth := root.Get("nestingDepth"); depth != "" && depth != "0" && depth != "1" {
		desc += fmt.Sprintf(" with formula nesting depth %s", depth)
	}
	if fns := root.Get("functionsUsed"); fns != "" {
		desc += " using " + fns
	}
	return desc
}

func describeComponent(root *model.Node) string {
	desc := "Web component"
	if object := root.Get("object"); object != "" {
		desc += " for " + object + " pages"
	}
	var parts []string
	if n := root.CountType("wireAdapter"); n > 0 {
		parts = append(parts, countPhrase(n, "wire adapter", "wire adapters"))
	}
	if n := root.CountType("apexCall"); n > 0 {
		parts = append(parts, countPhrase(n, "server call", "server calls"))
	}
	if n := root.CountType("childComponent"); n > 0 {
		parts = append(parts, countPhrase(n, "child component", "child components"))
	}
	if len(parts) > 0 {
		desc += " with " + joinAnd(parts)
	}
	return desc
}

func describeApex(root *model.Node) string {
	desc := "Apex class"
	switch {
	case root.Get("isTest") == "true":
		desc = "Apex test class"
	case root.Get("isBatch") == "true":
		desc = "Batch Apex class"
	case root.Get("isSchedulable") == "true":
		desc = "Schedulable Apex class"
	case root.Get("isRestResource") == "true":
		desc = "REST resource Apex class"
	}
	var parts []string
	if n := root.CountType("method"); n > 0 {
		parts = append(parts, countPhrase(n, "method", "methods"))
	}
	if n := root.CountType("soqlQuery"); n > 0 {
		parts = append(parts, countPhrase(n, "query", "queries"))
	}
	if n := root.CountType("dmlOperation"); n > 0 {
		parts = append(parts, countPhrase(n, "DML operation", "DML operations"))
	}
	if len(parts) > 0 {
		desc += " with " + joinAnd(parts)
	}
	return desc
}

func countPhrase(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

func joinAnd(parts []string) string {
	switch len(parts) {
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
	}
}

func defaultStr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
