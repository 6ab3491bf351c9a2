package parser

import (
	"regexp"
	"strings"

	"patternforge/internal/model"
)

var (
	lwcAPIPropRe     = regexp.MustCompile(`@api\s+(\w+)`)
	lwcTrackRe       = regexp.MustCompile(`@track\s+(\w+)`)
	lwcWireRe        = regexp.MustCompile(`@wire\((\w+)`)
	lwcApexImportRe  = regexp.MustCompile(`import\s+(\w+)\s+from\s+['"]@salesforce/apex/(\w+\.\w+)['"]`)
	lwcSchemaRe      = regexp.MustCompile(`import\s+\w+\s+from\s+['"]@salesforce/schema/(\w+\.\w+)['"]`)
	lwcHandlerRe     = regexp.MustCompile(`\b(handle\w+)\s*\(`)
	lwcChildRe       = regexp.MustCompile(`<(c-[\w-]+|lightning-[\w-]+)`)
	lwcConditionalRe = regexp.MustCompile(`(?:if:true|if:false|lwc:if|lwc:elseif)=\{([^}]+)\}`)
	lwcIterationRe   = regexp.MustCompile(`for:each=\{([^}]+)\}`)
	lwcAPIVersionRe  = regexp.MustCompile(`<apiVersion>([\d.]+)</apiVersion>`)
	lwcTargetRe      = regexp.MustCompile(`<target>([\w:]+)</target>`)
	lwcObjectRe      = regexp.MustCompile(`<objects>\s*<object>(\w+)</object>`)
)

var lwcLifecycleHooks = []string{
	"connectedCallback", "disconnectedCallback", "renderedCallback", "errorCallback",
}

// LWCParser parses a web component bundle: the main JS module plus its
// template and meta XML companions. Template conditionals become decision
// nodes, iterations become loops, and child component tags become
// childComponent references.
type LWCParser struct{}

// Parse implements Parser.
func (p *LWCParser) Parse(doc Document) (*model.Node, error) {
	js := string(doc.Content)
	if strings.TrimSpace(js) == "" {
		return nil, newParseError(doc, "empty component module", nil)
	}

	componentName := strings.TrimSuffix(doc.Name(), ".js")
	component := model.NewNode("lwcComponent").Set("componentName", componentName)

	html := string(doc.Companions[".html"])
	meta := string(doc.Companions[".js-meta.xml"])

	for _, m := range lwcAPIPropRe.FindAllStringSubmatch(js, -1) {
		component.Add(model.NewNode("apiProperty").Set("name", m[1]))
	}
	for _, m := range lwcTrackRe.FindAllStringSubmatch(js, -1) {
		component.Add(model.NewNode("trackedProperty").Set("name", m[1]))
	}
	for _, m := range lwcWireRe.FindAllStringSubmatch(js, -1) {
		component.Add(model.NewNode("wireAdapter").Set("adapter", m[1]))
	}
	for _, m := range lwcApexImportRe.FindAllStringSubmatch(js, -1) {
		component.Add(model.NewNode("apexCall").Set("localName", m[1]).Set("method", m[2]))
	}
	for _, m := range lwcSchemaRe.FindAllStringSubmatch(js, -1) {
		component.Add(model.NewNode("fieldRef").Set("name", m[1]))
	}
	for _, m := range lwcHandlerRe.FindAllStringSubmatch(js, -1) {
		component.Add(model.NewNode("eventHandler").Set("name", m[1]))
	}

	if strings.Contains(js, "NavigationMixin") {
		component.Set("usesNavigation", "true")
	}
	if strings.Contains(js, "ShowToastEvent") {
		component.Set("usesToast", "true")
	}
	var hooks []string
	for _, hook := range lwcLifecycleHooks {
		if strings.Contains(js, hook) {
			hooks = append(hooks, hook)
		}
	}
	if len(hooks) > 0 {
		component.Set("lifecycleHooks", strings.Join(hooks, ","))
	}
	if strings.Contains(js, "errorCallback") {
		component.Add(model.NewNode("faultHandler").Set("hook", "errorCallback"))
	}

	if html != "" {
		seen := make(map[string]bool)
		for _, m := range lwcChildRe.FindAllStringSubmatch(html, -1) {
			if seen[m[1]] {
				continue
			}
			seen[m[1]] = true
			component.Add(model.NewNode("childComponent").Set("tag", m[1]))
		}
		for _, m := range lwcConditionalRe.FindAllStringSubmatch(html, -1) {
			component.Add(model.NewNode("decision").Set("expression", m[1]))
		}
		for _, m := range lwcIterationRe.FindAllStringSubmatch(html, -1) {
			component.Add(model.NewNode("loop").Set("collection", m[1]))
		}
		if strings.Contains(html, "<slot") {
			component.Set("hasSlots", "true")
		}
		if strings.Contains(html, "lightning-input") || strings.Contains(html, "lightning-combobox") {
			component.Set("hasForm", "true")
		}
	}

	if meta != "" {
		if m := lwcAPIVersionRe.FindStringSubmatch(meta); m != nil {
			component.Set("apiVersion", m[1])
		}
		if strings.Contains(meta, "<isExposed>true</isExposed>") {
			component.Set("isExposed", "true")
		}
		var targets []string
		for _, m := range lwcTargetRe.FindAllStringSubmatch(meta, -1) {
			parts := strings.Split(m[1], "__")
			targets = append(targets, parts[len(parts)-1])
		}
		if len(targets) > 0 {
			component.Set("targets", strings.Join(targets, ","))
		}
		if m := lwcObjectRe.FindStringSubmatch(meta); m != nil {
			component.Set("object", m[1])
		}
	}

	return component, nil
}
