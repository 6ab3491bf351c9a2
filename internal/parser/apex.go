package parser

import (
	"regexp"
	"strconv"
	"strings"

	"patternforge/internal/model"
)

var (
	apexAnnotationRe = regexp.MustCompile(`@(\w+)(?:\([^)]*\))?`)
	apexClassRe      = regexp.MustCompile(`(?s)(public|private|global)\s+(?:(?:virtual|abstract|with sharing|without sharing|inherited sharing)\s+)*class\s+\w+\s*(?:extends\s+(\w+))?\s*(?:implements\s+([\w\s,.<>]+?))?\s*\{`)
	apexMethodRe     = regexp.MustCompile(`(public|private|global|protected)\s+(?:static\s+)?(\w+(?:<[\w,\s]+>)?)\s+(\w+)\s*\(([^)]*)\)`)
	apexSoqlRe       = regexp.MustCompile(`(?i)\[\s*SELECT\s+.+?\s+FROM\s+(\w+)`)
	apexCatchRe      = regexp.MustCompile(`\bcatch\s*\(`)
	apexIfRe         = regexp.MustCompile(`\bif\s*\(`)
	apexLoopRe       = regexp.MustCompile(`\b(?:for|while)\s*\(`)
)

var apexDMLVerbs = []string{"insert", "update", "upsert", "delete", "undelete", "merge"}

// ApexParser extracts structural shape from procedural code classes: the
// declaration, method signatures, query and DML usage, and control-flow
// counts. Method bodies are never carried into the tree.
type ApexParser struct{}

// Parse implements Parser.
func (p *ApexParser) Parse(doc Document) (*model.Node, error) {
	content := string(doc.Content)
	if strings.TrimSpace(content) == "" {
		return nil, newParseError(doc, "empty class file", nil)
	}

	className := strings.TrimSuffix(doc.Name(), ".cls")
	class := model.NewNode("apexClass").Set("className", className)

	var annotations []string
	for _, m := range apexAnnotationRe.FindAllStringSubmatch(content, -1) {
		ann := m[1]
		if !containsString(annotations, ann) {
			annotations = append(annotations, ann)
		}
	}
	if len(annotations) > 0 {
		class.Set("annotations", strings.Join(annotations, ","))
	}

	lower := strings.ToLower(content)
	if strings.Contains(lower, "@istest") || strings.Contains(lower, "testmethod") {
		class.Set("isTest", "true")
	}

	if m := apexClassRe.FindStringSubmatch(content); m != nil {
		class.Set("accessModifier", m[1])
		if m[2] != "" {
			class.Set("extends", m[2])
		}
		if m[3] != "" {
			interfaces := strings.TrimSpace(m[3])
			class.Set("implements", interfaces)
			if strings.Contains(interfaces, "Database.Batchable") {
				class.Set("isBatch", "true")
			}
			if strings.Contains(interfaces, "Schedulable") {
				class.Set("isSchedulable", "true")
			}
		}
	}
	if containsString(annotations, "RestResource") {
		class.Set("isRestResource", "true")
	}

	for _, m := range apexMethodRe.FindAllStringSubmatch(content, -1) {
		params := 0
		for _, part := range strings.Split(m[4], ",") {
			if strings.TrimSpace(part) != "" {
				params++
			}
		}
		class.Add(model.NewNode("method").
			Set("access", m[1]).
			Set("returnType", m[2]).
			Set("name", m[3]).
			Set("paramCount", strconv.Itoa(params)))
	}

	var objects []string
	for _, m := range apexSoqlRe.FindAllStringSubmatch(content, -1) {
		obj := m[1]
		class.Add(model.NewNode("soqlQuery").Set("object", obj))
		if !containsString(objects, obj) {
			objects = append(objects, obj)
		}
	}
	if len(objects) > 0 {
		class.Set("object", objects[0])
	}

	for _, verb := range apexDMLVerbs {
		re := regexp.MustCompile(`(?i)\b` + verb + `\s+\w+`)
		if re.MatchString(content) {
			class.Add(model.NewNode("dmlOperation").Set("verb", verb))
		}
	}

	// Control-flow shape, counted so the extractor can score intricacy.
	for i := 0; i < len(apexIfRe.FindAllString(content, -1)); i++ {
		class.Add(model.NewNode("decision"))
	}
	for i := 0; i < len(apexLoopRe.FindAllString(content, -1)); i++ {
		class.Add(model.NewNode("loop"))
	}
	for i := 0; i < len(apexCatchRe.FindAllString(content, -1)); i++ {
		class.Add(model.NewNode("faultHandler"))
	}

	return class, nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
