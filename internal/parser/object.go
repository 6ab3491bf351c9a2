package parser

import (
	"sort"
	"strconv"
	"strings"

	"patternforge/internal/model"
)

// ObjectParser parses object and field schema metadata. Both kinds share a
// parser because field files live inside their object's directory and the
// two map to the same category.
type ObjectParser struct{}

// Parse implements Parser.
func (p *ObjectParser) Parse(doc Document) (*model.Node, error) {
	root, err := decodeXML(doc.Content)
	if err != nil {
		return nil, newParseError(doc, "invalid schema XML", err)
	}

	switch {
	case strings.HasSuffix(doc.Name(), ".object-meta.xml"):
		return p.parseObject(root, doc), nil
	case strings.HasSuffix(doc.Name(), ".field-meta.xml"):
		return p.parseField(root, doc), nil
	default:
		return nil, newParseError(doc, "not an object or field definition", nil)
	}
}

func (p *ObjectParser) parseObject(root *element, doc Document) *model.Node {
	objName := strings.TrimSuffix(doc.Name(), ".object-meta.xml")

	obj := model.NewNode("objectDefinition").
		Set("objectName", objName).
		Set("object", objName).
		Set("sharingModel", root.findText("sharingModel", "")).
		Set("deploymentStatus", root.findText("deploymentStatus", "")).
		Set("enableHistory", root.findText("enableHistory", "")).
		Set("enableReports", root.findText("enableReports", ""))

	if nameField := root.find("nameField"); nameField != nil {
		obj.Set("nameFieldType", nameField.findText("type", ""))
	}

	// Non-default action overrides, order-stable.
	var overrides []string
	for _, ov := range root.findAll("actionOverrides") {
		action := ov.findText("actionName", "")
		ovType := ov.findText("type", "")
		if action != "" && ovType != "Default" {
			overrides = append(overrides, action+":"+ovType)
		}
	}
	sort.Strings(overrides)
	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		obj.Add(model.NewNode("actionOverride").Set("action", parts[0]).Set("overrideType", parts[1]))
	}

	return obj
}

func (p *ObjectParser) parseField(root *element, doc Document) *model.Node {
	stem := strings.TrimSuffix(doc.Name(), ".field-meta.xml")
	fullName := root.findText("fullName", stem)

	field := model.NewNode("fieldDefinition").
		Set("fieldName", fullName).
		Set("dataType", root.findText("type", "Unknown")).
		Set("required", root.findText("required", "false")).
		Set("unique", root.findText("unique", "false")).
		Set("externalId", root.findText("externalId", "false"))

	if obj := objectFromPath(doc.Path); obj != "" {
		field.Set("object", obj)
	}
	if length := root.findText("length", ""); length != "" {
		field.Set("length", length)
	}
	if precision := root.findText("precision", ""); precision != "" {
		field.Set("precision", precision)
	}
	if root.findText("defaultValue", "") != "" {
		field.Set("hasDefaultValue", "true")
	}
	if formula := root.findText("formula", ""); formula != "" {
		field.Set("isFormula", "true")
		field.Add(model.NewNode("formula").
			Set("expression", formula).
			Set("depth", strconv.Itoa(nestingDepth(formula))))
	}
	if refTo := root.findText("referenceTo", ""); refTo != "" {
		field.Add(model.NewNode("reference").
			Set("referenceTo", refTo).
			Set("relationshipName", root.findText("relationshipName", "")).
			Set("deleteConstraint", root.findText("deleteConstraint", "")))
	}
	if valueSet := root.find("valueSet"); valueSet != nil {
		field.Set("hasPicklist", "true")
		field.Set("picklistRestricted", valueSet.findText("restricted", "false"))
	}

	return field
}
