package parser

import (
	"strconv"
	"strings"

	"patternforge/internal/model"
)

// LayoutParser parses page layout metadata: sections and their items,
// related lists, and quick actions.
type LayoutParser struct{}

// Parse implements Parser.
func (p *LayoutParser) Parse(doc Document) (*model.Node, error) {
	root, err := decodeXML(doc.Content)
	if err != nil {
		return nil, newParseError(doc, "invalid layout XML", err)
	}
	if root.Tag != "Layout" {
		return nil, newParseError(doc, "unexpected root element "+root.Tag, nil)
	}

	// Layout files are named "Object-Layout Name".
	stem := strings.TrimSuffix(doc.Name(), ".layout-meta.xml")
	layout := model.NewNode("layout")
	if obj, name, ok := strings.Cut(stem, "-"); ok {
		layout.Set("object", obj).Set("label", name)
	} else {
		layout.Set("label", stem)
	}

	for _, section := range root.findAll("layoutSections") {
		columns := section.findAll("layoutColumns")
		s := model.NewNode("section").
			Set("label", section.findText("label", "")).
			Set("style", section.findText("style", "")).
			Set("columns", strconv.Itoa(len(columns)))
		for _, col := range columns {
			for _, item := range col.findAll("layoutItems") {
				field := item.findText("field", "")
				if field == "" {
					continue
				}
				s.Add(model.NewNode("layoutItem").
					Set("field", field).
					Set("behavior", item.findText("behavior", "")))
			}
		}
		layout.Add(s)
	}

	for _, rl := range root.findAll("relatedLists") {
		node := model.NewNode("relatedList").Set("relatedList", rl.findText("relatedList", ""))
		var fields []string
		for _, f := range rl.findAll("fields") {
			if text := strings.TrimSpace(f.Text); text != "" {
				fields = append(fields, text)
			}
		}
		if len(fields) > 0 {
			node.Set("fields", strings.Join(fields, ","))
		}
		layout.Add(node)
	}

	for _, qa := range root.findAll("quickActionList") {
		for _, item := range qa.findAll("quickActionListItems") {
			if name := item.findText("quickActionName", ""); name != "" {
				layout.Add(model.NewNode("quickAction").Set("name", name))
			}
		}
	}

	return layout, nil
}
