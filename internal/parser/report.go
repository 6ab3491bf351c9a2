package parser

import (
	"strings"

	"patternforge/internal/model"
)

// ReportParser parses report definition metadata: columns, filters,
// groupings, custom formulas, and chart presence.
type ReportParser struct{}

// Parse implements Parser.
func (p *ReportParser) Parse(doc Document) (*model.Node, error) {
	root, err := decodeXML(doc.Content)
	if err != nil {
		return nil, newParseError(doc, "invalid report XML", err)
	}
	if root.Tag != "Report" {
		return nil, newParseError(doc, "unexpected root element "+root.Tag, nil)
	}

	stem := strings.TrimSuffix(doc.Name(), ".report-meta.xml")
	report := model.NewNode("report").
		Set("name", root.findText("name", stem)).
		Set("reportType", root.findText("reportType", "Unknown")).
		Set("format", root.findText("format", "Tabular")).
		Set("apiVersion", root.findText("apiVersion", ""))

	for _, col := range root.findAll("columns") {
		field := col.findText("field", "")
		if field == "" {
			continue
		}
		c := model.NewNode("column").Set("field", field)
		if agg := col.findText("aggregateTypes", ""); agg != "" {
			c.Set("aggregate", agg)
		}
		report.Add(c)
	}

	for _, flt := range root.findAll("filter") {
		for _, ci := range flt.findAll("criteriaItems") {
			report.Add(model.NewNode("filter").
				Set("column", ci.findText("column", "")).
				Set("operator", ci.findText("operator", "")))
		}
		if boolFilter := flt.findText("booleanFilter", ""); boolFilter != "" {
			report.Set("booleanFilter", boolFilter)
		}
	}

	for _, grp := range root.findAll("groupingsDown") {
		report.Add(groupingNode(grp, "down"))
	}
	for _, grp := range root.findAll("groupingsAcross") {
		report.Add(groupingNode(grp, "across"))
	}

	for _, csf := range append(root.findAll("customDetailFormulas"), root.findAll("customSummaryFormulas")...) {
		report.Add(model.NewNode("formula").
			Set("label", csf.findText("label", "")).
			Set("formulaType", csf.findText("formulaType", "")).
			Set("expression", csf.findText("formula", "")))
	}

	if chart := root.find("chart"); chart != nil {
		report.Add(model.NewNode("chart").
			Set("chartType", chart.findText("chartType", "")).
			Set("legendPosition", chart.findText("legendPosition", "")))
	}

	return report, nil
}

func groupingNode(grp *element, direction string) *model.Node {
	return model.NewNode("grouping").
		Set("field", grp.findText("field", "")).
		Set("dateGranularity", grp.findText("dateGranularity", "")).
		Set("sortOrder", grp.findText("sortOrder", "")).
		Set("direction", direction)
}
