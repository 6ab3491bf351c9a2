package parser

import (
	"fmt"
	"strconv"
	"strings"

	"patternforge/internal/model"
)

// Flow element tags captured as child nodes, with the node type each maps to.
var flowElementTags = []struct {
	tag      string
	nodeType string
}{
	{"decisions", "decision"},
	{"loops", "loop"},
	{"recordLookups", "recordLookup"},
	{"recordUpdates", "recordUpdate"},
	{"recordCreates", "recordCreate"},
	{"recordDeletes", "recordDelete"},
	{"screens", "screen"},
	{"assignments", "assignment"},
	{"actionCalls", "actionCall"},
	{"subflows", "subflow"},
	{"formulas", "formula"},
	{"collectionProcessors", "collectionProcessor"},
}

// FlowParser parses flow automation metadata into a normalized tree. The
// tree keeps the flow's interface (variables), its elements, and the
// connector topology including fault paths.
type FlowParser struct{}

// Parse implements Parser.
func (p *FlowParser) Parse(doc Document) (*model.Node, error) {
	root, err := decodeXML(doc.Content)
	if err != nil {
		return nil, newParseError(doc, "invalid flow XML", err)
	}
	if root.Tag != "Flow" {
		return nil, newParseError(doc, fmt.Sprintf("unexpected root element %q", root.Tag), nil)
	}

	flow := model.NewNode("flow").
		Set("label", root.findText("label", strings.TrimSuffix(doc.Name(), ".flow-meta.xml"))).
		Set("processType", root.findText("processType", "unknown")).
		Set("status", root.findText("status", "unknown")).
		Set("apiVersion", root.findText("apiVersion", ""))

	if trigger := root.findText("recordTriggerType", ""); trigger != "" {
		flow.Set("triggerType", trigger)
	}
	if runMode := root.findText("runInMode", ""); runMode != "" {
		flow.Set("runInMode", runMode)
	}
	if obj := p.detectObject(root); obj != "" {
		flow.Set("object", obj)
	}

	for _, varEl := range root.findAll("variables") {
		v := model.NewNode("variable").
			Set("name", varEl.findText("name", "")).
			Set("dataType", varEl.findText("dataType", "")).
			Set("isInput", varEl.findText("isInput", "false")).
			Set("isOutput", varEl.findText("isOutput", "false")).
			Set("isCollection", varEl.findText("isCollection", "false"))
		if apexClass := varEl.findText("apexClass", ""); apexClass != "" {
			v.Set("apexClass", apexClass)
		}
		flow.Add(v)
	}

	for _, fe := range flowElementTags {
		for _, el := range root.findAll(fe.tag) {
			flow.Add(p.elementNode(el, fe.nodeType))
		}
	}

	return flow, nil
}

// elementNode converts one flow element into a node, including its
// connectors. Fault connectors become faultConnector children so error
// handling shows up structurally.
func (p *FlowParser) elementNode(el *element, nodeType string) *model.Node {
	n := model.NewNode(nodeType).
		Set("name", el.findText("name", "unnamed")).
		Set("label", el.findText("label", ""))

	if obj := el.findText("object", ""); obj != "" {
		n.Set("object", obj)
	}

	switch nodeType {
	case "decision":
		for _, rule := range el.findAll("rules") {
			r := model.NewNode("rule").
				Set("name", rule.findText("name", "")).
				Set("conditionLogic", rule.findText("conditionLogic", "")).
				Set("conditions", strconv.Itoa(len(rule.findAll("conditions"))))
			p.addConnector(r, rule, "connector", "next")
			n.Add(r)
		}
		p.addConnector(n, el, "defaultConnector", "default")
	case "recordLookup", "recordUpdate", "recordCreate", "recordDelete":
		n.Set("filters", strconv.Itoa(len(el.findAll("filters"))))
		n.Set("inputAssignments", strconv.Itoa(len(el.findAll("inputAssignments"))))
	case "screen":
		n.Set("fields", strconv.Itoa(len(el.findAll("fields"))))
	case "actionCall":
		n.Set("actionName", el.findText("actionName", "")).
			Set("actionType", el.findText("actionType", "")).
			Set("inputParameters", strconv.Itoa(len(el.findAll("inputParameters")))).
			Set("outputParameters", strconv.Itoa(len(el.findAll("outputParameters"))))
	case "subflow":
		n.Set("flowName", el.findText("flowName", ""))
	case "formula":
		n.Set("dataType", el.findText("dataType", "")).
			Set("expression", el.findText("expression", ""))
	case "loop":
		n.Set("collectionReference", el.findText("collectionReference", "")).
			Set("iterationOrder", el.findText("iterationOrder", ""))
		p.addConnector(n, el, "nextValueConnector", "loop_next")
		p.addConnector(n, el, "noMoreValuesConnector", "loop_done")
	}

	p.addConnector(n, el, "connector", "next")
	p.addFaultConnector(n, el)

	return n
}

func (p *FlowParser) addConnector(n *model.Node, el *element, tag, kind string) {
	conn := el.find(tag)
	if conn == nil {
		return
	}
	target := conn.findText("targetReference", "")
	if target == "" {
		return
	}
	n.Add(model.NewNode("connector").Set("target", target).Set("kind", kind))
}

func (p *FlowParser) addFaultConnector(n *model.Node, el *element) {
	fault := el.find("faultConnector")
	if fault == nil {
		return
	}
	target := fault.findText("targetReference", "")
	if target == "" {
		return
	}
	n.Add(model.NewNode("faultConnector").Set("target", target))
}

// detectObject finds the primary object a flow operates on: the start
// element for record-triggered flows, otherwise the most-referenced object
// across record operations.
func (p *FlowParser) detectObject(root *element) string {
	if start := root.find("start"); start != nil {
		if obj := start.findText("object", ""); obj != "" {
			return obj
		}
	}

	counts := make(map[string]int)
	var order []string
	for _, tag := range []string{"recordLookups", "recordUpdates", "recordCreates", "recordDeletes"} {
		for _, el := range root.findAll(tag) {
			obj := el.findText("object", "")
			if obj == "" {
				continue
			}
			if counts[obj] == 0 {
				order = append(order, obj)
			}
			counts[obj]++
		}
	}

	best := ""
	bestCount := 0
	for _, obj := range order {
		if counts[obj] > bestCount {
			best = obj
			bestCount = counts[obj]
		}
	}
	return best
}
