package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patternforge/internal/model"
)

const sampleFlowXML = `<?xml version="1.0" encoding="UTF-8"?>
<Flow xmlns="http://soap.sforce.com/2006/04/metadata">
    <apiVersion>59.0</apiVersion>
    <label>Lead Routing</label>
    <processType>AutoLaunchedFlow</processType>
    <status>Active</status>
    <recordTriggerType>RecordAfterSave</recordTriggerType>
    <start>
        <object>Lead</object>
    </start>
    <variables>
        <name>inputLead</name>
        <dataType>SObject</dataType>
        <isInput>true</isInput>
    </variables>
    <decisions>
        <name>Check_Region</name>
        <label>Check Region</label>
        <rules>
            <name>Is_West</name>
            <conditionLogic>and</conditionLogic>
            <conditions><leftValueReference>region</leftValueReference></conditions>
            <conditions><leftValueReference>tier</leftValueReference></conditions>
            <connector><targetReference>Assign_West</targetReference></connector>
        </rules>
        <defaultConnector><targetReference>Assign_Default</targetReference></defaultConnector>
    </decisions>
    <loops>
        <name>Each_Member</name>
        <collectionReference>members</collectionReference>
        <nextValueConnector><targetReference>Process_Member</targetReference></nextValueConnector>
        <noMoreValuesConnector><targetReference>Done</targetReference></noMoreValuesConnector>
    </loops>
    <recordUpdates>
        <name>Save_Lead</name>
        <object>Lead</object>
        <filters><field>Id</field></filters>
        <connector><targetReference>Done</targetReference></connector>
        <faultConnector><targetReference>Handle_Error</targetReference></faultConnector>
    </recordUpdates>
</Flow>`

func TestFlowParser_Parse(t *testing.T) {
	doc := Document{Path: "flows/Lead_Routing.flow-meta.xml", Kind: KindFlow, Content: []byte(sampleFlowXML)}

	node, err := (&FlowParser{}).Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, "flow", node.Type)
	assert.Equal(t, "Lead Routing", node.Get("label"))
	assert.Equal(t, "AutoLaunchedFlow", node.Get("processType"))
	assert.Equal(t, "RecordAfterSave", node.Get("triggerType"))
	assert.Equal(t, "Lead", node.Get("object"))
	assert.Equal(t, "59.0", node.Get("apiVersion"))

	assert.Equal(t, 1, node.CountType("variable"))
	assert.Equal(t, 1, node.CountType("decision"))
	assert.Equal(t, 1, node.CountType("loop"))
	assert.Equal(t, 1, node.CountType("recordUpdate"))
	assert.Equal(t, 1, node.CountType("faultConnector"))

	var decision *model.Node
	for _, child := range node.Children {
		if child.Type == "decision" {
			decision = child
		}
	}
	require.NotNil(t, decision)
	require.Equal(t, 1, decision.CountType("rule"))
	rule := decision.Children[0]
	assert.Equal(t, "2", rule.Get("conditions"))
}

func TestFlowParser_ObjectFromMostReferenced(t *testing.T) {
	// No start object; detection falls back to the most-referenced one.
	xml := `<Flow>
		<label>Cleanup</label>
		<processType>AutoLaunchedFlow</processType>
		<recordLookups><name>a</name><object>Contact</object></recordLookups>
		<recordUpdates><name>b</name><object>Contact</object></recordUpdates>
		<recordUpdates><name>c</name><object>Account</object></recordUpdates>
	</Flow>`

	node, err := (&FlowParser{}).Parse(Document{Path: "flows/Cleanup.flow-meta.xml", Content: []byte(xml)})
	require.NoError(t, err)
	assert.Equal(t, "Contact", node.Get("object"))
}

func TestFlowParser_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"truncated", "<Flow><label>Broken"},
		{"empty", ""},
		{"wrong root", "<ValidationRule></ValidationRule>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&FlowParser{}).Parse(Document{Path: "flows/Bad.flow-meta.xml", Content: []byte(tt.content)})
			require.Error(t, err)

			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}
