package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationParser_Parse(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<ValidationRule xmlns="http://soap.sforce.com/2006/04/metadata">
    <fullName>Require_Close_Reason</fullName>
    <active>true</active>
    <errorConditionFormula>AND(
        ISPICKVAL(StageName, "Closed Lost"),
        ISBLANK(Close_Reason__c),
        NOT($Permission.Bypass_Validation)
    )</errorConditionFormula>
    <errorMessage>Provide a close reason.</errorMessage>
    <errorDisplayField>Close_Reason__c</errorDisplayField>
</ValidationRule>`

	doc := Document{
		Path:    "objects/Opportunity/validationRules/Require_Close_Reason.validationRule-meta.xml",
		Kind:    KindValidation,
		Content: []byte(xml),
	}

	node, err := (&ValidationParser{}).Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, "validationRule", node.Type)
	assert.Equal(t, "Require_Close_Reason", node.Get("fullName"))
	assert.Equal(t, "true", node.Get("active"))
	assert.Equal(t, "Opportunity", node.Get("object"))
	assert.Equal(t, "true", node.Get("usesPermissions"))
	assert.Equal(t, "2", node.Get("nestingDepth"))
	assert.Contains(t, node.Get("functionsUsed"), "ISBLANK")
	assert.Contains(t, node.Get("functionsUsed"), "ISPICKVAL")

	// One AND( branch, no OR(.
	assert.Equal(t, 1, node.CountType("decision"))
}

func TestValidationParser_BranchCount(t *testing.T) {
	xml := `<ValidationRule>
    <fullName>Complex</fullName>
    <active>true</active>
    <errorConditionFormula>OR(AND(A__c, B__c), AND(C__c, D__c), E__c)</errorConditionFormula>
</ValidationRule>`

	node, err := (&ValidationParser{}).Parse(Document{
		Path:    "objects/Account/validationRules/Complex.validationRule-meta.xml",
		Content: []byte(xml),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, node.CountType("decision"))
}

func TestNestingDepth(t *testing.T) {
	tests := []struct {
		formula string
		want    int
	}{
		{"", 0},
		{"ISBLANK(Email)", 1},
		{"AND(ISBLANK(Email), NOT(ISNEW()))", 3},
		{"A__c > 5", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, nestingDepth(tt.formula), "formula %q", tt.formula)
	}
}
