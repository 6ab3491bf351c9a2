package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleApex = `public with sharing class LeadRouter implements Routable {
    @AuraEnabled(cacheable=true)
    public static List<Lead> fetchQueue(Integer max) {
        List<Lead> leads = [SELECT Id, OwnerId FROM Lead WHERE IsConverted = false];
        if (leads.isEmpty()) {
            return leads;
        }
        for (Lead l : leads) {
            l.OwnerId = nextOwner();
        }
        try {
            update leads;
        } catch (DmlException e) {
            insert buildLog(e);
        }
        return leads;
    }

    private static Id nextOwner() {
        return null;
    }
}`

func TestApexParser_Parse(t *testing.T) {
	doc := Document{Path: "classes/LeadRouter.cls", Kind: KindApex, Content: []byte(sampleApex)}

	node, err := (&ApexParser{}).Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, "apexClass", node.Type)
	assert.Equal(t, "LeadRouter", node.Get("className"))
	assert.Equal(t, "public", node.Get("accessModifier"))
	assert.Equal(t, "Routable", node.Get("implements"))
	assert.Contains(t, node.Get("annotations"), "AuraEnabled")

	assert.GreaterOrEqual(t, node.CountType("method"), 2)
	assert.Equal(t, 1, node.CountType("soqlQuery"))
	assert.Equal(t, 1, node.CountType("decision"))
	assert.Equal(t, 1, node.CountType("loop"))
	assert.Equal(t, 1, node.CountType("faultHandler"))

	dml := 0
	for _, child := range node.Children {
		if child.Type == "dmlOperation" {
			dml++
		}
	}
	assert.Equal(t, 2, dml, "update and insert")
}

func TestApexParser_TestClass(t *testing.T) {
	src := `@IsTest
private class LeadRouterTest {
    @IsTest
    static void routesLeads() {
        System.assert(true);
    }
}`

	node, err := (&ApexParser{}).Parse(Document{Path: "classes/LeadRouterTest.cls", Content: []byte(src)})
	require.NoError(t, err)
	assert.Equal(t, "true", node.Get("isTest"))
}

func TestApexParser_Empty(t *testing.T) {
	_, err := (&ApexParser{}).Parse(Document{Path: "classes/Empty.cls", Content: []byte("   ")})
	require.Error(t, err)
}
