package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLWCJS = `import { LightningElement, api, track, wire } from 'lwc';
import { NavigationMixin } from 'lightning/navigation';
import { ShowToastEvent } from 'lightning/platformShowToastEvent';
import findContacts from '@salesforce/apex/ContactController.findContacts';
import NAME_FIELD from '@salesforce/schema/Contact.Name';

export default class ContactList extends NavigationMixin(LightningElement) {
    @api recordId;
    @api maxRows;
    @track contacts = [];

    @wire(findContacts, { accountId: '$recordId' })
    wiredContacts({ error, data }) {
        if (data) {
            this.contacts = data;
        }
    }

    connectedCallback() {
        this.load();
    }

    handleRefresh(event) {
        this.load();
    }

    errorCallback(error, stack) {
        this.dispatchEvent(new ShowToastEvent({ title: 'Error' }));
    }
}`

const sampleLWCHTML = `<template>
    <lightning-card title="Contacts">
        <template lwc:if={hasContacts}>
            <template for:each={contacts} for:item="contact">
                <c-contact-tile key={contact.Id} contact={contact}></c-contact-tile>
            </template>
        </template>
        <template lwc:elseif={loading}>
            <lightning-spinner></lightning-spinner>
        </template>
        <c-contact-tile></c-contact-tile>
    </lightning-card>
</template>`

const sampleLWCMeta = `<?xml version="1.0" encoding="UTF-8"?>
<LightningComponentBundle xmlns="http://soap.sforce.com/2006/04/metadata">
    <apiVersion>59.0</apiVersion>
    <isExposed>true</isExposed>
    <targets>
        <target>lightning__RecordPage</target>
        <target>lightning__AppPage</target>
    </targets>
    <targetConfigs>
        <targetConfig targets="lightning__RecordPage">
            <objects>
                <object>Contact</object>
            </objects>
        </targetConfig>
    </targetConfigs>
</LightningComponentBundle>`

func TestLWCParser_Parse(t *testing.T) {
	doc := Document{
		Path:    "force-app/main/default/lwc/contactList/contactList.js",
		Kind:    KindLWC,
		Content: []byte(sampleLWCJS),
		Companions: map[string][]byte{
			".html":        []byte(sampleLWCHTML),
			".js-meta.xml": []byte(sampleLWCMeta),
		},
	}

	node, err := (&LWCParser{}).Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, "lwcComponent", node.Type)
	assert.Equal(t, "contactList", node.Get("componentName"))
	assert.Equal(t, "59.0", node.Get("apiVersion"))
	assert.Equal(t, "true", node.Get("isExposed"))
	assert.Equal(t, "RecordPage,AppPage", node.Get("targets"))
	assert.Equal(t, "Contact", node.Get("object"))
	assert.Equal(t, "true", node.Get("usesNavigation"))
	assert.Equal(t, "true", node.Get("usesToast"))
	assert.Contains(t, node.Get("lifecycleHooks"), "connectedCallback")

	assert.Equal(t, 2, node.CountType("apiProperty"))
	assert.Equal(t, 1, node.CountType("trackedProperty"))
	assert.Equal(t, 1, node.CountType("wireAdapter"))
	assert.Equal(t, 1, node.CountType("apexCall"))
	assert.Equal(t, 1, node.CountType("fieldRef"))
	assert.Equal(t, 1, node.CountType("faultHandler"))

	// lwc:if plus lwc:elseif in the template.
	assert.Equal(t, 2, node.CountType("decision"))
	assert.Equal(t, 1, node.CountType("loop"))

	// c-contact-tile appears twice but is recorded once; lightning-card
	// and lightning-spinner are distinct tags.
	assert.Equal(t, 3, node.CountType("childComponent"))
}

func TestLWCParser_JSOnly(t *testing.T) {
	js := `import { LightningElement, api } from 'lwc';
export default class Badge extends LightningElement {
    @api label;
}`

	node, err := (&LWCParser{}).Parse(Document{
		Path:    "force-app/main/default/lwc/badge/badge.js",
		Content: []byte(js),
	})
	require.NoError(t, err)

	assert.Equal(t, "badge", node.Get("componentName"))
	assert.Equal(t, 1, node.CountType("apiProperty"))
	assert.Equal(t, 0, node.CountType("childComponent"))
	assert.Empty(t, node.Get("apiVersion"))
}

func TestLWCParser_Empty(t *testing.T) {
	_, err := (&LWCParser{}).Parse(Document{
		Path:    "force-app/main/default/lwc/empty/empty.js",
		Content: []byte("  \n"),
	})
	require.Error(t, err)
}
