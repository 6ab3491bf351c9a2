package anonymize

// standardObjects are platform-standard object API names. They carry no
// org-specific information and are never aliased.
var standardObjects = map[string]bool{
	"Account": true, "Contact": true, "Lead": true, "Opportunity": true,
	"Case": true, "Task": true, "Event": true,
	"User": true, "Group": true, "Profile": true, "Role": true, "PermissionSet": true,
	"Campaign": true, "CampaignMember": true, "Contract": true, "Order": true, "OrderItem": true,
	"Product2": true, "PricebookEntry": true, "Pricebook2": true, "Quote": true, "QuoteLineItem": true,
	"Solution": true, "ContentDocument": true, "ContentVersion": true, "Attachment": true,
	"Note": true, "FeedItem": true, "FeedComment": true, "Dashboard": true, "Report": true,
	"EmailMessage": true, "EmailTemplate": true, "Folder": true,
	"BusinessHours": true, "Holiday": true, "RecordType": true,
	"Organization": true, "UserRole": true, "GroupMember": true,
	"OpportunityLineItem": true, "OpportunityContactRole": true,
	"AccountContactRelation": true, "ContactPointAddress": true,
}

// standardFields are platform-standard field API names.
var standardFields = map[string]bool{
	"Id": true, "Name": true, "OwnerId": true, "CreatedById": true, "CreatedDate": true,
	"LastModifiedById": true, "LastModifiedDate": true, "SystemModstamp": true,
	"IsDeleted": true, "RecordTypeId": true, "CurrencyIsoCode": true,
	"FirstName": true, "LastName": true, "Email": true, "Phone": true, "MobilePhone": true,
	"Title": true, "Department": true, "Description": true, "Website": true,
	"BillingStreet": true, "BillingCity": true, "BillingState": true, "BillingPostalCode": true,
	"BillingCountry": true, "ShippingStreet": true, "ShippingCity": true, "ShippingState": true,
	"ShippingPostalCode": true, "ShippingCountry": true,
	"Industry": true, "AnnualRevenue": true, "NumberOfEmployees": true,
	"StageName": true, "CloseDate": true, "Amount": true, "Probability": true,
	"Type": true, "Status": true, "Priority": true, "Subject": true,
	"AccountId": true, "ContactId": true, "LeadId": true, "OpportunityId": true,
	"ParentId": true, "CaseId": true, "WhatId": true, "WhoId": true,
	"IsActive": true, "IsClosed": true, "IsWon": true,
	"SObject": true, "ApexPages": true, "ApexClass": true,
}

// structuralWords are generic automation and business vocabulary, keyed
// lowercase. A token matching one of these is never treated as a brand.
var structuralWords = map[string]bool{
	"account": true, "contact": true, "lead": true, "opportunity": true, "case": true,
	"user": true, "task": true, "event": true, "campaign": true, "contract": true,
	"order": true, "product": true, "quote": true,
	"custom": true, "field": true, "type": true, "status": true, "date": true,
	"time": true, "number": true, "amount": true, "count": true, "total": true,
	"sum": true, "avg": true, "min": true, "max": true,
	"name": true, "first": true, "last": true, "email": true, "phone": true,
	"address": true, "city": true, "state": true, "country": true, "zip": true,
	"postal": true, "code": true, "street": true,
	"created": true, "modified": true, "updated": true, "deleted": true,
	"active": true, "inactive": true,
	"new": true, "old": true, "prior": true, "current": true, "previous": true, "next": true,
	"start": true, "end": true, "open": true, "closed": true, "won": true, "lost": true,
	"primary": true, "secondary": true, "main": true, "default": true, "standard": true,
	"record": true, "lookup": true, "master": true, "detail": true, "junction": true,
	"auto": true, "manual": true, "system": true, "admin": true, "owner": true, "manager": true,
	"assign": true, "assigned": true, "assignment": true, "group": true, "member": true, "queue": true,
	"territory": true, "region": true, "division": true, "department": true, "team": true,
	"score": true, "rating": true, "tier": true, "level": true, "stage": true,
	"step": true, "phase": true,
	"data": true, "migration": true, "integration": true, "sync": true, "batch": true, "trigger": true,
	"flow": true, "process": true, "automation": true, "workflow": true, "rule": true, "action": true,
	"validation": true, "formula": true, "rollup": true, "summary": true, "report": true, "dashboard": true,
	"permission": true, "profile": true, "role": true, "sharing": true, "security": true,
	"billing": true, "shipping": true, "mailing": true, "physical": true,
	"annual": true, "monthly": true, "weekly": true, "daily": true, "quarterly": true,
	"revenue": true, "profit": true, "cost": true, "price": true, "discount": true,
	"marketing": true, "sales": true, "service": true, "support": true, "operations": true,
	"onboarding": true, "customer": true, "prospect": true, "partner": true, "vendor": true,
	"request": true, "response": true, "approval": true, "rejection": true,
	"self": true, "close": true, "bypass": true, "override": true, "exception": true,
	"trial": true, "subscription": true, "license": true, "renewal": true,
	"enterprise": true, "professional": true, "basic": true, "premium": true,
	"update": true, "insert": true, "delete": true, "upsert": true, "merge": true,
	"before": true, "after": true, "save": true, "submit": true,
	"is": true, "has": true, "can": true, "should": true, "will": true,
	"not": true, "and": true, "the": true,
	"get": true, "set": true, "put": true, "run": true, "send": true,
	"check": true, "find": true, "resolve": true,
	"evaluate": true, "calculate": true, "determine": true, "handle": true,
	"linked": true, "related": true, "associated": true, "parent": true, "child": true,
	"person": true, "firm": true, "company": true, "organization": true, "org": true,
	"id": true, "ids": true, "key": true, "value": true, "index": true,
	"ref": true, "reference": true,
	"null": true, "blank": true, "empty": true, "true": true, "false": true,
	"yes": true, "no": true,
	"message": true, "notification": true, "alert": true, "error": true, "warning": true,
	"mql": true, "sql": true, "sal": true, "bdr": true, "sdr": true, "ae": true, "rep": true,
	"software": true, "payments": true, "platform": true, "app": true, "application": true,
	"round": true, "robin": true, "config": true, "setting": true, "boundary": true, "matching": true,
}

// commonWords feeds the brand-heuristic decomposition check. It extends
// structuralWords with verbs and field vocabulary that commonly appear as
// camelCase parts.
var commonWords = func() map[string]bool {
	words := map[string]bool{
		"do": true, "add": true, "show": true, "hide": true,
		"create": true, "convert": true, "match": true,
		"stop": true, "lock": true, "unlock": true, "approve": true,
		"reject": true, "cancel": true, "complete": true,
		"past": true, "mass": true, "bulk": true, "longer": true,
		"within": true, "target": true,
		"persona": true, "month": true, "year": true, "day": true,
		"week": true, "hour": true, "quarter": true,
		"started": true, "ended": true,
		"relationship": true, "job": true, "title": true,
		"info": true, "infos": true, "note": true, "notes": true,
		"url": true, "link": true, "path": true, "source": true,
		"by": true, "at": true, "to": true, "for": true, "of": true,
		"in": true, "on": true, "from": true, "with": true,
		"object": true, "apex": true, "pages": true, "callback": true,
		"handler": true, "mixin": true, "component": true, "element": true,
		"screen": true, "input": true, "output": true, "label": true,
		"launched": true, "triggered": true, "scheduled": true,
		"list": true, "view": true, "card": true, "tile": true, "table": true,
		"grid": true, "form": true, "button": true, "row": true, "item": true,
		"page": true, "header": true, "footer": true, "modal": true,
		"picker": true, "icon": true, "menu": true, "tab": true, "panel": true,
		"section": true, "container": true, "wrapper": true,
		"helper": true, "util": true, "utils": true,
	}
	for w := range structuralWords {
		words[w] = true
	}
	return words
}()

// builtinAllowlist holds ecosystem and AppExchange product names plus
// managed package namespace prefixes. Keyed lowercase; tokens containing
// one of these (4+ chars) are exempt from aliasing.
var builtinAllowlist = []string{
	"marketo", "mkto", "pardot", "eloqua", "hubspot", "mailchimp",
	"exacttarget", "salesforcemktg",
	"demandbase", "6sense", "bombora", "terminus", "rollworks", "triblio",
	"zoominfo", "clearbit", "dun", "dnb", "hoovers", "leadiq",
	"lusha", "apollo", "cognism", "seamless", "slintel",
	"outreach", "salesloft", "gong", "chorus", "clari", "groove",
	"xactly", "velocify", "ringdna", "orum",
	"conga", "apttus", "docusign", "pandadoc", "zuora",
	"chargebee", "recurly", "avalara",
	"mulesoft", "jitterbit", "informatica", "talend", "workato",
	"tray", "celigo", "boomi", "snaplogic",
	"linkedin", "slack", "twilio", "sendgrid", "ringcentral",
	"vonage", "bandwidth", "plivo", "talkdesk",
	"zendesk", "freshdesk", "intercom", "drift", "qualified",
	"livechat", "chatbot", "ada",
	"tableau", "domo", "looker", "powerbi", "qlik", "sisense",
	"jira", "asana", "monday", "smartsheet", "wrike", "basecamp",
	"confluence", "notion",
	"netsuite", "quickbooks", "xero", "sage", "intacct", "workday",
	"coupa", "ariba", "certify", "expensify",
	"ringlead", "cloudingo", "usergem", "clay",
	"datagrail", "validity", "dupe",
	"showpad", "highspot", "seismic", "calendly", "chili",
	"formstack", "netdocuments",
	"adobe", "echosign", "hellosign",
	"npsp", "npe", "hed", "sfims", "dlrs",
	"bizible", "bizible2", "bizibleid",
	"mkto_si", "mkto71", "x6sense",
	"lsf", "sked", "cventsfdc", "rh2",
	"lnt", "dozisf", "zvc",
}

// builtinDictionary seeds the known-organization pass. Deployments extend
// it through the dictionary file; the built-in list covers names frequent
// enough in real metadata to be worth catching without configuration.
var builtinDictionary = []string{
	"acme", "globex", "initech", "umbrella", "cyberdyne",
	"contoso", "fabrikam", "northwind", "tailspin",
}
