package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"patternforge/internal/model"
	"patternforge/internal/storage"
)

const testFlowXML = `<?xml version="1.0" encoding="UTF-8"?>
<Flow xmlns="http://soap.sforce.com/2006/04/metadata">
    <apiVersion>59.0</apiVersion>
    <label>Lead Routing</label>
    <processType>AutoLaunchedFlow</processType>
    <recordTriggerType>RecordAfterSave</recordTriggerType>
    <start>
        <object>Lead</object>
    </start>
    <decisions>
        <name>Check_Region</name>
        <rules>
            <name>Is_West</name>
            <conditions><leftValueReference>region</leftValueReference></conditions>
            <connector><targetReference>Done</targetReference></connector>
        </rules>
    </decisions>
</Flow>`

const testFieldXML = `<?xml version="1.0" encoding="UTF-8"?>
<CustomField xmlns="http://soap.sforce.com/2006/04/metadata">
    <fullName>Tier__c</fullName>
    <type>Text</type>
    <length>40</length>
</CustomField>`

func newTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return store
}

func writeTestProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	write := func(rel, content string) {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
	}

	write("force-app/main/default/flows/Lead_Routing.flow-meta.xml", testFlowXML)
	write("force-app/main/default/flows/Broken.flow-meta.xml", "<Flow><label>Broken")
	write("force-app/main/default/objects/Account/fields/Tier__c.field-meta.xml", testFieldXML)
	write("scripts/build.js", "// not metadata")
	return dir
}

func TestService_Run(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, nil)
	dir := writeTestProject(t)
	ctx := context.Background()

	var progress [][2]int
	result, err := svc.Run(ctx, Options{
		ProjectDir:  dir,
		DisplayName: "Acme Org",
		Progress: func(done, total int) {
			progress = append(progress, [2]int{done, total})
		},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.RunID == "" {
		t.Error("Empty run ID")
	}
	if len(result.SourceHash) != 12 {
		t.Errorf("SourceHash = %q, want 12 hex chars", result.SourceHash)
	}
	if result.FilesScanned != 3 {
		t.Errorf("FilesScanned = %d, want 3", result.FilesScanned)
	}
	if result.PatternsFound != 2 || result.NewPatterns != 2 || result.Duplicates != 0 {
		t.Errorf("Counts = found %d new %d dup %d, want 2/2/0",
			result.PatternsFound, result.NewPatterns, result.Duplicates)
	}
	if result.MetadataCounts["flow"] != 1 || result.MetadataCounts["field"] != 1 {
		t.Errorf("MetadataCounts = %v", result.MetadataCounts)
	}

	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want exactly one", result.Errors)
	}
	if result.Errors[0].File != "force-app/main/default/flows/Broken.flow-meta.xml" {
		t.Errorf("Error file = %q", result.Errors[0].File)
	}
	if result.Errors[0].Reason == "" {
		t.Error("Error reason is empty")
	}

	if len(progress) != 3 {
		t.Errorf("Progress called %d times, want 3", len(progress))
	} else if progress[2] != [2]int{3, 3} {
		t.Errorf("Final progress = %v", progress[2])
	}

	sources, err := store.ListSources(ctx)
	if err != nil {
		t.Fatalf("ListSources failed: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("Sources = %d, want 1", len(sources))
	}
	// "Acme" is a dictionary term, so the display name arrives aliased.
	if sources[0].DisplayName != "Brand_A Org" {
		t.Errorf("DisplayName = %q", sources[0].DisplayName)
	}
	if sources[0].PatternCount != 2 {
		t.Errorf("PatternCount = %d, want 2", sources[0].PatternCount)
	}
}

func TestService_RunDeduplicates(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, nil)
	dir := writeTestProject(t)
	ctx := context.Background()

	if _, err := svc.Run(ctx, Options{ProjectDir: dir}); err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	result, err := svc.Run(ctx, Options{ProjectDir: dir})
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if result.NewPatterns != 0 || result.Duplicates != 2 {
		t.Errorf("Second run: new %d dup %d, want 0/2", result.NewPatterns, result.Duplicates)
	}

	page, err := store.QueryPatterns(ctx, model.PatternFilter{})
	if err != nil {
		t.Fatalf("QueryPatterns failed: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("Total = %d, want 2", page.Total)
	}
	for _, p := range page.Patterns {
		if p.UseCount != 2 {
			t.Errorf("Pattern %q use count = %d, want 2", p.Name, p.UseCount)
		}
	}
}

func TestService_RunErrors(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, nil)
	ctx := context.Background()

	if _, err := svc.Run(ctx, Options{}); err == nil {
		t.Error("Expected error for missing project dir")
	}
	if _, err := svc.Run(ctx, Options{ProjectDir: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("Expected error for nonexistent directory")
	}
}

func TestSourceHash(t *testing.T) {
	a := sourceHash("/projects/org-one")
	b := sourceHash("/projects/org-two")

	if len(a) != 12 {
		t.Errorf("Hash length = %d, want 12", len(a))
	}
	if a == b {
		t.Error("Different paths must hash differently")
	}
	if a != sourceHash("/projects/org-one") {
		t.Error("Hash must be stable")
	}
}

func TestFieldNameFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"objects/Account/fields/Tier__c.field-meta.xml", "Account.Tier__c"},
		{"force-app/main/default/objects/Invoice__c/fields/Due_Date__c.field-meta.xml", "Invoice__c.Due_Date__c"},
		{"flows/Lead_Routing.flow-meta.xml", ""},
	}

	for _, tt := range tests {
		if got := fieldNameFromPath(tt.path); got != tt.want {
			t.Errorf("fieldNameFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
