// Package ingest walks project exports and drives the extraction pipeline.
package ingest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"patternforge/internal/model"
	"patternforge/internal/parser"
)

// scanResult is everything one directory walk produces: the parseable
// documents, per-file read errors, and the Object.Field names used to seed
// brand detection before any document is anonymized.
type scanResult struct {
	docs       []parser.Document
	errors     []model.IngestError
	fieldNames []string
}

// lwcCompanionExts are the sibling files loaded alongside a component's
// main module.
var lwcCompanionExts = []string{".html", ".js-meta.xml"}

// scan walks a project export and collects every supported metadata
// document. WalkDir visits files lexically, so document order is
// deterministic for a given tree.
func scan(root string) (*scanResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open project directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project path %s is not a directory", root)
	}

	result := &scanResult{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			result.errors = append(result.errors, model.IngestError{
				File:   relPath(root, path),
				Reason: walkErr.Error(),
			})
			return nil
		}
		if d.IsDir() {
			// node_modules shows up inside LWC projects and is never metadata.
			if d.Name() == "node_modules" || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		kind := parser.Detect(path)
		if kind == parser.KindUnknown {
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			result.errors = append(result.errors, model.IngestError{
				File:   relPath(root, path),
				Reason: readErr.Error(),
			})
			return nil
		}

		doc := parser.Document{
			Path:    relPath(root, path),
			Kind:    kind,
			Content: content,
		}
		if kind == parser.KindLWC {
			doc.Companions = loadCompanions(path)
		}
		if kind == parser.KindField {
			if name := fieldNameFromPath(path); name != "" {
				result.fieldNames = append(result.fieldNames, name)
			}
		}
		result.docs = append(result.docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk project directory: %w", err)
	}
	return result, nil
}

// loadCompanions reads a component bundle's sibling files. Missing
// companions are fine; the parser degrades to the JS module alone.
func loadCompanions(jsPath string) map[string][]byte {
	stem := strings.TrimSuffix(jsPath, ".js")
	companions := make(map[string][]byte, len(lwcCompanionExts))
	for _, ext := range lwcCompanionExts {
		if data, err := os.ReadFile(stem + ext); err == nil {
			companions[ext] = data
		}
	}
	return companions
}

// fieldNameFromPath derives "Object.Field" from the conventional
// objects/<Object>/fields/<Field>.field-meta.xml layout.
func fieldNameFromPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for i := len(parts) - 1; i >= 2; i-- {
		if parts[i] == "fields" && i+1 < len(parts) {
			object := parts[i-1]
			field := strings.TrimSuffix(parts[i+1], ".field-meta.xml")
			return object + "." + field
		}
	}
	return ""
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}
