// Package parser turns raw metadata documents into normalized trees.
// One parser exists per document kind; selecting a parser is a pure table
// lookup on the detected kind. Parsers are deterministic: identical input
// bytes always produce an identical tree.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"patternforge/internal/model"
)

// Kind identifies a supported metadata document kind.
type Kind string

// Supported document kinds.
const (
	KindFlow       Kind = "flow"
	KindValidation Kind = "validation"
	KindObject     Kind = "object"
	KindField      Kind = "field"
	KindReport     Kind = "report"
	KindLayout     Kind = "layout"
	KindLWC        Kind = "lwc"
	KindApex       Kind = "apex"
	KindUnknown    Kind = ""
)

// Document is one metadata file handed to a parser. Companions carries
// sibling files for bundle kinds (an LWC component's template and meta XML),
// keyed by file extension.
type Document struct {
	Companions map[string][]byte
	Path       string
	Kind       Kind
	Content    []byte
}

// Name returns the base file name of the document.
func (d Document) Name() string {
	return filepath.Base(d.Path)
}

// Parser converts one document into a normalized tree.
type Parser interface {
	Parse(doc Document) (*model.Node, error)
}

// ParseError reports a malformed or unrecognized document. It is non-fatal
// to an ingestion batch: callers record it and continue.
type ParseError struct {
	Err    error
	File   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.File, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.File, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(doc Document, reason string, err error) *ParseError {
	return &ParseError{File: doc.Name(), Reason: reason, Err: err}
}

// registry maps document kinds to their parsers. All parsers are stateless.
var registry = map[Kind]Parser{
	KindFlow:       &FlowParser{},
	KindValidation: &ValidationParser{},
	KindObject:     &ObjectParser{},
	KindField:      &ObjectParser{},
	KindReport:     &ReportParser{},
	KindLayout:     &LayoutParser{},
	KindLWC:        &LWCParser{},
	KindApex:       &ApexParser{},
}

// For returns the parser registered for the given kind.
func For(kind Kind) (Parser, bool) {
	p, ok := registry[kind]
	return p, ok
}

// metadata file suffixes, checked in order.
var fileSuffixes = []struct {
	suffix string
	kind   Kind
}{
	{".flow-meta.xml", KindFlow},
	{".validationRule-meta.xml", KindValidation},
	{".object-meta.xml", KindObject},
	{".field-meta.xml", KindField},
	{".report-meta.xml", KindReport},
	{".layout-meta.xml", KindLayout},
}

// Detect classifies a file path into a document kind, or KindUnknown for
// files no parser handles.
func Detect(path string) Kind {
	name := filepath.Base(path)

	for _, fs := range fileSuffixes {
		if strings.HasSuffix(name, fs.suffix) {
			return fs.kind
		}
	}

	parts := strings.Split(filepath.ToSlash(path), "/")

	// LWC: the main .js file of a component bundle, named after its directory.
	if strings.HasSuffix(name, ".js") && !strings.HasSuffix(name, ".test.js") {
		for i, part := range parts {
			if part == "lwc" && i+1 < len(parts) {
				if strings.TrimSuffix(name, ".js") == parts[len(parts)-2] {
					return KindLWC
				}
			}
		}
	}

	// Apex classes live under classes/.
	if strings.HasSuffix(name, ".cls") {
		for _, part := range parts {
			if part == "classes" {
				return KindApex
			}
		}
	}

	return KindUnknown
}
