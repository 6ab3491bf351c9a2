package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// element is a minimal namespace-stripped XML tree used by the XML-backed
// parsers. Child order is document order, so trees built from it are
// deterministic.
type element struct {
	Tag      string
	Text     string
	Children []*element
}

// decodeXML parses data into an element tree, dropping namespaces and
// attribute noise. Metadata XML carries everything in child elements.
func decodeXML(data []byte) (*element, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var root *element
	var stack []*element

	for {
		tok, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{Tag: t.Name.Local}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			} else if root == nil {
				root = el
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, errEmptyDocument
	}
	return root, nil
}

var errEmptyDocument = errors.New("no root element")

// findText returns the trimmed text of the first child with the given tag.
func (e *element) findText(tag, fallback string) string {
	for _, child := range e.Children {
		if child.Tag == tag {
			if text := strings.TrimSpace(child.Text); text != "" {
				return text
			}
			return fallback
		}
	}
	return fallback
}

// findAll returns all direct children with the given tag, in document order.
func (e *element) findAll(tag string) []*element {
	var out []*element
	for _, child := range e.Children {
		if child.Tag == tag {
			out = append(out, child)
		}
	}
	return out
}

// find returns the first direct child with the given tag.
func (e *element) find(tag string) *element {
	for _, child := range e.Children {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}
