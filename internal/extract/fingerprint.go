package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"

	"patternforge/internal/model"
)

// cosmeticKeys carry naming and layout noise. Their presence contributes
// to the fingerprint but their values do not, so two structurally equal
// patterns collide even when authored in different orgs under different
// names.
var cosmeticKeys = map[string]bool{
	"label":          true,
	"description":    true,
	"name":           true,
	"fullName":       true,
	"flowName":       true,
	"componentName":  true,
	"objectName":     true,
	"fieldName":      true,
	"className":      true,
	"errorMessage":   true,
	"helpText":       true,
	"interviewLabel": true,
	"locationX":      true,
	"locationY":      true,
}

// Fingerprint computes the structural identity of a tree: a hex sha256
// over node types, sorted attribute keys, non-cosmetic attribute values,
// and child order. Child order is significant; reordering elements is a
// structural change.
func Fingerprint(root *model.Node) string {
	h := sha256.New()
	hashNode(h, root)
	return hex.EncodeToString(h.Sum(nil))
}

func hashNode(h hash.Hash, n *model.Node) {
	fmt.Fprintf(h, "t=%s\n", n.Type)
	for _, key := range n.AttrKeys() {
		if cosmeticKeys[key] {
			fmt.Fprintf(h, "k=%s\n", key)
		} else {
			fmt.Fprintf(h, "k=%s v=%s\n", key, n.Attrs[key])
		}
	}
	fmt.Fprintf(h, "c=%d\n", len(n.Children))
	for _, child := range n.Children {
		hashNode(h, child)
	}
}
