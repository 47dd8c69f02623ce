package xmlmap

import (
	"strings"

	"github.com/beevik/etree"
)

// Encode builds an element named tag from node, reversing Map: AttrPrefix
// keys become attributes, other keys become child elements, lists repeat the
// key's tag and scalars become the element text.
func Encode(tag string, node Node) *etree.Element {
	el := etree.NewElement(tag)
	encodeInto(el, node)
	return el
}

func encodeInto(el *etree.Element, node Node) {
	if node.Kind() != KindMap {
		el.SetText(node.Text())
		return
	}
	for _, f := range node.Fields() {
		if IsAttr(f.Name) {
			el.CreateAttr(strings.TrimPrefix(f.Name, AttrPrefix), f.Value.Text())
		}
	}
	for _, f := range node.Fields() {
		if IsAttr(f.Name) {
			continue
		}
		if f.Value.Kind() == KindList {
			for _, item := range f.Value.Items() {
				encodeInto(el.CreateElement(f.Name), item)
			}
			continue
		}
		encodeInto(el.CreateElement(f.Name), f.Value)
	}
}

// Marshal serializes node as an XML document rooted at tag.
func Marshal(tag string, node Node) ([]byte, error) {
	doc := etree.NewDocument()
	doc.SetRoot(Encode(tag, node))
	return doc.WriteToBytes()
}

// Decode parses data and maps its root element.
func Decode(data []byte) (Node, error) {
	root, err := Parse(data)
	if err != nil {
		return Node{}, err
	}
	return Map(root), nil
}
