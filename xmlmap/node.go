package xmlmap

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Kind identifies which variant a Node holds.
type Kind int

const (
	KindMap Kind = iota
	KindList
	KindBool
	KindInt
	KindFloat
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindMap:
		return "map"
	case KindList:
		return "list"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Field is a single named entry of a map node.
type Field struct {
	Name  string
	Value Node
}

// Node is the generic structure produced from an XML element: an ordered
// map, a list, or a scalar. The zero value is an empty map.
type Node struct {
	kind   Kind
	b      bool
	i      int64
	f      float64
	s      string
	fields []Field
	items  []Node
}

// Object returns an empty map node.
func Object() Node { return Node{kind: KindMap} }

// List returns a list node holding items.
func List(items ...Node) Node { return Node{kind: KindList, items: items} }

func Bool(v bool) Node { return Node{kind: KindBool, b: v} }

func Int(v int64) Node { return Node{kind: KindInt, i: v} }

func Float(v float64) Node { return Node{kind: KindFloat, f: v} }

func Text(v string) Node { return Node{kind: KindText, s: v} }

func (n Node) Kind() Kind { return n.kind }

func (n Node) Bool() bool { return n.b }

func (n Node) Int() int64 { return n.i }

func (n Node) Float() float64 { return n.f }

// Text returns the string form of a scalar node. Map and list nodes return "".
func (n Node) Text() string {
	switch n.kind {
	case KindText:
		return n.s
	case KindBool:
		return strconv.FormatBool(n.b)
	case KindInt:
		return strconv.FormatInt(n.i, 10)
	case KindFloat:
		return formatFloat(n.f)
	default:
		return ""
	}
}

// Fields returns the entries of a map node in insertion order.
func (n Node) Fields() []Field { return n.fields }

// Items returns the elements of a list node.
func (n Node) Items() []Node { return n.items }

// Len reports the number of entries of a map or list node.
func (n Node) Len() int {
	switch n.kind {
	case KindMap:
		return len(n.fields)
	case KindList:
		return len(n.items)
	default:
		return 0
	}
}

// Get looks up a map entry by name.
func (n Node) Get(name string) (Node, bool) {
	for _, f := range n.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Node{}, false
}

// Set inserts or replaces a map entry, keeping the position of an existing key.
func (n *Node) Set(name string, value Node) {
	for i := range n.fields {
		if n.fields[i].Name == name {
			n.fields[i].Value = value
			return
		}
	}
	n.fields = append(n.fields, Field{Name: name, Value: value})
}

// appendItem adds value to the list stored under name, creating the list
// at the key's first position when needed.
func (n *Node) appendItem(name string, value Node) {
	for i := range n.fields {
		if n.fields[i].Name == name {
			n.fields[i].Value.items = append(n.fields[i].Value.items, value)
			return
		}
	}
	n.fields = append(n.fields, Field{Name: name, Value: List(value)})
}

// IsAttr reports whether a map key was produced from an XML attribute.
func IsAttr(name string) bool { return strings.HasPrefix(name, AttrPrefix) }

// MarshalJSON renders maps as JSON objects in insertion order.
func (n Node) MarshalJSON() ([]byte, error) {
	switch n.kind {
	case KindMap:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, f := range n.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(f.Name)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			val, err := f.Value.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case KindList:
		items := n.items
		if items == nil {
			items = []Node{}
		}
		return json.Marshal(items)
	case KindBool:
		return json.Marshal(n.b)
	case KindInt:
		return json.Marshal(n.i)
	case KindFloat:
		return json.Marshal(n.f)
	default:
		return json.Marshal(n.s)
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
