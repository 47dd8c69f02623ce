// Package xmlmap converts XML element trees into generic Node structures
// and back.
package xmlmap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// AttrPrefix marks map keys that came from XML attributes.
const AttrPrefix = "@"

// ErrMalformedXML is returned when the input is not a well-formed XML document.
// Its text is reported to clients verbatim.
var ErrMalformedXML = errors.New("Malformed XML")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decimal literals accepted by Coerce. Digit groups may be separated by
// single underscores.
var (
	intLiteral   = regexp.MustCompile(`^[+-]?\d+(?:_\d+)*$`)
	floatLiteral = regexp.MustCompile(`^[+-]?(?:\d+(?:_\d+)*(?:\.(?:\d+(?:_\d+)*)?)?|\.\d+(?:_\d+)*)(?:[eE][+-]?\d+(?:_\d+)*)?$`)
)

// Parse reads a complete XML document and returns its root element. A
// leading UTF-8 byte order mark is ignored.
func Parse(data []byte) (*etree.Element, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if err := checkWellFormed(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: document has no root element", ErrMalformedXML)
	}
	return root, nil
}

// ParseString is Parse for text input.
func ParseString(text string) (*etree.Element, error) {
	return Parse([]byte(text))
}

// checkWellFormed runs a strict token pass over the document. etree reads
// raw tokens and does not verify that end tags match their start tags.
func checkWellFormed(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader
	depth, roots := 0, 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					return fmt.Errorf("unexpected second root element <%s>", t.Name.Local)
				}
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return errors.New("text outside of root element")
			}
		}
	}
	if roots == 0 {
		return errors.New("document has no root element")
	}
	return nil
}

// Map converts el into a Node. Attributes become AttrPrefix keys. A leaf
// element with non-blank text becomes its coerced text; any other leaf becomes
// its attribute map. Child tags seen more than once become lists in document
// order.
func Map(el *etree.Element) Node {
	node := Object()
	for _, attr := range el.Attr {
		node.Set(AttrPrefix+attr.FullKey(), Coerce(attr.Value))
	}

	children := el.ChildElements()
	if len(children) == 0 {
		if text := strings.TrimSpace(el.Text()); text != "" {
			return Coerce(text)
		}
		return node
	}

	counts := make(map[string]int, len(children))
	for _, child := range children {
		counts[child.FullTag()]++
	}
	for _, child := range children {
		tag := child.FullTag()
		if counts[tag] == 1 {
			node.Set(tag, Map(child))
			continue
		}
		node.appendItem(tag, Map(child))
	}
	return node
}

// Coerce converts a raw value to a bool, integer, float or trimmed text, in
// that order of preference.
func Coerce(value string) Node {
	text := strings.TrimSpace(value)
	if text == "" {
		return Text("")
	}
	switch strings.ToLower(text) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	digits := strings.ReplaceAll(text, "_", "")
	if intLiteral.MatchString(text) {
		if i, err := strconv.ParseInt(digits, 10, 64); err == nil {
			return Int(i)
		}
	}
	if floatLiteral.MatchString(text) {
		if f, err := strconv.ParseFloat(digits, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return Float(f)
		}
	}
	return Text(text)
}
