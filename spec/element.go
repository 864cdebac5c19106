package spec

import "strings"

type Namespace uint

const (
	Htmlns Namespace = iota
	Mathmlns
	Svgns
	Xlinkns
	Xmlns
	Xmlnsns
)

func (ns Namespace) prefix() string {
	switch ns {
	case Xmlnsns:
		return "xmlns "
	case Xmlns:
		return "xml "
	case Xlinkns:
		return "xlink "
	case Svgns:
		return "svg "
	case Mathmlns:
		return "math "
	}
	return ""
}

// Element is an individual element that gets added to the tree.
// https://dom.spec.whatwg.org/#interface-element
type Element struct {
	NamespaceURI      Namespace
	Prefix, LocalName string
	Attributes        *NamedNodeMap
}

// ID is the element's id attribute.
func (e *Element) ID() string {
	if a := e.Attributes.GetNamedItem("id"); a != nil {
		return a.Value
	}
	return ""
}

// ClassList splits the class attribute on whitespace.
func (e *Element) ClassList() []string {
	if a := e.Attributes.GetNamedItem("class"); a != nil {
		return strings.Fields(a.Value)
	}
	return nil
}

func (e *Element) HasAttributes() bool {
	return e.Attributes.Length() > 0
}

// https://dom.spec.whatwg.org/#document
type Document struct {
	Type        string
	ContentType string
	URL         string
	CompatMode  string
}

// DocumentElement is the document's root element.
func (n *Node) DocumentElement() *Node {
	if n.NodeType != DocumentNode {
		return nil
	}
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if c.NodeType == ElementNode {
			return c
		}
	}
	return nil
}

// https://dom.spec.whatwg.org/#documenttype
type DocumentType struct {
	Name     string
	PublicID string
	SystemID string
}

// https://dom.spec.whatwg.org/#characterdata
type CharacterData struct {
	Data string
}

// https://dom.spec.whatwg.org/#text
type Text struct {
	*CharacterData
}

// IsWhitespace reports whether the text is only inter-element whitespace.
func (t *Text) IsWhitespace() bool {
	return strings.TrimSpace(t.Data) == ""
}

// https://dom.spec.whatwg.org/#interface-comment
type Comment struct {
	*CharacterData
}
