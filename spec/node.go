// Package spec is a small DOM: nodes linked to their parent, children and
// siblings, with enough element and character data to describe a parsed page.
package spec

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

type NodeType uint16

const (
	ElementNode NodeType = iota + 1
	AttrNode
	TextNode
	CDATASectionNode
	ProcessingInstructionNode
	CommentNode
	DocumentNode
	DocumentTypeNode
	DocumentFragmentNode
)

func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case AttrNode:
		return "attr"
	case TextNode:
		return "text"
	case CDATASectionNode:
		return "cdata"
	case ProcessingInstructionNode:
		return "processing-instruction"
	case CommentNode:
		return "comment"
	case DocumentNode:
		return "document"
	case DocumentTypeNode:
		return "doctype"
	case DocumentFragmentNode:
		return "document-fragment"
	}
	return "unknown"
}

type DocumentPosition uint16

const (
	Disconnected DocumentPosition = 0x01
	Preceding    DocumentPosition = 0x02
	Following    DocumentPosition = 0x04
	Contain      DocumentPosition = 0x08
	ContainedBy  DocumentPosition = 0x10
)

// https://dom.spec.whatwg.org/#node
type Node struct {
	NodeType      NodeType
	NodeName      string
	OwnerDocument *Node

	parent, firstChild, lastChild, previousSibling, nextSibling *Node

	// Node types
	*Element
	*Text
	*Comment
	*Document
	*DocumentType
}

// NewDocument returns an empty html document node.
func NewDocument() *Node {
	n := &Node{
		NodeType: DocumentNode,
		NodeName: "#document",
		Document: &Document{Type: "html", ContentType: "text/html"},
	}
	n.OwnerDocument = n
	return n
}

// NewElement returns an element named name owned by od. Names are lowercased
// for html elements.
func NewElement(od *Node, name string, namespace Namespace) *Node {
	if namespace == Htmlns {
		name = strings.ToLower(name)
	}
	n := &Node{
		NodeType:      ElementNode,
		NodeName:      name,
		OwnerDocument: od,
		Element: &Element{
			NamespaceURI: namespace,
			LocalName:    name,
		},
	}
	n.Attributes = NewNamedNodeMap(nil, n)
	return n
}

// NewText returns a text node with its Data section filled.
func NewText(od *Node, data string) *Node {
	return &Node{
		NodeType:      TextNode,
		NodeName:      "#text",
		OwnerDocument: od,
		Text:          &Text{CharacterData: &CharacterData{Data: data}},
	}
}

// NewComment returns a comment node with its Data section filled.
func NewComment(od *Node, data string) *Node {
	return &Node{
		NodeType:      CommentNode,
		NodeName:      "#comment",
		OwnerDocument: od,
		Comment:       &Comment{CharacterData: &CharacterData{Data: data}},
	}
}

func NewDocType(od *Node, name, pub, sys string) *Node {
	return &Node{
		NodeType:      DocumentTypeNode,
		NodeName:      name,
		OwnerDocument: od,
		DocumentType: &DocumentType{
			Name:     name,
			PublicID: pub,
			SystemID: sys,
		},
	}
}

func (n *Node) Parent() *Node          { return n.parent }
func (n *Node) FirstChild() *Node      { return n.firstChild }
func (n *Node) LastChild() *Node       { return n.lastChild }
func (n *Node) PreviousSibling() *Node { return n.previousSibling }
func (n *Node) NextSibling() *Node     { return n.nextSibling }

// ParentElement is the parent if it is an element.
func (n *Node) ParentElement() *Node {
	if n.parent != nil && n.parent.NodeType == ElementNode {
		return n.parent
	}
	return nil
}

// HasChildNodes reports whether n has a first child.
func (n *Node) HasChildNodes() bool {
	return n.firstChild != nil
}

// ChildNodes is a snapshot of n's children.
func (n *Node) ChildNodes() NodeList {
	var nl NodeList
	for c := n.firstChild; c != nil; c = c.nextSibling {
		nl = append(nl, c)
	}
	return nl
}

// Root is the topmost ancestor of n, n itself when it has no parent.
func (n *Node) Root() *Node {
	var prev *Node
	for i := n; i != nil; i = i.parent {
		prev = i
	}
	return prev
}

// Contains reports whether on is an inclusive descendant of n.
func (n *Node) Contains(on *Node) bool {
	for i := on; i != nil; i = i.parent {
		if i == n {
			return true
		}
	}
	return false
}

// https://dom.spec.whatwg.org/#dom-node-comparedocumentposition
func (n *Node) CompareDocumentPosition(on *Node) DocumentPosition {
	if n == on {
		return 0
	}
	if n.Root() != on.Root() {
		return Disconnected
	}
	if on.Contains(n) {
		return Contain | Preceding
	}
	if n.Contains(on) {
		return ContainedBy | Following
	}
	for i := n.Root(); i != nil; i = following(i) {
		switch i {
		case n:
			return Following
		case on:
			return Preceding
		}
	}
	return Disconnected
}

func following(n *Node) *Node {
	if n.firstChild != nil {
		return n.firstChild
	}
	for i := n; i != nil; i = i.parent {
		if i.nextSibling != nil {
			return i.nextSibling
		}
	}
	return nil
}

// TextContent concatenates the data of all descendant text nodes.
func (n *Node) TextContent() string {
	switch n.NodeType {
	case TextNode:
		return n.Text.Data
	case CommentNode:
		return n.Comment.Data
	}
	var b strings.Builder
	for i := n.firstChild; i != nil && n.Contains(i); i = following(i) {
		if i.NodeType == TextNode {
			b.WriteString(i.Text.Data)
		}
	}
	return b.String()
}

// GetAttribute is the attribute value, or "" when the node has none.
func (n *Node) GetAttribute(name string) string {
	if n.Element == nil {
		return ""
	}
	if a := n.Attributes.GetNamedItem(name); a != nil {
		return a.Value
	}
	return ""
}

// HasAttribute reports whether n is an element carrying name.
func (n *Node) HasAttribute(name string) bool {
	return n.Element != nil && n.Attributes.GetNamedItem(name) != nil
}

func (n *Node) SetAttribute(name, value string) {
	if n.Element == nil {
		return
	}
	if n.NamespaceURI == Htmlns {
		name = strings.ToLower(name)
	}
	n.Attributes.SetNamedItem(NewAttr(name, value, n))
}

// InsertBefore inserts on into n's children before child, or appends it when
// child is nil.
// https://dom.spec.whatwg.org/#dom-node-insertbefore
func (n *Node) InsertBefore(on, child *Node) *Node {
	if child == nil {
		return n.AppendChild(on)
	}
	if child.parent != n {
		return nil
	}
	if on.parent != nil {
		on.parent.RemoveChild(on)
	}

	on.parent = n
	on.nextSibling = child
	on.previousSibling = child.previousSibling
	if child.previousSibling != nil {
		child.previousSibling.nextSibling = on
	} else {
		n.firstChild = on
	}
	child.previousSibling = on

	PrintDiff(n, "InsertBefore")
	return on
}

// https://dom.spec.whatwg.org/#concept-node-append
func (n *Node) AppendChild(on *Node) *Node {
	if on.parent != nil {
		on.parent.RemoveChild(on)
	}
	if n.lastChild != nil {
		on.previousSibling = n.lastChild
		n.lastChild.nextSibling = on
	} else {
		n.firstChild = on
	}
	on.parent = n
	n.lastChild = on

	PrintDiff(n, "AppendChild")
	return on
}

// RemoveChild unlinks child from n. It returns nil if child is not n's child.
func (n *Node) RemoveChild(child *Node) *Node {
	if child == nil || child.parent != n {
		return nil
	}
	if child.previousSibling != nil {
		child.previousSibling.nextSibling = child.nextSibling
	} else {
		n.firstChild = child.nextSibling
	}
	if child.nextSibling != nil {
		child.nextSibling.previousSibling = child.previousSibling
	} else {
		n.lastChild = child.previousSibling
	}
	child.parent, child.previousSibling, child.nextSibling = nil, nil, nil

	PrintDiff(n, "RemoveChild")
	return child
}

func serializeNodeType(node *Node, ident int) string {
	switch node.NodeType {
	case ElementNode:
		e := "<"
		switch node.Element.NamespaceURI {
		case Svgns:
			e += "svg "
		case Mathmlns:
			e += "math "
		}
		e += node.NodeName + ">"
		if node.Attributes != nil && node.Attributes.Length() != 0 {
			keys := node.Attributes.Names()
			sort.Strings(keys)
			spaces := "| "
			for i := 1; i < ident; i++ {
				spaces += "  "
			}
			for _, name := range keys {
				attr := node.Attributes.GetNamedItem(name)
				e += "\n" + spaces + attr.Namespace.prefix() + name + "=\"" + attr.Value + "\""
			}
		}
		return e
	case TextNode:
		return "\"" + node.Text.Data + "\""
	case CommentNode:
		return "<!-- " + node.Comment.Data + " -->"
	case DocumentTypeNode:
		d := "<!DOCTYPE " + node.DocumentType.Name
		if node.PublicID != "" || node.SystemID != "" {
			d += " \"" + node.PublicID + "\" \"" + node.SystemID + "\""
		}
		return d + ">"
	case DocumentNode:
		return "#document"
	default:
		log.WithField("type", node.NodeType).Warn("[TREE]: cannot serialize node")
		return ""
	}
}

func (node *Node) serialize(ident int) string {
	ser := serializeNodeType(node, ident+1) + "\n"
	if node.NodeType != DocumentNode {
		spaces := "| "
		for i := 1; i < ident; i++ {
			spaces += "  "
		}
		ser = spaces + ser
	}
	for child := node.firstChild; child != nil; child = child.nextSibling {
		ser += child.serialize(ident + 1)
	}

	return ser
}

// String dumps the subtree in the html5lib tree-construction test format.
func (node *Node) String() string {
	return strings.TrimRight(node.serialize(0), "\n")
}

var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger used for tree mutation tracing.
func SetLogger(l logrus.FieldLogger) {
	if l != nil {
		log = l
	}
}

// PrintDiff traces a mutation of n's tree at trace level.
func PrintDiff(n *Node, method string) {
	if lg, ok := log.(*logrus.Logger); ok && !lg.IsLevelEnabled(logrus.TraceLevel) {
		return
	}
	log.WithField("method", method).Tracef("[TREE]: %s", n.Root().String())
}
