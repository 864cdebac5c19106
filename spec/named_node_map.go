package spec

import "strings"

// Attr is https://dom.spec.whatwg.org/#attr
type Attr struct {
	Namespace    Namespace
	Prefix       string
	LocalName    string
	Value        string
	OwnerElement *Node
}

func NewAttr(name, value string, oe *Node) *Attr {
	return &Attr{
		LocalName:    name,
		Value:        value,
		OwnerElement: oe,
	}
}

// NamedNodeMap keeps an element's attributes in insertion order.
// https://dom.spec.whatwg.org/#namednodemap
type NamedNodeMap struct {
	attrs             []*Attr
	AssociatedElement *Node
}

func NewNamedNodeMap(attrs map[string]string, oe *Node) *NamedNodeMap {
	m := &NamedNodeMap{AssociatedElement: oe}
	names := make([]string, 0, len(attrs))
	for k := range attrs {
		names = append(names, k)
	}
	for _, k := range sortedStrings(names) {
		m.attrs = append(m.attrs, NewAttr(k, attrs[k], oe))
	}
	return m
}

func (n *NamedNodeMap) Length() int {
	if n == nil {
		return 0
	}
	return len(n.attrs)
}

// Item is the attribute at index i, or nil.
func (n *NamedNodeMap) Item(i int) *Attr {
	if n == nil || i < 0 || i >= len(n.attrs) {
		return nil
	}
	return n.attrs[i]
}

// Names lists the attribute names in insertion order.
func (n *NamedNodeMap) Names() []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.attrs))
	for _, a := range n.attrs {
		out = append(out, a.LocalName)
	}
	return out
}

func (n *NamedNodeMap) GetNamedItem(qn string) *Attr {
	if n == nil {
		return nil
	}
	if n.AssociatedElement != nil && n.AssociatedElement.Element != nil &&
		n.AssociatedElement.Element.NamespaceURI == Htmlns {
		qn = strings.ToLower(qn)
	}
	for _, a := range n.attrs {
		if a.LocalName == qn {
			return a
		}
	}
	return nil
}

func (n *NamedNodeMap) GetNamedItemNS(ns Namespace, ln string) *Attr {
	for _, a := range n.attrs {
		if a.LocalName == ln && a.Namespace == ns {
			return a
		}
	}
	return nil
}

// SetNamedItem adds s, replacing an attribute with the same namespace and
// local name. It returns the replaced attribute, if any.
func (n *NamedNodeMap) SetNamedItem(s *Attr) *Attr {
	if s == nil {
		return nil
	}
	s.OwnerElement = n.AssociatedElement
	for i, a := range n.attrs {
		if a.LocalName == s.LocalName && a.Namespace == s.Namespace {
			n.attrs[i] = s
			return a
		}
	}
	n.attrs = append(n.attrs, s)
	return nil
}

func (n *NamedNodeMap) RemoveNamedItem(qn string) *Attr {
	for i, a := range n.attrs {
		if a.LocalName == qn {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return a
		}
	}
	return nil
}
