package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/pkg/errors"
	"golang.org/x/net/html"

	"github.com/heathj/webui/spec"
)

// Document is a parsed page. Root is the spec tree; the html tree it was
// built from is kept for selector queries.
type Document struct {
	Root *spec.Node

	source *html.Node
	nodes  map[*html.Node]*spec.Node
}

func newDocument(root *html.Node, keepWhitespace bool) *Document {
	d := &Document{
		source: root,
		nodes:  make(map[*html.Node]*spec.Node),
	}
	b := builder{doc: d, keepWhitespace: keepWhitespace}
	d.Root = b.build(root, nil)
	return d
}

type builder struct {
	doc            *Document
	owner          *spec.Node
	keepWhitespace bool
}

func namespace(ns string) spec.Namespace {
	switch ns {
	case "svg":
		return spec.Svgns
	case "math":
		return spec.Mathmlns
	case "xlink":
		return spec.Xlinkns
	case "xml":
		return spec.Xmlns
	case "xmlns":
		return spec.Xmlnsns
	}
	return spec.Htmlns
}

// build converts n and its subtree, appending the result to parent.
func (b *builder) build(n *html.Node, parent *spec.Node) *spec.Node {
	var out *spec.Node
	switch n.Type {
	case html.DocumentNode:
		out = spec.NewDocument()
		b.owner = out
	case html.ElementNode:
		out = spec.NewElement(b.owner, n.Data, namespace(n.Namespace))
		for _, a := range n.Attr {
			attr := spec.NewAttr(a.Key, a.Val, out)
			attr.Namespace = namespace(a.Namespace)
			out.Attributes.SetNamedItem(attr)
		}
	case html.TextNode:
		if !b.keepWhitespace && strings.TrimSpace(n.Data) == "" {
			return nil
		}
		out = spec.NewText(b.owner, n.Data)
	case html.CommentNode:
		out = spec.NewComment(b.owner, n.Data)
	case html.DoctypeNode:
		var pub, sys string
		for _, a := range n.Attr {
			switch a.Key {
			case "public":
				pub = a.Val
			case "system":
				sys = a.Val
			}
		}
		out = spec.NewDocType(b.owner, n.Data, pub, sys)
	default:
		return nil
	}

	b.doc.nodes[n] = out
	if parent != nil {
		parent.AppendChild(out)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.build(c, out)
	}
	return out
}

// QuerySelector is the first node matching the CSS selector.
func (d *Document) QuerySelector(selector string) (*spec.Node, error) {
	nodes, err := d.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	return nodes[0], nil
}

// QuerySelectorAll is every node matching the CSS selector, in document order.
func (d *Document) QuerySelectorAll(selector string) (spec.NodeList, error) {
	sel := goquery.NewDocumentFromNode(d.source).Find(selector)
	var out spec.NodeList
	sel.Each(func(_ int, s *goquery.Selection) {
		if n := d.nodes[s.Get(0)]; n != nil {
			out = append(out, n)
		}
	})
	if len(out) == 0 {
		return nil, errors.Wrapf(ErrNoMatch, "selector %q", selector)
	}
	return out, nil
}

// QueryXPath is the first node matching the XPath expression.
func (d *Document) QueryXPath(expr string) (*spec.Node, error) {
	n, err := htmlquery.Query(d.source, expr)
	if err != nil {
		return nil, errors.Wrapf(err, "xpath %q", expr)
	}
	if out := d.nodes[n]; n != nil && out != nil {
		return out, nil
	}
	return nil, errors.Wrapf(ErrNoMatch, "xpath %q", expr)
}

// Body is the document's body element, or its root when there is none.
func (d *Document) Body() *spec.Node {
	if n, err := d.QuerySelector("body"); err == nil {
		return n
	}
	return d.Root
}
