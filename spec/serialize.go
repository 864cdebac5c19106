package spec

import "strings"

// https://html.spec.whatwg.org/#escapingString
func escapeString(s string, attrVal bool) string {
	s = strings.Replace(s, "&", "&amp;", -1)
	s = strings.Replace(s, "\u00A0", "&nbsp;", -1)
	if attrVal {
		s = strings.Replace(s, "\"", "&quot;", -1)
	} else {
		s = strings.Replace(s, "<", "&lt;", -1)
		s = strings.Replace(s, ">", "&gt;", -1)
	}

	return s
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// InnerHTML serializes n's children.
// https://html.spec.whatwg.org/#serialising-html-fragments
func (n *Node) InnerHTML() string {
	var b strings.Builder
	for child := n.firstChild; child != nil; child = child.nextSibling {
		child.writeHTML(&b)
	}
	return b.String()
}

// OuterHTML serializes n and its children.
func (n *Node) OuterHTML() string {
	var b strings.Builder
	n.writeHTML(&b)
	return b.String()
}

func (n *Node) writeHTML(b *strings.Builder) {
	switch n.NodeType {
	case ElementNode:
		b.WriteString("<" + n.NodeName)
		for _, k := range n.Attributes.Names() {
			b.WriteString(" " + k + "=\"" + escapeString(n.GetAttribute(k), true) + "\"")
		}
		b.WriteString(">")
		if voidElements[n.NodeName] {
			return
		}
		b.WriteString(n.InnerHTML())
		b.WriteString("</" + n.NodeName + ">")
	case TextNode:
		if p := n.parent; p != nil {
			switch p.NodeName {
			case "style", "script", "xmp", "iframe", "noembed", "noframes", "plaintext", "noscript":
				b.WriteString(n.Text.Data)
				return
			}
		}
		b.WriteString(escapeString(n.Text.Data, false))
	case CommentNode:
		b.WriteString("<!--" + n.Comment.Data + "-->")
	case DocumentTypeNode:
		b.WriteString("<!DOCTYPE " + n.DocumentType.Name + ">")
	case DocumentNode, DocumentFragmentNode:
		b.WriteString(n.InnerHTML())
	}
}
