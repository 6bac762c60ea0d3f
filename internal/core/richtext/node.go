// Package richtext implements the formatted-content model of a document.
//
// Content is a tree of element and text nodes parsed from HTML. Offsets used by
// projections, selections and edits are 0-based rune offsets into the flat text
// produced by Project.
package richtext

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NodeKind tags the variant held by a Node.
type NodeKind uint8

const (
	TextNode NodeKind = iota
	ElementNode
)

// Attr is a single element attribute. Order is significant for equality.
type Attr struct {
	Key string
	Val string
}

// Node is one element or text run of formatted content.
type Node struct {
	Kind     NodeKind
	Tag      string // element only, lower case
	Attrs    []Attr // element only
	Text     string // text only
	Children []*Node
}

// Text returns a new text node.
func Text(s string) *Node {
	return &Node{Kind: TextNode, Text: s}
}

// Element returns a new element node with the given children.
func Element(tag string, attrs []Attr, children ...*Node) *Node {
	return &Node{Kind: ElementNode, Tag: tag, Attrs: attrs, Children: children}
}

// Attr returns the value of the named attribute and whether it is present.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Content is the root of a formatted document: the ordered children of <body>.
//
// Content values share their tree; use Clone before mutating a copy that must
// stay independent.
type Content struct {
	root *Node
}

// NewContent builds content from top-level nodes.
func NewContent(nodes ...*Node) Content {
	return Content{root: &Node{Kind: ElementNode, Children: nodes}}
}

// Parse reads an HTML fragment as formatted content. It never fails: input
// that is not markup becomes text, and comments and doctypes are dropped.
func Parse(s string) Content {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	parsed, err := html.ParseFragment(strings.NewReader(s), body)
	if err != nil {
		return NewContent(Text(s))
	}

	nodes := make([]*Node, 0, len(parsed))
	for _, n := range parsed {
		if conv := fromHTML(n); conv != nil {
			nodes = append(nodes, conv)
		}
	}
	return NewContent(nodes...)
}

// Nodes returns the top-level nodes.
func (c Content) Nodes() []*Node {
	if c.root == nil {
		return nil
	}
	return c.root.Children
}

// IsEmpty reports whether the content has no nodes at all.
func (c Content) IsEmpty() bool {
	return len(c.Nodes()) == 0
}

// HTML serializes the content as an HTML fragment.
func (c Content) HTML() string {
	var b strings.Builder
	for _, n := range c.Nodes() {
		if err := html.Render(&b, toHTML(n)); err != nil {
			continue
		}
	}
	return b.String()
}

// Clone returns a deep copy.
func (c Content) Clone() Content {
	if c.root == nil {
		return NewContent()
	}
	return Content{root: cloneNode(c.root)}
}

// Equal reports structural equality of two content trees.
func (c Content) Equal(other Content) bool {
	a, b := c.Nodes(), other.Nodes()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !nodeEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Normalize merges adjacent text nodes and removes empty text nodes and
// inline formatting elements left without children by an edit.
func (c *Content) Normalize() {
	if c.root == nil {
		return
	}
	normalizeChildren(c.root)
}

func (c *Content) ensureRoot() *Node {
	if c.root == nil {
		c.root = &Node{Kind: ElementNode}
	}
	return c.root
}

func normalizeChildren(n *Node) {
	out := n.Children[:0]
	for _, child := range n.Children {
		if child.Kind == ElementNode {
			normalizeChildren(child)
			if len(child.Children) == 0 && isInlineFormat(child.Tag) {
				continue
			}
			out = append(out, child)
			continue
		}

		if child.Text == "" {
			continue
		}
		if len(out) > 0 && out[len(out)-1].Kind == TextNode {
			out[len(out)-1].Text += child.Text
			continue
		}
		out = append(out, child)
	}
	for i := len(out); i < len(n.Children); i++ {
		n.Children[i] = nil
	}
	n.Children = out
}

func fromHTML(n *html.Node) *Node {
	switch n.Type {
	case html.TextNode:
		return Text(n.Data)
	case html.ElementNode:
		el := &Node{Kind: ElementNode, Tag: n.Data}
		for _, a := range n.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			el.Attrs = append(el.Attrs, Attr{Key: key, Val: a.Val})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if conv := fromHTML(c); conv != nil {
				el.Children = append(el.Children, conv)
			}
		}
		return el
	default:
		return nil
	}
}

func toHTML(n *Node) *html.Node {
	if n.Kind == TextNode {
		return &html.Node{Type: html.TextNode, Data: n.Text}
	}

	el := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	for _, a := range n.Attrs {
		el.Attr = append(el.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	for _, c := range n.Children {
		el.AppendChild(toHTML(c))
	}
	return el
}

func cloneNode(n *Node) *Node {
	out := &Node{Kind: n.Kind, Tag: n.Tag, Text: n.Text}
	if len(n.Attrs) > 0 {
		out.Attrs = append([]Attr(nil), n.Attrs...)
	}
	if len(n.Children) > 0 {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = cloneNode(c)
		}
	}
	return out
}

func nodeEqual(a, b *Node) bool {
	if a.Kind != b.Kind || a.Tag != b.Tag || a.Text != b.Text {
		return false
	}
	if len(a.Attrs) != len(b.Attrs) || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Attrs {
		if a.Attrs[i] != b.Attrs[i] {
			return false
		}
	}
	for i := range a.Children {
		if !nodeEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
