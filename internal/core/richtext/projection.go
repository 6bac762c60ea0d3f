package richtext

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Selection is a range over the flat text. Length 0 is a caret.
type Selection struct {
	Start  int
	Length int
}

// End returns the exclusive end offset.
func (s Selection) End() int { return s.Start + s.Length }

// IsCaret reports whether nothing is selected.
func (s Selection) IsCaret() bool { return s.Length == 0 }

// Segment maps a run of flat text back to the tree. Node is nil for
// synthetic line breaks inserted between blocks or produced by <br>.
type Segment struct {
	Start  int
	End    int
	Node   *Node
	Parent *Node
}

// Synthetic reports whether the segment has no backing text node.
func (s Segment) Synthetic() bool { return s.Node == nil }

// BlockStart records the flat offset at which a block element begins.
type BlockStart struct {
	Offset int
	Node   *Node
	Parent *Node
}

// Projection is the flat text view of content plus its offset map.
type Projection struct {
	Text     string
	Len      int
	Segments []Segment
	Blocks   []BlockStart
	root     *Node
}

// Stats holds the counters shown in the status bar.
type Stats struct {
	Words int
	Chars int
}

// Project derives the flat text and offset map of content.
//
// Text nodes contribute their text, embeds contribute nothing, and blocks are
// separated by a single "\n". A <br> contributes "\n" unless it is the last
// child of its block. Whitespace-only text between blocks is skipped.
func Project(c *Content) Projection {
	p := &projector{atLineStart: true}
	root := c.ensureRoot()
	p.walkChildren(root)
	return Projection{
		Text:     p.b.String(),
		Len:      p.off,
		Segments: p.segs,
		Blocks:   p.blocks,
		root:     root,
	}
}

type projector struct {
	b           strings.Builder
	off         int
	segs        []Segment
	blocks      []BlockStart
	atLineStart bool
	needSep     bool
}

func (p *projector) walkChildren(parent *Node) {
	for i, child := range parent.Children {
		p.walk(parent, i, child)
	}
}

func (p *projector) walk(parent *Node, idx int, n *Node) {
	if n.Kind == TextNode {
		if n.Text == "" || p.ignorable(parent, idx) {
			return
		}
		p.separate()
		p.emit(n.Text, n, parent)
		p.atLineStart = false
		return
	}

	switch {
	case n.Tag == "br":
		if isLastInBlock(parent, idx) {
			return
		}
		p.separate()
		p.emit("\n", nil, parent)
		p.atLineStart = true
	case IsEmbed(n.Tag):
		p.separate()
		p.atLineStart = false
	case IsBlock(n.Tag):
		if !p.atLineStart || p.needSep {
			p.emit("\n", nil, parent)
		}
		p.atLineStart = true
		p.needSep = false
		p.blocks = append(p.blocks, BlockStart{Offset: p.off, Node: n, Parent: parent})
		p.walkChildren(n)
		p.needSep = true
	default:
		p.walkChildren(n)
	}
}

// separate emits the pending block separator before inline content.
func (p *projector) separate() {
	if p.needSep {
		p.emit("\n", nil, nil)
		p.needSep = false
		p.atLineStart = true
	}
}

func (p *projector) emit(s string, n, parent *Node) {
	l := utf8.RuneCountInString(s)
	p.b.WriteString(s)
	p.segs = append(p.segs, Segment{Start: p.off, End: p.off + l, Node: n, Parent: parent})
	p.off += l
}

// ignorable reports whether a whitespace-only text node sits between blocks
// of a container and is therefore layout rather than content.
func (p *projector) ignorable(parent *Node, idx int) bool {
	n := parent.Children[idx]
	if strings.TrimSpace(n.Text) != "" {
		return false
	}
	if parent.Tag != "" && !containerTags[parent.Tag] {
		return false
	}
	prevBlock := idx == 0 || isBlockNode(parent.Children[idx-1])
	nextBlock := idx == len(parent.Children)-1 || isBlockNode(parent.Children[idx+1])
	return prevBlock && nextBlock
}

func isBlockNode(n *Node) bool {
	return n.Kind == ElementNode && IsBlock(n.Tag)
}

func isLastInBlock(parent *Node, idx int) bool {
	if parent.Tag == "" || !IsBlock(parent.Tag) {
		return false
	}
	for _, sib := range parent.Children[idx+1:] {
		if sib.Kind == TextNode && sib.Text == "" {
			continue
		}
		return false
	}
	return true
}

// Stats returns word and character counts of the flat text.
func (p Projection) Stats() Stats {
	return Stats{
		Words: len(strings.Fields(p.Text)),
		Chars: p.Len,
	}
}

// TextAt returns the flat text covered by sel, clamped to the document.
func (p Projection) TextAt(sel Selection) string {
	start, end := p.clamp(sel.Start), p.clamp(sel.End())
	if start >= end {
		return ""
	}
	runes := []rune(p.Text)
	return string(runes[start:end])
}

// Clamp limits sel to the bounds of the flat text.
func (p Projection) Clamp(sel Selection) Selection {
	start := p.clamp(sel.Start)
	end := p.clamp(sel.End())
	if end < start {
		end = start
	}
	return Selection{Start: start, Length: end - start}
}

// CrossesBlock reports whether [start, end) contains a synthetic line break.
func (p Projection) CrossesBlock(start, end int) bool {
	for _, seg := range p.overlapping(start, end) {
		if seg.Synthetic() {
			return true
		}
	}
	return false
}

func (p Projection) clamp(off int) int {
	if off < 0 {
		return 0
	}
	if off > p.Len {
		return p.Len
	}
	return off
}

// overlapping returns the segments that intersect [start, end).
func (p Projection) overlapping(start, end int) []Segment {
	i := sort.Search(len(p.Segments), func(i int) bool { return p.Segments[i].End > start })
	var out []Segment
	for ; i < len(p.Segments) && p.Segments[i].Start < end; i++ {
		out = append(out, p.Segments[i])
	}
	return out
}

// SelectionReport renders the status text for a selection.
func SelectionReport(sel Selection) string {
	if sel.Length == 0 {
		return "No selection"
	}
	return fmt.Sprintf("%d selected", sel.Length)
}
