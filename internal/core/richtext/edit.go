package richtext

import "errors"

var (
	// ErrStaleProjection is returned when an edit is given a projection of different content.
	ErrStaleProjection = errors.New("projection does not belong to content")
	// ErrCrossesBlock is returned when an edit range spans a line break between blocks.
	ErrCrossesBlock = errors.New("range crosses a block boundary")
)

// Replace substitutes text for the flat range [start, end) of c. p must be a
// projection of c taken before any other edit at or before start.
//
// The inserted text lands in the text node that held the first replaced
// character, so it keeps that node's formatting. A pure insertion (start ==
// end) inherits the formatting of the preceding character when there is one.
// Embeds inside the range are kept. The tree is left unnormalized so that
// several edits can be applied right to left against one projection.
func Replace(c *Content, p Projection, start, end int, text string) error {
	if p.root != c.ensureRoot() {
		return ErrStaleProjection
	}
	start, end = p.clamp(start), p.clamp(end)
	if end < start {
		start, end = end, start
	}
	if p.CrossesBlock(start, end) {
		return ErrCrossesBlock
	}

	if start == end {
		insertText(p, start, text)
		return nil
	}

	first := true
	for _, seg := range p.overlapping(start, end) {
		runes := []rune(seg.Node.Text)
		from := max(start-seg.Start, 0)
		to := min(end, seg.End) - seg.Start
		if first {
			seg.Node.Text = string(runes[:from]) + text + string(runes[to:])
			first = false
			continue
		}
		seg.Node.Text = string(runes[to:])
	}
	return nil
}

func insertText(p Projection, pos int, text string) {
	if text == "" {
		return
	}

	// Prefer the text ending at pos, then the text starting at pos.
	var before, after *Segment
	for i := range p.Segments {
		seg := &p.Segments[i]
		if seg.Synthetic() {
			continue
		}
		if seg.Start < pos && pos <= seg.End {
			before = seg
			break
		}
		if seg.Start == pos && after == nil {
			after = seg
		}
	}

	switch {
	case before != nil:
		runes := []rune(before.Node.Text)
		at := pos - before.Start
		before.Node.Text = string(runes[:at]) + text + string(runes[at:])
	case after != nil:
		after.Node.Text = text + after.Node.Text
	default:
		appendToBlock(p, pos, Text(text))
	}
}

// InsertEmbed places an embed element at flat offset pos. A text node
// containing pos is split around it.
func InsertEmbed(c *Content, p Projection, pos int, embed *Node) error {
	if p.root != c.ensureRoot() {
		return ErrStaleProjection
	}
	pos = p.clamp(pos)

	for _, seg := range p.Segments {
		if seg.Synthetic() {
			continue
		}
		switch {
		case seg.Start < pos && pos < seg.End:
			runes := []rune(seg.Node.Text)
			at := pos - seg.Start
			tail := Text(string(runes[at:]))
			seg.Node.Text = string(runes[:at])
			insertAfter(seg.Parent, seg.Node, embed, tail)
			return nil
		case seg.End == pos && seg.Start < pos:
			insertAfter(seg.Parent, seg.Node, embed)
			return nil
		case seg.Start == pos:
			insertBefore(seg.Parent, seg.Node, embed)
			return nil
		}
	}

	appendToBlock(p, pos, embed)
	return nil
}

// appendToBlock adds n to the innermost block starting at pos, or to a new
// paragraph at the end of the document.
func appendToBlock(p Projection, pos int, n *Node) {
	var target *Node
	for _, b := range p.Blocks {
		if b.Offset == pos {
			target = b.Node
		}
	}
	if target == nil {
		p.root.Children = append(p.root.Children, Element("p", nil, n))
		return
	}

	// A lone <br> keeps an empty line open; it is no longer needed.
	if len(target.Children) == 1 && target.Children[0].Kind == ElementNode && target.Children[0].Tag == "br" {
		target.Children = []*Node{n}
		return
	}
	last := len(target.Children) - 1
	if last >= 0 && target.Children[last].Kind == ElementNode && target.Children[last].Tag == "br" {
		insertBefore(target, target.Children[last], n)
		return
	}
	target.Children = append(target.Children, n)
}

func insertAfter(parent, ref *Node, nodes ...*Node) {
	i := indexOf(parent, ref)
	if i < 0 {
		parent.Children = append(parent.Children, nodes...)
		return
	}
	parent.Children = append(parent.Children[:i+1], append(nodes, parent.Children[i+1:]...)...)
}

func insertBefore(parent, ref *Node, nodes ...*Node) {
	i := max(indexOf(parent, ref), 0)
	parent.Children = append(parent.Children[:i], append(nodes, parent.Children[i:]...)...)
}

func indexOf(parent, ref *Node) int {
	for i, c := range parent.Children {
		if c == ref {
			return i
		}
	}
	return -1
}
