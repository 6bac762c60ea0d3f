// Package search implements find and replace over formatted content.
//
// Matching is literal and case-insensitive, rune by rune, so match offsets
// are offsets into the flat text of richtext.Project.
package search

import (
	"strings"
	"unicode"

	"github.com/colonyops/csword/internal/core/richtext"
)

// State holds the find/replace inputs of the UI. It is never persisted.
type State struct {
	Query       string
	Replacement string
}

// Result describes the outcome of ReplaceOne.
type Result struct {
	// Replaced is true when the selected match was substituted.
	Replaced bool
	// Found is true when a match is selected or was replaced.
	Found bool
	// Selection is the new selection: a caret after the inserted text, or the
	// next match.
	Selection richtext.Selection
	// Content is the resulting content. It is the input content unless
	// Replaced is true.
	Content richtext.Content
}

// FindNext searches for query after the selection start at from, wrapping to
// the beginning of the document. It returns false for an empty query or when
// the query does not occur anywhere.
func FindNext(p richtext.Projection, query string, from int) (richtext.Selection, bool) {
	if query == "" {
		return richtext.Selection{}, false
	}

	text := fold(p.Text)
	q := fold(query)

	i := index(text, q, from+1)
	if i < 0 {
		i = index(text, q, 0)
	}
	if i < 0 {
		return richtext.Selection{}, false
	}
	return richtext.Selection{Start: i, Length: len(q)}, true
}

// FindAll returns every non-overlapping match, left to right.
func FindAll(p richtext.Projection, query string) []richtext.Selection {
	if query == "" {
		return nil
	}

	text := fold(p.Text)
	q := fold(query)

	var out []richtext.Selection
	for i := index(text, q, 0); i >= 0; i = index(text, q, i+len(q)) {
		out = append(out, richtext.Selection{Start: i, Length: len(q)})
	}
	return out
}

// Matches reports whether the selected text equals query, ignoring case and
// surrounding whitespace.
func Matches(p richtext.Projection, query string, sel richtext.Selection) bool {
	if query == "" || sel.IsCaret() {
		return false
	}
	selected := strings.TrimSpace(p.TextAt(sel))
	return equalRunes(fold(selected), fold(query))
}

// ReplaceOne replaces the current selection when it covers a match of query.
// Otherwise it selects the next match without changing anything, so a
// replacement only ever acts on a span the user has already seen selected.
// A selection that crosses a block boundary is never replaced.
func ReplaceOne(c richtext.Content, query, replacement string, current richtext.Selection) Result {
	p := richtext.Project(&c)
	current = p.Clamp(current)

	if Matches(p, query, current) && !p.CrossesBlock(current.Start, current.End()) {
		out := c.Clone()
		op := richtext.Project(&out)
		if err := richtext.Replace(&out, op, current.Start, current.End(), replacement); err == nil {
			out.Normalize()
			return Result{
				Replaced:  true,
				Found:     true,
				Selection: richtext.Selection{Start: current.Start + len([]rune(replacement))},
				Content:   out,
			}
		}
	}

	sel, ok := FindNext(p, query, current.Start)
	if !ok {
		return Result{Selection: current, Content: c}
	}
	return Result{Found: true, Selection: sel, Content: c}
}

// ReplaceAll substitutes every occurrence of query in the text of c. The
// input is never modified: the result is a new tree holding all replacements,
// or c itself when nothing was replaced. Matches that cross a block boundary
// are skipped.
func ReplaceAll(c richtext.Content, query, replacement string) (richtext.Content, int) {
	if query == "" {
		return c, 0
	}

	out := c.Clone()
	p := richtext.Project(&out)
	matches := FindAll(p, query)

	n := 0
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		if err := richtext.Replace(&out, p, m.Start, m.End(), replacement); err != nil {
			continue
		}
		n++
	}

	if n == 0 {
		return c, 0
	}
	out.Normalize()
	return out, n
}

func fold(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// index returns the first offset >= from at which q occurs in text, or -1.
func index(text, q []rune, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i+len(q) <= len(text); i++ {
		if equalRunes(text[i:i+len(q)], q) {
			return i
		}
	}
	return -1
}
