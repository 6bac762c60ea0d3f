package fileio

import (
	"regexp"
	"strings"

	"github.com/colonyops/csword/internal/core/richtext"
	"github.com/microcosm-cc/bluemonday"
)

var policy = newPolicy()

// newPolicy allows the elements, attributes and inline styles the editor can
// produce itself, with fonts and sizes limited to the offered choices.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(richtext.BlockTags()...)
	p.AllowElements(
		"br", "strong", "b", "em", "i", "u", "s", "strike", "del", "sub", "sup", "span",
		"code", "mark", "small",
	)
	p.AllowTables()
	p.AllowAttrs("data-list").Matching(listPattern).OnElements("li")

	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AllowAttrs("rel").OnElements("a")
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(false)

	p.AllowAttrs("src", "alt", "width", "height").OnElements("img")
	p.AllowDataURIImages()

	p.AllowAttrs("class").Matching(regexp.MustCompile(`^(ql-[a-z0-9-]+\s*)+$`)).Globally()
	p.AllowAttrs("spellcheck").Matching(regexp.MustCompile(`^false$`)).OnElements("pre")

	p.AllowStyles("font-family").Matching(fontPattern()).OnElements("span")
	p.AllowStyles("font-size").MatchingEnum(richtext.Sizes...).OnElements("span")
	p.AllowStyles("color", "background-color").Matching(colorPattern).Globally()
	p.AllowStyles("text-align").MatchingEnum("left", "center", "right", "justify").Globally()

	return p
}

var (
	listPattern  = regexp.MustCompile(`^(bullet|ordered|checked|unchecked)$`)
	colorPattern = regexp.MustCompile(`(?i)^(#[0-9a-f]{3,8}|rgba?\(\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*\d{1,3}\s*(,\s*[0-9.]+\s*)?\)|[a-z]+)$`)
)

func fontPattern() *regexp.Regexp {
	quoted := make([]string, len(richtext.Fonts))
	for i, f := range richtext.Fonts {
		quoted[i] = regexp.QuoteMeta(f)
	}
	return regexp.MustCompile(`(?i)^["']?(` + strings.Join(quoted, "|") + `)["']?$`)
}

// Sanitize strips markup the editor cannot represent from foreign HTML.
// Text content is kept. Input the policy would only reformat, such as the
// editor's own pages, is returned unchanged.
func Sanitize(content string) string {
	clean := policy.Sanitize(content)
	if clean == content {
		return content
	}

	orig := richtext.Parse(content)
	out := richtext.Parse(clean)
	canonicalStyles(&orig)
	canonicalStyles(&out)
	if orig.Equal(out) {
		return content
	}
	return clean
}

// canonicalStyles rewrites every style attribute as "prop: value" pairs
// joined by "; " so declarations that differ only in spacing compare equal.
func canonicalStyles(c *richtext.Content) {
	var walk func(n *richtext.Node)
	walk = func(n *richtext.Node) {
		for i, a := range n.Attrs {
			if a.Key == "style" {
				n.Attrs[i].Val = canonicalStyle(a.Val)
			}
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	for _, n := range c.Nodes() {
		walk(n)
	}
}

func canonicalStyle(style string) string {
	var decls []string
	for _, decl := range strings.Split(style, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.TrimSpace(val)
		if prop == "" || val == "" {
			continue
		}
		decls = append(decls, prop+": "+val)
	}
	return strings.Join(decls, "; ")
}
