package search

import (
	"testing"

	"github.com/colonyops/csword/internal/core/richtext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func project(html string) richtext.Projection {
	c := richtext.Parse(html)
	return richtext.Project(&c)
}

func TestFindNext_Wraps(t *testing.T) {
	p := project(`<p>cat dog cat</p>`)

	// The search starts past the current position, so the match at 0 is skipped.
	sel, ok := FindNext(p, "cat", 0)
	require.True(t, ok)
	assert.Equal(t, richtext.Selection{Start: 8, Length: 3}, sel)

	sel, ok = FindNext(p, "cat", sel.Start)
	require.True(t, ok)
	assert.Equal(t, richtext.Selection{Start: 0, Length: 3}, sel)

	sel, ok = FindNext(p, "cat", sel.Start)
	require.True(t, ok)
	assert.Equal(t, richtext.Selection{Start: 8, Length: 3}, sel)
}

func TestFindNext(t *testing.T) {
	tests := []struct {
		name  string
		html  string
		query string
		from  int
		want  richtext.Selection
		found bool
	}{
		{name: "case insensitive", html: `<p>Hello World</p>`, query: "WORLD", from: 0, want: richtext.Selection{Start: 6, Length: 5}, found: true},
		{name: "across formatting", html: `<p>he<b>ll</b>o</p>`, query: "hello", from: -1, want: richtext.Selection{Start: 0, Length: 5}, found: true},
		{name: "special characters are literal", html: `<p>a.b a*b (x)</p>`, query: "a*b", from: 0, want: richtext.Selection{Start: 4, Length: 3}, found: true},
		{name: "markup is not searched", html: `<p class="cat">dog</p>`, query: "cat", from: 0, found: false},
		{name: "empty query", html: `<p>abc</p>`, query: "", from: 0, found: false},
		{name: "absent", html: `<p>abc</p>`, query: "xyz", from: 0, found: false},
		{name: "single occurrence found by wrapping", html: `<p>abc</p>`, query: "abc", from: 0, want: richtext.Selection{Start: 0, Length: 3}, found: true},
		{name: "rune offsets", html: `<p>ünïcode text</p>`, query: "TEXT", from: 0, want: richtext.Selection{Start: 8, Length: 4}, found: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, ok := FindNext(project(tt.html), tt.query, tt.from)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, sel)
			}
		})
	}
}

func TestFindAll_NonOverlapping(t *testing.T) {
	p := project(`<p>aaaa</p>`)
	got := FindAll(p, "aa")
	assert.Equal(t, []richtext.Selection{{Start: 0, Length: 2}, {Start: 2, Length: 2}}, got)
}

func TestMatches(t *testing.T) {
	p := project(`<p>say Foo now</p>`)

	assert.True(t, Matches(p, "foo", richtext.Selection{Start: 4, Length: 3}))
	assert.True(t, Matches(p, "foo", richtext.Selection{Start: 3, Length: 5}), "surrounding whitespace is ignored")
	assert.False(t, Matches(p, "foo", richtext.Selection{Start: 4, Length: 2}))
	assert.False(t, Matches(p, "foo", richtext.Selection{Start: 4}))
	assert.False(t, Matches(p, "", richtext.Selection{Start: 4, Length: 3}))
}

func TestReplaceOne_ReplacesSelectedMatch(t *testing.T) {
	c := richtext.Parse(`<p>one <em>Foo</em> two</p>`)

	res := ReplaceOne(c, "foo", "bar", richtext.Selection{Start: 4, Length: 3})

	assert.True(t, res.Replaced)
	assert.True(t, res.Found)
	assert.Equal(t, richtext.Selection{Start: 7}, res.Selection)
	assert.Equal(t, `<p>one <em>bar</em> two</p>`, res.Content.HTML())
	assert.Equal(t, `<p>one <em>Foo</em> two</p>`, c.HTML(), "input must not change")
}

func TestReplaceOne_SelectsNextWhenNotOnMatch(t *testing.T) {
	c := richtext.Parse(`<p>foo and foo</p>`)

	res := ReplaceOne(c, "foo", "bar", richtext.Selection{Start: 0})

	assert.False(t, res.Replaced)
	assert.True(t, res.Found)
	assert.Equal(t, richtext.Selection{Start: 8, Length: 3}, res.Selection)
	assert.True(t, res.Content.Equal(c))

	// The next call acts on the match selected above.
	res = ReplaceOne(res.Content, "foo", "bar", res.Selection)
	assert.True(t, res.Replaced)
	assert.Equal(t, `<p>foo and bar</p>`, res.Content.HTML())
	assert.Equal(t, richtext.Selection{Start: 11}, res.Selection)
}

func TestReplaceOne_NotFound(t *testing.T) {
	c := richtext.Parse(`<p>abc</p>`)
	sel := richtext.Selection{Start: 1, Length: 1}

	res := ReplaceOne(c, "zzz", "y", sel)

	assert.False(t, res.Found)
	assert.False(t, res.Replaced)
	assert.Equal(t, sel, res.Selection)
}

func TestReplaceAll_PreservesFormatting(t *testing.T) {
	c := richtext.Parse(`<p>foo <strong>FOO</strong></p><h2><span style="font-size: 24px;">xfoox</span></h2>`)

	out, n := ReplaceAll(c, "foo", "bar")

	assert.Equal(t, 3, n)
	assert.Equal(t, `<p>bar <strong>bar</strong></p><h2><span style="font-size: 24px;">xbarx</span></h2>`, out.HTML())

	p := richtext.Project(&out)
	assert.Empty(t, FindAll(p, "foo"))
	assert.Len(t, FindAll(p, "bar"), 3)

	assert.Equal(t, `<p>foo <strong>FOO</strong></p><h2><span style="font-size: 24px;">xfoox</span></h2>`, c.HTML(), "input must not change")
}

func TestReplaceAll_DoesNotTouchMarkup(t *testing.T) {
	c := richtext.Parse(`<p><a href="https://foo.example">visit foo</a></p>`)

	out, n := ReplaceAll(c, "foo", "bar")

	assert.Equal(t, 1, n)
	assert.Equal(t, `<p><a href="https://foo.example">visit bar</a></p>`, out.HTML())
}

func TestReplaceAll_EscapesReplacement(t *testing.T) {
	c := richtext.Parse(`<p>x</p>`)

	out, n := ReplaceAll(c, "x", "<b>&</b>")

	assert.Equal(t, 1, n)
	assert.Equal(t, `<p>&lt;b&gt;&amp;&lt;/b&gt;</p>`, out.HTML())
}

func TestReplaceAll_NoMatch(t *testing.T) {
	c := richtext.Parse(`<p>abc</p>`)

	out, n := ReplaceAll(c, "zzz", "y")
	assert.Zero(t, n)
	assert.True(t, out.Equal(c))

	out, n = ReplaceAll(c, "", "y")
	assert.Zero(t, n)
	assert.True(t, out.Equal(c))
}

func TestReplaceAll_SkipsBlockBoundaries(t *testing.T) {
	c := richtext.Parse(`<p>ab</p><p>ab</p>`)

	out, n := ReplaceAll(c, "b\na", "X")

	assert.Zero(t, n)
	assert.Equal(t, `<p>ab</p><p>ab</p>`, out.HTML())
}

func TestReplaceAll_SpansFormats(t *testing.T) {
	c := richtext.Parse(`<p><em>fo</em><strong>o!</strong></p>`)

	out, n := ReplaceAll(c, "foo", "bar")

	assert.Equal(t, 1, n)
	assert.Equal(t, `<p><em>bar</em><strong>!</strong></p>`, out.HTML())
}
