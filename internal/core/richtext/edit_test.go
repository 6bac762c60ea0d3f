package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplace(t *testing.T) {
	tests := []struct {
		name       string
		html       string
		start, end int
		text       string
		want       string
	}{
		{
			name:  "within one text node",
			html:  `<p>cat dog cat</p>`,
			start: 4, end: 7, text: "emu",
			want: `<p>cat emu cat</p>`,
		},
		{
			name:  "keeps formatting of the first replaced character",
			html:  `<p>a<strong>foo</strong>b</p>`,
			start: 1, end: 4, text: "bar",
			want: `<p>a<strong>bar</strong>b</p>`,
		},
		{
			name:  "spanning two formats",
			html:  `<p><em>hel</em><strong>lo!</strong></p>`,
			start: 0, end: 5, text: "bye",
			want: `<p><em>bye</em><strong>!</strong></p>`,
		},
		{
			name:  "insertion inherits preceding format",
			html:  `<p><strong>ab</strong>cd</p>`,
			start: 2, end: 2, text: "X",
			want: `<p><strong>abX</strong>cd</p>`,
		},
		{
			name:  "insertion at document start",
			html:  `<p><em>ab</em></p>`,
			start: 0, end: 0, text: "X",
			want: `<p><em>Xab</em></p>`,
		},
		{
			name:  "insertion into empty line",
			html:  `<p>a</p><p><br/></p>`,
			start: 2, end: 2, text: "new",
			want: `<p>a</p><p>new</p>`,
		},
		{
			name:  "insertion into empty document",
			html:  ``,
			start: 0, end: 0, text: "hi",
			want: `<p>hi</p>`,
		},
		{
			name:  "deletion keeps embeds",
			html:  `<p>ab<img src="x.png"/>cd</p>`,
			start: 1, end: 3, text: "",
			want: `<p>a<img src="x.png"/>d</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Parse(tt.html)
			p := Project(&c)

			require.NoError(t, Replace(&c, p, tt.start, tt.end, tt.text))
			c.Normalize()

			assert.Equal(t, tt.want, c.HTML())
		})
	}
}

func TestReplace_RejectsBlockBoundary(t *testing.T) {
	c := Parse(`<p>ab</p><p>cd</p>`)
	p := Project(&c)

	err := Replace(&c, p, 1, 4, "x")

	assert.ErrorIs(t, err, ErrCrossesBlock)
	assert.Equal(t, `<p>ab</p><p>cd</p>`, c.HTML())
}

func TestReplace_StaleProjection(t *testing.T) {
	c := Parse(`<p>ab</p>`)
	other := c.Clone()
	p := Project(&other)

	assert.ErrorIs(t, Replace(&c, p, 0, 1, "x"), ErrStaleProjection)
}

func TestReplace_RightToLeftAgainstOneProjection(t *testing.T) {
	c := Parse(`<p>foo <b>foo</b> foo</p>`)
	p := Project(&c)

	// offsets of "foo": 0, 4, 8
	for _, start := range []int{8, 4, 0} {
		require.NoError(t, Replace(&c, p, start, start+3, "bar"))
	}
	c.Normalize()

	assert.Equal(t, `<p>bar <b>bar</b> bar</p>`, c.HTML())
}

func TestInsertEmbed(t *testing.T) {
	img := func() *Node { return Element("img", []Attr{{Key: "src", Val: "x.png"}}) }

	tests := []struct {
		name string
		html string
		pos  int
		want string
	}{
		{name: "splits text", html: `<p>abcd</p>`, pos: 2, want: `<p>ab<img src="x.png"/>cd</p>`},
		{name: "after text", html: `<p>ab</p>`, pos: 2, want: `<p>ab<img src="x.png"/></p>`},
		{name: "before text", html: `<p>ab</p>`, pos: 0, want: `<p><img src="x.png"/>ab</p>`},
		{name: "empty line", html: `<p><br/></p>`, pos: 0, want: `<p><img src="x.png"/></p>`},
		{name: "empty document", html: ``, pos: 0, want: `<p><img src="x.png"/></p>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Parse(tt.html)
			p := Project(&c)

			require.NoError(t, InsertEmbed(&c, p, tt.pos, img()))
			c.Normalize()

			assert.Equal(t, tt.want, c.HTML())
		})
	}
}
