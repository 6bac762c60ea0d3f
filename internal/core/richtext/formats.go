package richtext

import "slices"

// Fonts lists the font families offered by the editor.
var Fonts = []string{"Inter", "Arial", "Georgia", "Times New Roman", "Garamond", "Verdana", "Courier New", "Monaco"}

// Sizes lists the inline font sizes offered by the editor.
var Sizes = []string{"12px", "14px", "16px", "18px", "20px", "24px", "28px", "32px", "36px", "48px", "60px", "72px"}

// Formats lists the formats the editor can produce.
var Formats = []string{
	"font", "size", "bold", "italic", "underline", "strike", "script",
	"color", "background", "header", "align", "list", "blockquote", "code-block", "link", "image",
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "dd": true, "div": true,
	"dl": true, "dt": true, "figcaption": true, "figure": true, "footer": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "nav": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "tbody": true, "td": true, "tfoot": true, "th": true, "thead": true,
	"tr": true, "ul": true,
}

// containerTags hold blocks rather than text; whitespace between their
// children is layout, not content.
var containerTags = map[string]bool{
	"ol": true, "ul": true, "dl": true, "table": true, "tbody": true, "thead": true,
	"tfoot": true, "tr": true, "blockquote": true, "div": true, "section": true,
	"article": true, "figure": true, "main": true, "nav": true, "aside": true,
	"header": true, "footer": true,
}

var inlineFormatTags = map[string]bool{
	"a": true, "b": true, "code": true, "del": true, "em": true, "font": true, "i": true,
	"mark": true, "s": true, "small": true, "span": true, "strike": true, "strong": true,
	"sub": true, "sup": true, "u": true,
}

// embedTags contribute no text but are content in their own right.
var embedTags = map[string]bool{
	"img": true, "video": true, "iframe": true, "audio": true, "embed": true, "object": true,
}

// BlockTags returns the block element names in sorted order.
func BlockTags() []string {
	tags := make([]string, 0, len(blockTags))
	for tag := range blockTags {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// IsBlock reports whether tag starts a new line in the flat text.
func IsBlock(tag string) bool { return blockTags[tag] }

// IsEmbed reports whether tag is an embedded non-text element.
func IsEmbed(tag string) bool { return embedTags[tag] }

func isInlineFormat(tag string) bool { return inlineFormatTags[tag] }
