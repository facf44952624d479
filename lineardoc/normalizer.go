package lineardoc

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/cxserver/lderr"
	"github.com/gaurav-prasanna/cxserver/tag"
)

// escText escapes the three characters that would otherwise change the
// meaning of text placed between tags. Attribute escaping is handled
// separately by tag.EscAttr.
var escText = strings.NewReplacer("&", "&#38;", "<", "&#60;", ">", "&#62;")

// Normalize walks input as a bare open/text/close stream and echoes it
// straight back out through tag.OpenHTML/tag.CloseHTML, with no block
// or inline reclassification, no context tracking and no sub-document
// nesting. It canonicalizes tag serialization (double-quoted, escaped
// attribute values; void elements without a closing slash) while
// keeping attribute order and text whitespace exactly as in the input,
// for structural diffing and as a parser/serializer round-trip
// check in tests — it never restructures the item stream the way the
// full translate-prep pipeline does.
func Normalize(input string) (string, error) {
	z := html.NewTokenizer(strings.NewReader(input))
	var out strings.Builder
	var stack []*tag.Tag

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", lderr.NewMalformedInput("normalizing html: %v", err)
			}
			return out.String(), nil

		case html.TextToken:
			out.WriteString(escText.Replace(string(z.Text())))

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			t := tag.New(string(name))
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				t.Attributes.Set(string(key), string(val))
			}
			if voidElements[t.Name] || tt == html.SelfClosingTagToken {
				t.SelfClosing = true
			}
			out.WriteString(tag.OpenHTML(t))
			if t.SelfClosing {
				continue
			}
			stack = append(stack, t)

		case html.EndTagToken:
			name, _ := z.TagName()
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top.Name != string(name) {
				return "", lderr.NewMalformedInput("normalizing html: unmatched tags: %s != %s", top.Name, string(name))
			}
			out.WriteString(tag.CloseHTML(top))
		}
	}
}
