package lineardoc

import (
	"io"

	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/cxserver/lderr"
	"github.com/gaurav-prasanna/cxserver/tag"
)

// blockTags is the closed set of tag names the parser treats as block
// structure rather than inline annotation. Everything not in this set
// (plus the context-sensitive exceptions in isInlineAnnotationTag) is
// inline.
var blockTags = map[string]bool{
	"html": true, "head": true, "body": true, "script": true,
	"title": true, "style": true, "meta": true, "link": true, "noscript": true, "base": true,
	"audio": true, "data": true, "datagrid": true, "datalist": true, "dialog": true,
	"eventsource": true, "form": true, "iframe": true, "main": true, "menu": true,
	"menuitem": true, "optgroup": true, "option": true,
	"div": true, "p": true,
	"table": true, "tbody": true, "thead": true, "tfoot": true, "caption": true,
	"th": true, "tr": true, "td": true,
	"ul": true, "ol": true, "li": true, "dl": true, "dt": true, "dd": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "hgroup": true,
	"article": true, "aside": true, "nav": true, "section": true, "footer": true,
	"header": true, "figure": true, "figcaption": true, "fieldset": true, "details": true,
	"blockquote": true,
	"hr": true, "button": true, "canvas": true, "center": true, "col": true,
	"colgroup": true, "embed": true, "map": true, "object": true, "pre": true,
	"progress": true, "video": true,
	"img": true, "br": true,
	"wiki-chart": true,
}

// voidElements cannot have content and are always treated as self-closing.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Options configures parser behavior that depends on the caller's
// translation-tooling setup rather than on the document itself.
type Options struct {
	// IsolateSegments wraps each cx-segment span in its own
	// "cx-segment-block" div during parsing, so that downstream tools
	// operating on block-level DOM see one container per segment.
	IsolateSegments bool
}

// Contextualization is the extension point Parser depends on: either
// *Contextualizer directly or any wrapper (e.g. *MwContextualizer)
// embedding it.
type Contextualization interface {
	IsRemovable(t *tag.Tag) bool
	OnOpen(t *tag.Tag)
	OnClose()
	CanSegment() bool
	current() context
}

// Parser streams an HTML document through a Contextualization and a
// Builder, producing a Doc. Converted from parser.py, using
// golang.org/x/net/html's tokenizer in place of lxml's tree builder —
// the pipeline only ever needs a SAX-style open/text/close callback
// sequence, so the streaming tokenizer is the natural fit.
type Parser struct {
	ctx Contextualization
	opt Options

	rootBuilder *Builder
	builder     *Builder
	allTags     []*tag.Tag
}

// NewParser returns a Parser driven by ctx, with the given options.
func NewParser(ctx Contextualization, opt Options) *Parser {
	return &Parser{ctx: ctx, opt: opt}
}

// Parse reads html from r and returns the resulting Doc.
func (p *Parser) Parse(r io.Reader) (*Doc, error) {
	p.rootBuilder = NewBuilder()
	p.builder = p.rootBuilder
	p.allTags = nil

	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, lderr.NewMalformedInput("parsing html: %v", err)
			}
			p.builder.FinishTextBlock()
			return p.rootBuilder.Doc, nil

		case html.TextToken:
			if err := p.onText(string(z.Text())); err != nil {
				return nil, err
			}

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
			if err := p.onOpenTag(t); err != nil {
				return nil, err
			}
			if t.SelfClosing {
				if err := p.onCloseTag(t.Name); err != nil {
					return nil, err
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if err := p.onCloseTag(string(name)); err != nil {
				return nil, err
			}

		case html.DoctypeToken, html.CommentToken:
			// not part of the document model
		}
	}
}

func (p *Parser) onOpenTag(t *tag.Tag) error {
	if p.ctx.current() == ctxRemovable || p.ctx.IsRemovable(t) {
		p.allTags = append(p.allTags, t)
		p.ctx.OnOpen(t)
		return nil
	}

	if p.opt.IsolateSegments && tag.IsSegment(t) {
		wrapper := tag.New("div")
		wrapper.Attributes.Set("class", "cx-segment-block")
		p.builder.PushBlockTag(wrapper)
	}

	switch {
	case tag.IsReference(t) || tag.IsMath(t):
		p.builder = p.builder.CreateChildBuilder(t)
	case tag.IsInlineEmptyTag(t.Name):
		p.builder.AddInlineTag(t, p.ctx.CanSegment())
	case p.isInlineAnnotationTag(t.Name, tag.IsTransclusion(t)):
		p.builder.PushInlineAnnotationTag(t)
	default:
		p.builder.PushBlockTag(t)
	}

	p.allTags = append(p.allTags, t)
	p.ctx.OnOpen(t)
	return nil
}

func (p *Parser) onCloseTag(tagName string) error {
	if len(p.allTags) == 0 {
		return nil
	}
	t := p.allTags[len(p.allTags)-1]
	p.allTags = p.allTags[:len(p.allTags)-1]
	if t.Name != tagName {
		return lderr.NewMalformedInput("mismatched tags: open=%s, close=%s", t.Name, tagName)
	}
	isAnn := p.isInlineAnnotationTag(tagName, tag.IsTransclusion(t))

	if p.ctx.IsRemovable(t) || p.ctx.current() == ctxRemovable {
		p.ctx.OnClose()
		return nil
	}

	p.ctx.OnClose()

	switch {
	case tag.IsInlineEmptyTag(tagName):
		return nil
	case isAnn && len(p.builder.inlineAnnotationTags) > 0:
		if err := p.builder.PopInlineAnnotationTag(tagName); err != nil {
			return err
		}
		if p.opt.IsolateSegments && tag.IsSegment(t) {
			if _, err := p.builder.PopBlockTag("div"); err != nil {
				return err
			}
		}
		return nil
	case isAnn && p.builder.parent != nil:
		if tagName != "span" && tagName != "sup" {
			return lderr.NewMalformedInput("expected close reference - span or sup tags, got %q", tagName)
		}
		p.builder.FinishTextBlock()
		p.builder.parent.AddInlineContent(p.builder.Doc, p.ctx.CanSegment())
		p.builder = p.builder.parent
		return nil
	case !isAnn:
		if tagName == "p" && p.ctx.CanSegment() {
			p.builder.AddTextChunk("", p.ctx.CanSegment())
		}
		_, err := p.builder.PopBlockTag(tagName)
		return err
	default:
		return lderr.NewMalformedInput("unexpected close tag: %s", tagName)
	}
}

func (p *Parser) onText(text string) error {
	if p.ctx.current() == ctxRemovable {
		return nil
	}
	p.builder.AddTextChunk(text, p.ctx.CanSegment())
	return nil
}

// isInlineAnnotationTag applies the context-sensitive exceptions to
// blockTags: a few tag names switch between block and inline behavior
// depending on the contextualizer's current context.
func (p *Parser) isInlineAnnotationTag(tagName string, isTransclusion bool) bool {
	ctx := p.ctx.current()

	if tagName == "span" && ctx == ctxMedia {
		return false
	}
	if (tagName == "audio" || tagName == "video") && ctx == ctxMediaInline {
		return true
	}
	if tagName == "style" && isTransclusion {
		return true
	}
	return !blockTags[tagName]
}
