package lineardoc

import (
	"strings"

	"github.com/gaurav-prasanna/cxserver/lderr"
	"github.com/gaurav-prasanna/cxserver/tag"
)

// Builder accumulates parser callbacks into a Doc: it tracks the open
// block-tag stack and the open inline-annotation stack separately, and
// buffers text chunks until a block boundary closes them into a
// TextBlock (or, if every chunk so far is pure whitespace, a
// blockspace run).
//
// Converted from builder.py.
type Builder struct {
	Doc *Doc

	blockTags                []*tag.Tag
	inlineAnnotationTags     []*tag.Tag
	inlineAnnotationTagsUsed int
	textChunks               []*TextChunk
	isBlockSegmentable       bool
	parent                   *Builder
}

// NewBuilder returns a top-level Builder.
func NewBuilder() *Builder {
	return &Builder{Doc: NewDoc(nil), isBlockSegmentable: true}
}

// CreateChildBuilder returns a Builder for a sub-document wrapped by
// wrapperTag (used for reference and math bodies), remembering b as its
// parent.
func (b *Builder) CreateChildBuilder(wrapperTag *tag.Tag) *Builder {
	return &Builder{Doc: NewDoc(wrapperTag), isBlockSegmentable: true, parent: b}
}

// isIgnoredTag reports whether a block tag should be kept off the open
// item stream entirely. Section markers are NOT ignored here: they pass
// through as ordinary open/close items, left unmodified, for
// Doc.WrapSections to find and rewrite in a later pass. Only bare
// category links are captured out of band (into Doc.Categories).
func isIgnoredTag(t *tag.Tag) bool {
	return tag.IsCategoryLink(t)
}

// PushBlockTag opens a block-scope tag: it first closes any pending
// text block, then records the tag and, unless the tag is a bare category
// link (captured into Doc.Categories instead), emits the open item. A
// <figure> is tagged rel="cx:Figure" on the way in, per the original
// pipeline's figure handling.
func (b *Builder) PushBlockTag(t *tag.Tag) {
	b.FinishTextBlock()
	b.blockTags = append(b.blockTags, t)
	if isIgnoredTag(t) {
		b.Doc.Categories = append(b.Doc.Categories, t)
		return
	}
	if t.Name == "figure" {
		t.Attributes.Set("rel", "cx:Figure")
	}
	b.Doc.AddItem(Item{Kind: ItemOpen, Tag: t})
}

// PopBlockTag closes the innermost open block tag, which must be named
// tagName, finishes the pending text block, and (unless ignored) emits
// the close item. Returns the popped tag.
func (b *Builder) PopBlockTag(tagName string) (*tag.Tag, error) {
	if len(b.blockTags) == 0 {
		return nil, lderr.NewMalformedInput("mismatched block tags: open=<none>, close=%s", tagName)
	}
	t := b.blockTags[len(b.blockTags)-1]
	b.blockTags = b.blockTags[:len(b.blockTags)-1]
	if t.Name != tagName {
		return nil, lderr.NewMalformedInput("mismatched block tags: open=%s, close=%s", t.Name, tagName)
	}

	b.FinishTextBlock()

	if !isIgnoredTag(t) {
		b.Doc.AddItem(Item{Kind: ItemClose, Tag: t})
	}
	return t, nil
}

// PushInlineAnnotationTag opens an inline-scope tag (a, i, b, ...)
// that decorates whatever text chunks follow until it closes.
func (b *Builder) PushInlineAnnotationTag(t *tag.Tag) {
	b.inlineAnnotationTags = append(b.inlineAnnotationTags, t)
}

// PopInlineAnnotationTag closes the innermost open inline-annotation
// tag, which must be named tagName. If the tag carries no attributes it
// is dropped outright (nothing to preserve). Otherwise, if every text
// chunk produced since the tag opened is pure whitespace, the whole run
// is replaced in place by a zero-width sub-document chunk wrapping the
// (now-empty) tag — this is how the pipeline preserves an empty
// reference, external link, or transclusion marker that would
// otherwise vanish as "just whitespace."
func (b *Builder) PopInlineAnnotationTag(tagName string) error {
	if len(b.inlineAnnotationTags) == 0 {
		return lderr.NewMalformedInput("mismatched inline tags: open=<none>, close=%s", tagName)
	}
	t := b.inlineAnnotationTags[len(b.inlineAnnotationTags)-1]
	b.inlineAnnotationTags = b.inlineAnnotationTags[:len(b.inlineAnnotationTags)-1]

	if b.inlineAnnotationTagsUsed == len(b.inlineAnnotationTags) {
		b.inlineAnnotationTagsUsed--
	}

	if t.Name != tagName {
		return lderr.NewMalformedInput("mismatched inline tags: open=%s, close=%s", t.Name, tagName)
	}

	if len(t.Attributes.Keys()) == 0 {
		return nil
	}

	replace := true
	var whitespace []string
	i := len(b.textChunks) - 1
	for ; i >= 0; i-- {
		c := b.textChunks[i]
		var chunkTag *tag.Tag
		if len(c.Tags) > 0 {
			chunkTag = c.Tags[len(c.Tags)-1]
		}
		if chunkTag == nil {
			break
		}
		if strings.TrimSpace(c.Text) != "" || c.Inline != nil || chunkTag != t {
			replace = false
			break
		}
		whitespace = append(whitespace, c.Text)
	}

	if replace && (tag.IsReference(t) || tag.IsExternalLink(t) || tag.IsTransclusion(t)) {
		b.textChunks = b.textChunks[:i+1]
		for l, r := 0, len(whitespace)-1; l < r; l, r = l+1, r-1 {
			whitespace[l], whitespace[r] = whitespace[r], whitespace[l]
		}
		sub := NewDoc(nil)
		sub.AddItem(Item{Kind: ItemOpen, Tag: t})
		sub.AddItem(Item{Kind: ItemTextBlock, Block: NewTextBlock([]*TextChunk{NewTextChunk(strings.Join(whitespace, ""), nil)}, true)})
		sub.AddItem(Item{Kind: ItemClose, Tag: t})
		b.AddInlineContent(sub, true)
	}
	return nil
}

// AddTextChunk appends a text chunk carrying the currently open inline
// annotation stack, and records whether the block as a whole remains
// segmentable.
func (b *Builder) AddTextChunk(text string, canSegment bool) {
	b.textChunks = append(b.textChunks, NewTextChunk(text, cloneTagSnapshot(b.inlineAnnotationTags)))
	b.inlineAnnotationTagsUsed = len(b.inlineAnnotationTags)
	if !canSegment {
		b.isBlockSegmentable = false
	}
}

// AddInlineContent appends content (a sub-Doc, or an empty SAX tag
// wrapped as one) as a zero-width chunk. A bare category link is routed
// to Doc.Categories instead and does not become a chunk.
func (b *Builder) AddInlineContent(content *Doc, canSegment bool) {
	if root := content.GetRootItem(); root != nil && tag.IsCategoryLink(root) {
		b.Doc.Categories = append(b.Doc.Categories, root)
		return
	}

	b.textChunks = append(b.textChunks, NewInlineDocChunk(cloneTagSnapshot(b.inlineAnnotationTags), content))
	b.inlineAnnotationTagsUsed = len(b.inlineAnnotationTags)
	if !canSegment {
		b.isBlockSegmentable = false
	}
}

// AddInlineTag appends a single empty inline element (br, img, ...) as
// a zero-width chunk. A bare category link is routed to Doc.Categories
// instead and does not become a chunk.
func (b *Builder) AddInlineTag(t *tag.Tag, canSegment bool) {
	if tag.IsCategoryLink(t) {
		b.Doc.Categories = append(b.Doc.Categories, t)
		return
	}
	b.textChunks = append(b.textChunks, NewInlineTagChunk(cloneTagSnapshot(b.inlineAnnotationTags), t))
	b.inlineAnnotationTagsUsed = len(b.inlineAnnotationTags)
	if !canSegment {
		b.isBlockSegmentable = false
	}
}

// FinishTextBlock flushes the buffered text chunks into the document:
// as a blockspace run if every chunk is pure whitespace with no inline
// content, otherwise as a segmentable (or not) TextBlock.
func (b *Builder) FinishTextBlock() {
	if len(b.textChunks) == 0 {
		return
	}

	whitespaceOnly := true
	var whitespace []string
	for _, c := range b.textChunks {
		if c.Inline != nil || strings.TrimSpace(c.Text) != "" {
			whitespaceOnly = false
			break
		}
		whitespace = append(whitespace, c.Text)
	}

	if whitespaceOnly {
		b.Doc.AddItem(Item{Kind: ItemBlockspace, Blockspace: strings.Join(whitespace, "")})
	} else {
		b.Doc.AddItem(Item{Kind: ItemTextBlock, Block: NewTextBlock(b.textChunks, b.isBlockSegmentable)})
	}

	b.textChunks = nil
	b.isBlockSegmentable = true
}
