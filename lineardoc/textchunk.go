// Package lineardoc implements the linear-document pipeline: a flat,
// ordered item stream produced by streaming a tree of tags through
// Parser and Builder, on which segmentation and section wrapping are
// then performed.
//
// Converted and generalized from the LinearDoc module of the Wikimedia
// Content Translation service (cxserver/lib/lineardoc).
package lineardoc

import "github.com/gaurav-prasanna/cxserver/tag"

// InlineKind distinguishes the two things an inline-content slot in a
// TextChunk can hold.
type InlineKind int

const (
	// InlineNone means the chunk carries no inline content.
	InlineNone InlineKind = iota
	// InlineTag means the chunk wraps a single empty inline element (br, img, ...).
	InlineTag
	// InlineDoc means the chunk wraps a sub-document (a reference or math body).
	InlineDoc
)

// InlineContent is a tagged union of an empty inline tag or a sub-document.
type InlineContent struct {
	Kind InlineKind
	Tag  *tag.Tag
	Doc  *Doc
}

// TextChunk is a run of text sharing an identical ordered stack of
// inline annotation tags, optionally carrying a single inline
// sub-document or empty element.
//
// Tags is a shallow-copied snapshot of the annotation stack at the
// moment the chunk was created: it holds the same *tag.Tag pointers the
// live stack held, so later mutation of an attribute (attaching
// data-linkid, data-segmentid) on one of those tags is visible in every
// chunk that references it. Text is empty for zero-width chunks, which
// usually carry Inline content; the parser also adds an empty plain
// chunk when a segmentable <p> closes.
type TextChunk struct {
	Text   string
	Tags   []*tag.Tag
	Inline *InlineContent
}

// NewTextChunk builds a plain text chunk with no inline content.
func NewTextChunk(text string, tags []*tag.Tag) *TextChunk {
	return &TextChunk{Text: text, Tags: tags}
}

// NewInlineTagChunk builds a zero-width chunk wrapping an empty element.
func NewInlineTagChunk(tags []*tag.Tag, t *tag.Tag) *TextChunk {
	return &TextChunk{Tags: tags, Inline: &InlineContent{Kind: InlineTag, Tag: t}}
}

// NewInlineDocChunk builds a zero-width chunk wrapping a sub-document.
func NewInlineDocChunk(tags []*tag.Tag, d *Doc) *TextChunk {
	return &TextChunk{Tags: tags, Inline: &InlineContent{Kind: InlineDoc, Doc: d}}
}

// cloneTagSnapshot returns a shallow copy of tags: same *tag.Tag
// pointers, fresh backing slice, so appending to one does not affect
// the other.
func cloneTagSnapshot(tags []*tag.Tag) []*tag.Tag {
	out := make([]*tag.Tag, len(tags))
	copy(out, tags)
	return out
}

// withTags returns a new TextChunk with the same text/inline content but
// a different tag stack.
func (c *TextChunk) withTags(tags []*tag.Tag) *TextChunk {
	return &TextChunk{Text: c.Text, Tags: tags, Inline: c.Inline}
}
