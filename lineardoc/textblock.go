package lineardoc

import (
	"sort"
	"strings"
	"unicode"

	"github.com/gaurav-prasanna/cxserver/lderr"
	"github.com/gaurav-prasanna/cxserver/tag"
)

// Offset records where a TextChunk's text falls in the block's
// plaintext, alongside the tag stack that applied to it.
type Offset struct {
	Start  int
	Length int
	Tags   []*tag.Tag
}

// TextBlock is an ordered sequence of text chunks representing one
// paragraph-scale run of inline content.
//
// Invariant: Offsets[i].Start + Offsets[i].Length == Offsets[i+1].Start
// for all valid i, and the concatenation of every chunk's Text equals
// GetPlainText(). CanSegment is false iff some contributing context was
// not segmentable (a reference body, a verbatim region, etc.).
type TextBlock struct {
	Chunks     []*TextChunk
	CanSegment bool
	Offsets    []Offset
}

// NewTextBlock builds a TextBlock from chunks, deriving Offsets.
func NewTextBlock(chunks []*TextChunk, canSegment bool) *TextBlock {
	b := &TextBlock{Chunks: chunks, CanSegment: canSegment}
	b.recomputeOffsets()
	return b
}

func (b *TextBlock) recomputeOffsets() {
	b.Offsets = make([]Offset, len(b.Chunks))
	cursor := 0
	for i, c := range b.Chunks {
		b.Offsets[i] = Offset{Start: cursor, Length: len(c.Text), Tags: c.Tags}
		cursor += len(c.Text)
	}
}

// CommonTags returns the longest common prefix of every chunk's tag
// stack, compared by pointer identity (the same *tag.Tag instance), not
// by value — two structurally-identical-but-distinct tags do not count
// as common. An empty block has no common tags.
func (b *TextBlock) CommonTags() []*tag.Tag {
	if len(b.Chunks) == 0 {
		return nil
	}
	common := b.Chunks[0].Tags
	for _, c := range b.Chunks[1:] {
		common = commonPrefix(common, c.Tags)
	}
	return common
}

func commonPrefix(a, b []*tag.Tag) []*tag.Tag {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// GetTagOffsets returns the offsets of chunks whose tag stack is
// strictly deeper than CommonTags() and whose text is non-empty — the
// regions the segmenter should treat as already distinctly annotated.
func (b *TextBlock) GetTagOffsets() []Offset {
	common := b.CommonTags()
	var out []Offset
	for i, off := range b.Offsets {
		if len(b.Chunks[i].Tags) > len(common) && len(b.Chunks[i].Text) > 0 {
			out = append(out, off)
		}
	}
	return out
}

// GetPlainText concatenates every chunk's text.
func (b *TextBlock) GetPlainText() string {
	var sb strings.Builder
	for _, c := range b.Chunks {
		sb.WriteString(c.Text)
	}
	return sb.String()
}

// chunkAt returns the index of the (last) chunk covering charOffset.
func (b *TextBlock) chunkAt(charOffset int) int {
	i := 0
	for i < len(b.Chunks)-1 {
		if b.Offsets[i+1].Start > charOffset {
			break
		}
		i++
	}
	return i
}

// GetHTML emits a minimal-reopen stack of inline tags: for each chunk,
// it finds the longest common prefix with the previous chunk's tag
// stack (by identity), closes the suffix of the previous stack in
// reverse order, opens the suffix of the new stack in order, then emits
// the escaped text followed by any inline content.
func (b *TextBlock) GetHTML() string {
	var html strings.Builder
	var openTags []*tag.Tag

	for _, c := range b.Chunks {
		matchTop := -1
		minLen := len(openTags)
		if len(c.Tags) < minLen {
			minLen = len(c.Tags)
		}
		for j := 0; j < minLen; j++ {
			if openTags[j] == c.Tags[j] {
				matchTop = j
			} else {
				break
			}
		}

		for j := len(openTags) - 1; j > matchTop; j-- {
			html.WriteString(tag.CloseHTML(openTags[j]))
		}
		for j := matchTop + 1; j < len(c.Tags); j++ {
			html.WriteString(tag.OpenHTML(c.Tags[j]))
		}
		openTags = c.Tags

		html.WriteString(tag.Esc(c.Text))
		if c.Inline != nil {
			switch c.Inline.Kind {
			case InlineDoc:
				html.WriteString(c.Inline.Doc.GetHTML())
			case InlineTag:
				html.WriteString(tag.OpenHTML(c.Inline.Tag))
				html.WriteString(tag.CloseHTML(c.Inline.Tag))
			}
		}
	}

	for j := len(openTags) - 1; j >= 0; j-- {
		html.WriteString(tag.CloseHTML(openTags[j]))
	}
	return html.String()
}

func hasNonSpace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return true
		}
	}
	return false
}

// GetRootItem returns the first tag (or an inline sub-document's root
// item) that applies to non-whitespace content in this block, or nil if
// the block is plain untagged text. Used to decide whether a block is a
// bare transclusion (skip segmentation) and, by section wrapping, which
// tag a block should be identified with.
func (b *TextBlock) GetRootItem() *tag.Tag {
	for _, c := range b.Chunks {
		if len(c.Tags) == 0 && c.Text != "" && hasNonSpace(c.Text) {
			return nil
		}
		if len(c.Tags) > 0 {
			return c.Tags[0]
		}
		if c.Inline != nil {
			if c.Inline.Kind == InlineDoc {
				return c.Inline.Doc.GetRootItem()
			}
			return c.Inline.Tag
		}
	}
	return nil
}

// isTranslatableLink reports whether t is an anchor eligible for a
// data-linkid: it carries a non-empty href and is not itself a
// fragment of a larger (opaque) transclusion.
func isTranslatableLink(t *tag.Tag) bool {
	if t == nil || t.Name != "a" {
		return false
	}
	href, ok := t.Attributes.Get("href")
	if !ok || href == "" {
		return false
	}
	return !tag.IsTransclusionFragment(t)
}

// setLinkIDsInPlace walks every chunk's tag stack and attaches
// data-linkid to any translatable link tag that doesn't already carry one.
func setLinkIDsInPlace(chunks []*TextChunk, nextID func(string) string) {
	for _, c := range chunks {
		for _, t := range c.Tags {
			if !isTranslatableLink(t) {
				continue
			}
			if t.Attributes.Has("data-linkid") {
				continue
			}
			t.Attributes.Set("class", "cx-link")
			t.Attributes.Set("data-linkid", nextID("link"))
		}
	}
}

// addCommonTag inserts tag above the chunks' common tag prefix and
// below everything else, returning new chunks (the originals are left
// untouched). This is how Segment wraps an accumulated run of chunks in
// a cx-segment span without disturbing tags that were already common
// to the whole run.
func addCommonTag(chunks []*TextChunk, span *tag.Tag) []*TextChunk {
	if len(chunks) == 0 {
		return nil
	}
	common := chunks[0].Tags
	for _, c := range chunks[1:] {
		common = commonPrefix(common, c.Tags)
	}
	n := len(common)

	out := make([]*TextChunk, len(chunks))
	for i, c := range chunks {
		newTags := make([]*tag.Tag, 0, len(c.Tags)+1)
		newTags = append(newTags, c.Tags[:n]...)
		newTags = append(newTags, span)
		newTags = append(newTags, c.Tags[n:]...)
		out[i] = c.withTags(newTags)
	}
	return out
}

// chunkBoundaryGroup pairs a chunk with the boundaries that fall
// strictly inside it, per getChunkBoundaryGroups.
type chunkBoundaryGroup struct {
	chunk      *TextChunk
	boundaries []int
}

// getChunkBoundaryGroups assigns each boundary offset to the chunk it
// falls inside. A boundary lying exactly between two chunks belongs to
// the later chunk; boundaries at the very start of the first chunk (0)
// are dropped, since they would begin a segment before any text exists.
func getChunkBoundaryGroups(boundaries []int, chunks []*TextChunk) []chunkBoundaryGroup {
	sorted := append([]int(nil), boundaries...)
	sort.Ints(sorted)

	bi := 0
	for bi < len(sorted) && sorted[bi] == 0 {
		bi++
	}

	groups := make([]chunkBoundaryGroup, len(chunks))
	offset := 0
	for i, c := range chunks {
		chunkLen := len(c.Text)
		var group []int
		for bi < len(sorted) {
			boundary := sorted[bi]
			if boundary > offset+chunkLen-1 {
				break
			}
			group = append(group, boundary)
			bi++
		}
		groups[i] = chunkBoundaryGroup{chunk: c, boundaries: group}
		offset += chunkLen
	}
	return groups
}

// Segment splits the block into sentences using boundaryFn (plaintext
// -> ordered split offsets) and wraps each resulting sentence in a
// cx-segment span, allocating ids via nextID. If the block's root item
// is a transclusion, segmentation is a no-op (the block is returned
// unchanged, since transclusion content is opaque).
func (b *TextBlock) Segment(boundaryFn func(string) ([]int, error), nextID func(string) string) (*TextBlock, error) {
	if root := b.GetRootItem(); root != nil && tag.IsTransclusion(root) {
		return b, nil
	}

	boundaries, err := boundaryFn(b.GetPlainText())
	if err != nil {
		return nil, err
	}

	var all []*TextChunk
	var current []*TextChunk

	flush := func() {
		if len(current) == 0 {
			return
		}
		span := tag.New("span")
		span.Attributes.Set("class", "cx-segment")
		span.Attributes.Set("data-segmentid", nextID("segment"))
		modified := addCommonTag(current, span)
		setLinkIDsInPlace(modified, nextID)
		all = append(all, modified...)
		current = nil
	}

	offset := 0
	for _, group := range getChunkBoundaryGroups(boundaries, b.Chunks) {
		c := group.chunk
		for _, boundary := range group.boundaries {
			relOffset := boundary - offset
			if relOffset == 0 {
				flush()
				continue
			}
			left := &TextChunk{Text: c.Text[:relOffset], Tags: cloneTagSnapshot(c.Tags)}
			right := &TextChunk{Text: c.Text[relOffset:], Tags: cloneTagSnapshot(c.Tags), Inline: c.Inline}
			current = append(current, left)
			offset += relOffset
			flush()
			c = right
		}
		// Even a zero-width chunk (e.g. a reference) is preserved at its
		// position within the accumulating segment.
		current = append(current, c)
		offset += len(c.Text)
	}
	flush()

	return NewTextBlock(all, true), nil
}

// RangeMapping describes how one contiguous span of source plaintext
// maps to one contiguous span of translated plaintext.
type RangeMapping struct {
	SourceStart, SourceLength int
	TargetStart, TargetLength int
}

type positionedChunk struct {
	start, length int
	chunk         *TextChunk
}

// TranslateTags projects this block's inline annotations onto a
// translated plaintext, given a sequence of source->target range
// mappings. Empty-text source chunks (inline anchors, references)
// falling inside a mapped source range are cloned into the target
// range's end; gaps in the target are filled with plain text under
// CommonTags(); overlapping target ranges are an error.
func (b *TextBlock) TranslateTags(targetText string, mappings []RangeMapping) (*TextBlock, error) {
	emptyByOffset := map[int][]*TextChunk{}
	var emptyOffsets []int
	for i, c := range b.Chunks {
		if len(c.Text) > 0 {
			continue
		}
		off := b.Offsets[i].Start
		if _, ok := emptyByOffset[off]; !ok {
			emptyOffsets = append(emptyOffsets, off)
		}
		emptyByOffset[off] = append(emptyByOffset[off], c)
	}
	sort.Ints(emptyOffsets)

	pushEmpty := func(offset int, chunks []*TextChunk, out *[]positionedChunk) {
		for _, c := range chunks {
			*out = append(*out, positionedChunk{start: offset, length: 0, chunk: c})
		}
	}

	var positioned []positionedChunk

	for _, m := range mappings {
		sourceEnd := m.SourceStart + m.SourceLength
		targetEnd := m.TargetStart + m.TargetLength
		srcChunk := b.Chunks[b.chunkAt(m.SourceStart)]
		text := safeSlice(targetText, m.TargetStart, targetEnd)
		positioned = append(positioned, positionedChunk{
			start:  m.TargetStart,
			length: m.TargetLength,
			chunk:  &TextChunk{Text: text, Tags: srcChunk.Tags, Inline: srcChunk.Inline},
		})

		remaining := emptyOffsets[:0]
		for _, off := range emptyOffsets {
			if off < m.SourceStart || off > sourceEnd {
				remaining = append(remaining, off)
				continue
			}
			pushEmpty(targetEnd, emptyByOffset[off], &positioned)
			delete(emptyByOffset, off)
		}
		emptyOffsets = remaining
	}

	sort.Slice(positioned, func(i, j int) bool { return positioned[i].start < positioned[j].start })

	common := b.CommonTags()
	var filled []positionedChunk
	pos := 0
	for _, pc := range positioned {
		if pc.start < pos {
			return nil, lderr.NewMalformedInput("overlapping target ranges at pos=%d, chunk start=%d", pos, pc.start)
		}
		if pc.start > pos {
			filled = append(filled, positionedChunk{
				start:  pos,
				length: pc.start - pos,
				chunk:  &TextChunk{Text: safeSlice(targetText, pos, pc.start), Tags: common},
			})
		}
		filled = append(filled, pc)
		pos = pc.start + pc.length
	}

	tail := safeSlice(targetText, pos, len(targetText))
	tailSpace := trailingSpace(tail)
	if tailSpace != "" {
		tail = tail[:len(tail)-len(tailSpace)]
	}
	if tail != "" {
		filled = append(filled, positionedChunk{start: pos, length: len(tail), chunk: &TextChunk{Text: tail, Tags: common}})
		pos += len(tail)
	}

	for _, off := range emptyOffsets {
		pushEmpty(pos, emptyByOffset[off], &filled)
	}

	if tailSpace != "" {
		// Advance pos by tailSpace's own length, not targetText's
		// remaining length, so a trailing space never gets counted twice.
		filled = append(filled, positionedChunk{start: pos, length: len(tailSpace), chunk: &TextChunk{Text: tailSpace, Tags: common}})
		pos += len(tailSpace)
	}

	out := make([]*TextChunk, len(filled))
	for i, pc := range filled {
		out[i] = pc.chunk
	}
	return NewTextBlock(out, b.CanSegment), nil
}

func safeSlice(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if start >= end {
		return ""
	}
	return s[start:end]
}

func trailingSpace(s string) string {
	i := len(s)
	for i > 0 && unicode.IsSpace(rune(s[i-1])) {
		i--
	}
	return s[i:]
}
