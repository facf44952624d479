package lineardoc

import (
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/cxserver/tag"
)

// ItemKind identifies what an Item in a Doc's flat item stream represents.
type ItemKind int

const (
	ItemOpen ItemKind = iota
	ItemClose
	ItemTextBlock
	ItemBlockspace
)

// Item is one entry of a Doc's flat, ordered item stream.
type Item struct {
	Kind       ItemKind
	Tag        *tag.Tag   // set for ItemOpen / ItemClose
	Block      *TextBlock // set for ItemTextBlock
	Blockspace string     // set for ItemBlockspace
}

// Doc is the linear document: an ordered sequence of typed items plus
// an optional wrapper tag (used for sub-documents owned by a reference
// or math chunk) and the category-link tags collected out of the
// inline stream during building.
type Doc struct {
	WrapperTag *tag.Tag
	Items      []Item
	Categories []*tag.Tag
}

// NewDoc builds an empty Doc, optionally wrapped by wrapperTag (pass
// nil for a top-level document).
func NewDoc(wrapperTag *tag.Tag) *Doc {
	return &Doc{WrapperTag: wrapperTag}
}

// AddItem appends item and returns the Doc, for fluent building.
func (d *Doc) AddItem(it Item) *Doc {
	d.Items = append(d.Items, it)
	return d
}

// GetPlainText concatenates every text block's plaintext with a
// trailing newline, and every blockspace's literal text.
func (d *Doc) GetPlainText() string {
	var sb strings.Builder
	for _, it := range d.Items {
		switch it.Kind {
		case ItemTextBlock:
			sb.WriteString(it.Block.GetPlainText())
			sb.WriteByte('\n')
		case ItemBlockspace:
			sb.WriteString(it.Blockspace)
		}
	}
	return sb.String()
}

// GetRootItem returns the wrapper tag if this Doc is a sub-document, or
// else the first open tag in the item stream (nil if there is none).
func (d *Doc) GetRootItem() *tag.Tag {
	if d.WrapperTag != nil {
		return d.WrapperTag
	}
	for _, it := range d.Items {
		if it.Kind == ItemOpen {
			return it.Tag
		}
	}
	return nil
}

// GetHTML walks the item stream, rendering open/close tags, text blocks
// and blockspace runs in order, and appends the collected category
// links after the outermost close.
func (d *Doc) GetHTML() string {
	var html strings.Builder
	if d.WrapperTag != nil {
		html.WriteString(tag.OpenHTML(d.WrapperTag))
	}
	for _, it := range d.Items {
		switch it.Kind {
		case ItemOpen:
			html.WriteString(tag.OpenHTML(it.Tag))
			if it.Tag.SelfClosing {
				html.WriteString(tag.CloseHTML(it.Tag))
			}
		case ItemClose:
			html.WriteString(tag.CloseHTML(it.Tag))
		case ItemTextBlock:
			html.WriteString(it.Block.GetHTML())
		case ItemBlockspace:
			html.WriteString(it.Blockspace)
		}
	}
	if d.WrapperTag != nil {
		html.WriteString(tag.CloseHTML(d.WrapperTag))
	}
	for _, c := range d.Categories {
		html.WriteString(tag.OpenHTML(c))
		html.WriteString(tag.CloseHTML(c))
	}
	return html.String()
}

// idAllocator hands out request-local, monotonically increasing ids
// (plain integers, stringified), used both for the block ids
// WrapSections assigns and for the segment/link ids Segment assigns.
type idAllocator struct {
	next          int
	nextSectionID int
}

func (a *idAllocator) blockID() string {
	id := strconv.Itoa(a.next)
	a.next++
	return id
}

func (a *idAllocator) segmentOrLinkID() string {
	id := strconv.Itoa(a.next)
	a.next++
	return id
}

// Segment returns a new Doc with every segmentable text block replaced
// by the result of TextBlock.Segment, and every non-segmentable block
// left as-is but still link-tagged. IDs are drawn from one
// monotonically increasing counter, starting at 0, shared across
// segment-id assignment and link-id assignment within a single Segment
// call (mirroring the original's single get_next_id closure). Block ids
// are not assigned here; WrapSections assigns them from its own counter.
func (d *Doc) Segment(boundaryFn func(string) ([]int, error)) (*Doc, error) {
	alloc := &idAllocator{}
	next := func(kind string) string { return alloc.segmentOrLinkID() }

	out := NewDoc(nil)
	for _, it := range d.Items {
		switch it.Kind {
		case ItemTextBlock:
			block := it.Block
			var segmented *TextBlock
			var err error
			if block.CanSegment {
				segmented, err = block.Segment(boundaryFn, next)
			} else {
				setLinkIDsInPlace(block.Chunks, next)
				segmented = block
			}
			if err != nil {
				return nil, err
			}
			out.AddItem(Item{Kind: ItemTextBlock, Block: segmented})
		default:
			out.AddItem(it)
		}
	}
	out.Categories = d.Categories
	return out, nil
}

// WrapSections gives every open tag that lacks an id a sequential id
// (starting at 0; an existing id is kept) and replaces each top-level
// <section data-mw-section-id="N"> pair with <section rel="cx:Section"
// id="cxSourceSectionK" data-mw-section-number="K">, K counting fresh
// from 0. Nested section markers keep their data-mw-section-id and are
// treated like any other open tag; sub-documents inside text blocks are
// not walked. Collected categories are appended after the last
// top-level close.
func (d *Doc) WrapSections() *Doc {
	out := NewDoc(d.WrapperTag.Clone())
	alloc := &idAllocator{}
	sectionNumber := 0
	depth := 0

	for _, it := range d.Items {
		switch it.Kind {
		case ItemOpen:
			t := it.Tag.Clone()
			if depth == 0 && t.Name == "section" && t.Attributes.Has("data-mw-section-id") {
				t.Attributes.Delete("data-mw-section-id")
				t.Attributes.Set("rel", "cx:Section")
				t.Attributes.Set("id", "cxSourceSection"+strconv.Itoa(sectionNumber))
				t.Attributes.Set("data-mw-section-number", strconv.Itoa(sectionNumber))
				sectionNumber++
			} else if !t.Attributes.Has("id") {
				t.Attributes.Set("id", alloc.blockID())
			}
			depth++
			out.AddItem(Item{Kind: ItemOpen, Tag: t})
		case ItemClose:
			depth--
			out.AddItem(Item{Kind: ItemClose, Tag: it.Tag})
		default:
			out.AddItem(it)
		}
	}
	out.Categories = d.Categories
	return out
}
