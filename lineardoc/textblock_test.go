package lineardoc

import (
	"testing"

	"github.com/gaurav-prasanna/cxserver/lderr"
	"github.com/gaurav-prasanna/cxserver/tag"
)

func seqIDs(prefix string) func(string) string {
	n := 0
	return func(string) string {
		id := prefix + itoa(n)
		n++
		return id
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := ""
	for n > 0 {
		digits = string(rune('0'+n%10)) + digits
		n /= 10
	}
	return digits
}

func TestCommonTagsUsesPointerIdentity(t *testing.T) {
	i1 := tag.New("i")
	i2 := tag.New("i") // structurally identical, distinct pointer
	b := NewTextBlock([]*TextChunk{
		NewTextChunk("a", []*tag.Tag{i1}),
		NewTextChunk("b", []*tag.Tag{i2}),
	}, true)

	common := b.CommonTags()
	if len(common) != 0 {
		t.Fatalf("expected no common tags between structurally-equal-but-distinct tags, got %v", common)
	}
}

func TestCommonTagsSharedPointer(t *testing.T) {
	shared := tag.New("b")
	b := NewTextBlock([]*TextChunk{
		NewTextChunk("a", []*tag.Tag{shared}),
		NewTextChunk("b", []*tag.Tag{shared}),
	}, true)

	common := b.CommonTags()
	if len(common) != 1 || common[0] != shared {
		t.Fatalf("expected [shared], got %v", common)
	}
}

func TestGetPlainTextConcatenatesChunks(t *testing.T) {
	b := NewTextBlock([]*TextChunk{
		NewTextChunk("Hello ", nil),
		NewTextChunk("world.", nil),
	}, true)
	if got := b.GetPlainText(); got != "Hello world." {
		t.Fatalf("got %q", got)
	}
}

func TestGetHTMLMinimalReopen(t *testing.T) {
	i := tag.New("i")
	b2 := tag.New("b")
	b := NewTextBlock([]*TextChunk{
		NewTextChunk("plain ", nil),
		NewTextChunk("italic ", []*tag.Tag{i}),
		NewTextChunk("italic-bold", []*tag.Tag{i, b2}),
	}, true)

	got := b.GetHTML()
	want := "plain <i>italic <b>italic-bold</b></i>"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGetHTMLEscapesText(t *testing.T) {
	b := NewTextBlock([]*TextChunk{NewTextChunk("a & b < c", nil)}, true)
	got := b.GetHTML()
	want := "a &#38; b &#60; c"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSegmentSplitsOnBoundaries(t *testing.T) {
	b := NewTextBlock([]*TextChunk{NewTextChunk("One. Two.", nil)}, true)
	boundaryFn := func(text string) ([]int, error) { return []int{4}, nil }

	out, err := b.Segment(boundaryFn, seqIDs("id"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.GetPlainText(); got != "One. Two." {
		t.Fatalf("plaintext not preserved: got %q", got)
	}

	html := out.GetHTML()
	if got := countOccurrences(html, "cx-segment"); got != 2 {
		t.Fatalf("expected 2 cx-segment spans, got %d in %s", got, html)
	}
}

func TestSegmentSkipsTransclusionRoot(t *testing.T) {
	transclusion := tag.New("div")
	transclusion.Attributes.Set("typeof", "mw:Transclusion")
	b := NewTextBlock([]*TextChunk{NewTextChunk("opaque content.", []*tag.Tag{transclusion})}, true)

	calls := 0
	boundaryFn := func(text string) ([]int, error) { calls++; return nil, nil }

	out, err := b.Segment(boundaryFn, seqIDs("id"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected boundaryFn not to be called for transclusion content")
	}
	if out != b {
		t.Fatal("expected the same block back unchanged")
	}
}

func TestSegmentZeroBoundaryFlushesImmediately(t *testing.T) {
	b := NewTextBlock([]*TextChunk{NewTextChunk("Hello.", nil)}, true)
	boundaryFn := func(text string) ([]int, error) { return []int{0}, nil }

	out, err := b.Segment(boundaryFn, seqIDs("id"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.GetPlainText(); got != "Hello." {
		t.Fatalf("got %q", got)
	}
}

func TestTranslateTagsPreservesTags(t *testing.T) {
	link := tag.New("a")
	link.Attributes.Set("href", "/wiki/Foo")
	b := NewTextBlock([]*TextChunk{
		NewTextChunk("see ", nil),
		NewTextChunk("Foo", []*tag.Tag{link}),
		NewTextChunk(" here", nil),
	}, true)

	mappings := []RangeMapping{
		{SourceStart: 0, SourceLength: 4, TargetStart: 0, TargetLength: 4},  // "see "
		{SourceStart: 4, SourceLength: 3, TargetStart: 4, TargetLength: 3},  // "Foo"
		{SourceStart: 7, SourceLength: 5, TargetStart: 7, TargetLength: 5}, // " here"
	}

	out, err := b.TranslateTags("see Foo here", mappings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.GetPlainText(); got != "see Foo here" {
		t.Fatalf("got %q", got)
	}

	found := false
	for _, c := range out.Chunks {
		for _, tg := range c.Tags {
			if tg == link {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("expected the link tag to be projected onto the target block")
	}
}

func TestTranslateTagsRejectsOverlap(t *testing.T) {
	b := NewTextBlock([]*TextChunk{NewTextChunk("abcdef", nil)}, true)
	mappings := []RangeMapping{
		{SourceStart: 0, SourceLength: 3, TargetStart: 0, TargetLength: 4},
		{SourceStart: 3, SourceLength: 3, TargetStart: 2, TargetLength: 4},
	}
	_, err := b.TranslateTags("abcdefgh", mappings)
	if err == nil {
		t.Fatal("expected an overlap error")
	}
	if _, ok := err.(*lderr.MalformedInput); !ok {
		t.Fatalf("expected *lderr.MalformedInput, got %T", err)
	}
}

func countOccurrences(haystack, needle string) int {
	count := 0
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			count++
			i += len(needle) - 1
		}
	}
	return count
}
