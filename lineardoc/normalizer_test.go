package lineardoc

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// parseWithGoquery is an independent check harness: it re-parses both the
// original and the normalized HTML with goquery's tree-based parser and
// compares element counts and link hrefs, so a normalizer bug that only
// breaks the SAX round-trip's own serializer would still be caught by a
// different parsing library.
func parseWithGoquery(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("goquery parse failed: %v", err)
	}
	return doc
}

func TestNormalizePreservesElementCounts(t *testing.T) {
	in := `<p>hello <a href="/wiki/Foo">Foo</a> and <i>world</i></p>`

	out, err := Normalize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	origDoc := parseWithGoquery(t, in)
	normDoc := parseWithGoquery(t, out)

	for _, sel := range []string{"a", "i", "p"} {
		wantCount := origDoc.Find(sel).Length()
		gotCount := normDoc.Find(sel).Length()
		if gotCount != wantCount {
			t.Fatalf("normalize changed count of %q: got %d, want %d (normalized=%s)", sel, gotCount, wantCount, out)
		}
	}
}

func TestNormalizePreservesLinkHref(t *testing.T) {
	in := `<p>see <a href="/wiki/Bar">Bar</a></p>`
	out, err := Normalize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	normDoc := parseWithGoquery(t, out)
	href, ok := normDoc.Find("a").Attr("href")
	if !ok || href != "/wiki/Bar" {
		t.Fatalf("expected href /wiki/Bar to survive normalization, got %q (ok=%v)", href, ok)
	}
}

func TestNormalizePreservesPlainText(t *testing.T) {
	in := `<div>  <p>Some <b>bold</b> text.</p>  </div>`
	out, err := Normalize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	origDoc := parseWithGoquery(t, in)
	normDoc := parseWithGoquery(t, out)

	if got, want := normDoc.Find("body").Text(), origDoc.Find("body").Text(); strings.TrimSpace(got) != strings.TrimSpace(want) {
		t.Fatalf("normalize changed plain text: got %q, want %q", got, want)
	}
}

func TestNormalizeRejectsMismatchedTags(t *testing.T) {
	_, err := Normalize(`<p><b>oops</p></b>`)
	if err == nil {
		t.Fatal("expected an error for mismatched tags")
	}
}

func TestNormalizeEchoesVoidRefAndMediaTagsByteForByte(t *testing.T) {
	in := `<figure typeof="mw:Image"><img src="a.png" alt="x"/><figcaption>caption</figcaption></figure>` +
		`<sup typeof="mw:Extension/ref" about="#cite_note-1"><span>ref text</span></sup><br/>`
	want := `<figure typeof="mw:Image"><img src="a.png" alt="x"><figcaption>caption</figcaption></figure>` +
		`<sup typeof="mw:Extension/ref" about="#cite_note-1"><span>ref text</span></sup><br>`

	out, err := Normalize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != want {
		t.Fatalf("normalize did not echo byte-for-byte:\n got:  %s\n want: %s", out, want)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	in := `<p>hello <a href="/wiki/Foo">Foo</a> and <i>world</i></p><br/>`

	once, err := Normalize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	twice, err := Normalize(once)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if once != twice {
		t.Fatalf("normalize is not idempotent:\n once:  %s\n twice: %s", once, twice)
	}
}
