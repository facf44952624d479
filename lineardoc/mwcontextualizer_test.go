package lineardoc

import (
	"testing"

	"github.com/gaurav-prasanna/cxserver/tag"
)

func TestContextualizerTracksContentBranch(t *testing.T) {
	c := newContextualizer(noopRemovable{})
	if c.current() != ctxNeutral {
		t.Fatalf("expected ctxNeutral at start, got %v", c.current())
	}

	body := tag.New("body")
	c.OnOpen(body)
	if c.current() != ctxSection {
		t.Fatalf("expected ctxSection after <body>, got %v", c.current())
	}

	p := tag.New("p")
	c.OnOpen(p)
	if !c.CanSegment() {
		t.Fatal("expected CanSegment true inside <p>")
	}

	i := tag.New("i")
	c.OnOpen(i)
	if !c.CanSegment() {
		t.Fatal("expected content-branch context to be inherited by <i>")
	}

	c.OnClose()
	c.OnClose()
	if c.current() != ctxSection {
		t.Fatalf("expected to pop back to ctxSection, got %v", c.current())
	}
}

func TestContextualizerFigureEntersMediaContext(t *testing.T) {
	c := newContextualizer(noopRemovable{})
	fig := tag.New("figure")
	c.OnOpen(fig)
	if c.current() != ctxMedia {
		t.Fatalf("expected ctxMedia for <figure>, got %v", c.current())
	}

	caption := tag.New("figcaption")
	c.OnOpen(caption)
	if !c.CanSegment() {
		t.Fatal("expected figcaption inside a figure to be a content branch")
	}
}

func TestContextualizerVerbatimPropagatesToDescendants(t *testing.T) {
	c := newContextualizer(noopRemovable{})
	transclusion := tag.New("div")
	transclusion.Attributes.Set("typeof", "mw:Transclusion")
	c.OnOpen(transclusion)
	if c.current() != ctxVerbatim {
		t.Fatalf("expected ctxVerbatim for a transclusion root, got %v", c.current())
	}

	p := tag.New("p")
	c.OnOpen(p)
	if c.current() != ctxVerbatim {
		t.Fatal("expected verbatim context to persist under a normally-content-branch tag")
	}
	if c.CanSegment() {
		t.Fatal("expected CanSegment false inside a verbatim region even under <p>")
	}
}

type stubRemovable struct{ names map[string]bool }

func (s stubRemovable) isRemovable(t *tag.Tag) bool { return s.names[t.Name] }

func TestContextualizerRemovablePropagates(t *testing.T) {
	c := newContextualizer(stubRemovable{names: map[string]bool{"div": true}})
	div := tag.New("div")
	c.OnOpen(div)
	if c.current() != ctxRemovable {
		t.Fatalf("expected ctxRemovable, got %v", c.current())
	}
	p := tag.New("p")
	c.OnOpen(p)
	if c.current() != ctxRemovable {
		t.Fatal("expected removable context to persist under a child tag")
	}
}

func TestMwContextualizerRemovableByClass(t *testing.T) {
	m, err := NewMwContextualizer(&RemovableSections{Classes: []string{"noprint"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tg := tag.New("div")
	tg.Attributes.Set("class", "noprint extra")
	if !m.isRemovable(tg) {
		t.Fatal("expected tag with a matching class to be removable")
	}

	other := tag.New("div")
	other.Attributes.Set("class", "something-else")
	if m.isRemovable(other) {
		t.Fatal("expected tag without a matching class to stay")
	}
}

func TestMwContextualizerRemovableByRDFa(t *testing.T) {
	m, err := NewMwContextualizer(&RemovableSections{RDFa: []string{"mw:PageProp/nocc"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tg := tag.New("span")
	tg.Attributes.Set("typeof", "mw:PageProp/nocc")
	if !m.isRemovable(tg) {
		t.Fatal("expected a lone matching RDFa typeof to be removable")
	}
}

func TestMwContextualizerRemovableByTemplateRegex(t *testing.T) {
	m, err := NewMwContextualizer(&RemovableSections{Templates: []string{"/^infobox/"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tg := tag.New("div")
	tg.Attributes.Set("typeof", "mw:Transclusion")
	tg.Attributes.Set("data-mw", `{"parts":[{"template":{"target":{"wt":"Infobox person"}}}]}`)
	if !m.isRemovable(tg) {
		t.Fatal("expected a transclusion of a matching template to be removable")
	}
}

func TestMwContextualizerInvalidTemplateRegexIsConfigError(t *testing.T) {
	_, err := NewMwContextualizer(&RemovableSections{Templates: []string{"/(unterminated/"}})
	if err == nil {
		t.Fatal("expected an error for an invalid template regex")
	}
}

func TestMwContextualizerMarksTransclusionFragments(t *testing.T) {
	m, err := NewMwContextualizer(&RemovableSections{Classes: []string{"noprint"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := tag.New("div")
	first.Attributes.Set("class", "noprint")
	first.Attributes.Set("about", "#mwt1")
	if !m.isRemovable(first) {
		t.Fatal("expected first fragment to be removable by class")
	}

	fragment := tag.New("span")
	fragment.Attributes.Set("about", "#mwt1")
	if !m.isRemovable(fragment) {
		t.Fatal("expected a later fragment sharing the same about id to be removable too")
	}
}
