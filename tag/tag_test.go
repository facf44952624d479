package tag

import "testing"

func TestOpenHTMLEscapesAttributesInInsertionOrder(t *testing.T) {
	tg := New("a")
	tg.Attributes.Set("href", `/wiki/Foo?x="y"`)
	tg.Attributes.Set("class", "cx-link")

	got := OpenHTML(tg)
	want := `<a href="/wiki/Foo?x=&#34;y&#34;" class="cx-link">`
	if got != want {
		t.Fatalf("OpenHTML() = %q, want %q", got, want)
	}
}

func TestCloseHTMLSelfClosing(t *testing.T) {
	tg := New("img")
	tg.SelfClosing = true
	if got := CloseHTML(tg); got != "" {
		t.Fatalf("CloseHTML() = %q, want empty", got)
	}
}

func TestEsc(t *testing.T) {
	if got, want := Esc(`a & b < c > d`), "a &#38; b &#60; c &#62; d"; got != want {
		t.Fatalf("Esc() = %q, want %q", got, want)
	}
}

func TestIsReference(t *testing.T) {
	tg := New("sup")
	tg.Attributes.Set("typeof", "mw:Extension/ref")
	if !IsReference(tg) {
		t.Fatalf("expected reference")
	}

	tg2 := New("sup")
	tg2.Attributes.Set("typeof", "mw:Cite/Footnote")
	if !IsReference(tg2) {
		t.Fatalf("expected reference for mw:Cite/Footnote")
	}

	tg3 := New("span")
	if IsReference(tg3) {
		t.Fatalf("unexpected reference")
	}
}

func TestIsMath(t *testing.T) {
	tg := New("math")
	if !IsMath(tg) {
		t.Fatalf("expected math for <math> tag name")
	}
	tg2 := New("span")
	tg2.Attributes.Set("typeof", "mw:Extension/math")
	if !IsMath(tg2) {
		t.Fatalf("expected math for typeof mw:Extension/math")
	}
}

func TestIsTransclusionFragment(t *testing.T) {
	tg := New("span")
	tg.Attributes.Set("about", "#mwt1")
	if !IsTransclusionFragment(tg) {
		t.Fatalf("expected transclusion fragment")
	}
	tg2 := New("span")
	tg2.Attributes.Set("about", "other")
	if IsTransclusionFragment(tg2) {
		t.Fatalf("unexpected transclusion fragment")
	}
}

func TestAttrsInsertionOrderPreservedAfterSetOverwrite(t *testing.T) {
	a := NewAttrs()
	a.Set("b", "1")
	a.Set("a", "2")
	a.Set("b", "3")
	keys := a.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("Keys() = %v, want [b a]", keys)
	}
	v, _ := a.Get("b")
	if v != "3" {
		t.Fatalf("Get(b) = %q, want 3", v)
	}
}

func TestIsCategoryLink(t *testing.T) {
	tg := New("link")
	tg.Attributes.Set("rel", "mw:PageProp/Category")
	if !IsCategoryLink(tg) {
		t.Fatalf("expected category link")
	}
	tg.Attributes.Set("about", "#mwt1")
	if IsCategoryLink(tg) {
		t.Fatalf("category link with about should not qualify")
	}
}
