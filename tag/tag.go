// Package tag implements the SAX tag record and the deterministic
// classification and rendering predicates the linear document pipeline
// uses to tell one kind of MediaWiki markup from another.
package tag

import (
	"strings"
)

// Attrs is an ordered string-to-string map. Insertion order is preserved
// so that HTML serialization is stable and byte-reproducible; later
// mutation (e.g. attaching data-linkid) is visible to every holder of
// the same *Tag, since Tag is always handled by pointer.
type Attrs struct {
	keys   []string
	values map[string]string
}

// NewAttrs builds an empty ordered attribute map.
func NewAttrs() *Attrs {
	return &Attrs{values: make(map[string]string)}
}

// Get returns the value for key and whether it was present.
func (a *Attrs) Get(key string) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a.values[key]
	return v, ok
}

// Set inserts or overwrites key, appending it to the insertion order the
// first time it is seen.
func (a *Attrs) Set(key, value string) {
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Delete removes key, if present.
func (a *Attrs) Delete(key string) {
	if _, ok := a.values[key]; !ok {
		return
	}
	delete(a.values, key)
	for i, k := range a.keys {
		if k == key {
			a.keys = append(a.keys[:i], a.keys[i+1:]...)
			break
		}
	}
}

// Has reports whether key is present.
func (a *Attrs) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// Keys returns attribute names in insertion order.
func (a *Attrs) Keys() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Clone returns a deep copy of the attribute map.
func (a *Attrs) Clone() *Attrs {
	if a == nil {
		return NewAttrs()
	}
	n := NewAttrs()
	for _, k := range a.keys {
		n.Set(k, a.values[k])
	}
	return n
}

// Tag is a single SAX open-tag record. Tags are always passed and stored
// by pointer: TextChunk.Tags snapshots are shallow copies of a slice of
// *Tag, so an attribute attached after the chunk was created (a
// data-segmentid, a data-linkid) is visible through every chunk sharing
// that tag.
type Tag struct {
	Name        string
	Attributes  *Attrs
	SelfClosing bool
}

// New creates a Tag with a fresh, empty attribute map.
func New(name string) *Tag {
	return &Tag{Name: name, Attributes: NewAttrs()}
}

// Clone performs a shallow structural copy: same name and self-closing
// flag, but a freshly cloned attribute map so further mutation does not
// bleed across instances. Used by Doc.WrapSections when assigning block
// IDs, since the wrapped document gets its own tag instances.
func (t *Tag) Clone() *Tag {
	if t == nil {
		return nil
	}
	return &Tag{Name: t.Name, Attributes: t.Attributes.Clone(), SelfClosing: t.SelfClosing}
}

func splitWS(s string) []string {
	return strings.Fields(s)
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func attr(t *Tag, name string) string {
	if t == nil || t.Attributes == nil {
		return ""
	}
	v, _ := t.Attributes.Get(name)
	return v
}

// IsReference reports whether tag marks a MediaWiki reference/footnote.
func IsReference(t *Tag) bool {
	for _, v := range splitWS(attr(t, "typeof")) {
		if v == "mw:Extension/ref" || v == "mw:Cite/Footnote" || v == "mw:Reference" {
			return true
		}
	}
	return false
}

// IsMath reports whether tag marks a MediaWiki math extension span, or
// is a literal <math> tag.
func IsMath(t *Tag) bool {
	if t != nil && t.Name == "math" {
		return true
	}
	for _, v := range splitWS(attr(t, "typeof")) {
		if v == "mw:Extension/math" {
			return true
		}
	}
	return false
}

// IsTransclusion reports whether tag is (the root of) a template expansion.
func IsTransclusion(t *Tag) bool {
	return contains(splitWS(attr(t, "typeof")), "mw:Transclusion")
}

// IsTransclusionFragment reports whether tag belongs to a transclusion:
// it carries an "about" attribute starting with "#mwt". The node
// carrying the data-mw payload qualifies as well as its sibling
// fragments.
func IsTransclusionFragment(t *Tag) bool {
	about := attr(t, "about")
	return strings.HasPrefix(about, "#mwt")
}

// IsExternalLink reports whether tag is a MediaWiki external link.
func IsExternalLink(t *Tag) bool {
	return t != nil && t.Name == "a" && contains(splitWS(attr(t, "rel")), "mw:ExtLink")
}

// IsSegment reports whether tag is an already-segmented translation unit.
func IsSegment(t *Tag) bool {
	return attr(t, "data-segmentid") != ""
}

// IsGallery reports whether tag is a MediaWiki image gallery.
func IsGallery(t *Tag) bool {
	return contains(splitWS(attr(t, "class")), "gallery")
}

// inlineEmptyTags is the closed set of HTML void elements this pipeline
// treats as inline content rather than block structure.
var inlineEmptyTags = map[string]bool{
	"br": true, "img": true, "hr": true, "meta": true, "link": true,
	"input": true, "wbr": true, "area": true, "base": true, "col": true,
	"embed": true, "param": true, "source": true, "track": true,
}

// IsInlineEmptyTag reports whether name is a void HTML element.
func IsInlineEmptyTag(name string) bool {
	return inlineEmptyTags[name]
}

// IsCategoryLink reports whether tag is a <link rel="mw:PageProp/Category">
// that is not itself part of a larger transclusion fragment.
func IsCategoryLink(t *Tag) bool {
	if t == nil || t.Name != "link" {
		return false
	}
	if !contains(splitWS(attr(t, "rel")), "mw:PageProp/Category") {
		return false
	}
	return attr(t, "about") == ""
}

// escReplacer escapes text content: &, <, > become numeric character
// references. Quotes are left alone since this is not an attribute value.
var escReplacer = strings.NewReplacer("&", "&#38;", "<", "&#60;", ">", "&#62;")

// Esc escapes text for inclusion in HTML outside of a tag.
func Esc(s string) string {
	return escReplacer.Replace(s)
}

// escAttrReplacer escapes attribute values: ", ', &, <, > become numeric
// character references.
var escAttrReplacer = strings.NewReplacer(
	"&", "&#38;", "\"", "&#34;", "'", "&#39;", "<", "&#60;", ">", "&#62;",
)

// EscAttr escapes an attribute value.
func EscAttr(s string) string {
	return escAttrReplacer.Replace(s)
}

// OpenHTML renders the opening tag: <name attr="value" ...>. Attribute
// values are escaped and quoted with double quotes; attributes are
// emitted in insertion order.
func OpenHTML(t *Tag) string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(t.Name)
	for _, k := range t.Attributes.Keys() {
		v, _ := t.Attributes.Get(k)
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(EscAttr(v))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}

// CloseHTML renders the closing tag, or the empty string if the tag is
// self-closing (it has no content and therefore no matching close).
func CloseHTML(t *Tag) string {
	if t == nil || t.SelfClosing {
		return ""
	}
	return "</" + t.Name + ">"
}
