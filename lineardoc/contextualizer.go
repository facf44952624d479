package lineardoc

import "github.com/gaurav-prasanna/cxserver/tag"

// context is a symbolic classification of the tag the parser currently
// has open, inherited by descendants until overridden by a more
// specific child-context rule.
type context int

const (
	ctxNeutral context = iota
	ctxRemovable
	ctxMedia
	ctxMediaInline
	ctxVerbatim
	ctxSection
	ctxContentBranch
)

// contentBranchNames are the block-scale elements that, encountered
// while inside a section (or at the top, before any section has been
// seen), switch the context to content-branch: the region in which
// text can actually be segmented into sentences.
var contentBranchNames = map[string]bool{
	"blockquote": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "p": true, "pre": true, "div": true,
	"table": true, "ol": true, "ul": true, "dl": true, "figure": true,
	"center": true, "section": true,
}

// removableChecker is the extension point a contextualizer implementation
// supplies to classify a tag as removable; the base Contextualizer
// never removes anything on its own.
type removableChecker interface {
	isRemovable(t *tag.Tag) bool
}

// Contextualizer maintains a context stack parallel to the parser's
// open-tag stack and exposes whether the parser's current position can
// be segmented into sentences.
type Contextualizer struct {
	stack []context
	impl  removableChecker
}

// newContextualizer builds a Contextualizer delegating removability
// decisions to impl.
func newContextualizer(impl removableChecker) *Contextualizer {
	return &Contextualizer{impl: impl}
}

// current returns the context on top of the stack, or ctxNeutral if empty.
func (c *Contextualizer) current() context {
	if len(c.stack) == 0 {
		return ctxNeutral
	}
	return c.stack[len(c.stack)-1]
}

// IsRemovable delegates to the configured implementation.
func (c *Contextualizer) IsRemovable(t *tag.Tag) bool {
	return c.impl.isRemovable(t)
}

// childContext computes the context a newly-opened tag introduces for
// its descendants, given the parent (current) context.
func (c *Contextualizer) childContext(t *tag.Tag) context {
	parent := c.current()

	if parent == ctxRemovable || c.impl.isRemovable(t) {
		return ctxRemovable
	}
	if parent == ctxVerbatim || tag.IsTransclusion(t) || isPlaceholder(t) {
		return ctxVerbatim
	}
	if t.Name == "figure" {
		return ctxMedia
	}
	if t.Name == "span" && isMediaLikeTypeof(t) {
		return ctxMediaInline
	}
	if parent == ctxNeutral && t.Name == "body" {
		return ctxSection
	}
	if (parent == ctxMedia || parent == ctxMediaInline) && t.Name == "figcaption" {
		return ctxContentBranch
	}
	if (parent == ctxSection || parent == ctxNeutral) && contentBranchNames[t.Name] {
		return ctxContentBranch
	}
	return parent
}

func isPlaceholder(t *tag.Tag) bool {
	v, _ := t.Attributes.Get("typeof")
	for _, w := range splitWS(v) {
		if w == "mw:Placeholder" {
			return true
		}
	}
	return false
}

func isMediaLikeTypeof(t *tag.Tag) bool {
	v, _ := t.Attributes.Get("typeof")
	if v == "" {
		v, _ = t.Attributes.Get("rel")
	}
	for _, w := range splitWS(v) {
		switch w {
		case "mw:File", "mw:Image", "mw:Video", "mw:Audio":
			return true
		}
	}
	return false
}

func splitWS(s string) []string {
	var out []string
	start := -1
	for i, r := range s {
		if r == ' ' || r == '\t' || r == '\n' {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

// OnOpen pushes the child context of a newly-opened tag.
func (c *Contextualizer) OnOpen(t *tag.Tag) {
	c.stack = append(c.stack, c.childContext(t))
}

// OnClose pops the context pushed by the matching open.
func (c *Contextualizer) OnClose() {
	if len(c.stack) > 0 {
		c.stack = c.stack[:len(c.stack)-1]
	}
}

// CanSegment reports whether the parser's current position lies inside
// a content-branch region, i.e. text here can be split into sentences.
// A neutral, section, media, media-inline, verbatim or removable context
// never segments.
func (c *Contextualizer) CanSegment() bool {
	return c.current() == ctxContentBranch
}
