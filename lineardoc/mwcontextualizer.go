package lineardoc

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/cxserver/lderr"
	"github.com/gaurav-prasanna/cxserver/tag"
)

// RemovableSections configures which MediaWiki markup the MW
// contextualizer treats as editorially irrelevant and therefore purges
// from the output.
type RemovableSections struct {
	Classes   []string `yaml:"classes"`
	RDFa      []string `yaml:"rdfa"`
	Templates []string `yaml:"templates"`
}

// templateMatcher is one compiled entry of RemovableSections.Templates:
// either a literal match or a compiled /regex/.
type templateMatcher struct {
	literal string
	re      *regexp.Regexp
}

func (m templateMatcher) match(name string) bool {
	if m.re != nil {
		return m.re.MatchString(name)
	}
	return strings.EqualFold(m.literal, name)
}

func compileTemplateMatchers(templates []string) ([]templateMatcher, error) {
	out := make([]templateMatcher, 0, len(templates))
	for _, t := range templates {
		if len(t) >= 2 && strings.HasPrefix(t, "/") && strings.HasSuffix(t, "/") {
			re, err := regexp.Compile("(?i)" + t[1:len(t)-1])
			if err != nil {
				return nil, lderr.NewConfigError("compiling removable template regex %q: %v", t, err)
			}
			out = append(out, templateMatcher{re: re})
			continue
		}
		out = append(out, templateMatcher{literal: t})
	}
	return out, nil
}

// dataMW is the subset of the data-mw JSON payload this pipeline needs:
// the target of the first template part of a transclusion.
type dataMW struct {
	Parts []struct {
		Template struct {
			Target struct {
				Href string `json:"href"`
				WT   string `json:"wt"`
			} `json:"target"`
		} `json:"template"`
	} `json:"parts"`
}

// MwContextualizer is the MediaWiki-aware Contextualizer: at
// construction it compiles the removable-section rules (classes, RDFa
// typeof values, template name matchers), then uses them to classify
// tags as removable during parsing.
type MwContextualizer struct {
	*Contextualizer

	classes   map[string]bool
	rdfa      map[string]bool
	templates []templateMatcher

	// removableFragments remembers the "about" id of every transclusion
	// this contextualizer has already removed, so later fragments of the
	// same multi-node transclusion are removed too even though they
	// don't themselves match a removable rule.
	removableFragments map[string]bool
}

// NewMwContextualizer compiles cfg and returns a ready contextualizer.
// A nil cfg disables all removal (every tag is kept).
func NewMwContextualizer(cfg *RemovableSections) (*MwContextualizer, error) {
	m := &MwContextualizer{
		classes:            map[string]bool{},
		rdfa:               map[string]bool{},
		removableFragments: map[string]bool{},
	}
	if cfg != nil {
		for _, c := range cfg.Classes {
			m.classes[c] = true
		}
		for _, r := range cfg.RDFa {
			m.rdfa[r] = true
		}
		matchers, err := compileTemplateMatchers(cfg.Templates)
		if err != nil {
			return nil, err
		}
		m.templates = matchers
	}
	m.Contextualizer = newContextualizer(m)
	return m, nil
}

func attrOf(t *tag.Tag, name string) string {
	v, _ := t.Attributes.Get(name)
	return v
}

// isRemovable implements removableChecker: true if tag matches a
// removable class, a lone removable RDFa typeof/rel value, or is a
// transclusion whose first template target matches a removable
// template matcher (by page title, i.e. "./Template:X" with the prefix
// stripped).
func (m *MwContextualizer) isRemovable(t *tag.Tag) bool {
	about := attrOf(t, "about")
	if about != "" && m.removableFragments[about] {
		return true
	}

	for _, c := range splitWS(attrOf(t, "class")) {
		if m.classes[c] {
			m.markFragment(about)
			return true
		}
	}

	rdfa := append(splitWS(attrOf(t, "typeof")), splitWS(attrOf(t, "rel"))...)
	if len(rdfa) == 1 && m.rdfa[rdfa[0]] {
		m.markFragment(about)
		return true
	}

	raw := attrOf(t, "data-mw")
	if raw == "" || len(m.templates) == 0 {
		return false
	}
	var mw dataMW
	if err := json.Unmarshal([]byte(raw), &mw); err != nil {
		return false
	}
	if len(mw.Parts) == 0 {
		return false
	}
	name := templateName(mw.Parts[0].Template.Target)
	if name == "" {
		return false
	}
	for _, matcher := range m.templates {
		if matcher.match(name) {
			m.markFragment(about)
			return true
		}
	}
	return false
}

func templateName(target struct {
	Href string `json:"href"`
	WT   string `json:"wt"`
}) string {
	if target.WT != "" {
		return target.WT
	}
	return strings.TrimPrefix(target.Href, "./Template:")
}

func (m *MwContextualizer) markFragment(about string) {
	if about != "" {
		m.removableFragments[about] = true
	}
}
