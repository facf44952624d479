// Package pipeline wires the lineardoc stages into the single request
// flow the rest of the service drives: parse, wrap sections, segment,
// serialize.
package pipeline

import (
	"context"
	"strings"

	"github.com/gaurav-prasanna/cxserver/lderr"
	"github.com/gaurav-prasanna/cxserver/lineardoc"
	"github.com/gaurav-prasanna/cxserver/segment"
)

// Orchestrator runs the translate-prep pipeline for one request: build a
// contextualizer from the configured removable-section rules, parse the
// input, wrap top-level sections, segment translatable text, and
// serialize back to HTML.
type Orchestrator struct {
	RemovableSections *lineardoc.RemovableSections
	Options           lineardoc.Options
	Boundaries        segment.BoundaryFunc
}

// New returns an Orchestrator with the given removable-section rules,
// parser options and sentence-boundary function.
func New(removable *lineardoc.RemovableSections, opt lineardoc.Options, boundaries segment.BoundaryFunc) *Orchestrator {
	return &Orchestrator{RemovableSections: removable, Options: opt, Boundaries: boundaries}
}

// Run executes the pipeline over html and returns the prepared output
// HTML. ctx is honored between stages so a caller cancellation is
// observed promptly even though the core itself never blocks.
func (o *Orchestrator) Run(ctx context.Context, html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", lderr.NewMalformedInput("empty input")
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	contextualizer, err := lineardoc.NewMwContextualizer(o.RemovableSections)
	if err != nil {
		return "", err
	}

	p := lineardoc.NewParser(contextualizer, o.Options)
	doc, err := p.Parse(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	wrapped := doc.WrapSections()

	segmented, err := wrapped.Segment(o.Boundaries)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	return segmented.GetHTML(), nil
}
