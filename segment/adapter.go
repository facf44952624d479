// Package segment adapts a real per-language sentence tokenizer into
// the boundary-offset contract the lineardoc pipeline needs: given
// plaintext, return the strictly increasing, deduplicated list of byte
// offsets at which a new sentence begins.
package segment

import (
	"sort"
	"strings"

	"github.com/neurosnap/sentences"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/gaurav-prasanna/cxserver/lderr"
)

// BoundaryFunc is the function signature lineardoc.TextBlock.Segment
// and lineardoc.Doc.Segment consume: plaintext in, ordered boundary
// offsets out.
type BoundaryFunc func(text string) ([]int, error)

// Adapter wraps a trained sentence tokenizer for one language. A nil
// *Adapter (no model could be loaded for the requested language) turns
// every Boundaries call into a no-op: the whole text is treated as a
// single sentence, matching the fb2cng splitter's graceful degradation.
type Adapter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewAdapter loads the trained model for lang, trying the full tag first
// (by English display name, the convention the bundled training data
// uses) and falling back to the base language subtag. log receives a
// warning, not an error, when no model is found — segmentation then
// degrades to "whole text is one sentence" rather than failing the
// request.
func NewAdapter(lang language.Tag, log *zap.Logger, loadTrainingData func(name string) ([]byte, error)) *Adapter {
	name := strings.ToLower(display.English.Languages().Name(lang))
	if data, err := loadTrainingData(name); err == nil {
		if model, err := sentences.LoadTraining(data); err == nil {
			return &Adapter{tokenizer: sentences.NewSentenceTokenizer(model)}
		} else {
			log.Warn("unable to parse sentence tokenizer training data", zap.Stringer("tag", lang), zap.Error(err))
		}
	}

	if base, confidence := lang.Base(); confidence != language.No {
		if data, err := loadTrainingData(strings.ToLower(base.String())); err == nil {
			if model, err := sentences.LoadTraining(data); err == nil {
				return &Adapter{tokenizer: sentences.NewSentenceTokenizer(model)}
			} else {
				log.Warn("unable to parse sentence tokenizer training data", zap.Stringer("tag", lang), zap.Error(err))
			}
		}
	}

	log.Warn("no sentence tokenizer model for language, segmentation will be whole-text", zap.Stringer("tag", lang))
	return nil
}

// Boundaries tokenizes text into sentences and converts each sentence
// boundary into an offset into text, by locating the sentence's
// starting position. Offsets are sorted, deduplicated, and validated
// strictly increasing and within [0, len(text)]; a violation returns a
// SegmenterError rather than silently corrupting segmentation. Empty
// plaintext returns an empty list.
func (a *Adapter) Boundaries(text string) ([]int, error) {
	if text == "" {
		return nil, nil
	}
	if a == nil || a.tokenizer == nil {
		return nil, nil
	}

	sents := a.tokenizer.Tokenize(text)
	offsets := make([]int, 0, len(sents))
	searchFrom := 0
	for _, s := range sents {
		idx := strings.Index(text[searchFrom:], s.Text)
		if idx < 0 {
			return nil, lderr.NewSegmenterError("sentence %q not found in source text at or after offset %d", s.Text, searchFrom)
		}
		start := searchFrom + idx
		offsets = append(offsets, start)
		searchFrom = start + len(s.Text)
	}

	sort.Ints(offsets)
	offsets = dedupe(offsets)

	prev := -1
	for _, o := range offsets {
		if o < 0 || o > len(text) {
			return nil, lderr.NewSegmenterError("sentence boundary %d out of range [0, %d]", o, len(text))
		}
		if o <= prev {
			return nil, lderr.NewSegmenterError("sentence boundaries not strictly increasing: %d after %d", o, prev)
		}
		prev = o
	}
	return offsets, nil
}

func dedupe(sorted []int) []int {
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// Func returns a BoundaryFunc bound to a, suitable for passing directly
// to lineardoc.Doc.Segment.
func (a *Adapter) Func() BoundaryFunc {
	return a.Boundaries
}
