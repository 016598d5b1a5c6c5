package tmr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/tmrview/pkg/lexicon"
)

// Config is the process-wide classification setup. It is resolved once
// and never changed by formatting.
type Config struct {
	// RelationKeys name attributes whose object values wrap a reference
	// to another entity under VALUE or value.
	RelationKeys []string
	// AuxiliaryKeys name lower-case attributes shown in the auxiliary group.
	AuxiliaryKeys []string
	// Lexicon resolves from-sense values. Nil means no lookups succeed.
	Lexicon lexicon.Lookup
}

// Formatter turns raw meaning graphs into display structures. It holds
// only immutable configuration and is safe for concurrent use.
type Formatter struct {
	relations keySet
	auxiliary keySet
	lexicon   lexicon.Lookup
}

// NewFormatter compiles cfg into a Formatter.
func NewFormatter(cfg Config) *Formatter {
	lx := cfg.Lexicon
	if lx == nil {
		lx = lexicon.Null{}
	}
	return &Formatter{
		relations: newKeySet(cfg.RelationKeys),
		auxiliary: newKeySet(cfg.AuxiliaryKeys),
		lexicon:   lx,
	}
}

// Highlight appends Color to the word at (Sentence, Word).
type Highlight struct {
	Sentence int
	Word     int
	Color    string
}

// Build is the result of classifying a graph, before sorting.
type Build struct {
	Frames          []*Frame
	Highlights      []Highlight
	TotalPreference float64
	TotalConfidence float64
}

// GroupKind names an attribute group.
type GroupKind int

const (
	GroupOptional GroupKind = iota
	GroupRequired
	GroupAuxiliary
)

// Classify returns the group an attribute key belongs to: required when
// the key starts with an upper-case letter, auxiliary when it is one of
// the configured auxiliary keys, optional otherwise.
func (f *Formatter) Classify(key string) GroupKind {
	switch {
	case isRequiredKey(key):
		return GroupRequired
	case f.auxiliary.has(key):
		return GroupAuxiliary
	default:
		return GroupOptional
	}
}

// Build classifies every entry of g into frames and collects the word
// highlights they imply. sentences is only read, to resolve word
// positions; use ApplyHighlights to color it.
func (f *Formatter) Build(g *Graph, sentences []Sentence) Build {
	ids := g.EntityIDs()
	colors := AssignColors(ids)
	offset := sentenceOffset(g, ids)

	b := Build{Frames: []*Frame{}}
	for _, key := range g.Keys() {
		value, _ := g.Get(key)
		switch NormalizeKey(key) {
		case KeyTotalPreference:
			b.TotalPreference = number(value)
			continue
		case KeyTotalConfidence:
			b.TotalConfidence = number(value)
			continue
		}

		e := entityBuild{
			f:         f,
			frame:     newFrame(key, colors[key]),
			colors:    colors,
			offset:    offset,
			rejected:  IsRejectedKey(key),
			sentences: sentences,
		}
		if attrs, ok := value.(*Attrs); ok {
			for p := attrs.Oldest(); p != nil; p = p.Next() {
				e.add(p.Key, p.Value)
			}
		}
		b.Frames = append(b.Frames, e.frame)
		b.Highlights = append(b.Highlights, e.highlights...)
	}
	return b
}

// entityBuild accumulates one frame.
type entityBuild struct {
	f          *Formatter
	frame      *Frame
	colors     map[string]string
	offset     int
	rejected   bool
	sentences  []Sentence
	highlights []Highlight
}

func (e *entityBuild) add(key string, raw any) {
	norm := NormalizeKey(key)
	switch norm {
	case KeyPreference:
		e.frame.Preference = number(raw)
		return
	case KeySemPreference:
		e.frame.SemPreference = number(raw)
		return
	}
	if owner, ok := constraintOwner(key); ok {
		e.frame.Constraints[owner] = withoutVariable(raw)
		return
	}

	v := NormalizeValue(raw, e.f.relations.has(key))
	attr := &Attribute{Value: v.Display()}

	switch {
	case norm == KeySentWordInd:
		if ref, ok := parseWordRef(raw); ok {
			attr.Value = ref.display
			if e.frame.Color != "" {
				for _, w := range ref.words {
					e.highlights = append(e.highlights, Highlight{Sentence: ref.sentence - e.offset, Word: w, Color: e.frame.Color})
				}
			}
		}
	case e.rejected:
		if pos, err := strconv.Atoi(strings.TrimSpace(key)); err == nil {
			attr.Color = RejectedColor(pos)
			if s, w, ok := locate(e.sentences, pos); ok {
				e.highlights = append(e.highlights, Highlight{Sentence: s, Word: w, Color: attr.Color})
			}
		}
	case norm == KeyFromSense:
		if sense, ok := v.String(); ok {
			if entry, found := e.f.lexicon.Lookup(sense); found {
				attr.Lexicon = entry
			}
		}
	default:
		if ref, ok := v.String(); ok {
			if c, known := e.colors[ref]; known {
				attr.Color = c
			}
		}
	}

	switch e.f.Classify(key) {
	case GroupRequired:
		e.frame.Attributes.Required[key] = attr
	case GroupAuxiliary:
		e.frame.Attributes.Auxiliary[key] = attr
	default:
		e.frame.Attributes.Optional[key] = attr
	}
}

// wordRef is a parsed sent-word-ind value.
type wordRef struct {
	sentence int
	words    []int
	display  string
}

// parseWordRef reads (sentenceIndex, wordIndexOrIndices). A scalar word
// index is treated as a one-element list. Non-integral word entries are
// shown but never highlighted.
func parseWordRef(raw any) (wordRef, bool) {
	pair, ok := raw.([]any)
	if !ok || len(pair) < 2 {
		return wordRef{}, false
	}
	sent, ok := index(pair[0])
	if !ok {
		return wordRef{}, false
	}

	items, isList := pair[1].([]any)
	if !isList {
		items = []any{pair[1]}
	}
	ref := wordRef{sentence: sent}
	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = scalarText(it)
		if w, ok := index(it); ok {
			ref.words = append(ref.words, w)
		}
	}
	ref.display = fmt.Sprintf("%d, [%s]", sent, strings.Join(texts, ", "))
	return ref, true
}

// sentenceOffset is the smallest sentence index any colored entity points
// at. Graphs number sentences across a whole document; the tokenized text
// starts at this index.
func sentenceOffset(g *Graph, ids []string) int {
	offset, found := 0, false
	for _, id := range ids {
		attrs := g.attrs(id)
		if attrs == nil {
			continue
		}
		for p := attrs.Oldest(); p != nil; p = p.Next() {
			if NormalizeKey(p.Key) != KeySentWordInd {
				continue
			}
			ref, ok := parseWordRef(p.Value)
			if !ok {
				continue
			}
			if !found || ref.sentence < offset {
				offset, found = ref.sentence, true
			}
		}
	}
	return offset
}

// ApplyHighlights appends each highlight's color to its word. References
// that address no existing word are skipped.
func ApplyHighlights(sentences []Sentence, highlights []Highlight) {
	for _, h := range highlights {
		if h.Sentence < 0 || h.Sentence >= len(sentences) {
			continue
		}
		words := sentences[h.Sentence].Words
		if h.Word < 0 || h.Word >= len(words) {
			continue
		}
		words[h.Word].Colors = append(words[h.Word].Colors, h.Color)
	}
}
