package tmr

import (
	"regexp"
	"strings"
)

// Word is one token of a sentence together with the colors of every
// entity (or rejection) that points at it.
type Word struct {
	Token   string   `json:"token"`
	Spacing string   `json:"spacing"`
	Colors  []string `json:"colors"`
}

// Sentence is a run of words closed by terminal punctuation.
type Sentence struct {
	Words []Word `json:"words"`
	Punct string `json:"punct"`
	// Spacing is the whitespace consumed after Punct.
	Spacing string `json:"spacing,omitempty"`
}

var (
	// A sentence is the shortest text followed by a run of terminators and
	// whitespace (or end of input), or the remaining text. Line breaks are
	// ordinary text.
	sentenceRe = regexp.MustCompile(`(?s)(.+?)(?:([!?.]+)(\s|$)|$)`)
	wordRe     = regexp.MustCompile(`('*\w+)(\s*)`)
)

// Tokenize splits text into sentences and words. Every terminator run
// followed by whitespace ends a sentence; abbreviations such as "Mr." are
// not recognized.
func Tokenize(text string) []Sentence {
	sentences := []Sentence{}
	for _, m := range sentenceRe.FindAllStringSubmatch(text, -1) {
		if m[2] == "" && strings.TrimSpace(m[1]) == "" {
			continue
		}
		s := Sentence{Words: []Word{}, Punct: m[2], Spacing: m[3]}
		for _, w := range wordRe.FindAllStringSubmatch(m[1], -1) {
			s.Words = append(s.Words, Word{Token: w[1], Spacing: w[2], Colors: []string{}})
		}
		sentences = append(sentences, s)
	}
	return sentences
}

// WordCount returns the total number of words across sentences.
func WordCount(sentences []Sentence) int {
	n := 0
	for _, s := range sentences {
		n += len(s.Words)
	}
	return n
}

// locate resolves a flat word position to (sentence, word) by walking the
// cumulative sentence lengths.
func locate(sentences []Sentence, pos int) (int, int, bool) {
	if pos < 0 {
		return 0, 0, false
	}
	for i, s := range sentences {
		if pos < len(s.Words) {
			return i, pos, true
		}
		pos -= len(s.Words)
	}
	return 0, 0, false
}
