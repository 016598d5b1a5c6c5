package tmr

// Input is one meaning graph to format, with the sentence it was derived
// from. DataJSON and DataDict are passed through untouched.
type Input struct {
	SentenceID Ident
	Sentence   string
	TMRIndex   int
	TMR        *Graph
	DataJSON   string
	DataDict   string
}

// Output is the annotated display structure for one meaning graph.
type Output struct {
	SentenceID      Ident      `json:"sentenceId"`
	TMRIndex        int        `json:"tmrIndex"`
	Sentences       []Sentence `json:"sentences"`
	Frames          []*Frame   `json:"frames"`
	TotalPreference float64    `json:"totalPreference"`
	TotalConfidence float64    `json:"totalConfidence"`
	DataJSON        string     `json:"dataJSON,omitempty"`
	DataDict        string     `json:"dataDict,omitempty"`
}

// Format tokenizes the sentence, builds and colors the frames, sorts them
// and merges constraint info. Every structure in the output is freshly
// allocated; in is not modified.
func (f *Formatter) Format(in Input) Output {
	sentences := Tokenize(in.Sentence)
	b := f.Build(in.TMR, sentences)
	ApplyHighlights(sentences, b.Highlights)

	frames := SortFrames(b.Frames)
	MergeConstraints(frames)

	return Output{
		SentenceID:      in.SentenceID,
		TMRIndex:        in.TMRIndex,
		Sentences:       sentences,
		Frames:          frames,
		TotalPreference: b.TotalPreference,
		TotalConfidence: b.TotalConfidence,
		DataJSON:        in.DataJSON,
		DataDict:        in.DataDict,
	}
}
