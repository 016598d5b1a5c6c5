package tmr

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Ident is an identifier that may arrive as a JSON string or number. It
// is always written back as a string.
type Ident string

// UnmarshalJSON accepts strings, numbers and null.
func (id *Ident) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = Ident(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("identifier must be a string or number: %w", err)
		}
		*id = Ident(n.String())
	}
	return nil
}

// Interpretation is one candidate reading of a sentence.
type Interpretation struct {
	TMR *Graph `json:"TMR"`
}

// Result bundles a sentence with its candidate interpretations, as
// produced by the upstream analyzer. A decoded Result keeps the entry it
// was read from, so fields the formatter does not model survive in
// DataJSON and in the encoded form.
type Result struct {
	SentenceID Ident  `json:"sent-num"`
	Sentence   string `json:"sentence"`
	// OriginalString is the analyzer's raw dump, shown verbatim next to
	// each interpretation and excluded from DataJSON.
	OriginalString string           `json:"originalString,omitempty"`
	Results        []Interpretation `json:"results"`

	raw json.RawMessage
}

// resultFields has Result's fields without its methods.
type resultFields struct {
	SentenceID     Ident            `json:"sent-num"`
	Sentence       string           `json:"sentence"`
	OriginalString string           `json:"originalString,omitempty"`
	Results        []Interpretation `json:"results"`
}

// UnmarshalJSON decodes the modelled fields and keeps the entry as read.
func (r *Result) UnmarshalJSON(data []byte) error {
	var f resultFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*r = Result{
		SentenceID:     f.SentenceID,
		Sentence:       f.Sentence,
		OriginalString: f.OriginalString,
		Results:        f.Results,
		raw:            append(json.RawMessage(nil), bytes.TrimSpace(data)...),
	}
	return nil
}

// MarshalJSON writes the entry r was decoded from, or its modelled
// fields when r was built in code.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.raw != nil {
		return r.raw, nil
	}
	return json.Marshal(resultFields{
		SentenceID:     r.SentenceID,
		Sentence:       r.Sentence,
		OriginalString: r.OriginalString,
		Results:        r.Results,
	})
}

// DataJSON is the JSON text of r's entry without its original string.
// Every other field is kept in its original order and type.
func (r Result) DataJSON() string {
	data, err := r.MarshalJSON()
	if err != nil {
		return ""
	}
	entry := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, entry); err != nil {
		return ""
	}
	entry.Delete("originalString")
	out, err := json.Marshal(entry)
	if err != nil {
		return ""
	}
	return string(out)
}

// Inputs flattens results into one Input per interpretation, in order.
// Interpretations without a graph are skipped. The passthrough fields are
// computed once per result.
func Inputs(results []Result) []Input {
	var inputs []Input
	for _, r := range results {
		dataJSON := r.DataJSON()
		for i, interp := range r.Results {
			if interp.TMR == nil {
				continue
			}
			inputs = append(inputs, Input{
				SentenceID: r.SentenceID,
				Sentence:   r.Sentence,
				TMRIndex:   i,
				TMR:        interp.TMR,
				DataJSON:   dataJSON,
				DataDict:   r.OriginalString,
			})
		}
	}
	return inputs
}

// FormatBatch formats every interpretation of every result into one flat,
// ordered list.
func (f *Formatter) FormatBatch(results []Result) []Output {
	inputs := Inputs(results)
	outputs := make([]Output, len(inputs))
	for i, in := range inputs {
		outputs[i] = f.Format(in)
	}
	return outputs
}
