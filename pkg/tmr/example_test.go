package tmr_test

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/tmrview/pkg/lexicon"
	"github.com/matzehuels/tmrview/pkg/tmr"
)

func ExampleFormatter_Format() {
	var g tmr.Graph
	_ = json.Unmarshal([]byte(`{
		"SIT-1": {"AGENT": "CAT-1", "is-in-subtree": "EVENT", "sent-word-ind": [0, [1]]},
		"CAT-1": {"from-sense": "CAT-N1", "sent-word-ind": [0, 0]}
	}`), &g)

	f := tmr.NewFormatter(tmr.Config{
		AuxiliaryKeys: []string{"is-in-subtree"},
		Lexicon: lexicon.Static{
			"CAT-N1": {Sense: "CAT-N1", Word: "cat", Definition: "a small feline"},
		},
	})
	out := f.Format(tmr.Input{Sentence: "Cats sat.", TMR: &g})

	for _, frame := range out.Frames {
		fmt.Println(frame.ID, frame.Color)
	}
	for _, w := range out.Sentences[0].Words {
		fmt.Println(w.Token, w.Colors)
	}
	fmt.Println(out.Frames[0].Attributes.Optional["from-sense"].Lexicon.Definition)
	// Output:
	// CAT-1 hsla(180,80%,50%,0.3)
	// SIT-1 hsla(0,80%,50%,0.3)
	// Cats [hsla(180,80%,50%,0.3)]
	// sat [hsla(0,80%,50%,0.3)]
	// a small feline
}

func ExampleTokenize() {
	for _, s := range tmr.Tokenize("The cat sat. It slept!") {
		for _, w := range s.Words {
			fmt.Print(w.Token, " ")
		}
		fmt.Println(s.Punct)
	}
	// Output:
	// The cat sat .
	// It slept !
}
