package nodelink

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/tmrview/pkg/tmr"
)

const sampleGraph = `{
	"EVENT-1": {"AGENT": "HUMAN-1", "is-in-subtree": "EVENT", "sent-word-ind": [0, [1]], "token": "sat"},
	"HUMAN-1": {"is-in-subtree": "OBJECT", "sent-word-ind": [0, [0]]},
	"rejected-words": {"2": "quietly"}
}`

func sampleOutput(t *testing.T) tmr.Output {
	t.Helper()
	g := tmr.NewGraph()
	if err := json.Unmarshal([]byte(sampleGraph), g); err != nil {
		t.Fatalf("decode graph: %v", err)
	}
	f := tmr.NewFormatter(tmr.Config{AuxiliaryKeys: []string{"is-in-subtree"}})
	return f.Format(tmr.Input{Sentence: "Cats sat quietly.", TMR: g})
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(sampleOutput(t), Options{})

	if !strings.Contains(dot, "digraph TMR") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	for _, id := range []string{"EVENT-1", "HUMAN-1", "rejected-words"} {
		if !strings.Contains(dot, `"`+id+`" [`) {
			t.Errorf("ToDOT() output missing node %s", id)
		}
	}
	if !strings.Contains(dot, `"EVENT-1" -> "HUMAN-1" [label="AGENT"];`) {
		t.Error("ToDOT() output missing AGENT edge")
	}
	if strings.Contains(dot, `"rejected-words" ->`) {
		t.Error("ToDOT() rejected frame should have no edges")
	}
}

func TestToDOT_NodeOrder(t *testing.T) {
	dot := ToDOT(sampleOutput(t), Options{})

	human := strings.Index(dot, `"HUMAN-1" [`)
	event := strings.Index(dot, `"EVENT-1" [`)
	rejected := strings.Index(dot, `"rejected-words" [`)
	if !(human < event && event < rejected) {
		t.Errorf("nodes should follow frame order (modality, event, rejected):\n%s", dot)
	}
}

func TestToDOT_Rejected(t *testing.T) {
	dot := ToDOT(sampleOutput(t), Options{})

	var line string
	for _, l := range strings.Split(dot, "\n") {
		if strings.Contains(l, `"rejected-words" [`) {
			line = l
		}
	}
	if !strings.Contains(line, "dashed") {
		t.Error("ToDOT() rejected frame missing dashed style")
	}
	if !strings.Contains(line, "lightgrey") {
		t.Error("ToDOT() rejected frame missing lightgrey fill")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(sampleOutput(t), Options{Detailed: true})

	if !strings.Contains(dot, "token: sat") {
		t.Error("ToDOT() detailed output missing optional attribute")
	}
	if !strings.Contains(dot, "sent-word-ind: 0, [1]") {
		t.Error("ToDOT() detailed output should join line breaks with commas")
	}
	if strings.Contains(dot, "AGENT: HUMAN-1") {
		t.Error("ToDOT() detailed output should not repeat edges in labels")
	}
}

func TestToDOT_Empty(t *testing.T) {
	dot := ToDOT(tmr.Output{}, Options{})
	if !strings.HasPrefix(dot, "digraph TMR {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("ToDOT() empty output malformed:\n%s", dot)
	}
	if strings.Contains(dot, "->") {
		t.Error("ToDOT() empty output should have no edges")
	}
}

func TestFillColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hsla(0,80%,50%,0.3)", "#f7baba"},
		{"not a color", fallbackFill},
		{"", fallbackFill},
	}
	for _, tt := range tests {
		if got := fillColor(tt.in); got != tt.want {
			t.Errorf("fillColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFmtLabel_Simple(t *testing.T) {
	f := &tmr.Frame{ID: "HUMAN-1"}
	if label := fmtLabel(f, false); label != "HUMAN-1" {
		t.Errorf("fmtLabel() simple mode = %q, want %q", label, "HUMAN-1")
	}
}

func TestFmtAttrs_Regular(t *testing.T) {
	f := &tmr.Frame{ID: "HUMAN-1", Color: "hsla(0,80%,50%,0.3)"}
	attrs := fmtAttrs(f, "HUMAN-1")

	if len(attrs) != 2 {
		t.Fatalf("fmtAttrs() colored frame should have 2 attrs, got %d: %v", len(attrs), attrs)
	}
	if !strings.Contains(attrs[1], "#f7baba") {
		t.Errorf("fmtAttrs() fill = %v", attrs[1])
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if !strings.HasSuffix(out, "<g/></svg>") {
		t.Errorf("normalizeViewBox() should keep the body: %s", out)
	}
}
