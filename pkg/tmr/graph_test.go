package tmr

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func decodeGraph(t *testing.T, s string) *Graph {
	t.Helper()
	g := NewGraph()
	if err := json.Unmarshal([]byte(s), g); err != nil {
		t.Fatalf("decode graph: %v", err)
	}
	return g
}

func TestGraphKeepsOrder(t *testing.T) {
	g := decodeGraph(t, `{"ZEBRA-1": {"b": 1, "a": 2}, "APE-1": {}, "total-preference": 0.5, "MOOSE-1": {}}`)

	if diff := cmp.Diff([]string{"ZEBRA-1", "APE-1", "total-preference", "MOOSE-1"}, g.Keys()); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ZEBRA-1", "APE-1", "MOOSE-1"}, g.EntityIDs()); diff != "" {
		t.Errorf("EntityIDs mismatch (-want +got):\n%s", diff)
	}

	var attrKeys []string
	for p := g.attrs("ZEBRA-1").Oldest(); p != nil; p = p.Next() {
		attrKeys = append(attrKeys, p.Key)
	}
	if diff := cmp.Diff([]string{"b", "a"}, attrKeys); diff != "" {
		t.Errorf("attribute order mismatch (-want +got):\n%s", diff)
	}

	if v, _ := g.Get("total-preference"); v != 0.5 {
		t.Errorf("total-preference = %v", v)
	}
}

func TestGraphRoundTrip(t *testing.T) {
	in := `{"Z-1":{"y":[1,2],"x":{"VALUE":"A-1"}},"A-1":{"n":null},"total-confidence":0.9}`
	g := decodeGraph(t, in)
	out, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != in {
		t.Errorf("round trip:\n got %s\nwant %s", out, in)
	}
}

func TestGraphNull(t *testing.T) {
	g := decodeGraph(t, `null`)
	if g.Len() != 0 {
		t.Errorf("Len() = %d, want 0", g.Len())
	}
}

func TestGraphNotObject(t *testing.T) {
	for _, in := range []string{`[]`, `"SIT-1"`, `42`, `true`} {
		var g Graph
		err := json.Unmarshal([]byte(in), &g)
		if !errors.Is(err, ErrNotObject) {
			t.Errorf("Unmarshal(%s) = %v, want ErrNotObject", in, err)
		}
	}
}

func TestGraphScalarEntity(t *testing.T) {
	g := decodeGraph(t, `{"ODD-1": "just text", "SIT-1": {}}`)
	if v, _ := g.Get("ODD-1"); v != "just text" {
		t.Errorf("ODD-1 = %v", v)
	}
	if g.attrs("ODD-1") != nil {
		t.Error("scalar entity should have no attributes")
	}
}

func TestGraphNil(t *testing.T) {
	var g *Graph
	if g.Len() != 0 || g.Keys() != nil {
		t.Error("nil graph should be empty")
	}
	if _, ok := g.Get("x"); ok {
		t.Error("nil graph Get should miss")
	}
	data, err := g.MarshalJSON()
	if err != nil || string(data) != "{}" {
		t.Errorf("nil MarshalJSON = %s, %v", data, err)
	}
}

func TestGraphSet(t *testing.T) {
	var g Graph
	g.Set("B-1", NewAttrs())
	g.Set("A-1", NewAttrs())
	g.Set("B-1", "replaced")
	if diff := cmp.Diff([]string{"B-1", "A-1"}, g.Keys()); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
	if v, _ := g.Get("B-1"); v != "replaced" {
		t.Errorf("B-1 = %v", v)
	}
}
