package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/tmrview/pkg/buildinfo"
	"github.com/matzehuels/tmrview/pkg/cache"
	"github.com/matzehuels/tmrview/pkg/observability"
	"github.com/matzehuels/tmrview/pkg/tmr"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"text", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "text"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Concurrency != DefaultConcurrency {
		t.Errorf("Concurrency = %d, want %d", opts.Concurrency, DefaultConcurrency)
	}
	if diff := cmp.Diff([]string{FormatJSON}, opts.Formats); diff != "" {
		t.Errorf("Formats mismatch (-want +got):\n%s", diff)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	bad := Options{Concurrency: -1}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("negative concurrency should fail")
	}
	bad = Options{Formats: []string{"gif"}}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestIsBatchFormat(t *testing.T) {
	for _, f := range ValidFormats {
		want := f == FormatJSON || f == FormatText
		if got := IsBatchFormat(f); got != want {
			t.Errorf("IsBatchFormat(%q) = %v, want %v", f, got, want)
		}
	}
}

// batch builds n results, each with one interpretation where SIT-1 has
// CAT-1 as its agent.
func batch(t *testing.T, n int) []tmr.Result {
	t.Helper()
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{
			"sent-num": %d,
			"sentence": "Cats sat.",
			"results": [{"TMR": {
				"SIT-1": {"AGENT": "CAT-1", "is-in-subtree": "EVENT", "sent-word-ind": [0, [1]]},
				"CAT-1": {"sent-word-ind": [0, [0]]},
				"TOTAL-PREFERENCE": %d
			}}]
		}`, i, i)
	}
	var results []tmr.Result
	if err := json.Unmarshal([]byte("["+strings.Join(items, ",")+"]"), &results); err != nil {
		t.Fatal(err)
	}
	return results
}

func sentenceIDs(outputs []tmr.Output) []tmr.Ident {
	ids := make([]tmr.Ident, len(outputs))
	for i, o := range outputs {
		ids[i] = o.SentenceID
	}
	return ids
}

func TestExecutePreservesOrder(t *testing.T) {
	results := batch(t, 25)
	runner := NewRunner(nil, nil, nil, nil)

	result, err := runner.Execute(context.Background(), results, Options{Concurrency: 3})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := make([]tmr.Ident, len(results))
	for i := range want {
		want[i] = tmr.Ident(fmt.Sprint(i))
	}
	if diff := cmp.Diff(want, sentenceIDs(result.Outputs)); diff != "" {
		t.Errorf("output order mismatch (-want +got):\n%s", diff)
	}
	for i, out := range result.Outputs {
		if out.TotalPreference != float64(i) {
			t.Errorf("output %d: TotalPreference = %v", i, out.TotalPreference)
		}
	}
	if result.RunID == "" {
		t.Error("RunID should be set")
	}
	if result.InputHash == "" {
		t.Error("InputHash should be set")
	}
	if result.Stats.Interpretations != 25 || result.Stats.Frames != 50 {
		t.Errorf("Stats = %+v", result.Stats)
	}
}

func TestExecuteCaching(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(nil, c, nil, nil)
	runner.ConfigHash = "cfg-a"
	results := batch(t, 3)
	ctx := context.Background()

	first, err := runner.Execute(ctx, results, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.FormatHit {
		t.Error("first run should miss the cache")
	}

	second, err := runner.Execute(ctx, results, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.FormatHit {
		t.Error("second run should hit the cache")
	}
	a, _ := first.Artifact(FormatJSON, -1)
	b, _ := second.Artifact(FormatJSON, -1)
	if !bytes.Equal(a, b) {
		t.Errorf("cached outputs differ:\n%s\n---\n%s", a, b)
	}

	refreshed, err := runner.Execute(ctx, results, Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.FormatHit {
		t.Error("refresh should skip the cache")
	}

	salted, err := runner.Execute(ctx, results, Options{CacheSalt: "other"})
	if err != nil {
		t.Fatal(err)
	}
	if salted.CacheInfo.FormatHit {
		t.Error("a different salt should miss the cache")
	}

	runner.ConfigHash = "cfg-b"
	changed, err := runner.Execute(ctx, results, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if changed.CacheInfo.FormatHit {
		t.Error("a different config should miss the cache")
	}
}

func TestInputHashCoversUnmodelledFields(t *testing.T) {
	decode := func(extra string) []tmr.Result {
		var results []tmr.Result
		data := `[{"sent-num": 1, "sentence": "Cats sat.", "run": "` + extra + `", "results": [{"TMR": {"SIT-1": {}}}]}]`
		if err := json.Unmarshal([]byte(data), &results); err != nil {
			t.Fatal(err)
		}
		return results
	}
	runner := NewRunner(nil, nil, nil, nil)
	ctx := context.Background()

	a, err := runner.Execute(ctx, decode("a"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := runner.Execute(ctx, decode("b"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if a.InputHash == b.InputHash {
		t.Error("results differing only in an unmodelled field share an input hash")
	}
}

func TestExecuteCorruptCacheEntry(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(nil, c, nil, nil)
	results := batch(t, 1)
	ctx := context.Background()

	first, err := runner.Execute(ctx, results, Options{})
	if err != nil {
		t.Fatal(err)
	}
	key := runner.Keyer.FormatKey(first.InputHash, (&Options{}).FormatKeyOpts("", buildinfo.CacheVersion()))
	if err := c.Set(ctx, key, []byte("not json"), time.Hour); err != nil {
		t.Fatal(err)
	}

	second, err := runner.Execute(ctx, results, Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if second.CacheInfo.FormatHit {
		t.Error("an unreadable entry should count as a miss")
	}
	if len(second.Outputs) != 1 {
		t.Errorf("got %d outputs, want 1", len(second.Outputs))
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(nil, nil, nil, nil)
	if _, err := runner.Execute(ctx, batch(t, 5), Options{}); err == nil {
		t.Error("Execute with a canceled context should fail")
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	runner := NewRunner(nil, nil, nil, nil)
	if _, err := runner.Execute(context.Background(), nil, Options{Formats: []string{"gif"}}); err == nil {
		t.Error("Execute with an unknown format should fail")
	}
}

func TestExecuteEmpty(t *testing.T) {
	runner := NewRunner(nil, nil, nil, nil)
	result, err := runner.Execute(context.Background(), nil, Options{Formats: []string{FormatJSON, FormatDOT}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(result.Outputs) != 0 {
		t.Errorf("got %d outputs, want 0", len(result.Outputs))
	}
	data, ok := result.Artifact(FormatJSON, -1)
	if !ok || strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("json artifact = %q, %v", data, ok)
	}
	if len(result.Artifacts) != 1 {
		t.Errorf("got %d artifacts, want only the batch json", len(result.Artifacts))
	}
}

func TestRenderArtifacts(t *testing.T) {
	runner := NewRunner(nil, nil, nil, nil)
	outputs, err := runner.Format(context.Background(), batch(t, 2), Options{})
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := runner.Render(context.Background(), outputs, Options{Formats: []string{FormatText, FormatDOT}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	type ref struct {
		Format string
		Index  int
	}
	var got []ref
	for _, a := range artifacts {
		got = append(got, ref{a.Format, a.Index})
	}
	want := []ref{{FormatText, -1}, {FormatDOT, 0}, {FormatDOT, 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("artifacts mismatch (-want +got):\n%s", diff)
	}

	dot := string(artifacts[1].Data)
	if !strings.Contains(dot, `"SIT-1" -> "CAT-1" [label="AGENT"];`) {
		t.Errorf("dot missing agent edge:\n%s", dot)
	}
	if !strings.Contains(string(artifacts[0].Data), "SIT-1") {
		t.Errorf("text missing frame:\n%s", artifacts[0].Data)
	}
}

type recordingPipelineHooks struct {
	mu        sync.Mutex
	starts    []int
	completes []int
	errs      []error
}

func (h *recordingPipelineHooks) OnFormatStart(_ context.Context, _ string, n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts = append(h.starts, n)
}

func (h *recordingPipelineHooks) OnFormatComplete(_ context.Context, _ string, n, _ int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completes = append(h.completes, n)
	h.errs = append(h.errs, err)
}

type recordingCacheHooks struct {
	mu                sync.Mutex
	hits, misses, set int
}

func (h *recordingCacheHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *recordingCacheHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses++
}

func (h *recordingCacheHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.set++
}

func TestExecuteHooks(t *testing.T) {
	ph := &recordingPipelineHooks{}
	ch := &recordingCacheHooks{}
	observability.SetPipelineHooks(ph)
	observability.SetCacheHooks(ch)
	t.Cleanup(observability.Reset)

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(nil, c, nil, nil)
	results := batch(t, 4)
	for range 2 {
		if _, err := runner.Execute(context.Background(), results, Options{}); err != nil {
			t.Fatal(err)
		}
	}

	if diff := cmp.Diff([]int{4}, ph.starts); diff != "" {
		t.Errorf("format starts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{4}, ph.completes); diff != "" {
		t.Errorf("format completes mismatch (-want +got):\n%s", diff)
	}
	if ph.errs[0] != nil {
		t.Errorf("format complete err = %v", ph.errs[0])
	}
	if ch.misses != 1 || ch.hits != 1 || ch.set != 1 {
		t.Errorf("cache hooks: hits=%d misses=%d set=%d, want 1/1/1", ch.hits, ch.misses, ch.set)
	}
}
