// Package lexicon resolves word-sense identifiers to dictionary entries.
//
// Formatting calls [Lookup.Lookup] for every from-sense attribute. A
// lookup never fails: an unknown sense simply reports not found. Three
// implementations are provided:
//
//   - [Static]: an in-memory table, loaded from a TOML or JSON file with [Load]
//   - [Null]: resolves nothing
//   - [Bounded]: adapts a context-aware [Remote] source, applying a
//     per-lookup timeout and treating every failure as not found
package lexicon

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tmrview/pkg/observability"
)

// ErrNotFound may be returned by a Remote for an unknown sense.
var ErrNotFound = errors.New("sense not found")

// Entry is a lexicon record for one word sense.
type Entry struct {
	Sense      string         `json:"sense" toml:"sense"`
	Word       string         `json:"word,omitempty" toml:"word"`
	Category   string         `json:"category,omitempty" toml:"category"`
	Definition string         `json:"definition,omitempty" toml:"definition"`
	Examples   []string       `json:"examples,omitempty" toml:"examples"`
	Meaning    map[string]any `json:"meaning,omitempty" toml:"meaning"`
}

// Clone returns a deep copy of e.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	c := *e
	if e.Examples != nil {
		c.Examples = append([]string(nil), e.Examples...)
	}
	if e.Meaning != nil {
		c.Meaning = cloneValue(e.Meaning).(map[string]any)
	}
	return &c
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, x := range v {
			m[k] = cloneValue(x)
		}
		return m
	case []any:
		s := make([]any, len(v))
		for i, x := range v {
			s[i] = cloneValue(x)
		}
		return s
	default:
		return v
	}
}

// Lookup resolves a sense id. Implementations must not block for long and
// must report unknown ids as not found rather than failing.
type Lookup interface {
	Lookup(sense string) (*Entry, bool)
}

// Null resolves nothing.
type Null struct{}

// Lookup always reports not found.
func (Null) Lookup(string) (*Entry, bool) { return nil, false }

// Static is an in-memory lexicon keyed by sense id.
type Static map[string]*Entry

// Lookup returns a copy of the entry for sense, if present.
func (s Static) Lookup(sense string) (*Entry, bool) {
	e, ok := s[sense]
	if !ok || e == nil {
		return nil, false
	}
	return e.Clone(), true
}

// Remote is a lexicon that may block, such as a database or network
// service.
type Remote interface {
	LookupContext(ctx context.Context, sense string) (*Entry, error)
}

// RemoteFunc adapts a function to Remote.
type RemoteFunc func(ctx context.Context, sense string) (*Entry, error)

// LookupContext calls fn.
func (fn RemoteFunc) LookupContext(ctx context.Context, sense string) (*Entry, error) {
	return fn(ctx, sense)
}

// DefaultTimeout bounds a single remote lookup when none is configured.
const DefaultTimeout = 2 * time.Second

// Bounded turns a Remote into a Lookup. Each lookup gets its own deadline;
// errors, timeouts and nil entries all count as not found, so a slow
// source never stalls formatting.
type Bounded struct {
	remote  Remote
	timeout time.Duration
	logger  *log.Logger
}

// NewBounded wraps r. A non-positive timeout uses DefaultTimeout and a nil
// logger uses log.Default().
func NewBounded(r Remote, timeout time.Duration, logger *log.Logger) *Bounded {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Bounded{remote: r, timeout: timeout, logger: logger}
}

type remoteResult struct {
	entry *Entry
	err   error
}

// Lookup queries the remote source, giving up after the timeout.
func (b *Bounded) Lookup(sense string) (*Entry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan remoteResult, 1)
	go func() {
		e, err := b.remote.LookupContext(ctx, sense)
		done <- remoteResult{entry: e, err: err}
	}()

	var res remoteResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}

	found := res.err == nil && res.entry != nil
	observability.Lexicon().OnLookup(ctx, sense, found, time.Since(start))
	if res.err != nil && !errors.Is(res.err, ErrNotFound) {
		b.logger.Debug("lexicon lookup failed", "sense", sense, "err", res.err)
	}
	if !found {
		return nil, false
	}
	return res.entry, true
}
