// Package pkg provides the core libraries for tmrview, a viewer for text
// meaning representations (TMRs).
//
// # Overview
//
// An upstream analyzer reads a sentence and produces one or more meaning
// graphs: entities ("frames") such as events and objects, each with typed
// attributes, some of which point at other entities or at words of the
// sentence. tmrview turns each graph into a display structure where every
// entity has its own color, the words it was derived from carry that color,
// and attributes are grouped by display priority. The pkg directory is
// organized into these areas:
//
//  1. [tmr] - Formatting (tokenize, classify, color, sort, merge)
//  2. [lexicon] - Word-sense lookups attached to from-sense attributes
//  3. [pipeline] - Orchestration (import → format → render) with caching
//  4. [render] - Presentation (relation graphs, terminal text)
//  5. [io] - Batch files in and formatted outputs out
//
// # Architecture
//
// The typical data flow through tmrview:
//
//	Analyzer batch file (JSON)
//	         ↓
//	    [io] package (decode results, keep graph order)
//	         ↓
//	    [tmr] package (one Output per interpretation)
//	         ↓
//	    [render] package (DOT/SVG/PNG/PDF, terminal text)
//
// # Quick Start
//
//	results, _ := io.ImportBatch("batch.json")
//	f := tmr.NewFormatter(tmr.Config{
//	    RelationKeys:  config.DefaultRelationKeys,
//	    AuxiliaryKeys: config.DefaultAuxiliaryKeys,
//	})
//	for _, out := range f.FormatBatch(results) {
//	    fmt.Println(text.Output(out))
//	}
//
// # Main Packages
//
// [tmr] - The formatter. Pure and safe for concurrent use; it does no I/O
// besides lexicon lookups.
//
// [lexicon] - Static (TOML/JSON files), Null, and Bounded lookups. Bounded
// wraps a blocking source such as Redis with a per-lookup timeout.
//
// [render/nodelink] - Frames as a Graphviz digraph, cross references as
// labelled edges.
//
// [render/text] - lipgloss rendering of colored sentences and frame tables.
//
// ## Infrastructure
//
// [pipeline] - Concurrent batch formatting with result caching, shared by
// every CLI command.
//
// [cache] - File, Redis and null result caches with content-addressed keys.
//
// [config] - TOML settings with environment overrides.
//
// [errors] - Error codes and input validation.
//
// [observability] - Hooks for metrics on formatting, cache and lexicon
// events.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/tmr/...      # Specific package
//	go test -run Example       # Examples only
//
// Redis-backed tests run only when TMRVIEW_TEST_REDIS_URL is set.
//
// [tmr]: https://pkg.go.dev/github.com/matzehuels/tmrview/pkg/tmr
// [lexicon]: https://pkg.go.dev/github.com/matzehuels/tmrview/pkg/lexicon
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/tmrview/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/tmrview/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/tmrview/pkg/render/nodelink
// [render/text]: https://pkg.go.dev/github.com/matzehuels/tmrview/pkg/render/text
// [io]: https://pkg.go.dev/github.com/matzehuels/tmrview/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/tmrview/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/tmrview/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/tmrview/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/tmrview/pkg/observability
package pkg
