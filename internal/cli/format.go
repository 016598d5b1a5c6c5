package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/tmrview/pkg/errors"
	tmrio "github.com/matzehuels/tmrview/pkg/io"
	"github.com/matzehuels/tmrview/pkg/pipeline"
	"github.com/matzehuels/tmrview/pkg/tmr"
)

// formatOpts holds options for the format command.
type formatOpts struct {
	output      string
	formats     string
	noCache     bool
	refresh     bool
	concurrency int
	lexicon     string
	detailed    bool
	watch       bool
}

// formatCommand creates the format command for turning a batch of analyzer
// results into display artifacts.
func (c *CLI) formatCommand() *cobra.Command {
	opts := formatOpts{}

	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Format analyzer results for display",
		Long: `Format the meaning graphs of an analyzer batch.

The batch is a JSON list of results, a list of {"TMRList": [...]} wrappers,
or a single result. It is read from file, or from stdin when file is
omitted or "-".

Batch formats (json, text) produce one artifact for the whole batch. Graph
formats (dot, svg, png, pdf) produce one artifact per interpretation; with
more than one interpretation the files are numbered: out-1.svg, out-2.svg.`,
		Example: `  # Colored frames and sentences in the terminal
  tmrview format results.json

  # Formatted JSON for a web front end
  tmrview format results.json -o formatted.json

  # One relation graph per interpretation
  tmrview format results.json -f svg,dot -o graphs/sentence

  # Reformat whenever the batch changes
  tmrview format results.json -o formatted.json --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			if opts.watch && (input == "" || input == "-") {
				return apperr.New(apperr.ErrCodeInvalidInput, "--watch needs a batch file")
			}
			err := c.runFormat(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), input, &opts)
			if !opts.watch {
				return err
			}
			if err != nil {
				printError("%v", err)
			}
			printInfo("Watching %s (ctrl+c to stop)", input)
			return watchInput(ctx, input, watchDebounce, c.Logger, func() error {
				return c.runFormat(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), input, &opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: "+strings.Join(pipeline.ValidFormats, ", ")+" (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable result caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "j", 0, "interpretations formatted in parallel (default from config)")
	cmd.Flags().StringVar(&opts.lexicon, "lexicon", "", "lexicon file or redis:// URL (overrides config)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "list uncolored attributes in graph nodes")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reformat whenever the input file changes")

	return cmd
}

// runFormat reads the batch, runs the pipeline and writes the artifacts.
func (c *CLI) runFormat(ctx context.Context, stdin io.Reader, stdout io.Writer, input string, opts *formatOpts) error {
	logger := loggerFromContext(ctx)

	formats := parseFormats(opts.formats, opts.output)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

	cfg, err := c.loadConfigWithLexicon(opts.lexicon)
	if err != nil {
		return err
	}

	results, err := readBatch(stdin, input)
	if err != nil {
		return err
	}
	logger.Debug("read batch", "input", displayName(input), "results", len(results))

	runner, cleanup, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer cleanup()

	concurrency := opts.concurrency
	if concurrency == 0 {
		concurrency = cfg.GetConcurrency()
	}

	prog := newFormatProgress(logger)
	spin := c.startSpinner(ctx, "Formatting "+displayName(input))
	result, err := runner.Execute(ctx, results, pipeline.Options{
		Concurrency: concurrency,
		Refresh:     opts.refresh,
		Formats:     formats,
		Detailed:    opts.detailed,
		Logger:      logger,
	})
	if err != nil {
		spin.StopWithError("Formatting failed")
		return err
	}
	spin.Stop()
	prog.done(result.Stats, result.CacheInfo.FormatHit)
	if result.Stats.Interpretations == 0 {
		printWarning("No interpretations in %s", displayName(input))
	}

	if opts.output == "" {
		return writeStdout(stdout, result.Artifacts)
	}

	paths, err := writeArtifacts(opts.output, result.Artifacts)
	if err != nil {
		return err
	}
	printSuccess("Formatted %s", displayName(input))
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Interpretations, result.Stats.Frames, result.CacheInfo.FormatHit)
	if len(results) > 0 && input != "" && input != "-" {
		printNextStep("Browse interactively", appName+" view "+input)
	}
	return nil
}

// readBatch reads analyzer results from path, or from stdin for "" and "-".
func readBatch(stdin io.Reader, path string) ([]tmr.Result, error) {
	if path == "" || path == "-" {
		return tmrio.ReadBatch(stdin)
	}
	if err := apperr.ValidatePath(path); err != nil {
		return nil, err
	}
	return tmrio.ImportBatch(path)
}

func displayName(input string) string {
	if input == "" || input == "-" {
		return "stdin"
	}
	return input
}

// =============================================================================
// Artifact Output
// =============================================================================

// writeStdout writes artifacts to w. Only text-based artifacts can share
// stdout; binary formats need a file.
func writeStdout(w io.Writer, artifacts []pipeline.Artifact) error {
	for i, a := range artifacts {
		if isBinaryFormat(a.Format) && len(artifacts) > 1 {
			return apperr.New(apperr.ErrCodeInvalidInput, "%d artifacts include %s output; use --output to write them to files", len(artifacts), a.Format)
		}
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		data := a.Data
		if _, err := w.Write(data); err != nil {
			return err
		}
		if !isBinaryFormat(a.Format) && (len(data) == 0 || data[len(data)-1] != '\n') {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeArtifacts writes each artifact to a file derived from output and
// returns the paths written, in artifact order.
func writeArtifacts(output string, artifacts []pipeline.Artifact) ([]string, error) {
	perFormat := map[string]int{}
	for _, a := range artifacts {
		perFormat[a.Format]++
	}
	single := len(artifacts) == 1

	base := basePath(output)
	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		path := artifactPath(base, a, perFormat[a.Format] > 1)
		if single {
			path = output
		}
		if err := writeFile(path, a.Data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// artifactPath names one artifact file: base.ext for batch formats and
// single graphs, base-N.ext for the N-th of several graphs.
func artifactPath(base string, a pipeline.Artifact, numbered bool) string {
	ext := a.Format
	if ext == pipeline.FormatText {
		ext = "txt"
	}
	if numbered && a.Index >= 0 {
		return fmt.Sprintf("%s-%d.%s", base, a.Index+1, ext)
	}
	return base + "." + ext
}

// basePath strips a known format extension from output, so that
// "out.svg" and "out" both yield "out".
func basePath(output string) string {
	if formatOfPath(output) != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func isBinaryFormat(format string) bool {
	return format == pipeline.FormatPNG || format == pipeline.FormatPDF
}
