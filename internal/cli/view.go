package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/tmrview/pkg/errors"
	tmrio "github.com/matzehuels/tmrview/pkg/io"
	"github.com/matzehuels/tmrview/pkg/pipeline"
	"github.com/matzehuels/tmrview/pkg/tmr"
)

// viewOpts holds options for the view command.
type viewOpts struct {
	noCache   bool
	lexicon   string
	formatted bool
}

// viewCommand creates the view command, an interactive browser over the
// formatted interpretations of a batch.
func (c *CLI) viewCommand() *cobra.Command {
	opts := viewOpts{}

	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Browse formatted interpretations interactively",
		Long: `Format a batch and browse its interpretations in the terminal.

The list shows every interpretation with its scores; enter opens one as
highlighted sentences and frame tables. Use n/p to step through
interpretations and esc to return to the list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)

			if args[0] == "-" {
				return apperr.New(apperr.ErrCodeInvalidInput, "view needs a batch file; stdin is used for keyboard input")
			}
			outputs, err := c.loadOutputs(ctx, args[0], &opts)
			if err != nil {
				return err
			}

			_, err = tea.NewProgram(NewBrowserModel(outputs), tea.WithContext(ctx), tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable result caching")
	cmd.Flags().StringVar(&opts.lexicon, "lexicon", "", "lexicon file or redis:// URL (overrides config)")
	cmd.Flags().BoolVar(&opts.formatted, "formatted", false, "file holds formatted JSON from \"tmrview format -f json\"")

	return cmd
}

// loadOutputs reads already formatted outputs, or formats the batch at path.
func (c *CLI) loadOutputs(ctx context.Context, path string, opts *viewOpts) ([]tmr.Output, error) {
	if err := apperr.ValidatePath(path); err != nil {
		return nil, err
	}
	if opts.formatted {
		return tmrio.ImportOutputs(path)
	}

	cfg, err := c.loadConfigWithLexicon(opts.lexicon)
	if err != nil {
		return nil, err
	}
	results, err := tmrio.ImportBatch(path)
	if err != nil {
		return nil, err
	}

	runner, cleanup, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return runner.Format(ctx, results, pipeline.Options{
		Concurrency: cfg.GetConcurrency(),
		Logger:      loggerFromContext(ctx),
	})
}
