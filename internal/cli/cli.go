// Package cli implements the tmrview command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tmrview/pkg/buildinfo"
	"github.com/matzehuels/tmrview/pkg/cache"
	"github.com/matzehuels/tmrview/pkg/config"
	"github.com/matzehuels/tmrview/pkg/pipeline"
	"github.com/matzehuels/tmrview/pkg/tmr"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "tmrview"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is set by the persistent --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "tmrview formats meaning graphs for display",
		Long:         `tmrview turns the meaning graphs (TMRs) produced by a semantic analyzer into colored, sorted frames and highlighted sentences, for the terminal, as JSON, or as relation graphs.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $"+config.EnvConfig+" or ~/.config/tmrview/config.toml)")

	root.AddCommand(c.formatCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config selected by --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", cfg.Path(), "lexicon", cfg.Lexicon)
	return cfg, nil
}

// loadConfigWithLexicon loads the config and lets a non-empty lexicon flag
// replace the configured lexicon.
func (c *CLI) loadConfigWithLexicon(lexicon string) (*config.Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if lexicon == "" {
		return cfg, nil
	}
	cfg.Lexicon = lexicon
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The returned function
// releases the lexicon and the cache; call it when done.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, func(), error) {
	lookup, lexCloser, err := cfg.OpenLexicon(c.Logger)
	if err != nil {
		return nil, nil, err
	}
	store, keyer, err := newCache(ctx, cfg, noCache)
	if err != nil {
		lexCloser.Close()
		return nil, nil, err
	}

	r := pipeline.NewRunner(tmr.NewFormatter(cfg.TMRConfig(lookup)), store, keyer, c.Logger)
	r.ConfigHash = cfg.Fingerprint()
	r.TTL = cfg.GetCacheTTL()

	cleanup := func() {
		if err := r.Close(); err != nil {
			c.Logger.Debug("close cache", "err", err)
		}
		if err := lexCloser.Close(); err != nil {
			c.Logger.Debug("close lexicon", "err", err)
		}
	}
	return r, cleanup, nil
}

// newCache picks the cache backend: none when disabled, Redis when a URL is
// configured, otherwise files under the cache directory. A nil keyer means
// the runner default.
func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, cache.Keyer, error) {
	if noCache || cfg.Cache.Disabled {
		return cache.NewNullCache(), nil, nil
	}
	if cfg.Cache.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, "")
		if err != nil {
			return nil, nil, err
		}
		return rc, rc.Keyer(), nil
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil, nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, nil, err
	}
	return fc, nil, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/tmrview/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// Without an explicit list the format follows the output extension, then
// falls back to text on stdout and JSON for files.
func parseFormats(s, output string) []string {
	if s != "" {
		var formats []string
		for _, f := range strings.Split(s, ",") {
			if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
				formats = append(formats, f)
			}
		}
		return formats
	}
	if ext := formatOfPath(output); ext != "" {
		return []string{ext}
	}
	if output == "" {
		return []string{pipeline.FormatText}
	}
	return []string{pipeline.FormatJSON}
}

// formatOfPath returns the output format named by path's extension, or ""
// when the extension is not a known format.
func formatOfPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "txt" {
		return pipeline.FormatText
	}
	if ext != "" && pipeline.ValidateFormat(ext) == nil {
		return ext
	}
	return ""
}
