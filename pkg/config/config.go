// Package config loads tmrview settings from a TOML file.
//
// Settings cover attribute classification (which keys are relations and
// which are auxiliary), the lexicon location, formatting concurrency and
// the result cache. A missing file at the default location means "use the
// defaults"; a file named explicitly must exist.
//
//	relation_keys  = ["agent", "theme", "beneficiary"]
//	auxiliary_keys = ["is-in-subtree", "syn-roles", "lex-source", "concept", "word-key"]
//	lexicon = "/usr/share/tmrview/lexicon.toml"  # or redis://host:6379/0
//	lexicon_timeout = "2s"
//	concurrency = 4
//
//	[cache]
//	dir = "/tmp/tmrview"
//	redis_url = ""
//	ttl = "168h"
//	disabled = false
package config

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/tmrview/pkg/cache"
	apperr "github.com/matzehuels/tmrview/pkg/errors"
	"github.com/matzehuels/tmrview/pkg/lexicon"
	"github.com/matzehuels/tmrview/pkg/tmr"
)

const (
	// appName names the config and cache directories.
	appName = "tmrview"

	// EnvConfig overrides the config file location.
	EnvConfig = "TMRVIEW_CONFIG"
	// EnvLexicon overrides the lexicon location.
	EnvLexicon = "TMRVIEW_LEXICON"
	// EnvRedisURL overrides the cache Redis URL.
	EnvRedisURL = "TMRVIEW_REDIS_URL"

	// DefaultConcurrency bounds parallel formatting when none is configured.
	DefaultConcurrency = 4
)

// DefaultRelationKeys are the case roles and relations whose values may
// wrap an entity reference in a {"VALUE": ...} object. Each relation is
// listed with its inverse.
var DefaultRelationKeys = []string{
	"agent", "agent-of",
	"theme", "theme-of",
	"patient", "patient-of",
	"experiencer", "experiencer-of",
	"beneficiary", "beneficiary-of",
	"instrument", "instrument-of",
	"accompanier", "accompanier-of",
	"location", "location-of",
	"destination", "destination-of",
	"source", "source-of",
	"path", "path-of",
	"destination-location", "destination-location-of",
	"has-object-as-part", "part-of-object",
	"has-event-as-part", "part-of-event",
	"owned-by", "owner-of",
	"caused-by", "caused",
	"precondition", "precondition-of",
	"effect", "effect-of",
	"scope", "scope-of",
	"member-of", "has-member",
	"purpose", "purpose-of",
	"time", "time-of",
}

// DefaultAuxiliaryKeys are the lower-case attributes shown in the
// auxiliary group.
var DefaultAuxiliaryKeys = []string{"is-in-subtree", "syn-roles", "lex-source", "concept", "word-key"}

// Config holds all tmrview settings. Durations are strings in
// time.ParseDuration syntax; use the accessor methods to read them.
type Config struct {
	RelationKeys   []string    `toml:"relation_keys" json:"relation_keys"`
	AuxiliaryKeys  []string    `toml:"auxiliary_keys" json:"auxiliary_keys"`
	Lexicon        string      `toml:"lexicon" json:"lexicon"`
	LexiconTimeout string      `toml:"lexicon_timeout" json:"lexicon_timeout"`
	Concurrency    int         `toml:"concurrency" json:"concurrency"`
	Cache          CacheConfig `toml:"cache" json:"cache"`

	// path is the file the config was read from, if any.
	path string
}

// CacheConfig configures the result cache.
type CacheConfig struct {
	Dir      string `toml:"dir" json:"dir"`
	RedisURL string `toml:"redis_url" json:"redis_url"`
	TTL      string `toml:"ttl" json:"ttl"`
	Disabled bool   `toml:"disabled" json:"disabled"`
}

// Default returns the built-in configuration. Slices are fresh copies.
func Default() *Config {
	return &Config{
		RelationKeys:   slices.Clone(DefaultRelationKeys),
		AuxiliaryKeys:  slices.Clone(DefaultAuxiliaryKeys),
		LexiconTimeout: lexicon.DefaultTimeout.String(),
		Concurrency:    DefaultConcurrency,
		Cache: CacheConfig{
			TTL: cache.TTLFormat.String(),
		},
	}
}

// DefaultPath returns the config file location: $TMRVIEW_CONFIG, else
// $XDG_CONFIG_HOME/tmrview/config.toml, else ~/.config/tmrview/config.toml.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config file at path over the defaults, applies
// environment overrides and validates the result. An empty path uses
// DefaultPath, where a missing file is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			cfg := Default()
			cfg.applyEnvOverrides()
			return cfg, cfg.Validate()
		}
		path = p
		explicit = os.Getenv(EnvConfig) != ""
	}

	cfg := Default()
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) || explicit {
			return nil, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "config %s", path)
		}
	} else if err := cfg.decodeFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode reads TOML settings from r over the defaults. Unknown keys are
// rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := checkUndecoded(md); err != nil {
		return err
	}
	c.path = path
	return nil
}

func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	return apperr.New(apperr.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvLexicon); v != "" {
		c.Lexicon = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
}

// Validate checks keys, durations and limits.
func (c *Config) Validate() error {
	for _, k := range c.RelationKeys {
		if err := apperr.ValidateKey(k); err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "relation_keys")
		}
	}
	for _, k := range c.AuxiliaryKeys {
		if err := apperr.ValidateKey(k); err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "auxiliary_keys")
		}
	}
	if c.Concurrency < 0 {
		return apperr.New(apperr.ErrCodeInvalidConfig, "concurrency must be >= 0, got %d", c.Concurrency)
	}
	if err := checkDuration("lexicon_timeout", c.LexiconTimeout); err != nil {
		return err
	}
	if err := checkDuration("cache.ttl", c.Cache.TTL); err != nil {
		return err
	}
	if c.Lexicon != "" && !lexicon.IsRemote(c.Lexicon) {
		if err := apperr.ValidatePath(c.Lexicon); err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "lexicon")
		}
	}
	return nil
}

func checkDuration(name, s string) error {
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "%s: invalid duration %q", name, s)
	}
	if d < 0 {
		return apperr.New(apperr.ErrCodeInvalidConfig, "%s must not be negative", name)
	}
	return nil
}

// Path returns the file the config was read from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

// GetLexiconTimeout returns the per-lookup timeout for remote lexicons.
func (c *Config) GetLexiconTimeout() time.Duration {
	d, err := time.ParseDuration(c.LexiconTimeout)
	if err != nil || d <= 0 {
		return lexicon.DefaultTimeout
	}
	return d
}

// GetCacheTTL returns the lifetime of cached results.
func (c *Config) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d <= 0 {
		return cache.TTLFormat
	}
	return d
}

// GetConcurrency returns the formatting worker limit.
func (c *Config) GetConcurrency() int {
	if c.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return c.Concurrency
}

// OpenLexicon opens the configured lexicon. Close the returned closer when
// done.
func (c *Config) OpenLexicon(logger *log.Logger) (lexicon.Lookup, io.Closer, error) {
	l, closer, err := lexicon.Open(c.Lexicon, c.GetLexiconTimeout(), logger)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.ErrCodeLexiconLoad, err, "open lexicon %s", c.Lexicon)
	}
	return l, closer, nil
}

// TMRConfig returns the classification setup for a formatter.
func (c *Config) TMRConfig(lookup lexicon.Lookup) tmr.Config {
	return tmr.Config{
		RelationKeys:  slices.Clone(c.RelationKeys),
		AuxiliaryKeys: slices.Clone(c.AuxiliaryKeys),
		Lexicon:       lookup,
	}
}

// fingerprint is the part of the config that changes formatted output.
type fingerprint struct {
	RelationKeys  []string `json:"relation_keys"`
	AuxiliaryKeys []string `json:"auxiliary_keys"`
	Lexicon       string   `json:"lexicon"`
	LexiconHash   string   `json:"lexicon_hash,omitempty"`
}

// Fingerprint hashes every setting that affects formatted output. File
// lexicons contribute their content, so editing the file invalidates
// cached results; remote lexicons contribute only their URL.
func (c *Config) Fingerprint() string {
	fp := fingerprint{
		RelationKeys:  normalizedSet(c.RelationKeys),
		AuxiliaryKeys: normalizedSet(c.AuxiliaryKeys),
		Lexicon:       c.Lexicon,
	}
	if c.Lexicon != "" && !lexicon.IsRemote(c.Lexicon) {
		if data, err := os.ReadFile(c.Lexicon); err == nil {
			fp.LexiconHash = cache.Hash(data)
		}
	}
	data, _ := json.Marshal(fp)
	return cache.Hash(data)
}

// normalizedSet returns the sorted, de-duplicated normalized keys.
func normalizedSet(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = tmr.NormalizeKey(k)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
