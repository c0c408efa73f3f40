// Package config loads srccheck.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"srccheck/internal/discover"
	"srccheck/internal/lint"
	"srccheck/internal/rules"
	"srccheck/internal/vercheck"
)

// FileName is the configuration file looked up from the working directory upwards.
const FileName = "srccheck.toml"

// ErrInvalid marks configuration values that fail validation.
var ErrInvalid = errors.New("invalid configuration")

// Config is the decoded project configuration. Every key is optional.
type Config struct {
	Path string `toml:"-"` // file the config was read from, empty for defaults
	Root string `toml:"root"`

	Check   CheckConfig   `toml:"check"`
	Version VersionConfig `toml:"version"`
	Lint    LintConfig    `toml:"lint"`
	Cache   CacheConfig   `toml:"cache"`
}

type CheckConfig struct {
	MaxLineLength int      `toml:"max_line_length"`
	LengthMode    string   `toml:"length_mode"`
	Patterns      []string `toml:"patterns"`
	Jobs          int      `toml:"jobs"`
}

type VersionConfig struct {
	Enabled bool            `toml:"enabled"`
	Sources []VersionSource `toml:"source"`
}

type VersionSource struct {
	Path    string `toml:"path"`
	Pattern string `toml:"pattern"`
}

type LintConfig struct {
	Enabled    bool     `toml:"enabled"`
	Command    string   `toml:"command"`
	Quiet      bool     `toml:"quiet"`
	LineLength int      `toml:"line_length"`
	Filters    []string `toml:"filters"`
	Args       []string `toml:"args"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Default returns the configuration of the canonical checker rooted at root.
func Default(root string) *Config {
	lintOpts := lint.DefaultOptions()
	sources := vercheck.DefaultSources()
	vs := make([]VersionSource, len(sources))
	for i, s := range sources {
		vs[i] = VersionSource{Path: s.Path, Pattern: s.Pattern.String()}
	}
	return &Config{
		Root: root,
		Check: CheckConfig{
			MaxLineLength: rules.DefaultMaxLineLength,
			LengthMode:    rules.LengthRunes.String(),
			Patterns:      append([]string(nil), discover.DefaultPatterns...),
		},
		Version: VersionConfig{Enabled: true, Sources: vs},
		Lint: LintConfig{
			Enabled:    true,
			Command:    lintOpts.Command,
			Quiet:      lintOpts.Quiet,
			LineLength: lintOpts.LineLength,
			Filters:    lintOpts.Filters,
		},
	}
}

// Find walks up from startDir to locate srccheck.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load resolves the configuration. An explicit path must exist; otherwise
// srccheck.toml is searched upwards from startDir and, when absent, the
// defaults rooted at startDir are used.
func Load(startDir, explicitPath string) (*Config, error) {
	path := explicitPath
	if path == "" {
		found, ok, err := Find(startDir)
		if err != nil {
			return nil, err
		}
		if !ok {
			root, err := filepath.Abs(orDot(startDir))
			if err != nil {
				return nil, fmt.Errorf("failed to resolve start directory: %w", err)
			}
			return Default(root), nil
		}
		path = found
	}
	return LoadFile(path)
}

// LoadFile decodes path over the defaults and validates the result.
// A relative root is resolved against the directory holding the file.
func LoadFile(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	dir := filepath.Dir(abs)
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	cfg := Default("")
	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", abs, err)
	}
	if meta.IsDefined("version", "source") {
		// tables decoded over the defaults would inherit their missing keys
		var fresh Config
		if _, err := toml.Decode(string(data), &fresh); err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", abs, err)
		}
		cfg.Version.Sources = fresh.Version.Sources
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: %w: unknown keys %s", abs, ErrInvalid, strings.Join(keys, ", "))
	}
	cfg.Path = abs
	switch {
	case !meta.IsDefined("root") || cfg.Root == "":
		cfg.Root = dir
	case !filepath.IsAbs(cfg.Root):
		cfg.Root = filepath.Join(dir, filepath.FromSlash(cfg.Root))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", abs, err)
	}
	return cfg, nil
}

// Validate checks value ranges and compiles patterns.
func (c *Config) Validate() error {
	if c.Check.MaxLineLength <= 0 {
		return fmt.Errorf("%w: [check].max_line_length must be positive", ErrInvalid)
	}
	if _, err := rules.ParseLengthMode(c.Check.LengthMode); err != nil {
		return fmt.Errorf("%w: [check].length_mode: %v", ErrInvalid, err)
	}
	if c.Check.Jobs < 0 {
		return fmt.Errorf("%w: [check].jobs must not be negative", ErrInvalid)
	}
	for _, p := range c.Check.Patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return fmt.Errorf("%w: [check].patterns: %q: %v", ErrInvalid, p, err)
		}
	}
	if _, err := c.VersionSources(); err != nil {
		return err
	}
	if c.Lint.Enabled && strings.TrimSpace(c.Lint.Command) == "" {
		return fmt.Errorf("%w: [lint].command is empty", ErrInvalid)
	}
	return nil
}

// RuleOptions returns the text scanner options.
func (c *Config) RuleOptions() rules.Options {
	mode, err := rules.ParseLengthMode(c.Check.LengthMode)
	if err != nil {
		mode = rules.LengthRunes
	}
	return rules.Options{MaxLineLength: c.Check.MaxLineLength, LengthMode: mode}
}

// LintOptions returns the external lint command settings.
func (c *Config) LintOptions() lint.Options {
	return lint.Options{
		Command:    c.Lint.Command,
		Quiet:      c.Lint.Quiet,
		LineLength: c.Lint.LineLength,
		Filters:    c.Lint.Filters,
		Args:       c.Lint.Args,
	}
}

// VersionSources compiles the configured version sources.
func (c *Config) VersionSources() ([]vercheck.Source, error) {
	out := make([]vercheck.Source, 0, len(c.Version.Sources))
	for i, s := range c.Version.Sources {
		if strings.TrimSpace(s.Path) == "" {
			return nil, fmt.Errorf("%w: [[version.source]] #%d: missing path", ErrInvalid, i+1)
		}
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: [[version.source]] %s: %v", ErrInvalid, s.Path, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("%w: [[version.source]] %s: pattern needs a capture group", ErrInvalid, s.Path)
		}
		out = append(out, vercheck.Source{Path: s.Path, Pattern: re})
	}
	if c.Version.Enabled && len(out) == 0 {
		return nil, fmt.Errorf("%w: version check enabled without sources", ErrInvalid)
	}
	return out, nil
}

func orDot(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
