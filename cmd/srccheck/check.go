package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"srccheck/internal/cache"
	"srccheck/internal/checker"
	"srccheck/internal/config"
	"srccheck/internal/diagfmt"
	"srccheck/internal/lint"
	"srccheck/internal/source"
)

type checkFlags struct {
	root       string
	config     string
	format     diagfmt.Format
	color      bool
	jobs       int
	jobsSet    bool
	noLint     bool
	useCache   bool
	clearCache bool
	ui         uiMode
	timings    bool
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var (
		fl  checkFlags
		err error
	)
	f := cmd.Flags()
	if fl.root, err = f.GetString("root"); err != nil {
		return fl, err
	}
	if fl.config, err = f.GetString("config"); err != nil {
		return fl, err
	}
	formatStr, err := f.GetString("format")
	if err != nil {
		return fl, err
	}
	if fl.format, err = diagfmt.ParseFormat(strings.ToLower(formatStr)); err != nil {
		return fl, err
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fl, err
	}
	switch colorFlag {
	case "on":
		fl.color = true
	case "off":
	case "auto":
		fl.color = isTerminal(os.Stdout)
	default:
		return fl, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
	if fl.jobs, err = f.GetInt("jobs"); err != nil {
		return fl, err
	}
	fl.jobsSet = f.Changed("jobs")
	if fl.noLint, err = f.GetBool("no-lint"); err != nil {
		return fl, err
	}
	if fl.useCache, err = f.GetBool("cache"); err != nil {
		return fl, err
	}
	if fl.clearCache, err = f.GetBool("clear-cache"); err != nil {
		return fl, err
	}
	uiStr, err := f.GetString("ui")
	if err != nil {
		return fl, err
	}
	if fl.ui, err = readUIMode(uiStr); err != nil {
		return fl, err
	}
	if fl.timings, err = f.GetBool("timings"); err != nil {
		return fl, err
	}
	return fl, nil
}

// loadConfig reads srccheck.toml from --config, or searches for it upwards
// from --root or the working directory. --root overrides the configured root.
func loadConfig(fl checkFlags) (*config.Config, error) {
	start := fl.root
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		start = wd
	}
	cfg, err := config.Load(start, fl.config)
	if err != nil {
		return nil, err
	}
	if fl.root != "" {
		root, err := filepath.Abs(fl.root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve --root: %w", err)
		}
		cfg.Root = root
	}
	return cfg, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	fl, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(fl)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	sources, err := cfg.VersionSources()
	if err != nil {
		return err
	}
	req := checker.Request{
		Root:           cfg.Root,
		Files:          args,
		Patterns:       cfg.Check.Patterns,
		Rules:          cfg.RuleOptions(),
		VersionCheck:   cfg.Version.Enabled,
		VersionSources: sources,
		Jobs:           cfg.Check.Jobs,
		Lint:           lintRunner(cfg, fl, stdout, stderr),
	}
	if fl.jobsSet {
		req.Jobs = fl.jobs
	}
	if fl.useCache || fl.clearCache || cfg.Cache.Enabled {
		c, err := cache.Open("srccheck", cfg.Cache.Dir)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		if fl.clearCache {
			if err := c.DropAll(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
		}
		if fl.useCache || cfg.Cache.Enabled {
			req.Cache = c
		}
	}

	useUI := shouldUseTUI(fl.ui)
	text := diagfmt.NewTextWriter(stdout, diagfmt.TextOpts{
		Color: fl.color,
		Short: fl.format == diagfmt.FormatShort,
	})
	streaming := fl.format.Streaming() && !useUI
	if streaming {
		req.Reporter = text
	}

	var res checker.Result
	if useUI {
		res, err = runCheckWithUI(cmd.Context(), "srccheck "+displayRoot(cfg.Root), req)
	} else {
		res, err = checker.Run(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	switch {
	case fl.format == diagfmt.FormatJSON:
		if err := diagfmt.JSON(stdout, res.Bag, res.Lint); err != nil {
			return err
		}
	case !streaming:
		if err := text.WriteAll(res.Bag); err != nil {
			return err
		}
		fallthrough
	default:
		if err := text.Summary(res.Failed()); err != nil {
			return err
		}
	}

	if fl.timings {
		printTimings(stderr, res)
	}
	if res.Failed() {
		return errFailed
	}
	return nil
}

// lintRunner picks the lint runner; in JSON mode the tool's stdout is moved
// to stderr so the document stays parseable.
func lintRunner(cfg *config.Config, fl checkFlags, stdout, stderr io.Writer) lint.Runner {
	if fl.noLint || !cfg.Lint.Enabled {
		return lint.SkipRunner{}
	}
	runner := lint.NewExecRunner(cfg.LintOptions())
	runner.Stdout = stdout
	runner.Stderr = stderr
	if fl.format == diagfmt.FormatJSON {
		runner.Stdout = stderr
	}
	return runner
}

func displayRoot(root string) string {
	wd, err := os.Getwd()
	if err != nil {
		return root
	}
	rel, err := source.RelativePath(root, wd)
	if err != nil {
		return root
	}
	return rel
}
