package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"srccheck/internal/version"
)

// errFailed is returned when the check found violations or lint failed.
// The diagnostics were already printed, so main exits without a message.
var errFailed = errors.New("check failed")

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "srccheck [flags] [file ...]",
		Short: "Source style checker for the shg library",
		Long: `srccheck scans C++ sources for style violations, checks that the
version number agrees across the project and runs the external lint tool.
Without file arguments the whole project is checked.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
		RunE:          runCheck,
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newRulesCmd())

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	f := rootCmd.Flags()
	f.String("root", "", "project root (default: directory of srccheck.toml)")
	f.String("config", "", "path to srccheck.toml")
	f.String("format", "text", "output format (text|short|json)")
	f.Int("jobs", 0, "parallel scan workers (0 = from config or GOMAXPROCS)")
	f.Bool("no-lint", false, "skip the external lint tool")
	f.Bool("cache", false, "reuse per-file results from the disk cache")
	f.Bool("clear-cache", false, "drop every cached result before checking")
	f.String("ui", "off", "show progress UI (auto|on|off)")
	f.Bool("timings", false, "show timing information")
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "srccheck: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
