package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/prdoc/prdoc/internal/config"
	"github.com/prdoc/prdoc/internal/gitrepo"
	"github.com/prdoc/prdoc/internal/output"
	"github.com/prdoc/prdoc/internal/report"
)

// Generate flags, shared between the root command and `prdoc generate`.
var (
	flagBase         string
	flagBaseCommit   string
	flagCurrent      string
	flagOutput       string
	flagMaxFileSize  int
	flagContextLines int
	flagMaxUnchanged int
	flagWorkers      int
	flagIncludeExt   string
	flagExclude      string
	flagVerbose      bool
)

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagBase, "base", "", "Base branch to compare against (uses its merge base with current)")
	cmd.Flags().StringVar(&flagBaseCommit, "base-commit", "", "Explicit base commit to compare against")
	cmd.Flags().StringVar(&flagCurrent, "current", "", "Current branch or commit (default: HEAD)")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "changes.md", "Output file path (\"-\" for stdout)")
	cmd.Flags().IntVar(&flagMaxFileSize, "max-file-size", 0, "Maximum file size shown in full (bytes)")
	cmd.Flags().IntVar(&flagContextLines, "context-lines", 0, "Number of context lines in diffs")
	cmd.Flags().IntVar(&flagMaxUnchanged, "max-unchanged", 0, "Context lines kept before a run is elided")
	cmd.Flags().IntVar(&flagWorkers, "workers", 0, "Parallel per-file workers")
	cmd.Flags().StringVar(&flagIncludeExt, "include-extensions", "", "File extensions to include (comma-separated)")
	cmd.Flags().StringVar(&flagExclude, "exclude-patterns", "", "Patterns to exclude (comma-separated)")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a markdown report of changes between two revisions",
	Run:   runGenerate,
}

func init() {
	addGenerateFlags(generateCmd)
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagMaxFileSize > 0 {
		m["maxFileSize"] = fmt.Sprintf("%d", flagMaxFileSize)
	}
	if flagContextLines > 0 {
		m["contextLines"] = fmt.Sprintf("%d", flagContextLines)
	}
	if flagMaxUnchanged > 0 {
		m["maxUnchanged"] = fmt.Sprintf("%d", flagMaxUnchanged)
	}
	if flagWorkers > 0 {
		m["workers"] = fmt.Sprintf("%d", flagWorkers)
	}
	if flagIncludeExt != "" {
		m["includeExtensions"] = flagIncludeExt
	}
	if flagExclude != "" {
		m["excludePatterns"] = flagExclude
	}
	return m
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	level := os.Getenv("PRDOC_LOG_LEVEL")
	switch {
	case flagVerbose:
		logger.SetLevel(log.DebugLevel)
	case strings.EqualFold(level, "debug"):
		logger.SetLevel(log.DebugLevel)
	case strings.EqualFold(level, "warn"), strings.EqualFold(level, "warning"):
		logger.SetLevel(log.WarnLevel)
	case strings.EqualFold(level, "error"):
		logger.SetLevel(log.ErrorLevel)
	}
	return logger
}

func runGenerate(cmd *cobra.Command, args []string) {
	if flagBase != "" && flagBaseCommit != "" {
		fmt.Fprintln(os.Stderr, "Error: --base and --base-commit are mutually exclusive")
		exitCode = ExitUsageError
		return
	}

	logger := newLogger()

	cfg, err := config.Load(buildOverrides())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	ctx := context.Background()
	git := gitrepo.New()
	if !git.IsRepo(ctx) {
		fmt.Fprintln(os.Stderr, "Error: not a git repository")
		exitCode = ExitRuntimeError
		return
	}

	engine := report.New(git, cfg, logger)
	rep, err := engine.Run(ctx, gitrepo.ResolveOptions{
		Base:       flagBase,
		BaseCommit: flagBaseCommit,
		Current:    flagCurrent,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, gitrepo.ErrUnresolvable) {
			fmt.Fprintln(os.Stderr, "Hint: specify --base <branch> or --base-commit <hash>")
		}
		exitCode = ExitRuntimeError
		return
	}

	if err := output.WriteReport(rep, flagOutput); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	logger.Info("report generated", "output", flagOutput, "files", rep.Counts.Total())
}
