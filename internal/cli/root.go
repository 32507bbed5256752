package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes.
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitRuntimeError = 4
)

var rootCmd = &cobra.Command{
	Use:   "prdoc",
	Short: "Render git branch changes as a markdown report",
	Long: "Prdoc compares two git revisions and writes a markdown document with\n" +
		"full content for new files, compacted unified diffs for modified files,\n" +
		"and summary statistics. Running prdoc with no subcommand generates a report.",
	Run: runGenerate,
}

// Run executes the root command and returns an exit code.
func Run() int {
	addGenerateFlags(rootCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print prdoc version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "prdoc version %s\n", version)
	},
}
