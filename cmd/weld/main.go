// Package main implements the weld CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"weld/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "weld",
	Short: "Weld flattens module source trees into one file",
	Long: `Weld discovers the transitive imports of one or more entry files,
orders every file after its dependencies, and emits a single
self-contained source file with imports stripped and pragmas
deduplicated.`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(flattenCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
