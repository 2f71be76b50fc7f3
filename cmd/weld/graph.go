package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"weld/internal/flatten"
)

var graphCmd = &cobra.Command{
	Use:   "graph [flags] <file>...",
	Short: "Print the dependency-ordered file list without flattening",
	RunE:  graphExecution,
}

func graphExecution(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: weld graph [flags] <file>...")
		return nil
	}
	rootOverride, err := cmd.Flags().GetString("root")
	if err != nil {
		return err
	}
	names, err := flatten.SortedNames(flatten.Options{
		Entries: args,
		Root:    rootOverride,
	})
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	graphCmd.Flags().String("root", "", "explicit project root (default: nearest weld.toml)")
}
