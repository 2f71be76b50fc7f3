package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"weld/internal/flatten"
	"weld/internal/resolve"
)

var flattenCmd = &cobra.Command{
	Use:   "flatten [flags] <file>...",
	Short: "Flatten entry files and their imports into one bundle",
	Long: `Flatten resolves the transitive imports of the given entry files,
topologically sorts them, and emits a single concatenated file with
import statements stripped and pragma directives deduplicated at the top.`,
	RunE: flattenExecution,
}

func flattenExecution(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: weld flatten [flags] <file>...")
		return nil
	}

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	rootOverride, err := cmd.Flags().GetString("root")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}

	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	opts := flatten.Options{
		Entries: args,
		Root:    rootOverride,
		Jobs:    jobs,
	}
	if !noCache {
		// Cache failures only cost speed, never correctness.
		if cache, cacheErr := resolve.OpenImportCache("weld"); cacheErr == nil {
			opts.Cache = cache
		}
	}

	var (
		sink   flatten.Sink
		closer io.Closer
	)
	if outputPath != "" {
		sink, closer, err = flatten.FileSink(outputPath, os.Stdout)
		if err != nil {
			return err
		}
	} else {
		sink = flatten.StdoutSink()
	}

	// The TUI draws to stdout, so it is only usable with --output.
	useTUI := outputPath != "" && shouldUseTUI(uiModeValue)
	if useTUI {
		err = runFlattenWithUI(cmd.Context(), "weld flatten", sink, args, opts)
	} else {
		err = flatten.FlattenTo(cmd.Context(), sink, opts)
	}
	if closer != nil {
		if closeErr := closer.Close(); err == nil {
			err = closeErr
		}
	}
	if err != nil {
		return err
	}

	if outputPath != "" {
		success := color.New(color.FgGreen)
		fmt.Fprintf(os.Stdout, "flattened %s\n", success.Sprint(outputPath))
	}
	return nil
}

func init() {
	flattenCmd.Flags().StringP("output", "o", "", "write the bundle to a file instead of stdout")
	flattenCmd.Flags().String("root", "", "explicit project root (default: nearest weld.toml)")
	flattenCmd.Flags().String("ui", "auto", "progress interface (auto|on|off)")
	flattenCmd.Flags().Bool("no-cache", false, "skip the on-disk import cache")
	flattenCmd.Flags().Int("jobs", 0, "parallel body cleaning during emission (0 = GOMAXPROCS)")
}
