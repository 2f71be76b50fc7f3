package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"weld/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new weld project",
	Long: `Initialize a new weld project by creating a project manifest (weld.toml)
and an example entry point. If [path|name] is omitted, initializes the
current directory. If a non-existing name is provided, a directory will
be created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

const initManifestTemplate = `[package]
name = %q

[resolve]
deps_dirs = ["node_modules", "lib"]
`

const initEntryFile = `pragma solidity ^0.8.20;

contract Main {
}
`

func runInit(cmd *cobra.Command, args []string) error {
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("target %q exists and is not a directory", target)
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("%s already exists in %q", project.ManifestName, target)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	name := filepath.Base(target)
	manifest := fmt.Sprintf(initManifestTemplate, name)
	if err := os.WriteFile(manifestPath, []byte(manifest), 0o644); err != nil {
		return err
	}

	entryDir := filepath.Join(target, "contracts")
	if err := os.MkdirAll(entryDir, 0o755); err != nil {
		return err
	}
	entryPath := filepath.Join(entryDir, "main.sol")
	if err := os.WriteFile(entryPath, []byte(initEntryFile), 0o644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", manifestPath)
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", entryPath)
	return nil
}
