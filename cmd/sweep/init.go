package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Create a sweep.toml manifest",
	Long: `Create a sweep.toml manifest with the fix defaults for a project. If
[path|name] is omitted, initializes the current directory. If a non-existing
name is provided, a directory will be created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// runInit resolves the target directory (creating it when needed), derives a
// project name from the directory basename, and writes a sweep.toml unless
// one already exists.
func runInit(cmd *cobra.Command, args []string) error {
	// Resolve target directory
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		// treat as path or name relative to cwd
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

	// Ensure directory exists
	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	// Determine project name from directory basename
	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "sweep-project"
	}

	manifestPath := filepath.Join(target, "sweep.toml")
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	if err := os.WriteFile(manifestPath, []byte(buildDefaultManifest(name)), os.FileMode(0o600)); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "Initialized sweep project in %s\n", rel)
	fmt.Fprintf(os.Stdout, "  - sweep.toml\n")
	return nil
}

// buildDefaultManifest returns the starter sweep.toml for a project with the
// given name. Everything it sets matches the tool's defaults, so the file is
// documentation until edited.
func buildDefaultManifest(name string) string {
	return fmt.Sprintf(`# sweep project manifest
[package]
name = "%s"

[imports]
# Project-local module names safe to auto-remove, e.g. ["%s"].
additional = []

[fix]
remove_all_unused_imports = false
remove_unused_variables = false
# Glob patterns matched against file names and slash paths.
exclude = []
`, name, name)
}
