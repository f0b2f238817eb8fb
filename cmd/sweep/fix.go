package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sweep/internal/difffmt"
	"sweep/internal/driver"
	"sweep/internal/engine"
	"sweep/internal/observ"
	"sweep/internal/project"
	"sweep/internal/pyflakes"
	"sweep/internal/registry"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.py|directory>...",
	Short: "Rewrite lines flagged by the analyzer",
	Long: `Run the external analyzer over the given files, remove unused imports and
(optionally) unused local bindings, and repeat until nothing changes. Without
--in-place the changes are printed as unified diffs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().BoolP("in-place", "i", false, "write changes back instead of printing diffs")
	fixCmd.Flags().BoolP("recursive", "r", false, "descend into directories")
	fixCmd.Flags().String("imports", "", "comma-separated module names treated as removable")
	fixCmd.Flags().Bool("remove-all-unused-imports", false, "remove unused imports regardless of origin")
	fixCmd.Flags().Bool("remove-unused-variables", false, "remove unused local bindings")
	fixCmd.Flags().Int("jobs", 0, "number of files fixed in parallel (0 = all CPUs)")
	fixCmd.Flags().Bool("cache", true, "skip files already known to be clean")
	fixCmd.Flags().String("analyzer", "", "path to the pyflakes executable")
	fixCmd.Flags().String("ui", "auto", "interactive progress (auto|on|off)")
}

// buildPolicy merges the command line with the sweep.toml manifest, flags
// winning over the manifest. Shared by fix and check.
func buildPolicy(cmd *cobra.Command) (engine.Policy, *project.Manifest, error) {
	imports, err := cmd.Flags().GetString("imports")
	if err != nil {
		return engine.Policy{}, nil, err
	}
	removeAll, err := cmd.Flags().GetBool("remove-all-unused-imports")
	if err != nil {
		return engine.Policy{}, nil, err
	}
	removeVars, err := cmd.Flags().GetBool("remove-unused-variables")
	if err != nil {
		return engine.Policy{}, nil, err
	}

	if removeAll && imports != "" {
		return engine.Policy{}, nil, fmt.Errorf("--imports makes no sense with --remove-all-unused-imports")
	}

	manifest, ok, err := project.Load(".")
	if err != nil {
		return engine.Policy{}, nil, err
	}
	if !ok {
		manifest = nil
	}

	policy := engine.Policy{
		RemoveAllImports: removeAll,
		RemoveVariables:  removeVars,
	}
	if manifest != nil {
		policy.RemoveAllImports = policy.RemoveAllImports || manifest.Config.Fix.RemoveAllUnusedImports
		policy.RemoveVariables = policy.RemoveVariables || manifest.Config.Fix.RemoveUnusedVariables
		policy.AdditionalImports = append(policy.AdditionalImports, manifest.Config.Imports.Additional...)
	}
	for _, name := range strings.Split(imports, ",") {
		if name = strings.TrimSpace(name); name != "" {
			policy.AdditionalImports = append(policy.AdditionalImports, name)
		}
	}
	return policy, manifest, nil
}

// collectTargets expands the positional arguments, honoring the manifest's
// exclude patterns.
func collectTargets(cmd *cobra.Command, args []string, manifest *project.Manifest) ([]string, error) {
	recursive, err := cmd.Flags().GetBool("recursive")
	if err != nil {
		return nil, err
	}
	var excluded func(string) bool
	if manifest != nil {
		excluded = manifest.Config.Excluded
	}
	return driver.ExpandPaths(args, recursive, excluded)
}

func newAnalyzer(cmd *cobra.Command) (*pyflakes.Runner, error) {
	path, err := cmd.Flags().GetString("analyzer")
	if err != nil {
		return nil, err
	}
	return &pyflakes.Runner{Path: path}, nil
}

func runFix(cmd *cobra.Command, args []string) error {
	if err := applyColorMode(cmd); err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}
	inPlace, err := cmd.Flags().GetBool("in-place")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}

	policy, manifest, err := buildPolicy(cmd)
	if err != nil {
		return err
	}
	files, err := collectTargets(cmd, args, manifest)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		if !quiet {
			fmt.Fprintln(os.Stdout, "no Python files to fix")
		}
		return nil
	}

	analyzer, err := newAnalyzer(cmd)
	if err != nil {
		return err
	}

	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
	}

	var cache *driver.DiskCache
	if useCache && inPlace {
		// Кэш имеет смысл только при записи: diff-режим всегда пересчитывает.
		if cache, err = driver.OpenDiskCache("sweep"); err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
	}

	d := &driver.Driver{
		Engine: &engine.Engine{
			Registry: registry.New(),
			Source:   analyzer,
			Policy:   policy,
			Timer:    timer,
		},
		Cache:   cache,
		InPlace: inPlace,
	}

	useUI, err := useProgressUI(uiValue, inPlace, len(files))
	if err != nil {
		return err
	}

	var results []driver.Result
	if useUI {
		results, err = runFixPathsWithUI(cmd.Context(), "sweep fix", d, files, jobs)
	} else {
		results, err = d.FixPaths(cmd.Context(), files, jobs, nil)
	}
	if err != nil {
		return err
	}

	reportErr := reportFixResults(results, inPlace, quiet)
	if showTimings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	return reportErr
}

func reportFixResults(results []driver.Result, inPlace, quiet bool) error {
	var fixed, clean, cached, failed int
	for _, res := range results {
		switch {
		case res.Err != nil:
			failed++
			fmt.Fprintf(os.Stderr, "sweep: %v\n", res.Err)
		case res.Cached:
			cached++
		case !res.Changed:
			clean++
		default:
			fixed++
			if res.Diff != "" {
				fmt.Fprint(os.Stdout, difffmt.Colorize(res.Diff))
			} else if !quiet && inPlace {
				fmt.Fprintf(os.Stdout, "fixed %s\n", res.Path)
			}
		}
	}
	if !quiet {
		fmt.Fprintf(os.Stdout, "%d fixed, %d clean", fixed, clean)
		if cached > 0 {
			fmt.Fprintf(os.Stdout, " (%d cached)", cached)
		}
		if failed > 0 {
			fmt.Fprintf(os.Stdout, ", %d failed", failed)
		}
		fmt.Fprintln(os.Stdout)
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}
