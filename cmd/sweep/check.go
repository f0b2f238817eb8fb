package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sweep/internal/diag"
	"sweep/internal/driver"
	"sweep/internal/engine"
	"sweep/internal/registry"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.py|directory>...",
	Short: "Report what a fix run would remove, without rewriting anything",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().BoolP("recursive", "r", false, "descend into directories")
	checkCmd.Flags().String("imports", "", "comma-separated module names treated as removable")
	checkCmd.Flags().Bool("remove-all-unused-imports", false, "count unused imports regardless of origin")
	checkCmd.Flags().Bool("remove-unused-variables", false, "count unused local bindings")
	checkCmd.Flags().String("analyzer", "", "path to the pyflakes executable")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if err := applyColorMode(cmd); err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
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
	analyzer, err := newAnalyzer(cmd)
	if err != nil {
		return err
	}

	// Тот же движок, что и у fix: check обязан считать ровно то, что fix
	// удалил бы.
	eng := &engine.Engine{
		Registry: registry.New(),
		Source:   analyzer,
		Policy:   policy,
	}

	total := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		text, _ := driver.Decode(data)

		items, err := analyzer.Diagnose(cmd.Context(), text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sweep: %s: %v\n", path, err)
			continue
		}

		bag := diag.NewBag()
		for _, d := range items {
			if !eng.Relevant(d) {
				continue
			}
			bag.Add(d)
		}
		bag.Sort()
		for _, d := range bag.Items() {
			fmt.Fprintf(os.Stdout, "%s:%d: %s %q\n", path, d.Line, d.Kind, d.Symbol)
		}
		total += bag.Len()
	}

	if total == 0 {
		if !quiet {
			fmt.Fprintln(os.Stdout, "nothing to remove")
		}
		return nil
	}
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return fmt.Errorf("%d finding(s)", total)
}
