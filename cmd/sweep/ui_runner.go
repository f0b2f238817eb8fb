package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"sweep/internal/driver"
	"sweep/internal/ui"
)

// useProgressUI decides whether a batch runs under the interactive view.
// Diff mode streams diffs to stdout, which the renderer would interleave
// with, and a single file has nothing to animate, so only in-place runs over
// several files qualify.
func useProgressUI(value string, inPlace bool, files int) (bool, error) {
	var want bool
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		want = isTerminal(os.Stdout)
	case "on":
		want = true
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
	return want && inPlace && files > 1, nil
}

type fixOutcome struct {
	results []driver.Result
	err     error
}

// runFixPathsWithUI runs the batch under the interactive progress view.
func runFixPathsWithUI(ctx context.Context, title string, d *driver.Driver, paths []string, jobs int) ([]driver.Result, error) {
	sink := driver.NewChannelSink(256)
	outcomeCh := make(chan fixOutcome, 1)

	go func() {
		results, err := d.FixPaths(ctx, paths, jobs, sink)
		outcomeCh <- fixOutcome{results: results, err: err}
		sink.Close()
	}()

	model := ui.NewProgressModel(title, paths, sink.C)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
