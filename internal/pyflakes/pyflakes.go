// Package pyflakes adapts the pyflakes command line tool to diag.Source.
// The analyzer reads the buffer on stdin and reports one finding per line;
// only the two kinds the rewriter understands are kept, everything else the
// analyzer prints is dropped.
package pyflakes

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"sweep/internal/diag"
)

// DefaultExecutable is looked up on PATH when Runner.Path is empty.
const DefaultExecutable = "pyflakes"

var (
	// reportRE matches "file:row:col: message"; the column is absent in
	// older analyzer versions.
	reportRE   = regexp.MustCompile(`^[^:]*:(\d+):(?:\d+:?)?\s*(.+)$`)
	importRE   = regexp.MustCompile(`^'(.+?)' imported but unused`)
	variableRE = regexp.MustCompile(`^local variable '(\w+)' is assigned to but never used`)
)

// Runner executes the analyzer once per buffer.
type Runner struct {
	// Path to the executable; empty means DefaultExecutable on PATH.
	Path string
}

// Diagnose feeds source to the analyzer and parses its report. The analyzer
// exits nonzero whenever it has findings, so the exit status alone is not an
// error; a run that produced no parseable findings and failed is.
func (r *Runner) Diagnose(ctx context.Context, source string) ([]diag.Diagnostic, error) {
	cmd := exec.CommandContext(ctx, r.executable())
	cmd.Stdin = strings.NewReader(source)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	findings := Parse(stdout.String())
	if runErr != nil && len(findings) == 0 {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("pyflakes: %s: %w", firstLine(msg), runErr)
		}
		return nil, fmt.Errorf("pyflakes: %w", runErr)
	}
	return findings, nil
}

func (r *Runner) executable() string {
	if r.Path != "" {
		return r.Path
	}
	return DefaultExecutable
}

// Parse extracts diagnostics from an analyzer report. Unparseable lines and
// finding kinds outside the rewriter's scope are skipped.
func Parse(report string) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, line := range strings.Split(report, "\n") {
		m := reportRE.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		row64, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || row64 < 1 {
			continue
		}
		row, err := safecast.Conv[int](row64)
		if err != nil {
			continue
		}
		message := m[2]
		if im := importRE.FindStringSubmatch(message); im != nil {
			// Алиас остаётся в символе: "a.c as d" должен совпасть с
			// соответствующей частью from-импорта дословно.
			out = append(out, diag.Diagnostic{
				Kind:   diag.UnusedImport,
				Line:   row,
				Symbol: strings.TrimSpace(im[1]),
			})
			continue
		}
		if vm := variableRE.FindStringSubmatch(message); vm != nil {
			out = append(out, diag.Diagnostic{
				Kind:   diag.UnusedVariable,
				Line:   row,
				Symbol: vm[1],
			})
		}
	}
	return out
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
