// Package difffmt renders the changes a fix run would make as unified diffs
// for the non-in-place mode.
package difffmt

import (
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"

	"sweep/internal/source"
)

// noNewlineMarker keeps a missing final terminator visible in the diff, the
// way patch tools render it.
const noNewlineMarker = "\\ No newline at end of file\n"

// Unified returns a unified diff between the original and fixed contents of
// path, or "" when they are identical.
func Unified(path, original, fixed string) (string, error) {
	if original == fixed {
		return "", nil
	}
	ud := difflib.UnifiedDiff{
		A:        splitForDiff(original),
		B:        splitForDiff(fixed),
		FromFile: "original/" + path,
		ToFile:   "fixed/" + path,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(ud)
}

// splitForDiff splits text into terminator-carrying lines the differ
// accepts. An unterminated final line gets a terminator plus the marker
// pseudo-line so the two cases stay distinguishable in output.
func splitForDiff(text string) []string {
	if text == "" {
		return nil
	}
	lines := source.SplitLines(text)
	last := lines[len(lines)-1]
	if !strings.HasSuffix(last, "\n") {
		lines[len(lines)-1] = last + "\n"
		lines = append(lines, noNewlineMarker)
	}
	return lines
}

var (
	headerColor  = color.New(color.Bold)
	hunkColor    = color.New(color.FgCyan)
	addedColor   = color.New(color.FgGreen)
	removedColor = color.New(color.FgRed)
)

// Colorize styles a unified diff for terminal output. Respects the global
// color.NoColor switch.
func Colorize(diff string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			b.WriteString(headerColor.Sprint(body))
		case strings.HasPrefix(line, "@@"):
			b.WriteString(hunkColor.Sprint(body))
		case strings.HasPrefix(line, "+"):
			b.WriteString(addedColor.Sprint(body))
		case strings.HasPrefix(line, "-"):
			b.WriteString(removedColor.Sprint(body))
		default:
			b.WriteString(body)
		}
		if strings.HasSuffix(line, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
