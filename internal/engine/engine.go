// Package engine drives source buffers to a fixed point: analyze, rewrite
// the flagged lines, compact redundant placeholders, repeat until a round
// changes nothing.
package engine

import (
	"context"
	"fmt"
	"strings"

	"sweep/internal/diag"
	"sweep/internal/observ"
	"sweep/internal/registry"
	"sweep/internal/rewrite"
	"sweep/internal/source"
)

// DefaultMaxIterations bounds the fixed-point loop. Each round strictly
// shrinks or stabilizes the buffer in practice; the cap only guards against
// an analyzer that oscillates.
const DefaultMaxIterations = 1000

// Policy selects which findings become rewrites.
type Policy struct {
	// AdditionalImports extends the removal registry with project-local
	// module names.
	AdditionalImports []string
	// RemoveAllImports drops the registry check and removes any reported
	// unused import, third-party ones included.
	RemoveAllImports bool
	// RemoveVariables enables rewriting of unused local bindings.
	RemoveVariables bool
}

// Engine holds the pieces of one fix pipeline. Safe for concurrent use: all
// fields are read-only after construction and FixCode keeps its state on the
// stack.
type Engine struct {
	Registry *registry.Registry
	Source   diag.Source
	Policy   Policy

	// MaxIterations caps the analyze/rewrite rounds; zero means
	// DefaultMaxIterations.
	MaxIterations int

	// Timer, when set, records one phase per FixCode call.
	Timer *observ.Timer
}

// FixCode rewrites src until no round changes it and returns the result.
// Lines the analyzer never flagged come back byte-identical. The only error
// returned is context cancellation; an analyzer failure reads as "no
// findings" and leaves the buffer alone.
func (e *Engine) FixCode(ctx context.Context, src string) (string, error) {
	if src == "" {
		return "", nil
	}

	reg := e.Registry.With(e.Policy.AdditionalImports...)

	// Removing a binding read through nonlocal would change behavior, and
	// line-local rewriting cannot see the reading scope. One occurrence
	// anywhere disables variable removal for the whole buffer.
	removeVars := e.Policy.RemoveVariables && !strings.Contains(src, "nonlocal")

	limit := e.MaxIterations
	if limit <= 0 {
		limit = DefaultMaxIterations
	}

	phase := e.Timer.Begin("fix")
	rounds := 0
	for ; rounds < limit; rounds++ {
		if err := ctx.Err(); err != nil {
			e.Timer.End(phase, fmt.Sprintf("canceled after %d rounds", rounds))
			return src, err
		}
		filtered := rewrite.CompactPasses(e.filterCode(ctx, src, reg, removeVars))
		if filtered == src {
			break
		}
		src = filtered
	}
	e.Timer.End(phase, fmt.Sprintf("%d rounds", rounds))
	return src, nil
}

// Relevant reports whether the policy would act on one finding. The check
// command uses it to count only what a fix run would actually remove.
func (e *Engine) Relevant(d diag.Diagnostic) bool {
	switch d.Kind {
	case diag.UnusedVariable:
		return e.Policy.RemoveVariables
	case diag.UnusedImport:
		if e.Policy.RemoveAllImports {
			return true
		}
		reg := e.Registry.With(e.Policy.AdditionalImports...)
		return reg.Contains(topLevelName(d.Symbol))
	}
	return false
}

// topLevelName reduces a reported import symbol ("a.c as d") to the package
// name the eligibility check keys on ("a").
func topLevelName(symbol string) string {
	if i := strings.Index(symbol, " as "); i >= 0 {
		symbol = symbol[:i]
	}
	name, _, _ := strings.Cut(strings.TrimSpace(symbol), ".")
	return name
}

// filterCode runs one analyze/rewrite round over src.
func (e *Engine) filterCode(ctx context.Context, src string, reg *registry.Registry, removeVars bool) string {
	items, err := e.Source.Diagnose(ctx, src)
	if err != nil {
		// A buffer the analyzer cannot process is left exactly as it came.
		items = nil
	}

	imports := diag.ByLine(items, diag.UnusedImport)
	variables := map[int][]diag.Diagnostic{}
	if removeVars {
		variables = diag.ByLine(items, diag.UnusedVariable)
	}
	if len(imports) == 0 && len(variables) == 0 {
		return src
	}

	var b strings.Builder
	b.Grow(len(src))
	previous := ""
	for i, line := range source.SplitLines(src) {
		row := i + 1
		out := line
		switch {
		case strings.Contains(line, "#"):
			// Commented lines are never rewritten.
		case len(imports[row]) > 0:
			out = rewrite.RewriteImport(line, symbols(imports[row]), e.Policy.RemoveAllImports, reg, previous)
		case len(variables[row]) > 0:
			out = rewrite.RewriteVariable(line, previous)
		}
		b.WriteString(out)
		previous = line
	}
	return b.String()
}

func symbols(items []diag.Diagnostic) []string {
	out := make([]string, len(items))
	for i, d := range items {
		out[i] = d.Symbol
	}
	return out
}
