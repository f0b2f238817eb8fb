// Package diag models the diagnostics the rewriter consumes. sweep never
// produces findings of its own; they arrive from an external analyzer.
package diag

import "context"

// Kind классифицирует диагностику внешнего анализатора.
type Kind uint8

const (
	// UnusedImport flags an import statement line with an unused module.
	UnusedImport Kind = iota
	// UnusedVariable flags an assignment or except-binding of an unused name.
	UnusedVariable
)

func (k Kind) String() string {
	switch k {
	case UnusedImport:
		return "unused-import"
	case UnusedVariable:
		return "unused-variable"
	}
	return "unknown"
}

// Diagnostic is one finding. Line is 1-based and valid only against the
// exact source text the finding was computed from; line numbers are never
// carried across rewrite iterations.
type Diagnostic struct {
	Kind   Kind
	Line   int
	Symbol string // dotted module path for imports, variable name for bindings
}

// Source produces diagnostics for a source buffer. Implementations run the
// external analyzer; tests supply fakes. A failed analysis may return an
// error, which callers treat as "no findings" rather than a hard failure.
type Source interface {
	Diagnose(ctx context.Context, source string) ([]Diagnostic, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context, source string) ([]Diagnostic, error)

func (f SourceFunc) Diagnose(ctx context.Context, source string) ([]Diagnostic, error) {
	return f(ctx, source)
}
