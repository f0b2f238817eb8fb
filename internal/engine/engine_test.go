package engine

import (
	"context"
	"errors"
	"testing"

	"sweep/internal/diag"
	"sweep/internal/registry"
)

// scriptedSource maps exact buffer contents to findings; unknown buffers
// yield nothing, like a clean analysis.
type scriptedSource map[string][]diag.Diagnostic

func (s scriptedSource) Diagnose(_ context.Context, src string) ([]diag.Diagnostic, error) {
	return s[src], nil
}

func newEngine(src diag.Source, policy Policy) *Engine {
	return &Engine{
		Registry: registry.New(),
		Source:   src,
		Policy:   policy,
	}
}

func fix(t *testing.T, e *Engine, src string) string {
	t.Helper()
	got, err := e.FixCode(context.Background(), src)
	if err != nil {
		t.Fatalf("FixCode failed: %v", err)
	}
	return got
}

func TestFixCodeRemovesUnusedImport(t *testing.T) {
	script := scriptedSource{
		"import os\nprint('x')\n": {{Kind: diag.UnusedImport, Line: 1, Symbol: "os"}},
	}
	got := fix(t, newEngine(script, Policy{}), "import os\nprint('x')\n")
	if got != "print('x')\n" {
		t.Fatalf("got %q", got)
	}
}

func TestFixCodeSplitsThenRemoves(t *testing.T) {
	// A multi-module import takes two rounds: split first, then the fresh
	// analysis flags the unused half on its own line.
	script := scriptedSource{
		"import sys, os\nprint(sys.path)\n":          {{Kind: diag.UnusedImport, Line: 1, Symbol: "os"}},
		"import os\nimport sys\nprint(sys.path)\n":   {{Kind: diag.UnusedImport, Line: 1, Symbol: "os"}},
	}
	got := fix(t, newEngine(script, Policy{}), "import sys, os\nprint(sys.path)\n")
	if got != "import sys\nprint(sys.path)\n" {
		t.Fatalf("got %q", got)
	}
}

func TestFixCodeFiltersFromImport(t *testing.T) {
	script := scriptedSource{
		"from os import path, sep\nprint(sep)\n": {{Kind: diag.UnusedImport, Line: 1, Symbol: "os.path"}},
	}
	got := fix(t, newEngine(script, Policy{}), "from os import path, sep\nprint(sep)\n")
	if got != "from os import sep\nprint(sep)\n" {
		t.Fatalf("got %q", got)
	}
}

func TestFixCodeProtectsThirdPartyImports(t *testing.T) {
	src := "import requests\nprint('x')\n"
	script := scriptedSource{src: {{Kind: diag.UnusedImport, Line: 1, Symbol: "requests"}}}

	if got := fix(t, newEngine(script, Policy{}), src); got != src {
		t.Fatalf("third-party import removed: %q", got)
	}
	got := fix(t, newEngine(script, Policy{RemoveAllImports: true}), src)
	if got != "print('x')\n" {
		t.Fatalf("remove-all ignored: %q", got)
	}
}

func TestFixCodeAdditionalImports(t *testing.T) {
	src := "import myapp\nprint('x')\n"
	script := scriptedSource{src: {{Kind: diag.UnusedImport, Line: 1, Symbol: "myapp"}}}
	got := fix(t, newEngine(script, Policy{AdditionalImports: []string{"myapp"}}), src)
	if got != "print('x')\n" {
		t.Fatalf("got %q", got)
	}
}

func TestFixCodeRemovesUnusedVariable(t *testing.T) {
	src := "def f():\n    x = foo()\n    return 1\n"
	script := scriptedSource{src: {{Kind: diag.UnusedVariable, Line: 2, Symbol: "x"}}}

	got := fix(t, newEngine(script, Policy{RemoveVariables: true}), src)
	if got != "def f():\n    foo()\n    return 1\n" {
		t.Fatalf("got %q", got)
	}
	// Disabled policy ignores the finding.
	if got := fix(t, newEngine(script, Policy{}), src); got != src {
		t.Fatalf("variable removed despite policy: %q", got)
	}
}

func TestFixCodePlaceholderKeptAsSoleStatement(t *testing.T) {
	src := "def f():\n    x = 1\n"
	script := scriptedSource{src: {{Kind: diag.UnusedVariable, Line: 2, Symbol: "x"}}}
	got := fix(t, newEngine(script, Policy{RemoveVariables: true}), src)
	if got != "def f():\n    pass\n" {
		t.Fatalf("got %q", got)
	}
}

func TestFixCodeNonlocalDisablesVariableRemoval(t *testing.T) {
	src := "def f():\n    x = 1\n    def g():\n        nonlocal x\n"
	script := scriptedSource{src: {{Kind: diag.UnusedVariable, Line: 2, Symbol: "x"}}}
	if got := fix(t, newEngine(script, Policy{RemoveVariables: true}), src); got != src {
		t.Fatalf("nonlocal guard failed: %q", got)
	}
}

func TestFixCodeCommentedLineUntouched(t *testing.T) {
	src := "import os  # keep me\nprint('x')\n"
	script := scriptedSource{src: {{Kind: diag.UnusedImport, Line: 1, Symbol: "os"}}}
	if got := fix(t, newEngine(script, Policy{}), src); got != src {
		t.Fatalf("commented import rewritten: %q", got)
	}
}

func TestFixCodePreservesUnflaggedBytes(t *testing.T) {
	src := "import os\nx   =   'weird   spacing'\t\nprint( x )\n"
	script := scriptedSource{src: {{Kind: diag.UnusedImport, Line: 1, Symbol: "os"}}}
	got := fix(t, newEngine(script, Policy{}), src)
	if got != "x   =   'weird   spacing'\t\nprint( x )\n" {
		t.Fatalf("unflagged bytes changed: %q", got)
	}
}

func TestFixCodeEmptySource(t *testing.T) {
	if got := fix(t, newEngine(scriptedSource{}, Policy{}), ""); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestFixCodeAnalyzerFailureIsNoop(t *testing.T) {
	failing := diag.SourceFunc(func(context.Context, string) ([]diag.Diagnostic, error) {
		return nil, errors.New("analyzer crashed")
	})
	src := "import os\n"
	if got := fix(t, newEngine(failing, Policy{}), src); got != src {
		t.Fatalf("buffer changed on analyzer failure: %q", got)
	}
}

func TestFixCodeCompactsPassesWithoutFindings(t *testing.T) {
	src := "def f():\n    pass\n    return 1\n"
	got := fix(t, newEngine(scriptedSource{}, Policy{}), src)
	if got != "def f():\n    return 1\n" {
		t.Fatalf("got %q", got)
	}
}

func TestFixCodeIdempotent(t *testing.T) {
	script := scriptedSource{
		"import os\nprint('x')\n": {{Kind: diag.UnusedImport, Line: 1, Symbol: "os"}},
	}
	e := newEngine(script, Policy{})
	once := fix(t, e, "import os\nprint('x')\n")
	twice := fix(t, e, once)
	if once != twice {
		t.Fatalf("not idempotent: %q then %q", once, twice)
	}
}

func TestFixCodeCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := newEngine(scriptedSource{}, Policy{})
	src := "import os\n"
	got, err := e.FixCode(ctx, src)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got != src {
		t.Fatalf("canceled run altered the buffer: %q", got)
	}
}

func TestRelevantMirrorsPolicy(t *testing.T) {
	cases := []struct {
		name   string
		policy Policy
		d      diag.Diagnostic
		want   bool
	}{
		{"stdlib import", Policy{}, diag.Diagnostic{Kind: diag.UnusedImport, Symbol: "os"}, true},
		{"dotted stdlib import", Policy{}, diag.Diagnostic{Kind: diag.UnusedImport, Symbol: "os.path"}, true},
		{"third-party import", Policy{}, diag.Diagnostic{Kind: diag.UnusedImport, Symbol: "requests"}, false},
		{"third-party under remove-all", Policy{RemoveAllImports: true}, diag.Diagnostic{Kind: diag.UnusedImport, Symbol: "requests"}, true},
		{"aliased additional import", Policy{AdditionalImports: []string{"a"}}, diag.Diagnostic{Kind: diag.UnusedImport, Symbol: "a.c as d"}, true},
		{"variable off by default", Policy{}, diag.Diagnostic{Kind: diag.UnusedVariable, Symbol: "x"}, false},
		{"variable enabled", Policy{RemoveVariables: true}, diag.Diagnostic{Kind: diag.UnusedVariable, Symbol: "x"}, true},
	}
	for _, tc := range cases {
		e := newEngine(scriptedSource{}, tc.policy)
		if got := e.Relevant(tc.d); got != tc.want {
			t.Fatalf("%s: expected %t, got %t", tc.name, tc.want, got)
		}
	}
}
