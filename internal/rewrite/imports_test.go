package rewrite

import (
	"testing"

	"sweep/internal/registry"
)

func TestRewriteImportSingle(t *testing.T) {
	reg := registry.New()
	cases := []struct {
		line   string
		unused []string
		want   string
	}{
		{"import os\n", []string{"os"}, "pass\n"},
		{"    import os\n", []string{"os"}, "    pass\n"},
		{"import os.path\n", []string{"os.path"}, "pass\n"},
	}
	for _, tc := range cases {
		if got := RewriteImport(tc.line, tc.unused, false, reg, ""); got != tc.want {
			t.Fatalf("RewriteImport(%q): expected %q, got %q", tc.line, tc.want, got)
		}
	}
}

func TestRewriteImportSplitsCommaImport(t *testing.T) {
	got := RewriteImport("import sys, os\n", []string{"os"}, false, registry.New(), "")
	// The split keeps every module; the next round flags the unused ones on
	// their own lines.
	want := "import os\nimport sys\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRewriteImportFiltersFromImport(t *testing.T) {
	reg := registry.New()
	got := RewriteImport("from os import path, sep\n", []string{"os.path"}, false, reg, "")
	if got != "from os import sep\n" {
		t.Fatalf("got %q", got)
	}

	got = RewriteImport("from os import path, sep\n", []string{"os.path", "os.sep"}, false, reg, "")
	if got != "pass\n" {
		t.Fatalf("emptied from-import: got %q", got)
	}

	got = RewriteImport("    from os import path, sep\n", []string{"os.sep"}, false, reg, "")
	if got != "    from os import path\n" {
		t.Fatalf("indented from-import: got %q", got)
	}

	// The analyzer reports aliased names verbatim, alias included.
	got = RewriteImport("from os import path, sep as s\n", []string{"os.sep as s"}, false, reg, "")
	if got != "from os import path\n" {
		t.Fatalf("aliased from-import: got %q", got)
	}
}

func TestRewriteImportProtectsUnknownModules(t *testing.T) {
	reg := registry.New()
	line := "import requests\n"
	if got := RewriteImport(line, []string{"requests"}, false, reg, ""); got != line {
		t.Fatalf("third-party import must survive: got %q", got)
	}
	if got := RewriteImport(line, []string{"requests"}, true, reg, ""); got != "pass\n" {
		t.Fatalf("remove-all must drop it: got %q", got)
	}
}

func TestRewriteImportAdditionalNames(t *testing.T) {
	reg := registry.New("myapp")
	if got := RewriteImport("import myapp\n", []string{"myapp"}, false, reg, ""); got != "pass\n" {
		t.Fatalf("registered name must be removable: got %q", got)
	}
}

func TestRewriteImportLeavesMultilineAlone(t *testing.T) {
	reg := registry.New()
	cases := []struct {
		line     string
		previous string
	}{
		{"from os import (path,\n", ""},
		{"from os import path, sep)\n", "from os import (\n"},
		{">>> import os\n", ""},
		{"import os; import sys\n", ""},
		{"import os\n", "x = \\\n"},
	}
	for _, tc := range cases {
		if got := RewriteImport(tc.line, nil, true, reg, tc.previous); got != tc.line {
			t.Fatalf("RewriteImport(%q) changed the line to %q", tc.line, got)
		}
	}
}

func TestBreakUpImportSortsModules(t *testing.T) {
	got := breakUpImport("import sys, math, os\n")
	if got != "import math\nimport os\nimport sys\n" {
		t.Fatalf("got %q", got)
	}
}

func TestBreakUpImportKeepsIndentation(t *testing.T) {
	got := breakUpImport("    import b, a\n")
	if got != "    import a\n    import b\n" {
		t.Fatalf("got %q", got)
	}
}

func TestBreakUpImportWithoutTerminator(t *testing.T) {
	// Final file line without a newline: nothing to split on.
	line := "import a, b"
	if got := breakUpImport(line); got != line {
		t.Fatalf("got %q", got)
	}
}

func TestExtractPackageName(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{"import os\n", "os"},
		{"import os.path\n", "os"},
		{"    import collections\n", "collections"},
		{"from os import path\n", "os"},
		{"x = 1\n", ""},
		{"import\n", ""},
	}
	for _, tc := range cases {
		if got := extractPackageName(tc.line); got != tc.want {
			t.Fatalf("extractPackageName(%q): expected %q, got %q", tc.line, tc.want, got)
		}
	}
}
