package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "sweep.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `[package]
name = "demo"

[imports]
additional = ["demo", "vendorlib"]

[fix]
remove_unused_variables = true
exclude = ["migrations/*", "conftest.py"]
`)

	m, ok, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !ok {
		t.Fatal("manifest not found")
	}
	if m.Root != dir {
		t.Fatalf("expected root %q, got %q", dir, m.Root)
	}
	if m.Config.Package.Name != "demo" {
		t.Fatalf("got package name %q", m.Config.Package.Name)
	}
	if len(m.Config.Imports.Additional) != 2 {
		t.Fatalf("got additional imports %v", m.Config.Imports.Additional)
	}
	if !m.Config.Fix.RemoveUnusedVariables || m.Config.Fix.RemoveAllUnusedImports {
		t.Fatalf("fix section misparsed: %+v", m.Config.Fix)
	}
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"demo\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	m, ok, err := Load(nested)
	if err != nil || !ok {
		t.Fatalf("Load from nested dir: ok=%v err=%v", ok, err)
	}
	if m.Root != root {
		t.Fatalf("expected root %q, got %q", root, m.Root)
	}
}

func TestLoadAbsent(t *testing.T) {
	_, ok, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ok {
		t.Fatal("found a manifest in an empty tree")
	}
}

func TestLoadEmptyManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "")
	m, ok, err := Load(dir)
	if err != nil || !ok {
		t.Fatalf("empty manifest must load: ok=%v err=%v", ok, err)
	}
	if m.Config.Fix.RemoveUnusedVariables {
		t.Fatal("zero config must keep defaults")
	}
}

func TestLoadBlankPackageName(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\nname = \"  \"\n")
	if _, _, err := Load(dir); err == nil {
		t.Fatal("expected an error for a blank package name")
	}
}

func TestConfigExcluded(t *testing.T) {
	cfg := Config{Fix: FixConfig{Exclude: []string{"conftest.py", "migrations/*"}}}
	cases := []struct {
		path string
		want bool
	}{
		{"conftest.py", true},
		{filepath.Join("pkg", "conftest.py"), true},
		{"migrations/0001_init.py", true},
		{"app.py", false},
	}
	for _, tc := range cases {
		if got := cfg.Excluded(tc.path); got != tc.want {
			t.Fatalf("Excluded(%q): expected %v, got %v", tc.path, tc.want, got)
		}
	}
}
