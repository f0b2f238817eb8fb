// Package project locates and loads the sweep.toml manifest: per-project
// defaults for the fix pipeline that the command line can override.
package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a loaded sweep.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the sweep.toml layout. All sections are optional; the zero
// value is a valid, do-the-default configuration.
type Config struct {
	Package PackageConfig `toml:"package"`
	Imports ImportsConfig `toml:"imports"`
	Fix     FixConfig     `toml:"fix"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type ImportsConfig struct {
	// Additional module names treated as removable alongside the standard
	// library.
	Additional []string `toml:"additional"`
}

type FixConfig struct {
	RemoveAllUnusedImports bool `toml:"remove_all_unused_imports"`
	RemoveUnusedVariables  bool `toml:"remove_unused_variables"`
	// Exclude holds glob patterns matched against both the file base name
	// and its slash path.
	Exclude []string `toml:"exclude"`
}

// Load walks up from startDir, parses the first sweep.toml found and returns
// it. ok is false when no manifest exists anywhere above startDir.
func Load(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindSweepToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if meta.IsDefined("package", "name") && strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: [package].name must not be blank", path)
	}
	for _, pattern := range cfg.Fix.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return Config{}, fmt.Errorf("%s: bad exclude pattern %q: %w", path, pattern, err)
		}
	}
	return cfg, nil
}

// Excluded reports whether path matches one of the configured exclude
// patterns.
func (c Config) Excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, pattern := range c.Fix.Exclude {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, slashed); ok {
			return true
		}
	}
	return false
}
