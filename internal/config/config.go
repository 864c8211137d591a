// Package config loads tool settings from an optional vira.yaml file.
// Every field has a default, so a missing file is not an error.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const SourceFileExt = ".vira"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".vira", ".vr"}

// DefaultFileName is looked up in the working directory when no
// explicit --config path is given.
const DefaultFileName = "vira.yaml"

// Config holds the settings shared by the compiler and the runtime.
type Config struct {
	// Output controls where compiled artifacts are written.
	Output OutputConfig `yaml:"output"`
	// Imports is the capability allow-list checked when a program
	// declares a :lib: import.
	Imports ImportsConfig `yaml:"imports"`
}

type OutputConfig struct {
	// Extension of emitted artifact files, including the dot.
	Extension string `yaml:"extension"`
}

type ImportsConfig struct {
	// Allowed library names. An import of any other name is a
	// compile error.
	Allowed []string `yaml:"allowed"`
}

// Default returns the configuration used when no vira.yaml exists.
func Default() *Config {
	return &Config{
		Output: OutputConfig{Extension: ".virb"},
		Imports: ImportsConfig{
			Allowed: []string{"std", "math", "io", "text"},
		},
	}
}

// Load reads the configuration at path. An empty path falls back to
// DefaultFileName in the working directory; if that file does not
// exist, the defaults are returned. An explicit path that cannot be
// read is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Output.Extension == "" {
		cfg.Output.Extension = ".virb"
	}
	if len(cfg.Imports.Allowed) == 0 {
		cfg.Imports.Allowed = Default().Imports.Allowed
	}
	return cfg, nil
}

// ImportAllowed reports whether library is on the allow-list.
func (c *Config) ImportAllowed(library string) bool {
	for _, name := range c.Imports.Allowed {
		if name == library {
			return true
		}
	}
	return false
}
