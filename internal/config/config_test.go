package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-matter"))
	if err == nil {
		t.Fatal("explicit missing path must be an error")
	}
	_ = cfg

	// Implicit lookup from a directory without vira.yaml returns defaults.
	wd, _ := os.Getwd()
	tmp := t.TempDir()
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Extension != ".virb" {
		t.Errorf("extension = %q, want .virb", cfg.Output.Extension)
	}
	if !cfg.ImportAllowed("std") || !cfg.ImportAllowed("math") {
		t.Errorf("default allow-list missing std/math: %v", cfg.Imports.Allowed)
	}
	if cfg.ImportAllowed("sorcery") {
		t.Error("sorcery must not be allowed by default")
	}
}

func TestLoad_ReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vira.yaml")
	content := `
output:
  extension: ".vbc"
imports:
  allowed: [std, sorcery]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Extension != ".vbc" {
		t.Errorf("extension = %q, want .vbc", cfg.Output.Extension)
	}
	if !cfg.ImportAllowed("sorcery") {
		t.Errorf("allow-list = %v, want sorcery allowed", cfg.Imports.Allowed)
	}
	if cfg.ImportAllowed("math") {
		t.Error("math must not be allowed when the file overrides the list")
	}
}

func TestLoad_PartialFileKeepsOtherDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vira.yaml")
	if err := os.WriteFile(path, []byte("output:\n  extension: \".x\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Extension != ".x" {
		t.Errorf("extension = %q, want .x", cfg.Output.Extension)
	}
	if !cfg.ImportAllowed("io") {
		t.Errorf("allow-list = %v, want defaults kept", cfg.Imports.Allowed)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vira.yaml")
	if err := os.WriteFile(path, []byte("imports: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
