package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLoadAndResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mtloc.yaml")
	body := `
workers: 3
image_format: webp
skip: []
font:
  adjust_y: 2
  size_px: 20
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Resolve(Flags{ImageFormat: "tga", AdjustX: 1})

	if cfg.Workers != 3 {
		t.Errorf("workers: got %d", cfg.Workers)
	}
	if cfg.ImageFormat != "tga" {
		t.Errorf("image format: got %q", cfg.ImageFormat)
	}
	if cfg.Font != (Font{AdjustX: 1, AdjustY: 2, SizePx: 20}) {
		t.Errorf("font: got %+v", cfg.Font)
	}
	if cfg.Skip == nil || len(cfg.Skip) != 0 {
		t.Errorf("explicit empty skip list replaced: %v", cfg.Skip)
	}
	if cfg.PreviewSize != 256 {
		t.Errorf("preview size: got %d", cfg.PreviewSize)
	}
}

func TestDefaults(t *testing.T) {
	t.Setenv(EnvVar, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Resolve(Flags{})
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("workers: got %d", cfg.Workers)
	}
	if cfg.ImageFormat != "png" {
		t.Errorf("image format: got %q", cfg.ImageFormat)
	}
	if len(cfg.Skip) != 1 || cfg.Skip[0] != "_sce08_c000_0000_jpn.gmd" {
		t.Errorf("skip: got %v", cfg.Skip)
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	if err := os.WriteFile(path, []byte("preview: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvVar, path)
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Preview {
		t.Error("preview not loaded from $MTLOC_CONFIG")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("workers: [1, 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}
