package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mt-loc-tools/internal/tex"
	"mt-loc-tools/internal/texture"
)

// DecodeTexture converts the TEX at path to outDir/<file name>.<ext>.
func DecodeTexture(cfg Config, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("batch: %w", err)
	}
	t, err := tex.Decode(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	format := cfg.format()
	out := filepath.Join(cfg.OutputDir, filepath.Base(path)+format.Ext())
	return out, texture.Save(out, t.Image(), format)
}

// EncodeTexture converts an image to a TEX in outDir. The image
// extension is dropped, so page.tex.png becomes page.tex.
func EncodeTexture(cfg Config, path string) (string, error) {
	img, err := texture.Load(path)
	if err != nil {
		return "", err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if !strings.EqualFold(filepath.Ext(name), ".tex") {
		name += ".tex"
	}
	out := filepath.Join(cfg.OutputDir, name)
	return out, texture.Save(out, img, texture.TEX)
}

// DecodeTextures converts every .tex file in cfg.InputDir.
func DecodeTextures(ctx context.Context, cfg Config) ([]Result, error) {
	return convertDir(ctx, cfg, func(ext string) bool { return ext == ".tex" }, DecodeTexture)
}

// EncodeTextures converts every PNG, TGA and WebP file in cfg.InputDir.
func EncodeTextures(ctx context.Context, cfg Config) ([]Result, error) {
	return convertDir(ctx, cfg, func(ext string) bool {
		f, err := texture.ParseFormat(ext)
		return err == nil && f != texture.TEX
	}, EncodeTexture)
}

func convertDir(ctx context.Context, cfg Config, match func(ext string) bool, convert func(Config, string) (string, error)) ([]Result, error) {
	entries, err := os.ReadDir(cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	var jobs []Job
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !match(strings.ToLower(filepath.Ext(name))) || cfg.skipped(name) {
			continue
		}
		path := filepath.Join(cfg.InputDir, name)
		jobs = append(jobs, Job{Name: name, Run: func(context.Context) (string, error) {
			return convert(cfg, path)
		}})
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: nothing to convert in %s", ErrNoInput, cfg.InputDir)
	}
	return Run(ctx, cfg, jobs), nil
}
