package batch

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"mt-loc-tools/internal/charset"
	"mt-loc-tools/internal/gmd"
)

var sectionFile = regexp.MustCompile(`^(\d+)-(.+)\.txt$`)

// SectionFileName is the file an unpacked section is written to.
func SectionFileName(sec gmd.Section) string {
	return fmt.Sprintf("%d-%s.txt", sec.ID, sec.Name)
}

// UnpackScript writes every section of the script at path to
// outRoot/<file name>/, with an info.json holding the header fields
// needed to repack it.
func UnpackScript(path, outRoot string) (string, error) {
	s, err := gmd.ReadFile(path)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(outRoot, filepath.Base(path))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("batch: %w", err)
	}

	info := ScriptInfo{
		Name:     s.Name,
		Padding:  s.Header.Padding,
		Language: s.Header.Language,
		Version:  hex.EncodeToString(s.Header.Version[:]),
	}
	if err := WriteScriptInfo(dir, info); err != nil {
		return "", fmt.Errorf("batch: %w", err)
	}
	for _, sec := range s.Sections {
		if err := os.WriteFile(filepath.Join(dir, SectionFileName(sec)), sec.Text, 0644); err != nil {
			return "", fmt.Errorf("batch: %w", err)
		}
	}
	return dir, nil
}

// LoadScriptDir rebuilds a script from an unpacked directory. Section
// files must be numbered contiguously from zero; a byte order mark on a
// section file is dropped.
func LoadScriptDir(dir string) (*gmd.Script, error) {
	info, err := ReadScriptInfo(dir)
	if err != nil {
		return nil, err
	}
	s := gmd.New(info.Name)
	s.Header.Padding = info.Padding
	s.Header.Language = info.Language
	if info.Version != "" {
		v, err := hex.DecodeString(info.Version)
		if err != nil || len(v) != len(s.Header.Version) {
			return nil, fmt.Errorf("batch: %s: bad version %q", dir, info.Version)
		}
		copy(s.Header.Version[:], v)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	var sections []gmd.Section
	for _, e := range entries {
		m := sectionFile.FindStringSubmatch(e.Name())
		if e.IsDir() || m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("batch: %s: %w", e.Name(), err)
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("batch: %w", err)
		}
		text, err := charset.Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("batch: %s: %w", e.Name(), err)
		}
		sections = append(sections, gmd.Section{ID: id, Name: m[2], Text: text})
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].ID < sections[j].ID })

	for _, sec := range sections {
		if err := s.AddSection(sec); err != nil {
			return nil, fmt.Errorf("%s: %w", dir, err)
		}
	}
	return s, nil
}

// RepackScript packs an unpacked directory into outDir/<dir name>.
func RepackScript(dir, outDir string) (string, error) {
	s, err := LoadScriptDir(dir)
	if err != nil {
		return "", err
	}
	data, err := s.Encode()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("batch: %w", err)
	}
	out := filepath.Join(outDir, filepath.Base(dir))
	if err := os.WriteFile(out, data, 0644); err != nil {
		return "", fmt.Errorf("batch: %w", err)
	}
	return out, nil
}

// UnpackScripts unpacks every .gmd file in cfg.InputDir.
func UnpackScripts(ctx context.Context, cfg Config) ([]Result, error) {
	entries, err := os.ReadDir(cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	var jobs []Job
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".gmd") {
			continue
		}
		if cfg.skipped(name) {
			cfg.logger().Info("skipping", "file", name)
			continue
		}
		path := filepath.Join(cfg.InputDir, name)
		jobs = append(jobs, Job{Name: name, Run: func(context.Context) (string, error) {
			return UnpackScript(path, cfg.OutputDir)
		}})
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: no .gmd files in %s", ErrNoInput, cfg.InputDir)
	}
	return Run(ctx, cfg, jobs), nil
}

// RepackScripts repacks every <name>.gmd directory in cfg.InputDir.
func RepackScripts(ctx context.Context, cfg Config) ([]Result, error) {
	entries, err := os.ReadDir(cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	var jobs []Job
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || !strings.HasSuffix(name, ".gmd") || cfg.skipped(name) {
			continue
		}
		dir := filepath.Join(cfg.InputDir, name)
		jobs = append(jobs, Job{Name: name, Run: func(context.Context) (string, error) {
			return RepackScript(dir, cfg.OutputDir)
		}})
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: no unpacked .gmd directories in %s", ErrNoInput, cfg.InputDir)
	}
	return Run(ctx, cfg, jobs), nil
}
