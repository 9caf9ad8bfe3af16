package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ScriptInfo is the info.json written next to unpacked script sections.
type ScriptInfo struct {
	Name     string `json:"name"`
	Padding  int64  `json:"padding"`
	Language int32  `json:"language"`
	Version  string `json:"version,omitempty"` // hex
}

// WriteScriptInfo writes info.json into dir.
func WriteScriptInfo(dir string, info ScriptInfo) error {
	return writeJSON(filepath.Join(dir, "info.json"), info)
}

// ReadScriptInfo reads info.json from dir.
func ReadScriptInfo(dir string) (ScriptInfo, error) {
	var info ScriptInfo
	path := filepath.Join(dir, "info.json")
	if err := readJSON(path, &info); err != nil {
		return info, fmt.Errorf("batch: read %s: %w", path, err)
	}
	return info, nil
}

// Manifest summarizes a batch run.
type Manifest struct {
	Command   string   `json:"command"`
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Results   []Result `json:"results"`
}

// WriteManifest writes manifest.json summarizing results to path.
func WriteManifest(path, command string, results []Result) error {
	m := Manifest{Command: command, Total: len(results), Results: results}
	for _, r := range results {
		if r.Success {
			m.Succeeded++
		}
	}
	return writeJSON(path, m)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
