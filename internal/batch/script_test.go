package batch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mt-loc-tools/internal/gmd"
)

func writeScript(t *testing.T, dir, file string) []byte {
	t.Helper()
	s := gmd.New("sample")
	s.Header.Padding = 7
	s.Header.Language = 3
	sections := []gmd.Section{
		{ID: 0, Name: "greeting", Text: []byte("hello\r\nthere")},
		{ID: 1, Text: []byte("unnamed")},
		{ID: 2, Name: "farewell", Text: []byte("bye")},
	}
	for _, sec := range sections {
		if err := s.AddSection(sec); err != nil {
			t.Fatal(err)
		}
	}
	data, err := s.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, file), data, 0644); err != nil {
		t.Fatal(err)
	}
	return data
}

func TestScriptRoundTrip(t *testing.T) {
	in, unpacked, repacked := t.TempDir(), t.TempDir(), t.TempDir()
	want := writeScript(t, in, "s01.gmd")
	writeScript(t, in, "_sce08_c000_0000_jpn.gmd")

	cfg := Config{InputDir: in, OutputDir: unpacked, Workers: 2, Skip: []string{"_sce08_c000_0000_jpn.gmd"}}
	results, err := UnpackScripts(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || !results[0].Success {
		t.Fatalf("unpack results: %+v", results)
	}

	dir := filepath.Join(unpacked, "s01.gmd")
	for _, name := range []string{"info.json", "0-greeting.txt", "1-no_name_0.txt", "2-farewell.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	info, err := ReadScriptInfo(dir)
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "sample" || info.Padding != 7 || info.Language != 3 || info.Version != "02030100" {
		t.Errorf("info: %+v", info)
	}

	// An editor may add a BOM; it must not reach the script.
	edited := filepath.Join(dir, "2-farewell.txt")
	if err := os.WriteFile(edited, []byte("\xEF\xBB\xBFbye"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg = Config{InputDir: unpacked, OutputDir: repacked, Workers: 2}
	results, err = RepackScripts(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || !results[0].Success {
		t.Fatalf("repack results: %+v", results)
	}
	got, err := os.ReadFile(filepath.Join(repacked, "s01.gmd"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Error("repacked script differs from the input")
	}
}

func TestRepackGap(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "x.gmd")
	if err := WriteScriptInfo(dir, ScriptInfo{Name: "x"}); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"0-a.txt", "2-b.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("t"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := RepackScript(dir, t.TempDir()); err == nil {
		t.Error("expected error for missing section 1")
	}
}

func TestUnpackNoInput(t *testing.T) {
	_, err := UnpackScripts(context.Background(), Config{InputDir: t.TempDir(), OutputDir: t.TempDir()})
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("got %v, want ErrNoInput", err)
	}
}
