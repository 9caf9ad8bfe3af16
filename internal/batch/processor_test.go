package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestRunOrderAndFailures(t *testing.T) {
	var calls atomic.Int32
	jobs := make([]Job, 20)
	for i := range jobs {
		jobs[i] = Job{Name: fmt.Sprint(i), Run: func(context.Context) (string, error) {
			calls.Add(1)
			if i%5 == 0 {
				return "", errors.New("boom")
			}
			return fmt.Sprintf("out-%d", i), nil
		}}
	}

	results := Run(context.Background(), Config{Workers: 4}, jobs)
	if calls.Load() != 20 {
		t.Errorf("calls: got %d", calls.Load())
	}
	for i, r := range results {
		if r.Name != fmt.Sprint(i) {
			t.Errorf("result %d: name %q", i, r.Name)
		}
		if wantOK := i%5 != 0; r.Success != wantOK {
			t.Errorf("result %d: success %v", i, r.Success)
		}
		if r.Success && r.Output != fmt.Sprintf("out-%d", i) {
			t.Errorf("result %d: output %q", i, r.Output)
		}
	}
	if len(Failed(results)) != 4 {
		t.Errorf("failed: got %d, want 4", len(Failed(results)))
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	results := Run(ctx, Config{Workers: 1}, []Job{{Name: "a", Run: func(context.Context) (string, error) {
		ran = true
		return "", nil
	}}})
	if ran {
		t.Error("job ran after cancellation")
	}
	if results[0].Success || results[0].Error == "" {
		t.Errorf("result: %+v", results[0])
	}
}

func TestManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	results := []Result{{Name: "a", Success: true}, {Name: "b", Error: "x"}}
	if err := WriteManifest(path, "gmd unpack", results); err != nil {
		t.Fatal(err)
	}

	var m Manifest
	if err := readJSON(path, &m); err != nil {
		t.Fatal(err)
	}
	if m.Command != "gmd unpack" || m.Total != 2 || m.Succeeded != 1 || len(m.Results) != 2 {
		t.Errorf("manifest: %+v", m)
	}
}
