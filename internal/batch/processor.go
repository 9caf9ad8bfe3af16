// Package batch runs the directory-level jobs of the tool (script
// unpack/repack, font dump/generate/export, texture conversion) on a
// bounded worker pool. A failing file is recorded in its Result and the
// rest of the batch continues.
package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"mt-loc-tools/internal/texture"
)

// Config holds the settings shared by every job of a batch run.
type Config struct {
	InputDir    string
	OutputDir   string
	Workers     int
	Skip        []string
	Format      texture.Format
	Preview     bool
	PreviewSize int
	Logger      *slog.Logger

	// ProgressInterval is how often progress is logged; zero means 2s.
	ProgressInterval time.Duration
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

func (c Config) skipped(name string) bool {
	return slices.Contains(c.Skip, name)
}

// ErrNoInput reports a batch with nothing to process.
var ErrNoInput = errors.New("batch: no input files")

// Job is one independent unit of work. Run returns the path it wrote.
type Job struct {
	Name string
	Run  func(ctx context.Context) (string, error)
}

// Result holds the outcome of one job.
type Result struct {
	Name    string `json:"name"`
	Output  string `json:"output,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Failed returns the results that did not succeed.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Success {
			out = append(out, r)
		}
	}
	return out
}

// Run processes all jobs using a worker pool. Results are in job order.
// Jobs not started before ctx is cancelled fail with the context error.
func Run(ctx context.Context, cfg Config, jobs []Job) []Result {
	log := cfg.logger()
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()
	interval := cfg.ProgressInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					log.Info("progress", "done", p, "total", total, "rate", float64(p)/elapsed)
				}
			}
		}
	}()

	// Worker pool
	workers := cfg.workers()
	jobChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = runJob(ctx, log, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func runJob(ctx context.Context, log *slog.Logger, job Job) Result {
	if err := ctx.Err(); err != nil {
		return Result{Name: job.Name, Error: err.Error()}
	}
	out, err := job.Run(ctx)
	if err != nil {
		log.Warn("job failed", "file", job.Name, "error", err)
		return Result{Name: job.Name, Error: err.Error()}
	}
	log.Debug("job done", "file", job.Name, "output", out)
	return Result{Name: job.Name, Output: out, Success: true}
}
