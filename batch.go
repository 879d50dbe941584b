package html2latex

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// Worker sizing constants.
const (
	// MinWorkers ensures at least one worker is available.
	MinWorkers = 1

	// MaxWorkers caps the automatic worker count.
	MaxWorkers = 8

	// cpuDivisor leaves headroom for the caller's own I/O goroutines.
	cpuDivisor = 2
)

// ResolveWorkers determines the worker count.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolveWorkers(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}

// ConvertAll converts fragments concurrently and returns one Result per
// fragment, in input order. A failing fragment never affects the others.
// Cancellation is checked between fragments: fragments not yet started when
// ctx is done get ctx.Err() as their error.
func (c *Converter) ConvertAll(ctx context.Context, fragments []Fragment) []Result {
	if len(fragments) == 0 {
		return nil
	}

	concurrency := ResolveWorkers(c.cfg.workers)
	if concurrency > len(fragments) {
		concurrency = len(fragments)
	}
	if c.cfg.logger != nil {
		c.cfg.logger.Debug("batch started", "fragments", len(fragments), "workers", concurrency)
	}

	results := make([]Result, len(fragments))
	var wg sync.WaitGroup
	jobs := make(chan int, len(fragments))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = c.convertOne(ctx, idx, fragments[idx])
			}
		}()
	}

	for i := range fragments {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertOne converts a single fragment and records timing and attribution.
func (c *Converter) convertOne(ctx context.Context, idx int, f Fragment) Result {
	start := time.Now()
	result := Result{ID: f.ID, Index: idx}

	out, err := c.ConvertFragment(ctx, f)
	result.Duration = time.Since(start)
	if err != nil {
		result.Err = &FragmentError{ID: f.ID, Err: err}
		if c.cfg.logger != nil {
			c.cfg.logger.Debug("fragment failed", "id", f.ID, "error", err)
		}
		return result
	}

	result.LaTeX = out
	return result
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
