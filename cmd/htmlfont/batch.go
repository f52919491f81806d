package main

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Result holds the outcome of processing a single file.
type Result struct {
	InputPath  string
	OutputPath string
	Detail     string // Extra note printed in verbose mode
	Err        error
	Duration   time.Duration
}

// processFunc handles one file.
type processFunc func(ctx context.Context, job FileJob) Result

// runBatch processes files concurrently with up to workers goroutines.
// Results keep the order of files. Once ctx is canceled, remaining files
// fail with the context error.
func runBatch(ctx context.Context, workers int, files []FileJob, process processFunc) []Result {
	if len(files) == 0 {
		return nil
	}

	concurrency := max(min(workers, len(files)), 1)

	results := make([]Result, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = Result{InputPath: files[idx].InputPath, Err: ctx.Err()}
					continue
				}
				start := time.Now()
				r := process(ctx, files[idx])
				r.InputPath = files[idx].InputPath
				r.Duration = time.Since(start)
				results[idx] = r
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// ResultSummary holds the count of succeeded and failed files.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed files.
func countResults(results []Result) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs batch results and returns the failure count.
func printResults(results []Result, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "%s %s: %v\n", styleFailed.Render("FAILED"), r.InputPath, r.Err)
			continue
		}
		if quiet {
			continue
		}
		if verbose {
			line := fmt.Sprintf("%s -> %s (%v)", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
			if r.Detail != "" {
				line += " " + styleDim.Render(r.Detail)
			}
			fmt.Fprintln(env.Stdout, line)
			continue
		}
		fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		if r.Detail != "" {
			fmt.Fprintf(env.Stdout, "  %s\n", r.Detail)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
