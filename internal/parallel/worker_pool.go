// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package parallel runs many inspection requests against one inspector.
package parallel

import (
	"context"
	"runtime"
	"time"

	"hotword-scan/internal/inspect"
	"hotword-scan/internal/observability"

	"golang.org/x/sync/errgroup"
)

// Job represents one item to inspect
type Job struct {
	JobID   string
	Request inspect.Request
}

// Result represents the outcome of a job
type Result struct {
	JobID    string
	Result   *inspect.Result
	Error    error
	Duration time.Duration
}

// ProcessingStats summarizes a run
type ProcessingStats struct {
	TotalJobs     int
	FailedJobs    int
	TotalFindings int
	Duration      time.Duration
}

// WorkerPool inspects jobs concurrently. The inspector is shared by all
// workers.
type WorkerPool struct {
	workers   int
	inspector *inspect.Inspector
	observer  *observability.StandardObserver
}

// NewWorkerPool creates a pool. workers <= 0 uses the number of CPUs.
func NewWorkerPool(workers int, inspector *inspect.Inspector, observer *observability.StandardObserver) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &WorkerPool{
		workers:   workers,
		inspector: inspector,
		observer:  observer,
	}
}

// Workers returns the concurrency limit
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// Process runs every job and returns the results in job order. A failing
// job does not stop the others. Jobs not started before ctx is done fail
// with the context error.
func (wp *WorkerPool) Process(ctx context.Context, jobs []Job) ([]Result, *ProcessingStats) {
	start := time.Now()
	results := make([]Result, len(jobs))

	var g errgroup.Group
	g.SetLimit(wp.workers)
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			results[i] = Result{JobID: job.JobID, Error: err}
			continue
		}
		g.Go(func() error {
			results[i] = wp.processJob(ctx, job)
			return nil
		})
	}
	_ = g.Wait()

	stats := &ProcessingStats{
		TotalJobs: len(jobs),
		Duration:  time.Since(start),
	}
	for _, r := range results {
		if r.Error != nil {
			stats.FailedJobs++
			continue
		}
		stats.TotalFindings += len(r.Result.Findings)
	}
	return results, stats
}

// processJob inspects a single job
func (wp *WorkerPool) processJob(ctx context.Context, job Job) Result {
	start := time.Now()
	finishTiming := wp.observer.StartTiming("worker_pool", "process_job", job.JobID)

	res, err := wp.inspector.Inspect(ctx, job.Request)

	result := Result{
		JobID:    job.JobID,
		Result:   res,
		Error:    err,
		Duration: time.Since(start),
	}

	metadata := map[string]interface{}{"job_id": job.JobID}
	count := 0
	if err != nil {
		metadata["error"] = err.Error()
	} else {
		count = len(res.Findings)
	}
	finishTiming(err == nil, count, metadata)

	return result
}
