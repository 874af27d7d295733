package pipeline

import (
	"context"
	"sync"
)

// sourceJob is one unit of orchestrated work: pull, normalize, and upsert
// every host from a single configured source.
type sourceJob func(ctx context.Context) sourceResult

// runAll runs every job concurrently, bounded by concurrency, and waits for
// all of them to finish. Unlike a long-lived queue, the pipeline's job list
// is known up front and finite, so a bounded fan-out is enough — it does
// not need the teacher's persistent submit/stop lifecycle.
func runAll(ctx context.Context, concurrency int, jobs []sourceJob) []sourceResult {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]sourceResult, len(jobs))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, job := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, job sourceJob) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = job(ctx)
		}(i, job)
	}

	wg.Wait()
	return results
}
