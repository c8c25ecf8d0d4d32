// Package parallel splits row-wise loops over matrices across CPU cores.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultThreshold is the item count below which work runs sequentially.
// Filling a design matrix or centering a few hundred rows is faster on one
// goroutine than the cost of spawning workers.
const DefaultThreshold = 1000

// Parallelize divides items into one contiguous range per CPU core and
// executes fn for each range (start, end) concurrently. fn must only touch
// the indices of its own range.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// ceiling division
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn(0, items) sequentially when items does
// not exceed threshold, and delegates to Parallelize otherwise.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}

// ForEach calls fn(i) for every i in [0, items), in parallel above threshold.
func ForEach(items int, threshold int, fn func(i int)) {
	ParallelizeWithThreshold(items, threshold, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}
