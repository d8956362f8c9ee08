package applehdr

import (
	"runtime"
	"sync"
)

var (
	maxParallelWorkers = 0
	workerSemOnce      sync.Once
	workerSem          chan struct{}
)

// parallelRows partitions [0, total) across workers capped at GOMAXPROCS.
// The pixel stages are pure per-row operations, so no synchronization beyond
// the final wait is needed.
func parallelRows(total int, fn func(start, end int)) {
	if total <= 0 {
		return
	}
	capacity := runtime.GOMAXPROCS(0)
	if maxParallelWorkers > 0 && capacity > maxParallelWorkers {
		capacity = maxParallelWorkers
	}
	if capacity < 1 {
		capacity = 1
	}
	workerSemOnce.Do(func() {
		workerSem = make(chan struct{}, capacity)
	})
	if cap(workerSem) < capacity {
		capacity = cap(workerSem)
		if capacity < 1 {
			capacity = 1
		}
	}
	workers := capacity
	if workers > total {
		workers = total
	}
	if workers <= 1 {
		fn(0, total)
		return
	}
	step := (total + workers - 1) / workers
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		start := i * step
		end := start + step
		if end > total {
			end = total
		}
		if start >= end {
			break
		}
		workerSem <- struct{}{}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			defer func() { <-workerSem }()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
