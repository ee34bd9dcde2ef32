package climate

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum work-item count to use parallel
// processing. Below this, single-threaded is faster due to goroutine
// overhead.
const parallelThreshold = 64

// parallelFor splits [0, n) into contiguous chunks and runs fn on one chunk
// per worker. fn must be safe to run concurrently for disjoint ranges; stages
// use this for per-pixel and per-lane loops that write disjoint output cells.
func parallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if n < parallelThreshold || workers < 2 {
		fn(0, n)
		return
	}
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
