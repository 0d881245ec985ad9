// Package parallel fans kernel work items out over worker goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum work items per goroutine.
}

// DefaultConfig returns defaults based on CPU count. Convolution work items
// are whole output rows, so a chunk of a few items already amortizes a
// goroutine.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 4,
	}
}

// Sequential returns a config that runs everything on the calling goroutine.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1, MinChunkSize: 1}
}

// For executes f(i) for i in [0, n) and returns when every call finished.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < 2*max(cfg.MinChunkSize, 1) {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ForGrid executes f over the 3-D iteration space [0,d0) x [0,d1) x [0,d2),
// innermost index varying fastest. Convolution uses it for
// (group, minibatch, output-channel chunk).
func ForGrid(d0, d1, d2 int, f func(i0, i1, i2 int), cfg Config) {
	if d0 <= 0 || d1 <= 0 || d2 <= 0 {
		return
	}
	For(d0*d1*d2, func(k int) {
		i2 := k % d2
		k /= d2
		f(k/d1, k%d1, i2)
	}, cfg)
}
