// Package utils holds small helpers shared by the rest of the module.
package utils

import (
	"runtime"
	"sync"
)

// MultiThread runs f for every integer in [start, end), spread over a number of goroutines, and
// returns once all calls have finished.
//
// 'opsPerThread' is the number of consecutive indexes a goroutine takes each time it asks for
// more work; 'threadsPerCPU' is the number of goroutines created for each CPU. No more goroutines
// are started than there are chunks of work. f may be called concurrently for different indexes,
// so it must only write to state that belongs to its own index.
func MultiThread(start, end int, f func(int), opsPerThread, threadsPerCPU int) {
	if end <= start {
		return
	}
	if opsPerThread < 1 {
		opsPerThread = 1
	}
	if threadsPerCPU < 1 {
		threadsPerCPU = 1
	}

	numThreads := runtime.NumCPU() * threadsPerCPU
	if chunks := (end - start + opsPerThread - 1) / opsPerThread; chunks < numThreads {
		numThreads = chunks
	}

	index := start
	var indexMux sync.Mutex

	var wg sync.WaitGroup
	wg.Add(numThreads)
	for thread := 0; thread < numThreads; thread++ {
		go func() {
			defer wg.Done()

			for {
				indexMux.Lock()
				if index >= end {
					indexMux.Unlock()
					return
				}

				i := index
				index += opsPerThread
				indexMux.Unlock()

				e := i + opsPerThread
				if e > end {
					e = end
				}

				for ; i < e; i++ {
					f(i)
				}
			}
		}()
	}

	wg.Wait()
}

// ForEach is MultiThread over [0, n) with one goroutine per CPU.
func ForEach(n, opsPerThread int, f func(int)) {
	MultiThread(0, n, f, opsPerThread, 1)
}
