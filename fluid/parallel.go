package fluid

import "github.com/dgravesa/go-parallel/parallel"

//forEach - runs fn for every index in [0, n) on the given number of
//goroutines and returns once all of them are done. Each call is a full
//barrier between simulation passes.
func forEach(workers int, n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if workers < 1 {
		workers = 1
	}
	parallel.WithNumGoroutines(workers).For(n, func(i, _ int) {
		fn(i)
	})
}
