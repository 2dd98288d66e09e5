package staging

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrClosed is returned by Split after Close.
	ErrClosed = errors.New("staging: dispatcher closed")
	// ErrBadRange is returned for a negative element count.
	ErrBadRange = errors.New("staging: invalid range")
)

type job struct {
	fn         func(start, end int)
	start, end int
	done       *sync.WaitGroup
}

// Dispatcher splits packing work in two halves and runs them on two long-lived
// workers. Only one Split runs at a time.
type Dispatcher struct {
	mu     sync.Mutex
	jobs   []chan job
	wg     sync.WaitGroup // worker lifetimes
	closed bool
}

// NewDispatcher starts the workers. With parallel false no goroutines are
// started and both halves run on the caller.
func NewDispatcher(parallel bool) *Dispatcher {
	d := &Dispatcher{}
	if !parallel {
		return d
	}
	d.jobs = []chan job{make(chan job), make(chan job)}
	d.wg.Add(len(d.jobs))
	for _, ch := range d.jobs {
		go d.worker(ch)
	}
	return d
}

func (d *Dispatcher) worker(ch chan job) {
	defer d.wg.Done()
	for j := range ch {
		j.fn(j.start, j.end)
		j.done.Done()
	}
}

// Parallel reports whether the dispatcher runs work on its workers.
func (d *Dispatcher) Parallel() bool { return len(d.jobs) > 0 }

// Split runs fn(0, n/2) and fn(n/2, n) and returns once both have finished.
func (d *Dispatcher) Split(n int, fn func(start, end int)) error {
	if n < 0 {
		return fmt.Errorf("split %d: %w", n, ErrBadRange)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if n == 0 {
		return nil
	}

	half := n / 2
	if len(d.jobs) == 0 {
		fn(0, half)
		fn(half, n)
		return nil
	}

	var done sync.WaitGroup
	done.Add(2)
	d.jobs[0] <- job{fn: fn, start: 0, end: half, done: &done}
	d.jobs[1] <- job{fn: fn, start: half, end: n, done: &done}
	done.Wait()
	return nil
}

// Close stops the workers and waits for them to exit.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true
	for _, ch := range d.jobs {
		close(ch)
	}
	d.wg.Wait()
}
