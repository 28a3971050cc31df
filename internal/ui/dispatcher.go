package ui

import (
	"context"
	"sync"
)

// Dispatcher is the foreground task queue. Background workers never touch
// interactive state directly; they post closures that Run executes on the
// foreground goroutine, one at a time.
type Dispatcher struct {
	tasks    chan func()
	done     chan struct{}
	doneOnce sync.Once
	pending  sync.WaitGroup
}

// NewDispatcher creates a dispatcher with a queue of the given size
func NewDispatcher(size int) *Dispatcher {
	if size <= 0 {
		size = 16
	}
	return &Dispatcher{
		tasks: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Post queues task for the foreground goroutine. It returns false once Run
// has returned.
func (d *Dispatcher) Post(task func()) bool {
	select {
	case <-d.done:
		return false
	default:
	}
	select {
	case <-d.done:
		return false
	case d.tasks <- task:
		return true
	}
}

// Go runs work on a background goroutine and posts the closure it returns,
// if any, back to the foreground.
func (d *Dispatcher) Go(work func() func()) {
	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		if task := work(); task != nil {
			d.Post(task)
		}
	}()
}

// Run is the foreground loop. It executes posted tasks and hands each input
// line to handle. When input closes it waits for work started with Go,
// runs what that work posted, and returns nil.
func (d *Dispatcher) Run(ctx context.Context, input <-chan string, handle func(line string)) error {
	defer d.doneOnce.Do(func() { close(d.done) })

	var idle chan struct{}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case task := <-d.tasks:
			task()

		case line, ok := <-input:
			if !ok {
				input = nil
				idle = make(chan struct{})
				go func(idle chan struct{}) {
					d.pending.Wait()
					close(idle)
				}(idle)
				continue
			}
			handle(line)

		case <-idle:
			d.drain()
			return nil
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case task := <-d.tasks:
			task()
		default:
			return
		}
	}
}
