package internal

import (
	"sync"
	"time"
)

// Ticker runs a callback at a fixed interval until stopped.
// Stop must not be called from inside the callback.
type Ticker struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartTicker starts calling fn every interval on its own goroutine
func StartTicker(interval time.Duration, fn func()) *Ticker {
	t := &Ticker{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		tk := time.NewTicker(interval)
		defer tk.Stop()

		for {
			select {
			case <-t.stop:
				return
			case <-tk.C:
				// stop wins over a tick that raced with it
				select {
				case <-t.stop:
					return
				default:
				}
				fn()
			}
		}
	}()

	return t
}

// Stop cancels the ticker and waits for its goroutine to exit.
// After Stop returns the callback is never invoked again. Safe on nil and idempotent.
func (t *Ticker) Stop() {
	if t == nil {
		return
	}
	t.once.Do(func() { close(t.stop) })
	<-t.done
}
