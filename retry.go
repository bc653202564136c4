package task

import (
	"sync"
	"time"
)

// Retry returns a [Task] that repeatedly attempts t until it succeeds:
// it starts t and, on failure, schedules another attempt after interval,
// forever. The first success resolves the returned Task with that value.
// The returned Task never fails; bounding the number of attempts is
// the caller's responsibility, for example with a counter inside t.
//
// Cancellation is effective in every phase: while an attempt is
// running, it is forwarded to that attempt; while idle between
// attempts, it stops the pending timer. Once cancelled, no further
// attempt starts.
func Retry[E, T any](interval time.Duration, t Task[E, T]) Task[E, T] {
	return New(func(_ func(E), resolve func(T)) CancelFunc {
		var (
			mu       sync.Mutex
			canceled bool
			live     CancelFunc
		)
		var attempt func()
		attempt = func() {
			mu.Lock()
			if canceled {
				mu.Unlock()
				return
			}
			mu.Unlock()

			settled := false
			c := t.Start(
				func(E) {
					mu.Lock()
					settled = true
					if canceled {
						mu.Unlock()
						return
					}
					tm := time.AfterFunc(interval, attempt)
					live = func() { tm.Stop() }
					mu.Unlock()
				},
				func(v T) {
					mu.Lock()
					settled = true
					mu.Unlock()
					resolve(v)
				},
			)

			mu.Lock()
			if canceled {
				mu.Unlock()
				c()
				return
			}
			if !settled {
				// An attempt that settled during its own Start has
				// already moved the live handle on; its own handle is
				// inert and must not displace the timer's.
				live = c
			}
			mu.Unlock()
		}
		attempt()
		return func() {
			mu.Lock()
			if canceled {
				mu.Unlock()
				return
			}
			canceled = true
			c := live
			live = nil
			mu.Unlock()
			if c != nil {
				c()
			}
		}
	})
}

// After returns a [Task] that resolves with v once d has elapsed.
// Cancelling it stops the timer, after which the Task never settles.
//
// After is the canonical cancellable leaf; it is also a building block
// for timeouts when combined with [Race].
func After[E, T any](d time.Duration, v T) Task[E, T] {
	return New(func(_ func(E), resolve func(T)) CancelFunc {
		tm := time.AfterFunc(d, func() { resolve(v) })
		return func() { tm.Stop() }
	})
}
