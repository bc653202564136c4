package task

import "sync"

// Map returns a [Task] that, on success, transforms the value through f
// before resolving. On failure, the error passes through unchanged and
// f is never called. Cancelling the returned Task cancels t.
//
// f must not panic; a panic propagates out of the settling goroutine.
func Map[E, A, B any](t Task[E, A], f func(A) B) Task[E, B] {
	return New(func(reject func(E), resolve func(B)) CancelFunc {
		return t.Start(reject, func(v A) {
			resolve(f(v))
		})
	})
}

// MapError returns a [Task] that, on failure, transforms the error
// through f before rejecting. On success, the value passes through
// unchanged and f is never called. Cancelling the returned Task
// cancels t.
func MapError[E, F, T any](t Task[E, T], f func(E) F) Task[F, T] {
	return New(func(reject func(F), resolve func(T)) CancelFunc {
		return t.Start(func(e E) {
			reject(f(e))
		}, resolve)
	})
}

// AndThen returns a [Task] that, on success of t with value v, calls
// f(v) to obtain a second Task, starts it, and forwards its outcome.
// On failure of t, the error short-circuits and f is never called.
//
// Cancellation always targets whichever stage is currently executing:
// before the second Task starts, cancelling cancels t; after it starts,
// cancelling cancels the second Task instead.
func AndThen[E, A, B any](t Task[E, A], f func(A) Task[E, B]) Task[E, B] {
	return New(func(reject func(E), resolve func(B)) CancelFunc {
		s := new(slot)
		first := t.Start(reject, func(v A) {
			if !s.alive() {
				return
			}
			second := f(v).Start(reject, resolve)
			if !s.set(second) {
				second()
			}
		})
		s.setIfEmpty(first)
		return s.cancel
	})
}

// OrElse is the failure-path dual of [AndThen]: on failure of t with
// error e, it calls f(e) to obtain a fallback Task, starts it, and
// forwards its outcome. On success of t, the value short-circuits and
// f is never called.
//
// Cancellation targets whichever stage is currently executing, exactly
// as with [AndThen].
func OrElse[E, F, T any](t Task[E, T], f func(E) Task[F, T]) Task[F, T] {
	return New(func(reject func(F), resolve func(T)) CancelFunc {
		s := new(slot)
		first := t.Start(func(e E) {
			if !s.alive() {
				return
			}
			fallback := f(e).Start(reject, resolve)
			if !s.set(fallback) {
				fallback()
			}
		}, resolve)
		s.setIfEmpty(first)
		return s.cancel
	})
}

// TapSuccess returns a [Task] that invokes f with the success value
// before forwarding it, without altering the outcome. On failure, f is
// never called. The side effect must not panic.
func (t Task[E, T]) TapSuccess(f func(T)) Task[E, T] {
	return New(func(reject func(E), resolve func(T)) CancelFunc {
		return t.Start(reject, func(v T) {
			f(v)
			resolve(v)
		})
	})
}

// TapError returns a [Task] that invokes f with the error before
// forwarding it, without altering the outcome. On success, f is never
// called. The side effect must not panic.
func (t Task[E, T]) TapError(f func(E)) Task[E, T] {
	return New(func(reject func(E), resolve func(T)) CancelFunc {
		return t.Start(func(e E) {
			f(e)
			reject(e)
		}, resolve)
	})
}

// A slot holds the cancel handle of whichever stage of a two-stage
// composition is currently live. The composition's own cancel handle
// indirects through the slot, so that a cancel request always reaches
// the stage that is actually running, not the one that was running
// when the composition was started.
type slot struct {
	mu       sync.Mutex
	canceled bool
	live     CancelFunc
}

func (s *slot) alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.canceled
}

// set installs c as the live handle. It reports false if the slot has
// already been cancelled, in which case the caller must cancel c
// itself: the hand-off to c raced the cancel request and lost.
func (s *slot) set(c CancelFunc) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.canceled {
		return false
	}
	s.live = c
	return true
}

// setIfEmpty installs c only when no later stage has claimed the slot.
// A first stage that settles synchronously during its own Start hands
// the slot to the second stage before Start returns; the first stage's
// handle, by then inert, must not displace it.
func (s *slot) setIfEmpty(c CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.canceled || s.live != nil {
		return
	}
	s.live = c
}

func (s *slot) cancel() {
	s.mu.Lock()
	if s.canceled {
		s.mu.Unlock()
		return
	}
	s.canceled = true
	c := s.live
	s.live = nil
	s.mu.Unlock()
	if c != nil {
		c()
	}
}
