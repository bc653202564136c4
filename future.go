package task

import "sync"

// A Future is an eager, external asynchronous primitive: it represents
// a computation that is already in flight and that settles at most once
// through its Resolve and Reject methods.
//
// A Future is the boundary type between this package and code that
// cannot offer cancellation. Unlike a [Task], a Future is not lazy and
// not reusable: it settles once, and every observer sees that one
// settlement. A Future is not cancellable; a Task built on top of one
// inherits that limitation transparently (see [FromFuture]).
//
// A Future must be created with [NewFuture].
type Future[E, T any] struct {
	mu      sync.Mutex
	done    chan struct{}
	settled bool
	failed  bool
	value   T
	err     E
	subs    []futureSub[E, T]
}

type futureSub[E, T any] struct {
	onSuccess func(T)
	onFailure func(E)
}

// NewFuture creates an unsettled [Future]. The creator keeps the
// promise side (Resolve, Reject) and hands the Future to consumers.
func NewFuture[E, T any]() *Future[E, T] {
	return &Future[E, T]{done: make(chan struct{})}
}

// Resolve settles f successfully with v. Only the first of Resolve and
// Reject has any effect; later calls are no-ops.
func (f *Future[E, T]) Resolve(v T) {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return
	}
	f.settled = true
	f.value = v
	subs := f.subs
	f.subs = nil
	close(f.done)
	f.mu.Unlock()
	for _, s := range subs {
		if s.onSuccess != nil {
			s.onSuccess(v)
		}
	}
}

// Reject settles f with error e. Only the first of Resolve and Reject
// has any effect; later calls are no-ops.
func (f *Future[E, T]) Reject(e E) {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return
	}
	f.settled = true
	f.failed = true
	f.err = e
	subs := f.subs
	f.subs = nil
	close(f.done)
	f.mu.Unlock()
	for _, s := range subs {
		if s.onFailure != nil {
			s.onFailure(e)
		}
	}
}

// Then attaches settlement callbacks to f. Exactly one of them is
// called, exactly once, when f settles; if f has already settled, it is
// called synchronously. Either callback may be nil. A Future supports
// any number of subscribers.
func (f *Future[E, T]) Then(onSuccess func(T), onFailure func(E)) {
	f.mu.Lock()
	if !f.settled {
		f.subs = append(f.subs, futureSub[E, T]{onSuccess, onFailure})
		f.mu.Unlock()
		return
	}
	failed, v, e := f.failed, f.value, f.err
	f.mu.Unlock()
	if failed {
		if onFailure != nil {
			onFailure(e)
		}
	} else {
		if onSuccess != nil {
			onSuccess(v)
		}
	}
}

// Done returns a channel that is closed when f settles.
func (f *Future[E, T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until f settles and returns its [Outcome].
func (f *Future[E, T]) Await() Outcome[E, T] {
	<-f.done
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failed {
		return Failure[E, T](f.err)
	}
	return Success[E](f.value)
}

// FromFuture returns a [Task] that, when started, calls producer and
// forwards the settlement of the produced [Future].
//
// The returned Task's CancelFunc is a documented no-op: once producer
// has been called, the external computation cannot be stopped. The lazy
// contract is preserved because producer itself is not called until
// the Task is started, once per start.
func FromFuture[E, T any](producer func() *Future[E, T]) Task[E, T] {
	return New(func(reject func(E), resolve func(T)) CancelFunc {
		producer().Then(resolve, reject)
		return noop
	})
}

// AndThenFuture is like [AndThen], but f returns a [Future] rather than
// a Task. On success of t with value v, f(v) is called and the
// settlement of its Future is forwarded. On failure of t, the error
// short-circuits and f is never called.
//
// Before f is called, cancelling cancels t; afterwards, cancellation is
// a no-op for the external stage, per the Future limitation.
func AndThenFuture[E, A, B any](t Task[E, A], f func(A) *Future[E, B]) Task[E, B] {
	return AndThen(t, func(v A) Task[E, B] {
		return FromFuture(func() *Future[E, B] { return f(v) })
	})
}

// Future starts t and adapts the execution into a [Future] for one-shot
// consumption. The execution is not cancellable once adapted.
func (t Task[E, T]) Future() *Future[E, T] {
	f := NewFuture[E, T]()
	t.Start(f.Reject, f.Resolve)
	return f
}

// Wait starts t and blocks until the execution settles, returning its
// [Outcome]. This is the await-style adapter; the execution is not
// cancellable.
//
// Wait never returns for a Task that never settles, such as Race(nil).
func (t Task[E, T]) Wait() Outcome[E, T] {
	return t.Future().Await()
}
