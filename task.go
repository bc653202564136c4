package task

import "sync"

// A CancelFunc requests termination of one in-flight execution of a [Task].
//
// A CancelFunc is idempotent and always safe to call: calling it after
// the execution has already settled, or calling it more than once, is
// a no-op. A CancelFunc never panics.
//
// Cancellation is cooperative. It is a request honored by the underlying
// leaf computation, such as stopping a timer or aborting a call. A leaf
// that ignores the request simply keeps running silently; its outcome is
// discarded either way.
type CancelFunc func()

func noop() {}

// A Task is a lazy, reusable description of a computation that, once
// started, settles with exactly one of: success with a value of type T,
// or failure with an error of type E.
//
// Creating a Task, directly or with combinators like [Map] and [AndThen],
// performs no work. Work begins only when the Task is started with
// the Start method. The same Task value can be started any number of
// times; every start is an independent execution with its own outcome
// and its own [CancelFunc].
//
// E is a free type parameter. This package imposes no error
// representation, only the success/failure duality.
//
// The zero Task is not a valid Task; use [New], [Succeed] or [Fail].
type Task[E, T any] struct {
	run func(reject func(E), resolve func(T)) CancelFunc
}

// New creates a [Task] from a raw computation function.
//
// This is the universal escape hatch for building leaf Tasks out of
// timers, callback-based APIs and other external collaborators.
// Each time the Task is started, computation is called exactly once,
// with fresh reject and resolve callbacks. The computation must begin
// work, synchronously or by scheduling asynchronous work, and return
// a [CancelFunc] that stops the work. Calling at most one of reject
// and resolve, at most once, settles the execution.
//
// The Start method guards every execution, so a misbehaving computation
// that settles twice, or that settles after having been cancelled, is
// silenced rather than observed. A nil return value is treated as
// a no-op CancelFunc.
func New[E, T any](computation func(reject func(E), resolve func(T)) CancelFunc) Task[E, T] {
	if computation == nil {
		panic("task: New called with nil computation")
	}
	return Task[E, T]{run: computation}
}

// Succeed returns a [Task] that, when started, immediately resolves
// with v. There is nothing to stop, so its CancelFunc is a no-op.
func Succeed[E, T any](v T) Task[E, T] {
	return Task[E, T]{run: func(_ func(E), resolve func(T)) CancelFunc {
		resolve(v)
		return noop
	}}
}

// Fail returns a [Task] that, when started, immediately rejects with e.
// There is nothing to stop, so its CancelFunc is a no-op.
func Fail[E, T any](e E) Task[E, T] {
	return Task[E, T]{run: func(reject func(E), _ func(T)) CancelFunc {
		reject(e)
		return noop
	}}
}

// Start begins one execution of t, delivering the outcome to exactly one
// of reject and resolve, exactly once. Start never panics with a failure;
// failures are delivered through reject.
//
// The returned [CancelFunc] stops the execution if it has not settled
// yet. After it is called, neither callback fires. Ownership of the
// handle transfers to the caller; it has no further relationship to
// the Task value, which can be started again independently.
//
// Start is safe for concurrent use, and an execution may settle from
// any goroutine.
func (t Task[E, T]) Start(reject func(E), resolve func(T)) CancelFunc {
	if t.run == nil {
		panic("task: Start called on a zero Task")
	}
	g := new(gate)
	cancel := t.run(
		func(e E) {
			if g.settle() {
				reject(e)
			}
		},
		func(v T) {
			if g.settle() {
				resolve(v)
			}
		},
	)
	return func() {
		if g.settle() && cancel != nil {
			cancel()
		}
	}
}

// A gate enforces at-most-once settlement for a single execution.
// Both callbacks and the cancel handle funnel through settle; whichever
// wins makes every later call a no-op.
type gate struct {
	mu   sync.Mutex
	done bool
}

func (g *gate) settle() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done {
		return false
	}
	g.done = true
	return true
}
