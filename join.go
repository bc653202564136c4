package task

import "sync"

// All returns a [Task] that starts every Task in s concurrently, in
// index order, and succeeds with all of their values once every one of
// them has succeeded. The resolved slice is in the original index
// order, regardless of completion order.
//
// All is fail-fast: the first sub-task to fail settles the joined Task
// with that error, and every still-outstanding sub-task is cancelled
// before the failure is delivered. Later failures and successes of
// siblings are ignored. Every Task in s is given a chance to start,
// back-to-back in index order, even when an earlier one settles the
// join synchronously; a sub-task started after the join is terminal is
// cancelled as soon as its start returns, and its settlement cannot
// reach the dead join.
//
// An empty s succeeds immediately with an empty slice; no Tasks are
// started. Cancelling the joined Task cancels every still-outstanding
// sub-task.
func All[E, T any](s []Task[E, T]) Task[E, []T] {
	return New(func(reject func(E), resolve func([]T)) CancelFunc {
		if len(s) == 0 {
			resolve([]T{})
			return noop
		}
		j := &join[E, T]{
			table:   make([]forkEntry, len(s)),
			results: make([]T, len(s)),
			pending: len(s),
		}
		for i, t := range s {
			c := t.Start(
				func(e E) { j.fail(i, e, reject) },
				func(v T) { j.succeed(i, v, resolve) },
			)
			j.track(i, c)
		}
		return j.cancelAll
	})
}

type join[E, T any] struct {
	mu      sync.Mutex
	table   []forkEntry
	results []T
	pending int
	done    bool
}

func (j *join[E, T]) track(i int, c CancelFunc) {
	j.mu.Lock()
	if j.table[i].store(c, j.done) {
		j.mu.Unlock()
		return
	}
	settled := j.table[i].settled
	j.mu.Unlock()
	if !settled {
		// The join went terminal before this sub-task was started.
		c()
	}
}

func (j *join[E, T]) succeed(i int, v T, resolve func([]T)) {
	j.mu.Lock()
	j.table[i].inert()
	if j.done {
		j.mu.Unlock()
		return
	}
	j.results[i] = v
	j.pending--
	complete := j.pending == 0
	if complete {
		j.done = true
	}
	j.mu.Unlock()
	if complete {
		resolve(j.results)
	}
}

func (j *join[E, T]) fail(i int, e E, reject func(E)) {
	j.mu.Lock()
	j.table[i].inert()
	if j.done {
		j.mu.Unlock()
		return
	}
	j.done = true
	losers := drain(j.table)
	j.mu.Unlock()
	for _, c := range losers {
		c()
	}
	reject(e)
}

func (j *join[E, T]) cancelAll() {
	j.mu.Lock()
	if j.done {
		j.mu.Unlock()
		return
	}
	j.done = true
	losers := drain(j.table)
	j.mu.Unlock()
	for _, c := range losers {
		c()
	}
}

// Race returns a [Task] that starts every Task in s concurrently, in
// index order, and settles with whichever sub-task settles first,
// success or failure alike. Every other still-outstanding sub-task is
// cancelled before the winning outcome is forwarded, so no loser can
// later settle into a dead consumer.
//
// Every Task in s is given a chance to start, back-to-back in index
// order, even when an earlier one wins synchronously during the start
// loop. Once the race is terminal, a sub-task started afterwards is
// cancelled as soon as its start returns, and no sibling settlement is
// forwarded.
//
// An empty s returns a Task that never settles; its CancelFunc is
// a callable no-op. Cancelling the composed Task before any settlement
// cancels all outstanding sub-tasks.
func Race[E, T any](s []Task[E, T]) Task[E, T] {
	return New(func(reject func(E), resolve func(T)) CancelFunc {
		if len(s) == 0 {
			return noop
		}
		r := &race{table: make([]forkEntry, len(s))}
		for i, t := range s {
			c := t.Start(
				func(e E) { r.settle(i, raceRejected, func() { reject(e) }) },
				func(v T) { r.settle(i, raceResolved, func() { resolve(v) }) },
			)
			r.track(i, c)
		}
		return r.cancelAll
	})
}

type raceStatus int

const (
	raceWaiting raceStatus = iota
	raceResolved
	raceRejected
	raceCanceled
)

type race struct {
	mu     sync.Mutex
	status raceStatus
	table  []forkEntry
}

func (r *race) track(i int, c CancelFunc) {
	r.mu.Lock()
	if r.table[i].store(c, r.status != raceWaiting) {
		r.mu.Unlock()
		return
	}
	settled := r.table[i].settled
	r.mu.Unlock()
	if !settled {
		c()
	}
}

func (r *race) settle(i int, status raceStatus, deliver func()) {
	r.mu.Lock()
	r.table[i].inert()
	if r.status != raceWaiting {
		r.mu.Unlock()
		return
	}
	r.status = status
	losers := drain(r.table)
	r.mu.Unlock()
	for _, c := range losers {
		c()
	}
	deliver()
}

func (r *race) cancelAll() {
	r.mu.Lock()
	if r.status != raceWaiting {
		r.mu.Unlock()
		return
	}
	r.status = raceCanceled
	losers := drain(r.table)
	r.mu.Unlock()
	for _, c := range losers {
		c()
	}
}

// A forkEntry is one row of the bookkeeping table of [All] or [Race]:
// whether the sub-task has settled, and how to cancel it while it has
// not. Entries are made inert before any cross-cutting action so that
// no sub-task is cancelled redundantly.
type forkEntry struct {
	settled bool
	cancel  CancelFunc
}

// store records the cancel handle of a freshly started sub-task.
// It reports false if the handle must not be stored: the sub-task has
// already settled, or the composition is already terminal.
func (e *forkEntry) store(c CancelFunc, terminal bool) bool {
	if e.settled || terminal {
		return false
	}
	e.cancel = c
	return true
}

// inert marks the entry settled and drops its cancel handle.
func (e *forkEntry) inert() {
	e.settled = true
	e.cancel = nil
}

// drain collects and clears the cancel handles of every entry still
// outstanding.
func drain(table []forkEntry) []CancelFunc {
	var cs []CancelFunc
	for i := range table {
		e := &table[i]
		if !e.settled && e.cancel != nil {
			cs = append(cs, e.cancel)
			e.cancel = nil
		}
	}
	return cs
}
