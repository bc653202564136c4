// Package task implements a lazy, cancellable asynchronous computation
// type and the combinators to compose it.
//
// A [Task] is a pure description of work that either succeeds with
// a value or fails with an error. Nothing happens until the Task is
// started; the same Task value can be started zero, one, or many times,
// and every start returns a [CancelFunc] for that one execution.
// This is the difference from an eagerly started future or promise:
// a Task describes, a start executes.
//
// # Building Tasks
//
// Leaf Tasks come from [Succeed], [Fail], the raw-computation
// constructor [New], the timer leaf [After], and [FromFuture] for
// adapting an external asynchronous primitive.
//
// Larger Tasks are composed with the sequencing combinators [Map],
// [AndThen], [OrElse], [MapError], [Task.TapSuccess] and
// [Task.TapError], the record builders [Assign] and [AssignWith],
// the coordination combinators [All] and [Race], and the retry loop
// [Retry].
//
// # Cancellation
//
// Cancellation is cooperative and flows through composition: cancelling
// a composed Task always cancels whichever sub-computation is currently
// running, even one that was only chosen after an earlier stage
// settled. Every CancelFunc is idempotent and safe to call after
// settlement.
//
// # Settlement
//
// Each start settles at most once, with exactly one of the two
// callbacks given to [Task.Start]. [All] joins many Tasks and fails
// fast, cancelling the rest; [Race] forwards the first settlement and
// cancels the rest. For one-shot consumption without callbacks, adapt
// an execution with [Task.Wait] or [Task.Future].
//
// # Concurrency
//
// Tasks are not goroutines. This package decides only how outcomes and
// cancellations are coordinated, never how concurrency is scheduled;
// a Task suspends exactly where its leaf computation defers settlement,
// typically behind a timer or an external call. All per-composition
// bookkeeping is serialized internally, so executions may settle from
// any goroutine.
package task
