package task

// An Outcome is the terminal result of one execution of a [Task]:
// success with a value of type T, or failure with an error of type E,
// mutually exclusive.
type Outcome[E, T any] struct {
	value  T
	err    E
	failed bool
}

// Success returns a successful [Outcome] carrying v.
func Success[E, T any](v T) Outcome[E, T] {
	return Outcome[E, T]{value: v}
}

// Failure returns a failed [Outcome] carrying e.
func Failure[E, T any](e E) Outcome[E, T] {
	return Outcome[E, T]{err: e, failed: true}
}

// Failed reports whether o is a failure.
func (o Outcome[E, T]) Failed() bool {
	return o.failed
}

// Value returns the success value of o, or the zero value of T if o is
// a failure.
func (o Outcome[E, T]) Value() T {
	return o.value
}

// Err returns the error of o, or the zero value of E if o is a success.
func (o Outcome[E, T]) Err() E {
	return o.err
}
