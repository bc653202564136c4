package task

import "maps"

// Fields is a structured record built up field-by-field across
// independent asynchronous steps with [Assign] and [AssignWith].
type Fields map[string]any

// Assign returns a [Task] that, on success of t with record r, runs
// other and, on its success with value v, resolves with a copy of r
// extended with field key set to v. A failure of either t or other
// fails the returned Task; later steps of an Assign chain then never
// run.
//
// Assign is built from [AndThen] and [Map] and inherits their
// short-circuit and cancellation behavior.
func Assign[E, V any](t Task[E, Fields], key string, other Task[E, V]) Task[E, Fields] {
	return AssignWith(t, key, func(Fields) Task[E, V] { return other })
}

// AssignWith is like [Assign], but derives the Task for the new field
// from the fields assigned so far.
func AssignWith[E, V any](t Task[E, Fields], key string, f func(Fields) Task[E, V]) Task[E, Fields] {
	return AndThen(t, func(r Fields) Task[E, Fields] {
		return Map(f(r), func(v V) Fields {
			out := maps.Clone(r)
			if out == nil {
				out = Fields{}
			}
			out[key] = v
			return out
		})
	})
}
