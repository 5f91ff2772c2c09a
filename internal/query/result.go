package query

import "encoding/json"

// Result is the outcome of a read: either a value or a failure reason, never both.
type Result[T any] struct {
	data         T
	reason       string
	failed       bool
	precondition bool
}

// Ok wraps a successful value. A nil pointer is a valid success ("not found").
func Ok[T any](data T) Result[T] {
	return Result[T]{data: data}
}

// Fail reports a data-access failure.
func Fail[T any](reason string) Result[T] {
	if reason == "" {
		reason = "query failed"
	}
	return Result[T]{reason: reason, failed: true}
}

// Reject reports a failed precondition detected before any data access.
func Reject[T any](reason string) Result[T] {
	r := Fail[T](reason)
	r.precondition = true
	return r
}

// Data returns the value and whether the result succeeded.
func (r Result[T]) Data() (T, bool) {
	return r.data, !r.failed
}

// Failed reports whether the result carries a failure reason.
func (r Result[T]) Failed() bool {
	return r.failed
}

// Precondition reports whether the failure came from a precondition check.
func (r Result[T]) Precondition() bool {
	return r.failed && r.precondition
}

// Error returns the failure reason, or "" on success.
func (r Result[T]) Error() string {
	return r.reason
}

type envelope[T any] struct {
	Data  *T      `json:"data"`
	Error *string `json:"error"`
}

// MarshalJSON renders {"data": ..., "error": ...} with exactly one side populated.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.failed {
		reason := r.reason
		return json.Marshal(envelope[T]{Error: &reason})
	}
	data := r.data
	return json.Marshal(envelope[T]{Data: &data})
}

// Map converts a successful value, passing failures through untouched.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.failed {
		return Result[U]{reason: r.reason, failed: true, precondition: r.precondition}
	}
	return Ok(fn(r.data))
}
