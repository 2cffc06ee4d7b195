package rest

import (
	"encoding/json"

	apierr "github.com/opst/chronodemica/pkg/api/errors"
)

// Result is an outcome of a call to the collection API.
//
// It is either a success with data, or a failure with *apierr.Failure.
type Result[T any] struct {
	data    T
	failure *apierr.Failure
}

func Ok[T any](data T) Result[T] {
	return Result[T]{data: data}
}

// Err builds a failed Result. f should not be nil.
func Err[T any](f *apierr.Failure) Result[T] {
	if f == nil {
		f = apierr.NewFailure(apierr.Unexpected)
	}
	return Result[T]{failure: f}
}

func (r Result[T]) Success() bool {
	return r.failure == nil
}

// Get returns data, or the failure as error.
func (r Result[T]) Get() (T, error) {
	if r.failure != nil {
		return r.data, r.failure
	}
	return r.data, nil
}

// Data returns data. For failures, it is the zero value.
func (r Result[T]) Data() T {
	return r.data
}

// Error returns the user-facing message of the failure. Empty for successes.
func (r Result[T]) Error() string {
	if r.failure == nil {
		return ""
	}
	return r.failure.Error()
}

// Failure returns the failure, or nil for successes.
func (r Result[T]) Failure() *apierr.Failure {
	return r.failure
}

// Category returns the category of the failure.
//
// The second return value is false for successes.
func (r Result[T]) Category() (apierr.Category, bool) {
	if r.failure == nil {
		return apierr.Unexpected, false
	}
	return r.failure.Category(), true
}

func (r Result[T]) OrDefault(d T) T {
	if r.failure != nil {
		return d
	}
	return r.data
}

type Fataler interface {
	Helper()
	Fatal(...any)
}

// OrFatal returns data, or stops the test with the verbose failure.
func (r Result[T]) OrFatal(t Fataler) T {
	t.Helper()
	if r.failure != nil {
		t.Fatal(r.failure.Verbose())
	}
	return r.data
}

// Map converts data of successful result. Failures are passed through.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.failure != nil {
		return Err[U](r.failure)
	}
	return Ok(fn(r.data))
}

// Decode converts a raw JSON result into typed one.
//
// Undecodable data is reported as an unexpected failure.
func Decode[T any](r Result[json.RawMessage]) Result[T] {
	if r.failure != nil {
		return Err[T](r.failure)
	}
	v := new(T)
	if len(r.data) == 0 {
		return Ok(*v)
	}
	if err := json.Unmarshal(r.data, v); err != nil {
		return Err[T](apierr.NewFailure(
			apierr.Unexpected,
			apierr.WithVerbose("response is not shaped as expected"),
			apierr.WithCause(err),
		))
	}
	return Ok(*v)
}
