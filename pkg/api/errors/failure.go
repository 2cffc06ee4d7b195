package errors

import (
	"fmt"
	"strings"
)

// Failure is the error side of a remote call.
//
// Error() returns the user-facing message. Verbose() also tells
// what was requested and what caused the failure.
type Failure struct {
	category Category
	summary  string

	// HTTP status code. 0 when no response was received.
	status  int
	verbose string
	cause   error
}

type FailureOption func(*Failure) *Failure

// NewFailure builds Failure with category's default message.
func NewFailure(category Category, options ...FailureOption) *Failure {
	f := &Failure{category: category, summary: Message(category)}
	for _, o := range options {
		f = o(f)
	}
	return f
}

// WithSummary overrides user-facing message.
func WithSummary(summary string) FailureOption {
	return func(f *Failure) *Failure {
		f.summary = summary
		return f
	}
}

func WithStatus(status int) FailureOption {
	return func(f *Failure) *Failure {
		f.status = status
		return f
	}
}

func WithVerbose(verbose string) FailureOption {
	return func(f *Failure) *Failure {
		f.verbose = verbose
		return f
	}
}

func WithCause(err error) FailureOption {
	return func(f *Failure) *Failure {
		f.cause = err
		return f
	}
}

func (f *Failure) Error() string {
	return f.summary
}

func (f *Failure) Unwrap() error {
	return f.cause
}

func (f *Failure) Category() Category {
	return f.category
}

func (f *Failure) Status() int {
	return f.status
}

func (f *Failure) Verbose() string {
	message := []string{fmt.Sprintf("%s [%s]", f.summary, f.category)}
	if f.status != 0 {
		message = append(message, fmt.Sprintf("status code = %d", f.status))
	}
	if f.verbose != "" {
		message = append(message, " ("+f.verbose+") ")
	}

	switch base := f.cause.(type) {
	case nil:
		// no-op
	case interface{ Verbose() string }:
		message = append(message, "caused by: ", base.Verbose())
	default:
		message = append(message, "caused by: ", base.Error())
	}
	return strings.Join(message, "\n")
}
