package loader

import "errors"

// Status classifies the outcome of one load.
type Status string

const (
	StatusOK     Status = "ok"
	StatusEmpty  Status = "empty"
	StatusFailed Status = "failed"
)

// ErrMissingColumn is reported when a required column is absent from a CSV header.
var ErrMissingColumn = errors.New("loader: missing column")

// ErrInvalidRank is reported when a signal rank is not positive or repeats.
var ErrInvalidRank = errors.New("loader: invalid rank")

// Result carries a loaded value together with how the load went.
// Value is the zero value unless Status is StatusOK.
type Result[T any] struct {
	Status Status
	Value  T
	Err    error
	// Source is the resolved file name the value came from.
	Source string
}

func ok[T any](v T, source string) Result[T] {
	return Result[T]{Status: StatusOK, Value: v, Source: source}
}

func empty[T any](source string) Result[T] {
	return Result[T]{Status: StatusEmpty, Source: source}
}

func failed[T any](err error, source string) Result[T] {
	return Result[T]{Status: StatusFailed, Err: err, Source: source}
}

// OK reports whether a value is present.
func (r Result[T]) OK() bool { return r.Status == StatusOK }

// Reason is a short description of why no value is present.
func (r Result[T]) Reason() string {
	switch r.Status {
	case StatusOK:
		return ""
	case StatusEmpty:
		return "no data"
	default:
		if r.Err != nil {
			return r.Err.Error()
		}
		return "load failed"
	}
}
