package intelligence

import (
	"context"
	"errors"

	"github.com/alexanderramin/estudio/internal/llm"
)

// Source records where an operation's value came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Outcome is the result of one collaborator operation. Value always has the
// right shape: when the model call fails, Value holds the deterministic
// fallback and Cause the reason.
type Outcome[T any] struct {
	Value  T
	Source Source
	Cause  error
}

func fromModel[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v, Source: SourceModel}
}

func fromFallback[T any](v T, cause error) Outcome[T] {
	return Outcome[T]{Value: v, Source: SourceFallback, Cause: cause}
}

func (o Outcome[T]) UsedFallback() bool { return o.Source == SourceFallback }

// Aborted reports whether the fallback was taken because the caller
// cancelled the request, as opposed to the model failing.
func (o Outcome[T]) Aborted() bool {
	return o.UsedFallback() && errors.Is(o.Cause, context.Canceled)
}

// Reason classifies a fallback cause into a short label for logs and metrics.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, llm.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, llm.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, llm.ErrInvalidOutput):
		return "invalid_output"
	case errors.Is(err, llm.ErrRequestFailed):
		return "request_failed"
	case errors.Is(err, ErrBlankInput):
		return "blank_input"
	default:
		return "unknown"
	}
}
