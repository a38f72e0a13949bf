package llm

import "errors"

var (
	// ErrUnavailable indicates the model server is unreachable or the
	// client is not configured.
	ErrUnavailable = errors.New("llm server unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the LLM response was empty or could not be
	// parsed into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRequestFailed indicates the server answered with an error status.
	ErrRequestFailed = errors.New("llm request failed")
)
