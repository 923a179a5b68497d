package llm

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when the backend replied without any text.
var ErrEmptyResponse = errors.New("llm: empty response from model")

// ConfigurationError indicates a provider could not be constructed: missing
// credential, unknown provider name, or the reasoning layer being disabled.
// It is never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return "llm: " + e.Reason }

// InvalidArgumentError indicates malformed Generate parameters. It is
// raised before any network call and never retried.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string { return "llm: " + e.Reason }

// ProviderError wraps the last underlying error after all retry attempts
// against a backend were exhausted.
type ProviderError struct {
	Attempts int
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("llm: failed to generate response after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsInvalidArgument reports whether err is an argument-validation error.
func IsInvalidArgument(err error) bool {
	var ie *InvalidArgumentError
	return errors.As(err, &ie)
}
