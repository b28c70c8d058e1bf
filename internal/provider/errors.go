package provider

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnsupported marks an operation a provider structurally cannot serve.
// The aggregator skips it silently; it is expected, not an error condition.
var ErrUnsupported = errors.New("operation not supported")

// ConfigError means a provider instance is unusable for its whole lifetime
// (missing credential, rejected key). The aggregator skips the instance
// permanently for this process run.
type ConfigError struct {
	Provider string
	Reason   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: configuration: %s", e.Provider, e.Reason)
}

// TransientError means one call failed (transport, decode, non-success
// status). The aggregator moves to the next provider without retrying.
type TransientError struct {
	Provider string
	Op       string
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsUnsupported reports whether err classifies as UnsupportedOperation.
func IsUnsupported(err error) bool { return errors.Is(err, ErrUnsupported) }

// IsConfig reports whether err classifies as a ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// Transient wraps a transport or decode failure from one call.
func Transient(name, op string, err error) error {
	return &TransientError{Provider: name, Op: op, Err: err}
}

// StatusError classifies a non-2xx upstream status. Authentication
// failures condemn the provider instance; everything else is transient.
func StatusError(name, op string, status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusPaymentRequired:
		return &ConfigError{Provider: name, Reason: fmt.Sprintf("%s rejected with status %d", op, status)}
	default:
		return &TransientError{Provider: name, Op: op, Err: fmt.Errorf("unexpected status %d", status)}
	}
}
