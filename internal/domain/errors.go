package domain

import "fmt"

// ValidationError reports input that failed a local check before any
// network call was made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NetworkError wraps a transport failure (connection refused, timeout).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ExternalServiceError reports an error payload returned by an upstream
// service, including declined payments and failed generations.
type ExternalServiceError struct {
	Service string
	Status  int
	Message string
}

func (e *ExternalServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s returned status %d: %s", e.Service, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Service, e.Message)
}

// StateError reports an operation invoked in a state that cannot serve it,
// such as confirming a payment before the gateway finished initializing.
type StateError struct {
	Op     string
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// PaymentUnrecordedError is raised when the payment provider confirmed a
// charge but the history append failed afterwards. The user may have been
// charged without a record; callers must surface this loudly instead of
// retrying silently.
type PaymentUnrecordedError struct {
	IntentID string
	Err      error
}

func (e *PaymentUnrecordedError) Error() string {
	return fmt.Sprintf("payment %s confirmed but not recorded: %v", e.IntentID, e.Err)
}

func (e *PaymentUnrecordedError) Unwrap() error { return e.Err }
