package common

import "fmt"

// TransientError marks a request failure that is worth retrying later:
// network trouble, timeouts, 5xx responses, rate limiting.
// Callers should skip the current cycle and try again on the next one.
type TransientError struct {
	Url    string
	Status int
	Err    error
}

func (e *TransientError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transient failure for url %s (status %d)", e.Url, e.Status)
	}
	return fmt.Sprintf("transient failure for url %s: %v", e.Url, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// PermanentError marks a request that will not succeed on retry,
// typically a 4xx response
type PermanentError struct {
	Url    string
	Status int
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent failure for url %s (status %d)", e.Url, e.Status)
}
