package summarize

import "fmt"

// BackendError is returned when a model backend fails and fallback is
// disabled. It names the backend so callers can tell which engine broke.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf(
		"%s summarization failed: %v (enable fallback to permit basic-mode recovery)",
		e.Backend,
		e.Err,
	)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
