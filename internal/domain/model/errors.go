package model

import "fmt"

// LoadError means the district catalog could not be loaded. It is fatal: the
// process must not start without a registry.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("district catalog %s could not be loaded: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// NotFoundError means no district resolved for the query. The rejected query
// is kept for diagnostics and echoed back to the caller.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no district or city found for %q", e.Query)
}

// UpstreamError covers every failure mode of the live API: non-200 status,
// timeout, rate limiting and schema-invalid payloads.
type UpstreamError struct {
	StatusCode  int
	Timeout     bool
	RateLimited bool
	Reason      string
	Err         error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("upstream timeout: %s", e.Reason)
	case e.RateLimited:
		return fmt.Sprintf("upstream rate limit (HTTP %d): %s", e.StatusCode, e.Reason)
	case e.StatusCode != 0:
		return fmt.Sprintf("upstream HTTP %d: %s", e.StatusCode, e.Reason)
	default:
		return fmt.Sprintf("upstream error: %s", e.Reason)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }
