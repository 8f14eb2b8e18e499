package apifootball

import (
	"fmt"
	"net/http"
	"time"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrUpstream    = crerr.New("sport data provider failure")
	ErrRateLimited = crerr.New("sport data provider rate limited")
	errTransient   = crerr.New("sport data provider transient failure")
)

// UpstreamError is a failed provider call. StatusCode is zero for network
// failures.
type UpstreamError struct {
	Path        string
	StatusCode  int
	RateLimited bool
	RetryAfter  time.Duration
	Message     string
	err         error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.RateLimited:
		return fmt.Sprintf("provider rate limited path=%s: %s", e.Path, e.Message)
	case e.StatusCode == 0:
		return fmt.Sprintf("provider request failed path=%s: %s", e.Path, e.Message)
	default:
		return fmt.Sprintf("provider status=%d path=%s: %s", e.StatusCode, e.Path, e.Message)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.err
}

func newUpstreamError(path string, status int, message string) *UpstreamError {
	marker := ErrUpstream
	if status >= http.StatusInternalServerError {
		marker = crerr.Mark(errTransient, ErrUpstream)
	}
	return &UpstreamError{Path: path, StatusCode: status, Message: message, err: marker}
}

func newTransportError(path, message string) *UpstreamError {
	return &UpstreamError{Path: path, Message: message, err: crerr.Mark(errTransient, ErrUpstream)}
}

func newRateLimitedError(path, message string, wait time.Duration) *UpstreamError {
	return &UpstreamError{
		Path:        path,
		StatusCode:  http.StatusTooManyRequests,
		RateLimited: true,
		RetryAfter:  wait,
		Message:     message,
		err:         crerr.Mark(ErrRateLimited, ErrUpstream),
	}
}

// isTransient reports failures that should count against the circuit
// breaker: network errors and 5xx answers.
func isTransient(err error) bool {
	return err != nil && crerr.Is(err, errTransient)
}

func IsRateLimited(err error) bool {
	return err != nil && crerr.Is(err, ErrRateLimited)
}

func IsUpstream(err error) bool {
	return err != nil && crerr.Is(err, ErrUpstream)
}
