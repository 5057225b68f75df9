package fetch

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kjet-platform/countydata/internal/util"
)

var (
	// ErrNotJSON marks a successful response whose content type is not JSON.
	ErrNotJSON = errors.New("response is not JSON")
	// ErrDecode marks a JSON-typed response whose body failed to parse.
	ErrDecode = errors.New("decode JSON")
	// ErrNoCandidates is the cause of an exhaustion with nothing to try.
	ErrNoCandidates = errors.New("no candidate URLs")
)

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// ContentTypeError is a 2xx response that did not declare JSON.
type ContentTypeError struct {
	ContentType string
	Title       string // <title> of an HTML body, if any
}

func (e *ContentTypeError) Error() string {
	ct := e.ContentType
	if ct == "" {
		ct = "none"
	}
	if e.Title != "" {
		return fmt.Sprintf("unexpected content type %q (page title %q)", ct, e.Title)
	}
	return fmt.Sprintf("unexpected content type %q", ct)
}

func (e *ContentTypeError) Is(target error) bool {
	return target == ErrNotJSON
}

// AttemptError is the failure of one candidate.
type AttemptError struct {
	URL string
	Err error
}

func (e *AttemptError) Error() string {
	if e.URL == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *AttemptError) Unwrap() error {
	return e.Err
}

// ExhaustionError is returned when every candidate failed. Its message is the
// last attempt's error, and it unwraps to that attempt, so errors.Is and
// errors.As see the last cause. All attempts are kept in trial order.
type ExhaustionError struct {
	Attempts []*AttemptError
}

// Last returns the final attempt's error.
func (e *ExhaustionError) Last() *AttemptError {
	if len(e.Attempts) == 0 {
		return &AttemptError{Err: ErrNoCandidates}
	}
	return e.Attempts[len(e.Attempts)-1]
}

func (e *ExhaustionError) Error() string {
	return e.Last().Error()
}

func (e *ExhaustionError) Unwrap() error {
	return e.Last()
}

// Detail renders every attempt, one per line.
func (e *ExhaustionError) Detail() string {
	var b strings.Builder
	for i, a := range e.Attempts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a.Error())
	}
	return b.String()
}

// Outcome labels an attempt error for metrics and logs.
func Outcome(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &statusErr):
		return "status"
	case errors.Is(err, ErrNotJSON):
		return "content_type"
	case errors.Is(err, ErrDecode):
		return "parse"
	case errors.Is(err, util.ErrDisallowed):
		return "disallowed"
	default:
		return "transport"
	}
}
