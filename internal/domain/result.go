package domain

import (
	"context"
	"errors"
	"net"
	"net/url"
	"os"
	"syscall"
	"time"
)

// ResultStatus is the terminal state of one domain's task.
type ResultStatus string

const (
	StatusFound  ResultStatus = "found"
	StatusEmpty  ResultStatus = "empty"
	StatusFailed ResultStatus = "failed"
)

// LookupErrorKind is a high-level classification of lookup failures.
type LookupErrorKind string

const (
	LookupErrorUnknown LookupErrorKind = "unknown"
	LookupErrorTimeout LookupErrorKind = "timeout"
	LookupErrorDNS     LookupErrorKind = "dns"
	LookupErrorConn    LookupErrorKind = "connection"
	LookupErrorHTTP    LookupErrorKind = "http"
	LookupErrorPanic   LookupErrorKind = "panic"
)

// HTTPStatusError is returned by lookups that got a non-2xx answer.
type HTTPStatusError struct {
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	return "unexpected status: " + e.Status
}

// DomainResult is what a task reports once its domain reached a terminal state.
type DomainResult struct {
	Domain   string       `json:"domain"`
	Status   ResultStatus `json:"status"`
	Lines    int          `json:"lines"`
	Filtered int          `json:"filtered,omitempty"`
	Dropped  int          `json:"unresolved,omitempty"`

	ErrorKind LookupErrorKind `json:"error_kind,omitempty"`
	Error     string          `json:"error,omitempty"`

	Duration time.Duration `json:"duration_ns"`
}

// RunSummary aggregates all DomainResults of a run, in completion order.
type RunSummary struct {
	OutputPath string    `json:"output_path"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`

	Domains int `json:"domains"`
	Found   int `json:"found"`
	Empty   int `json:"empty"`
	Failed  int `json:"failed"`
	Lines   int `json:"lines"`

	Results []DomainResult `json:"results"`
}

// Add records one result and updates the totals.
func (s *RunSummary) Add(r DomainResult) {
	s.Results = append(s.Results, r)
	s.Lines += r.Lines
	switch r.Status {
	case StatusFound:
		s.Found++
	case StatusEmpty:
		s.Empty++
	case StatusFailed:
		s.Failed++
	}
}

// ClassifyLookupError maps transport and HTTP errors to a LookupErrorKind.
func ClassifyLookupError(err error) LookupErrorKind {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return LookupErrorTimeout
	}

	var se *HTTPStatusError
	if errors.As(err, &se) {
		return LookupErrorHTTP
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return LookupErrorTimeout
		}
		return LookupErrorDNS
	}

	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return LookupErrorTimeout
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return LookupErrorTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) {
		return LookupErrorConn
	}

	var oe *net.OpError
	if errors.As(err, &oe) {
		return LookupErrorConn
	}

	return LookupErrorUnknown
}
