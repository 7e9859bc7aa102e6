package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxWorkers is the hard ceiling on concurrent lookups, whatever the user asks for.
const MaxWorkers = 500

const (
	DefaultEndpoint   = "https://sub-scan-api.reverseipdomain.com/?domain={{domain}}"
	DefaultResultPath = "$.result.domains"
	DefaultNameserver = "8.8.8.8:53"
)

// DefaultFilterPrefixes are the housekeeping subdomains dropped when filtering is on.
var DefaultFilterPrefixes = []string{
	"www.", "webmail.", "cpanel.", "cpcalendars.", "cpcontacts.",
	"webdisk.", "mail.", "whm.", "autodiscover.",
}

// RunConfig is built once before dispatch and never mutated afterwards.
type RunConfig struct {
	InputPath  string
	OutputPath string
	Workers    int

	Filter  FilterConfig
	Lookup  LookupConfig
	Resolve ResolveConfig
}

type FilterConfig struct {
	Enabled  bool
	Prefixes []string
}

type LookupConfig struct {
	// Endpoint is a URL template; {{domain}} is replaced by the query-escaped domain.
	Endpoint string
	// ResultPath is the JSONPath of the subdomain list inside the response body.
	ResultPath string

	MaxAttempts    int
	Timeout        time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

type ResolveConfig struct {
	Enabled    bool
	Nameserver string
	Timeout    time.Duration
}

// DefaultRunConfig provides sane defaults for everything but the file paths.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Workers: 50,
		Filter: FilterConfig{
			Enabled:  false,
			Prefixes: append([]string(nil), DefaultFilterPrefixes...),
		},
		Lookup: LookupConfig{
			Endpoint:       DefaultEndpoint,
			ResultPath:     DefaultResultPath,
			MaxAttempts:    3,
			Timeout:        30 * time.Second,
			InitialBackoff: 500 * time.Millisecond,
			MaxBackoff:     5 * time.Second,
		},
		Resolve: ResolveConfig{
			Enabled:    false,
			Nameserver: DefaultNameserver,
			Timeout:    3 * time.Second,
		},
	}
}

// ClampWorkers rejects non-positive counts and silently caps the rest at MaxWorkers.
func ClampWorkers(n int) (int, error) {
	if n <= 0 {
		return 0, &OpError{
			Op:   "config.workers",
			Kind: KindInvalidConfig,
			Err:  fmt.Errorf("worker count must be positive, got %d: %w", n, ErrInvalidConfig),
		}
	}
	if n > MaxWorkers {
		return MaxWorkers, nil
	}
	return n, nil
}

// Validate checks the configuration and returns a copy with the worker count clamped.
func (c RunConfig) Validate() (RunConfig, error) {
	out := c

	if strings.TrimSpace(c.InputPath) == "" {
		return RunConfig{}, invalidConfig("input", "input file is required")
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return RunConfig{}, invalidConfig("output", "output file is required")
	}

	w, err := ClampWorkers(c.Workers)
	if err != nil {
		return RunConfig{}, err
	}
	out.Workers = w

	if !strings.Contains(c.Lookup.Endpoint, "{{") {
		return RunConfig{}, invalidConfig("endpoint", "endpoint must contain a {{domain}} placeholder")
	}
	if strings.TrimSpace(c.Lookup.ResultPath) == "" {
		out.Lookup.ResultPath = DefaultResultPath
	}
	if c.Lookup.MaxAttempts <= 0 {
		return RunConfig{}, invalidConfig("retries", "at least one attempt is required")
	}
	if c.Lookup.Timeout <= 0 {
		return RunConfig{}, invalidConfig("timeout", "timeout must be positive")
	}
	if c.Lookup.InitialBackoff < 0 || c.Lookup.MaxBackoff < 0 {
		return RunConfig{}, invalidConfig("backoff", "backoff must not be negative")
	}

	if c.Resolve.Enabled && strings.TrimSpace(c.Resolve.Nameserver) == "" {
		return RunConfig{}, invalidConfig("nameserver", "nameserver is required when resolve is enabled")
	}

	out.Filter.Prefixes = append([]string(nil), c.Filter.Prefixes...)
	return out, nil
}

func invalidConfig(field, msg string) error {
	return &OpError{
		Op:   "config.validate",
		Kind: KindInvalidConfig,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, ErrInvalidConfig),
	}
}
