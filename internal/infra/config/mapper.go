package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
)

// Map applies the values set in yc on top of base. Unset fields keep the base value.
func Map(path string, yc YAMLConfig, base domain.RunConfig) (domain.RunConfig, error) {
	cfg := base

	if s := strings.TrimSpace(yc.Input); s != "" {
		cfg.InputPath = s
	}
	if s := strings.TrimSpace(yc.Output); s != "" {
		cfg.OutputPath = s
	}
	if yc.Workers != nil {
		if *yc.Workers <= 0 {
			return base, invalidField(path, "workers", "must be positive")
		}
		cfg.Workers = *yc.Workers
	}

	if yc.Filter.Enabled != nil {
		cfg.Filter.Enabled = *yc.Filter.Enabled
	}
	if yc.Filter.Prefixes != nil {
		prefixes := make([]string, 0, len(yc.Filter.Prefixes))
		for i, p := range yc.Filter.Prefixes {
			if strings.TrimSpace(p) == "" {
				return base, invalidField(path, fmt.Sprintf("filter.prefixes[%d]", i), "prefix must not be empty")
			}
			prefixes = append(prefixes, p)
		}
		cfg.Filter.Prefixes = prefixes
	}

	if s := strings.TrimSpace(yc.Lookup.Endpoint); s != "" {
		if !strings.Contains(s, "{{") {
			return base, invalidField(path, "lookup.endpoint", "must contain a {{domain}} placeholder")
		}
		cfg.Lookup.Endpoint = s
	}
	if s := strings.TrimSpace(yc.Lookup.ResultPath); s != "" {
		cfg.Lookup.ResultPath = s
	}
	if yc.Lookup.Retries != nil {
		if *yc.Lookup.Retries <= 0 {
			return base, invalidField(path, "lookup.retries", "must be positive")
		}
		cfg.Lookup.MaxAttempts = *yc.Lookup.Retries
	}

	var err error
	if cfg.Lookup.Timeout, err = parseDuration(path, "lookup.timeout", yc.Lookup.Timeout, cfg.Lookup.Timeout); err != nil {
		return base, err
	}
	if cfg.Lookup.InitialBackoff, err = parseDuration(path, "lookup.backoff.initial", yc.Lookup.Backoff.Initial, cfg.Lookup.InitialBackoff); err != nil {
		return base, err
	}
	if cfg.Lookup.MaxBackoff, err = parseDuration(path, "lookup.backoff.max", yc.Lookup.Backoff.Max, cfg.Lookup.MaxBackoff); err != nil {
		return base, err
	}

	if yc.Resolve.Enabled != nil {
		cfg.Resolve.Enabled = *yc.Resolve.Enabled
	}
	if s := strings.TrimSpace(yc.Resolve.Nameserver); s != "" {
		cfg.Resolve.Nameserver = WithDefaultPort(s)
	}
	if cfg.Resolve.Timeout, err = parseDuration(path, "resolve.timeout", yc.Resolve.Timeout, cfg.Resolve.Timeout); err != nil {
		return base, err
	}

	return cfg, nil
}

func parseDuration(path, field, raw string, def time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, invalidField(path, field, err.Error())
	}
	if d < 0 {
		return 0, invalidField(path, field, "must not be negative")
	}
	return d, nil
}

// WithDefaultPort turns "1.1.1.1" into "1.1.1.1:53" and bracketed IPv6 likewise.
func WithDefaultPort(ns string) string {
	ns = strings.TrimSpace(ns)
	if strings.HasPrefix(ns, "[") || strings.Count(ns, ":") == 1 {
		return ns
	}
	if strings.Count(ns, ":") > 1 {
		return "[" + ns + "]:53"
	}
	return ns + ":53"
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
