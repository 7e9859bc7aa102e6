package lookupapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/LOOTXSEC/subdomain-finder/internal/app/template"
	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
	"github.com/LOOTXSEC/subdomain-finder/internal/infra/httpclient"
	"github.com/LOOTXSEC/subdomain-finder/internal/ports"
	"github.com/LOOTXSEC/subdomain-finder/internal/usecase/extract"
)

// Client queries the reverse-IP/subdomain API for one domain at a time.
// It is safe for concurrent use.
type Client struct {
	endpoint   string
	resultPath string

	exec *httpclient.Executor
	log  *slog.Logger

	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

type Option func(*Client)

func WithExecutor(e *httpclient.Executor) Option {
	return func(c *Client) { c.exec = e }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func New(cfg domain.LookupConfig, opts ...Option) *Client {
	c := &Client{
		endpoint:       cfg.Endpoint,
		resultPath:     cfg.ResultPath,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		log:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if c.resultPath == "" {
		c.resultPath = domain.DefaultResultPath
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = 1
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.exec == nil {
		c.exec = httpclient.NewExecutor(httpclient.WithTimeout(cfg.Timeout))
	}
	return c
}

var (
	_ ports.SubdomainLookup = (*Client)(nil)
	_ ports.LookupPlanner   = (*Client)(nil)
)

// URL renders the endpoint template for a domain.
func (c *Client) URL(d string) (string, error) {
	return template.RenderString(c.endpoint, map[string]string{
		"domain": url.QueryEscape(d),
	})
}

// Lookup returns the subdomains the API knows for d.
//
// A response without a usable result list is not an error: it yields an empty
// slice. Transport failures and retryable statuses are retried with backoff;
// once attempts are exhausted (or the status is permanent, or the body exceeds
// the executor's size limit) an OpError of kind lookup is returned.
func (c *Client) Lookup(ctx context.Context, d string) ([]string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		subs, err := c.fetchOnce(ctx, d)
		if err == nil {
			return subs, nil
		}
		lastErr = err

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, lookupError(d, ctxErr)
		}

		kind := domain.ClassifyLookupError(err)
		if !retryable(err) {
			c.log.Warn("lookup.permanent_failure",
				"domain", d, "attempt", attempt, "kind", kind, "error", err)
			if errors.Is(err, domain.ErrResponseTooLarge) {
				return nil, lookupError(d, err)
			}
			return nil, lookupError(d, fmt.Errorf("%w: %w", domain.ErrPermanentStatus, err))
		}

		c.log.Warn("lookup.attempt_failed",
			"domain", d,
			"attempt", attempt,
			"max_attempts", c.maxAttempts,
			"kind", kind,
			"error", err,
		)

		if attempt == c.maxAttempts {
			break
		}

		backoff := calcBackoff(c.initialBackoff, c.maxBackoff, attempt)
		if err := sleepCtx(ctx, backoff); err != nil {
			return nil, lookupError(d, err)
		}
	}

	return nil, lookupError(d, fmt.Errorf("after %d attempts: %w: %w", c.maxAttempts, domain.ErrRetriesExhausted, lastErr))
}

func (c *Client) fetchOnce(ctx context.Context, d string) ([]string, error) {
	u, err := c.URL(d)
	if err != nil {
		return nil, err
	}

	req, err := httpclient.BuildGet(ctx, u)
	if err != nil {
		return nil, err
	}

	resp, err := c.exec.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.Status < 200 || resp.Status > 299 {
		return nil, &domain.HTTPStatusError{StatusCode: resp.Status, Status: resp.StatusMsg}
	}

	if resp.Truncated {
		return nil, fmt.Errorf("read %d bytes: %w", len(resp.BodyBytes), domain.ErrResponseTooLarge)
	}

	subs, err := extract.Strings(resp.BodyBytes, c.resultPath)
	if err != nil {
		c.log.Debug("lookup.no_result",
			"domain", d,
			"status", resp.Status,
			"reason", err,
		)
		return []string{}, nil
	}

	c.log.Debug("lookup.ok", "domain", d, "count", len(subs), "duration", resp.Duration)
	return subs, nil
}

// retryable reports whether another attempt could succeed. Configuration
// errors and client-side HTTP statuses other than timeouts/throttling are final.
func retryable(err error) bool {
	if domain.IsKind(err, domain.KindInvalidConfig) || errors.Is(err, domain.ErrResponseTooLarge) {
		return false
	}

	var se *domain.HTTPStatusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == http.StatusRequestTimeout,
			se.StatusCode == http.StatusTooEarly,
			se.StatusCode == http.StatusTooManyRequests,
			se.StatusCode >= 500:
			return true
		default:
			return false
		}
	}

	return true
}

func lookupError(d string, err error) error {
	return &domain.OpError{
		Op:   "lookupapi.lookup",
		Kind: domain.KindLookup,
		Path: d,
		Err:  err,
	}
}
