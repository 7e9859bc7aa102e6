package dnsresolver

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/miekg/dns"

	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
	"github.com/LOOTXSEC/subdomain-finder/internal/ports"
)

// Resolver checks subdomains against a single nameserver with A queries.
type Resolver struct {
	client     *dns.Client
	nameserver string
	log        *slog.Logger
}

type Option func(*Resolver)

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

func New(cfg domain.ResolveConfig, opts ...Option) *Resolver {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ns := cfg.Nameserver
	if ns == "" {
		ns = domain.DefaultNameserver
	}

	r := &Resolver{
		client:     &dns.Client{Timeout: timeout},
		nameserver: ns,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.HostResolver = (*Resolver)(nil)

// Resolves reports whether host has at least one answer for an A query.
// Exchange errors count as "does not resolve".
func (r *Resolver) Resolves(ctx context.Context, host string) bool {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), dns.TypeA)
	msg.RecursionDesired = true

	reply, _, err := r.client.ExchangeContext(ctx, msg, r.nameserver)
	if err != nil {
		r.log.Debug("resolve.exchange_failed", "host", host, "nameserver", r.nameserver, "error", err)
		return false
	}
	if reply.Rcode != dns.RcodeSuccess {
		return false
	}
	return len(reply.Answer) > 0
}
