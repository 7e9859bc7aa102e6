package ports

import "context"

// SubdomainLookup queries a remote source for the subdomains of one domain.
// A nil error with an empty slice means "no subdomains".
type SubdomainLookup interface {
	Lookup(ctx context.Context, domain string) ([]string, error)
}

// LookupPlanner renders the request URL a lookup would use, without sending it.
type LookupPlanner interface {
	URL(domain string) (string, error)
}
