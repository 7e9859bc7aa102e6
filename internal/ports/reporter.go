package ports

import "github.com/LOOTXSEC/subdomain-finder/internal/domain"

// StatusReporter receives per-domain results and the final summary.
// Calls are made from a single goroutine.
type StatusReporter interface {
	Start(total int)
	Report(r domain.DomainResult)
	Done(s domain.RunSummary)
}
