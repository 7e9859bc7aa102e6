package ports

import "context"

// HostResolver checks whether a hostname currently resolves.
type HostResolver interface {
	Resolves(ctx context.Context, host string) bool
}
