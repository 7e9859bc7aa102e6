package httpclient

import (
	"context"
	"net/http"
	"strings"

	"github.com/LOOTXSEC/subdomain-finder/internal/buildinfo"
	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
)

// BuildGet builds a GET request that asks for a JSON answer.
func BuildGet(ctx context.Context, rawURL string) (*http.Request, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Err:  domain.ErrInvalidConfig,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	return req, nil
}
