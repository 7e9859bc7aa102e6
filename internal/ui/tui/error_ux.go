package tui

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
)

// userMessage turns an error into a one-line hint for the prompt.
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	var oe *domain.OpError
	if errors.As(err, &oe) {
		switch oe.Kind {
		case domain.KindNotFound:
			if strings.TrimSpace(oe.Path) != "" {
				return "File not found: " + filepath.Base(oe.Path)
			}
			return "File not found"

		case domain.KindInvalidConfig:
			if oe.Err != nil {
				return strings.TrimSuffix(oe.Err.Error(), ": "+domain.ErrInvalidConfig.Error())
			}
			return "Invalid value"

		default:
			return "Unexpected error (see logs)"
		}
	}

	if errors.Is(err, domain.ErrNotFound) {
		return "File not found"
	}
	return "Unexpected error (see logs)"
}
