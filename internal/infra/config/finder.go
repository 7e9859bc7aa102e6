package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
)

// DefaultFileName is looked up when no config file is given explicitly.
const DefaultFileName = "subfind.yaml"

// Find searches startDir and its parents for name and returns the first match.
func Find(startDir, name string) (string, error) {
	if startDir == "" {
		return "", &domain.OpError{
			Op:   "config.find",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("start directory is empty"),
		}
	}
	if name == "" {
		name = DefaultFileName
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{
			Op:   "config.find",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}

	if info, statErr := os.Stat(abs); statErr == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	cur := filepath.Clean(abs)
	for {
		p := filepath.Join(cur, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", &domain.OpError{
				Op:   "config.find",
				Kind: domain.KindNotFound,
				Path: name,
				Err:  domain.ErrNotFound,
			}
		}
		cur = parent
	}
}
