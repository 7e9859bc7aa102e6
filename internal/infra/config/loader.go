package config

import (
	"bytes"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
)

// Load reads a YAML config file and applies it on top of base.
func Load(path string, base domain.RunConfig) (domain.RunConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return base, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var dto YAMLConfig
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&dto); err != nil && !errors.Is(err, io.EOF) {
		return base, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return Map(path, dto, base)
}
