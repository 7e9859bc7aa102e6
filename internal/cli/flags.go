package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
	"github.com/LOOTXSEC/subdomain-finder/internal/infra/config"
	"github.com/LOOTXSEC/subdomain-finder/internal/infra/logger"
)

// runFlags are shared by run and validate.
type runFlags struct {
	configPath string

	input  string
	output string

	filter   bool
	prefixes []string
	workers  int

	retries  int
	timeout  time.Duration
	endpoint string

	resolve    bool
	nameserver string
}

func (f *runFlags) bind(c *cobra.Command) {
	def := domain.DefaultRunConfig()

	c.Flags().StringVar(&f.configPath, "config", "", "YAML config file (flags override its values)")
	c.Flags().StringVarP(&f.input, "input", "i", "", "file with one domain per line")
	c.Flags().StringVarP(&f.output, "output", "o", "", "file to write subdomains to (truncated)")
	c.Flags().BoolVarP(&f.filter, "filter", "f", false, "drop housekeeping subdomains (www., mail., cpanel., ...)")
	c.Flags().StringArrayVar(&f.prefixes, "filter-prefix", nil, "prefix to filter out (repeatable; replaces the default list)")
	c.Flags().IntVarP(&f.workers, "workers", "t", def.Workers, "number of concurrent lookups (max 500)")
	c.Flags().IntVar(&f.retries, "retries", def.Lookup.MaxAttempts, "attempts per domain")
	c.Flags().DurationVar(&f.timeout, "timeout", def.Lookup.Timeout, "timeout of a single lookup request")
	c.Flags().StringVar(&f.endpoint, "endpoint", def.Lookup.Endpoint, "lookup URL template; {{domain}} is replaced by the domain")
	c.Flags().BoolVar(&f.resolve, "resolve", false, "keep only subdomains with an A record")
	c.Flags().StringVar(&f.nameserver, "nameserver", def.Resolve.Nameserver, "nameserver used by --resolve")
}

// loadConfigFile layers a config file over base. An explicit path wins;
// otherwise subfind.yaml is searched from searchDir upwards. With neither,
// base is returned unchanged.
func loadConfigFile(base domain.RunConfig, path, searchDir string) (domain.RunConfig, error) {
	if path == "" && searchDir != "" {
		if found, err := config.Find(searchDir, config.DefaultFileName); err == nil {
			logger.L().Info("config.discovered", "path", found)
			path = found
		}
	}
	if path == "" {
		return base, nil
	}
	return config.Load(path, base)
}

// runConfig layers defaults < config file < explicitly set flags. The result is not validated.
// Without --config, a subfind.yaml in searchDir or one of its parents is used when present.
func (f *runFlags) runConfig(c *cobra.Command, searchDir string) (domain.RunConfig, error) {
	cfg, err := loadConfigFile(domain.DefaultRunConfig(), f.configPath, searchDir)
	if err != nil {
		return domain.RunConfig{}, err
	}

	changed := c.Flags().Changed

	if changed("input") {
		cfg.InputPath = f.input
	}
	if changed("output") {
		cfg.OutputPath = f.output
	}
	if changed("filter") {
		cfg.Filter.Enabled = f.filter
	}
	if changed("filter-prefix") {
		cfg.Filter.Prefixes = append([]string(nil), f.prefixes...)
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("retries") {
		cfg.Lookup.MaxAttempts = f.retries
	}
	if changed("timeout") {
		cfg.Lookup.Timeout = f.timeout
	}
	if changed("endpoint") {
		cfg.Lookup.Endpoint = f.endpoint
	}
	if changed("resolve") {
		cfg.Resolve.Enabled = f.resolve
	}
	if changed("nameserver") {
		cfg.Resolve.Nameserver = config.WithDefaultPort(f.nameserver)
	}

	return cfg, nil
}
