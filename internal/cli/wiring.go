package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
	"github.com/LOOTXSEC/subdomain-finder/internal/infra/dnsresolver"
	"github.com/LOOTXSEC/subdomain-finder/internal/infra/domainfile"
	"github.com/LOOTXSEC/subdomain-finder/internal/infra/filesink"
	"github.com/LOOTXSEC/subdomain-finder/internal/infra/httpclient"
	"github.com/LOOTXSEC/subdomain-finder/internal/infra/logger"
	"github.com/LOOTXSEC/subdomain-finder/internal/infra/lookupapi"
	"github.com/LOOTXSEC/subdomain-finder/internal/ports"
	"github.com/LOOTXSEC/subdomain-finder/internal/ui/console"
	"github.com/LOOTXSEC/subdomain-finder/internal/usecase"
)

type outputOptions struct {
	format   string
	progress bool
	noColor  bool
}

// runDeps holds the adapters a run needs, built from a validated config.
type runDeps struct {
	source   *domainfile.Reader
	lookup   *lookupapi.Client
	resolver ports.HostResolver
}

func loadRunDeps(cfg domain.RunConfig, log *slog.Logger) runDeps {
	client := httpclient.New(httpclient.DefaultConfig().ForWorkers(cfg.Workers))
	exec := httpclient.NewExecutor(
		httpclient.WithClient(client),
		httpclient.WithTimeout(cfg.Lookup.Timeout),
	)

	d := runDeps{
		source: domainfile.NewReader(domainfile.WithLogger(log)),
		lookup: lookupapi.New(cfg.Lookup,
			lookupapi.WithExecutor(exec),
			lookupapi.WithLogger(log),
		),
	}
	if cfg.Resolve.Enabled {
		d.resolver = dnsresolver.New(cfg.Resolve, dnsresolver.WithLogger(log))
	}
	return d
}

func (a *app) reporter(cfg domain.RunConfig, opts outputOptions) ports.StatusReporter {
	// JSON summaries own stdout; status lines move to stderr.
	var w io.Writer = a.out
	if opts.format == "json" {
		w = a.errOut
	}

	copts := []console.Option{
		console.WithNoColor(opts.noColor),
		console.WithSource(cfg.InputPath),
	}
	if opts.progress {
		return console.NewProgress(w, copts...)
	}
	return console.NewReporter(w, copts...)
}

// enumerate performs a full run and prints the summary. A partial summary is
// printed even when the run is aborted.
func (a *app) enumerate(ctx context.Context, cfg domain.RunConfig, opts outputOptions) (sum domain.RunSummary, err error) {
	if err := validFormat(opts.format); err != nil {
		return sum, err
	}

	cfg, err = cfg.Validate()
	if err != nil {
		return sum, err
	}

	log := logger.L()
	deps := loadRunDeps(cfg, log)

	domains, err := deps.source.LoadDomains(cfg.InputPath)
	if err != nil {
		return sum, err
	}

	sink, err := filesink.Open(cfg.OutputPath)
	if err != nil {
		return sum, err
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	ucOpts := []usecase.EnumerateOption{usecase.WithLogger(log)}
	if deps.resolver != nil {
		ucOpts = append(ucOpts, usecase.WithResolver(deps.resolver))
	}

	uc := usecase.NewEnumerate(deps.lookup, sink, a.reporter(cfg, opts), cfg, ucOpts...)

	sum, err = uc.Execute(ctx, domains)
	if perr := printSummary(a.out, sum, opts.format); perr != nil && err == nil {
		err = perr
	}
	return sum, err
}
