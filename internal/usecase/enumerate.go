package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
	"github.com/LOOTXSEC/subdomain-finder/internal/ports"
)

// Enumerate fans domains out to a fixed pool of workers and funnels every
// result through a single writer goroutine, the only caller of the sink and
// the reporter.
type Enumerate struct {
	lookup   ports.SubdomainLookup
	sink     ports.SubdomainSink
	reporter ports.StatusReporter
	resolver ports.HostResolver

	cfg    domain.RunConfig
	filter domain.FilterRule
	log    *slog.Logger
	now    func() time.Time
}

type EnumerateOption func(*Enumerate)

// WithResolver drops subdomains that do not resolve. Ignored unless resolve is enabled in the config.
func WithResolver(r ports.HostResolver) EnumerateOption {
	return func(uc *Enumerate) {
		uc.resolver = r
	}
}

func WithLogger(l *slog.Logger) EnumerateOption {
	return func(uc *Enumerate) {
		if l != nil {
			uc.log = l
		}
	}
}

func NewEnumerate(lookup ports.SubdomainLookup, sink ports.SubdomainSink, reporter ports.StatusReporter, cfg domain.RunConfig, opts ...EnumerateOption) *Enumerate {
	uc := &Enumerate{
		lookup:   lookup,
		sink:     sink,
		reporter: reporter,
		cfg:      cfg,
		filter:   domain.NewFilterRule(cfg.Filter.Prefixes...),
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	if !cfg.Resolve.Enabled {
		uc.resolver = nil
	}
	return uc
}

type taskResult struct {
	result domain.DomainResult
	lines  []string
}

// Execute processes every domain exactly once. Individual lookup failures and
// panics are reported per domain; only a sink write error or cancellation of
// ctx aborts the run, and that error is returned once all goroutines exited.
func (uc *Enumerate) Execute(ctx context.Context, domains []string) (domain.RunSummary, error) {
	summary := domain.RunSummary{
		OutputPath: uc.cfg.OutputPath,
		StartedAt:  uc.now(),
		Domains:    len(domains),
		Results:    make([]domain.DomainResult, 0, len(domains)),
	}

	workers, err := domain.ClampWorkers(uc.cfg.Workers)
	if err != nil {
		summary.EndedAt = uc.now()
		return summary, err
	}
	if workers > len(domains) {
		workers = len(domains)
	}

	uc.reporter.Start(len(domains))
	uc.log.Info("enumerate.start", "domains", len(domains), "workers", workers, "filter", uc.cfg.Filter.Enabled, "resolve", uc.resolver != nil)

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan string)
	results := make(chan taskResult, workers)

	g.Go(func() error {
		defer close(jobs)
		for _, d := range domains {
			select {
			case jobs <- d:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			defer wg.Done()
			for d := range jobs {
				tr := uc.runTask(gctx, d)
				// A result produced while shutting down is an artifact of the cancellation.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				select {
				case results <- tr:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	g.Go(func() error {
		for tr := range results {
			if len(tr.lines) > 0 {
				if err := uc.sink.Write(tr.lines); err != nil {
					return &domain.OpError{
						Op:   "enumerate.write",
						Kind: domain.KindExecution,
						Path: uc.cfg.OutputPath,
						Err:  err,
					}
				}
			}
			uc.reporter.Report(tr.result)
			summary.Add(tr.result)
		}
		return nil
	})

	err = g.Wait()
	summary.EndedAt = uc.now()
	if err != nil {
		uc.log.Error("enumerate.aborted", "error", err, "completed", len(summary.Results), "domains", len(domains))
		return summary, err
	}

	uc.log.Info("enumerate.done",
		"domains", summary.Domains,
		"found", summary.Found,
		"empty", summary.Empty,
		"failed", summary.Failed,
		"lines", summary.Lines,
		"duration", summary.EndedAt.Sub(summary.StartedAt),
	)
	uc.reporter.Done(summary)
	return summary, nil
}

func (uc *Enumerate) runTask(ctx context.Context, d string) (tr taskResult) {
	start := uc.now()
	defer func() {
		if r := recover(); r != nil {
			uc.log.Error("enumerate.task_panic", "domain", d, "panic", r, "stack", string(debug.Stack()))
			tr = taskResult{result: domain.DomainResult{
				Domain:    d,
				Status:    domain.StatusFailed,
				ErrorKind: domain.LookupErrorPanic,
				Error:     fmt.Sprintf("panic: %v", r),
				Duration:  uc.now().Sub(start),
			}}
		}
	}()

	res := domain.DomainResult{Domain: d}

	subs, err := uc.lookup.Lookup(ctx, d)
	if err != nil {
		uc.log.Error("enumerate.lookup_failed", "domain", d, "error", err)
		res.Status = domain.StatusEmpty
		res.ErrorKind = domain.ClassifyLookupError(err)
		res.Error = err.Error()
		res.Duration = uc.now().Sub(start)
		return taskResult{result: res}
	}

	if uc.cfg.Filter.Enabled {
		kept := uc.filter.Apply(subs)
		res.Filtered = len(subs) - len(kept)
		subs = kept
	}

	if uc.resolver != nil && len(subs) > 0 {
		kept := keepResolvable(ctx, uc.resolver, subs)
		res.Dropped = len(subs) - len(kept)
		subs = kept
	}

	set := domain.SubdomainSet{Domain: d, Labels: subs}
	lines := set.Lines()

	res.Lines = len(lines)
	res.Status = domain.StatusEmpty
	if len(lines) > 0 {
		res.Status = domain.StatusFound
	}
	res.Duration = uc.now().Sub(start)
	return taskResult{result: res, lines: lines}
}

// keepResolvable returns the hosts r can resolve, in input order.
func keepResolvable(ctx context.Context, r ports.HostResolver, hosts []string) []string {
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		if ctx.Err() != nil {
			break
		}
		if r.Resolves(ctx, h) {
			out = append(out, h)
		}
	}
	return out
}
