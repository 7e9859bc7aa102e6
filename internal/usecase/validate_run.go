package usecase

import (
	"context"
	"fmt"

	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
	"github.com/LOOTXSEC/subdomain-finder/internal/ports"
	ucextract "github.com/LOOTXSEC/subdomain-finder/internal/usecase/extract"
)

// ValidateRun checks a run configuration and its input file without any network call.
type ValidateRun struct {
	source  ports.DomainSource
	planner ports.LookupPlanner
}

// ValidateReport describes what a run with the same configuration would do.
type ValidateReport struct {
	Config    domain.RunConfig
	Domains   int
	SampleURL string
}

func NewValidateRun(src ports.DomainSource, planner ports.LookupPlanner) *ValidateRun {
	return &ValidateRun{source: src, planner: planner}
}

func (uc *ValidateRun) Execute(ctx context.Context, cfg domain.RunConfig) (ValidateReport, error) {
	cfg, err := cfg.Validate()
	if err != nil {
		return ValidateReport{}, err
	}

	if err := ucextract.Compile(cfg.Lookup.ResultPath); err != nil {
		return ValidateReport{}, &domain.OpError{
			Op:   "validate.result_path",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("%w: %w", err, domain.ErrInvalidConfig),
		}
	}

	if err := ctx.Err(); err != nil {
		return ValidateReport{}, err
	}

	domains, err := uc.source.LoadDomains(cfg.InputPath)
	if err != nil {
		return ValidateReport{}, err
	}

	rep := ValidateReport{Config: cfg, Domains: len(domains)}
	if len(domains) == 0 {
		return rep, nil
	}

	u, err := uc.planner.URL(domains[0])
	if err != nil {
		return ValidateReport{}, fmt.Errorf("domain %q: %w", domains[0], err)
	}
	rep.SampleURL = u
	return rep, nil
}
