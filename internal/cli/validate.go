package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LOOTXSEC/subdomain-finder/internal/infra/logger"
	"github.com/LOOTXSEC/subdomain-finder/internal/usecase"
)

func (a *app) validateCmd() *cobra.Command {
	var flags runFlags

	c := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and input file (no network calls)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.runConfig(cmd, a.configDir)
			if err != nil {
				return err
			}

			deps := loadRunDeps(cfg, logger.L())
			uc := usecase.NewValidateRun(deps.source, deps.lookup)
			rep, err := uc.Execute(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			w := a.out
			fmt.Fprintln(w, "OK")
			fmt.Fprintf(w, "Domains:   %d\n", rep.Domains)
			fmt.Fprintf(w, "Workers:   %d\n", rep.Config.Workers)
			if rep.Config.Filter.Enabled {
				fmt.Fprintf(w, "Filter:    on (%s)\n", strings.Join(rep.Config.Filter.Prefixes, " "))
			} else {
				fmt.Fprintln(w, "Filter:    off")
			}
			if rep.Config.Resolve.Enabled {
				fmt.Fprintf(w, "Resolve:   on (%s)\n", rep.Config.Resolve.Nameserver)
			} else {
				fmt.Fprintln(w, "Resolve:   off")
			}
			fmt.Fprintf(w, "Retries:   %d\n", rep.Config.Lookup.MaxAttempts)
			fmt.Fprintf(w, "Timeout:   %s\n", rep.Config.Lookup.Timeout)
			if rep.SampleURL != "" {
				fmt.Fprintf(w, "First URL: %s\n", rep.SampleURL)
			}
			return nil
		},
	}

	flags.bind(c)
	return c
}
