package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
)

func (a *app) runCmd() *cobra.Command {
	var flags runFlags
	var opts outputOptions

	c := &cobra.Command{
		Use:   "run",
		Short: "Enumerate the subdomains of every domain in the input file",
		Example: `  subfind run -i domains.txt -o subdomains.txt -f -t 100
  subfind run --config subfind.yaml --progress`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.runConfig(cmd, a.configDir)
			if err != nil {
				return err
			}
			_, err = a.enumerate(cmd.Context(), cfg, opts)
			return err
		},
	}

	flags.bind(c)
	c.Flags().StringVar(&opts.format, "format", "pretty", "Summary format: pretty|json")
	c.Flags().BoolVar(&opts.progress, "progress", false, "show a progress bar instead of one line per domain")
	c.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	return c
}

func validFormat(format string) error {
	switch format {
	case "pretty", "json", "":
		return nil
	default:
		return &domain.OpError{
			Op:   "cli.format",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("unsupported format %q (expected pretty|json): %w", format, domain.ErrInvalidConfig),
		}
	}
}

func printSummary(w io.Writer, sum domain.RunSummary, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	case "pretty", "":
		printPrettySummary(w, sum)
		return nil
	default:
		return validFormat(format)
	}
}

func printPrettySummary(w io.Writer, sum domain.RunSummary) {
	total := sum.EndedAt.Sub(sum.StartedAt)
	if sum.StartedAt.IsZero() || sum.EndedAt.IsZero() {
		total = 0
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Domains:    %d (%d processed)\n", sum.Domains, len(sum.Results))
	fmt.Fprintf(w, "Found:      %d\n", sum.Found)
	fmt.Fprintf(w, "Empty:      %d\n", sum.Empty)
	fmt.Fprintf(w, "Failed:     %d\n", sum.Failed)
	fmt.Fprintf(w, "Subdomains: %d\n", sum.Lines)
	fmt.Fprintf(w, "Duration:   %s\n", total.Round(time.Millisecond))

	errored := 0
	for _, r := range sum.Results {
		if r.Error != "" {
			errored++
		}
	}
	if errored == 0 {
		return
	}

	fmt.Fprintf(w, "\nErrors:\n")
	for _, r := range sum.Results {
		if r.Error == "" {
			continue
		}
		fmt.Fprintf(w, "- %s [%s] %s\n", r.Domain, r.ErrorKind, r.Error)
	}
}
