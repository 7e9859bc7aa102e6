package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LOOTXSEC/subdomain-finder/internal/buildinfo"
)

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(a.out, buildinfo.String())
		},
	}
}
