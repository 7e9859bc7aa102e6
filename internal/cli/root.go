package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
	"github.com/LOOTXSEC/subdomain-finder/internal/infra/domainfile"
	"github.com/LOOTXSEC/subdomain-finder/internal/infra/logger"
	"github.com/LOOTXSEC/subdomain-finder/internal/ui/tui"
)

type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	debug   bool
	logFile string
	cleanup func() error

	// defaults seed the wizard's run configuration.
	defaults domain.RunConfig
	// configDir is where subfind.yaml discovery starts; empty disables it.
	configDir string

	interactive func() bool
	wizard      func(tui.Deps) (tui.Answers, error)
}

func newApp() *app {
	wd, err := os.Getwd()
	if err != nil {
		wd = ""
	}
	return &app{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		interactive: func() bool {
			fd := os.Stdin.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
		wizard:    tui.Run,
		defaults:  domain.DefaultRunConfig(),
		configDir: wd,
	}
}

// Execute runs the command line and exits with 1 on any error.
func Execute(ctx context.Context) {
	a := newApp()
	err := a.rootCmd().ExecuteContext(ctx)
	a.closeLogs()
	if err != nil {
		os.Exit(1)
	}
}

func (a *app) closeLogs() {
	if a.cleanup != nil {
		_ = a.cleanup()
		a.cleanup = nil
	}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "subfind",
		Short:        "Bulk subdomain enumeration through a remote lookup API",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cleanup, err := logger.Setup(logger.Config{
				File:   a.logFile,
				Debug:  a.debug,
				Stderr: a.errOut,
			})
			if err != nil {
				return err
			}
			a.cleanup = cleanup
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.interactive() {
				return cmd.Help()
			}
			return a.runWizard(cmd.Context())
		},
	}

	cmd.SetIn(a.in)
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)

	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable verbose logging")
	cmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "write JSON logs to this file instead of stderr")

	cmd.AddCommand(a.runCmd())
	cmd.AddCommand(a.validateCmd())
	cmd.AddCommand(a.versionCmd())
	return cmd
}

func (a *app) runWizard(ctx context.Context) error {
	defaults, err := loadConfigFile(a.defaults, "", a.configDir)
	if err != nil {
		return err
	}
	reader := domainfile.NewReader(domainfile.WithLogger(logger.L()))

	answers, err := a.wizard(tui.Deps{
		Defaults: defaults,
		CheckInput: func(path string) error {
			_, err := reader.LoadDomains(path)
			return err
		},
		In:     a.in,
		Out:    a.out,
		Logger: logger.L(),
	})
	if errors.Is(err, tui.ErrAborted) {
		return nil
	}
	if err != nil {
		return err
	}

	cfg := defaults
	cfg.InputPath = answers.InputPath
	cfg.OutputPath = answers.OutputPath
	cfg.Filter.Enabled = answers.Filter
	cfg.Workers = answers.Workers

	_, err = a.enumerate(ctx, cfg, outputOptions{format: "pretty"})
	return err
}
