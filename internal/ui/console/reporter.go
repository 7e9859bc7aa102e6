package console

import (
	"io"

	"github.com/fatih/color"

	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
	"github.com/LOOTXSEC/subdomain-finder/internal/ports"
)

// Reporter prints one colored status line per domain.
type Reporter struct {
	w      io.Writer
	source string

	info  *color.Color
	ok    *color.Color
	warn  *color.Color
	fail  *color.Color
	quiet bool
}

type Option func(*Reporter)

// WithNoColor disables ANSI colors regardless of the terminal.
func WithNoColor(disable bool) Option {
	return func(r *Reporter) {
		if !disable {
			return
		}
		for _, c := range []*color.Color{r.info, r.ok, r.warn, r.fail} {
			c.DisableColor()
		}
	}
}

// WithSource names the input file in the opening line.
func WithSource(path string) Option {
	return func(r *Reporter) { r.source = path }
}

// withoutResults suppresses per-domain lines; used under a progress bar.
func withoutResults() Option {
	return func(r *Reporter) { r.quiet = true }
}

func NewReporter(w io.Writer, opts ...Option) *Reporter {
	r := &Reporter{
		w:    w,
		info: color.New(color.FgCyan),
		ok:   color.New(color.FgGreen),
		warn: color.New(color.FgYellow),
		fail: color.New(color.FgRed),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.StatusReporter = (*Reporter)(nil)

func (r *Reporter) Start(total int) {
	if r.source != "" {
		r.info.Fprintf(r.w, "Scanning %d domains from %s...\n", total, r.source)
		return
	}
	r.info.Fprintf(r.w, "Scanning %d domains...\n", total)
}

func (r *Reporter) Report(res domain.DomainResult) {
	if r.quiet {
		return
	}
	r.line(res)
}

func (r *Reporter) line(res domain.DomainResult) {
	switch res.Status {
	case domain.StatusFound:
		r.ok.Fprintf(r.w, "%s >>> %d subdomain(s) found\n", res.Domain, res.Lines)
	case domain.StatusFailed:
		r.fail.Fprintf(r.w, "[!] Error processing %s: %s\n", res.Domain, res.Error)
	default:
		switch {
		case res.Error != "":
			r.warn.Fprintf(r.w, "[!] No subdomains found for %s (%s)\n", res.Domain, res.ErrorKind)
		case res.Filtered > 0 || res.Dropped > 0:
			r.warn.Fprintf(r.w, "%s >>> No subdomains found (%d filtered, %d unresolved)\n", res.Domain, res.Filtered, res.Dropped)
		default:
			r.warn.Fprintf(r.w, "%s >>> No subdomains found\n", res.Domain)
		}
	}
}

func (r *Reporter) Done(s domain.RunSummary) {
	r.warn.Fprint(r.w, "Subdomains saved to ")
	r.info.Fprintf(r.w, "%s\n", s.OutputPath)
}
