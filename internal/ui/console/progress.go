package console

import (
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
	"github.com/LOOTXSEC/subdomain-finder/internal/ports"
)

// Progress renders a progress bar instead of per-domain lines. Domains that
// failed, or came back empty because the lookup errored, are still printed
// above the bar.
type Progress struct {
	w     io.Writer
	lines *Reporter
	bar   *progressbar.ProgressBar
}

func NewProgress(w io.Writer, opts ...Option) *Progress {
	return &Progress{
		w:     w,
		lines: NewReporter(w, append(opts, withoutResults())...),
	}
}

var _ ports.StatusReporter = (*Progress)(nil)

func (p *Progress) Start(total int) {
	p.lines.Start(total)
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription("Processing"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *Progress) Report(res domain.DomainResult) {
	if res.Status == domain.StatusFailed || res.Error != "" {
		_ = p.bar.Clear()
		p.lines.line(res)
	}
	_ = p.bar.Add(1)
}

func (p *Progress) Done(s domain.RunSummary) {
	_ = p.bar.Finish()
	p.lines.Done(s)
}
