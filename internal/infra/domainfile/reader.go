package domainfile

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
	"github.com/LOOTXSEC/subdomain-finder/internal/ports"
)

const maxLineBytes = 1 << 20

// Reader loads domain lists: one domain per line, blank lines ignored.
type Reader struct {
	log *slog.Logger
}

type Option func(*Reader)

func WithLogger(l *slog.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.log = l
		}
	}
}

func NewReader(opts ...Option) *Reader {
	r := &Reader{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.DomainSource = (*Reader)(nil)

func (r *Reader) LoadDomains(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		kind := domain.KindExecution
		if errors.Is(err, fs.ErrNotExist) {
			kind = domain.KindNotFound
		}
		return nil, &domain.OpError{
			Op:   "domainfile.open",
			Kind: kind,
			Path: path,
			Err:  err,
		}
	}
	defer f.Close()

	domains, err := r.Parse(f)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "domainfile.read",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	return domains, nil
}

// Parse reads domains from rd, normalizing each line and dropping duplicates
// while keeping the first occurrence order.
func (r *Reader) Parse(rd io.Reader) ([]string, error) {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	seen := map[string]struct{}{}
	var (
		out        []string
		duplicates int
		lineNo     int
	)

	for sc.Scan() {
		lineNo++
		raw := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if raw == "" {
			continue
		}

		d, err := domain.NormalizeDomain(raw)
		if err != nil {
			r.log.Warn("domainfile.normalize_failed", "line", lineNo, "value", raw, "error", err)
			d = raw
		}

		if _, ok := seen[d]; ok {
			duplicates++
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if duplicates > 0 {
		r.log.Info("domainfile.duplicates_skipped", "count", duplicates)
	}
	return out, nil
}
