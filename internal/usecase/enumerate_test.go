package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
	"github.com/LOOTXSEC/subdomain-finder/internal/ports"
)

type fakeLookup struct {
	subs   map[string][]string
	errs   map[string]error
	panics map[string]bool
	delay  time.Duration

	inflight atomic.Int32
	maxSeen  atomic.Int32
	calls    atomic.Int32
}

func (f *fakeLookup) Lookup(ctx context.Context, d string) ([]string, error) {
	f.calls.Add(1)
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		m := f.maxSeen.Load()
		if n <= m || f.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.panics[d] {
		panic("boom " + d)
	}
	if err := f.errs[d]; err != nil {
		return nil, err
	}
	return f.subs[d], nil
}

type memSink struct {
	mu     sync.Mutex
	lines  []string
	blocks int
	err    error
}

func (s *memSink) Write(lines []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.lines = append(s.lines, lines...)
	s.blocks++
	return nil
}

type recReporter struct {
	total   int
	results []domain.DomainResult
	done    *domain.RunSummary
}

func (r *recReporter) Start(total int)                { r.total = total }
func (r *recReporter) Report(res domain.DomainResult) { r.results = append(r.results, res) }
func (r *recReporter) Done(s domain.RunSummary)       { r.done = &s }

func (r *recReporter) byDomain() map[string]domain.DomainResult {
	out := map[string]domain.DomainResult{}
	for _, res := range r.results {
		out[res.Domain] = res
	}
	return out
}

type fakeResolver struct {
	known map[string]bool
}

func (f fakeResolver) Resolves(_ context.Context, host string) bool {
	return f.known[host]
}

var (
	_ ports.SubdomainLookup = (*fakeLookup)(nil)
	_ ports.SubdomainSink   = (*memSink)(nil)
	_ ports.StatusReporter  = (*recReporter)(nil)
	_ ports.HostResolver    = fakeResolver{}
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(workers int, filter bool) domain.RunConfig {
	cfg := domain.DefaultRunConfig()
	cfg.InputPath = "domains.txt"
	cfg.OutputPath = "out.txt"
	cfg.Workers = workers
	cfg.Filter.Enabled = filter
	return cfg
}

func TestEnumerate_FilterExample(t *testing.T) {
	lookup := &fakeLookup{subs: map[string][]string{
		"example.com": {"www.example.com", "api.example.com"},
		"test.org":    {"mail.test.org"},
	}}
	sink := &memSink{}
	rep := &recReporter{}

	uc := NewEnumerate(lookup, sink, rep, testConfig(2, true), WithLogger(quietLogger()))
	sum, err := uc.Execute(context.Background(), []string{"example.com", "test.org"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(sink.lines, []string{"api.example.com"}) {
		t.Fatalf("expected only api.example.com, got %v", sink.lines)
	}

	res := rep.byDomain()
	if r := res["example.com"]; r.Status != domain.StatusFound || r.Lines != 1 || r.Filtered != 1 {
		t.Fatalf("unexpected example.com result: %+v", r)
	}
	if r := res["test.org"]; r.Status != domain.StatusEmpty || r.Lines != 0 || r.Filtered != 1 {
		t.Fatalf("unexpected test.org result: %+v", r)
	}

	if rep.total != 2 {
		t.Fatalf("expected reporter started with 2, got %d", rep.total)
	}
	if rep.done == nil || rep.done.OutputPath != "out.txt" {
		t.Fatalf("expected Done with output path, got %+v", rep.done)
	}
	if sum.Found != 1 || sum.Empty != 1 || sum.Failed != 0 || sum.Lines != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if sum.EndedAt.Before(sum.StartedAt) {
		t.Fatalf("expected EndedAt >= StartedAt")
	}
}

func TestEnumerate_NoFilterWritesSortedUniqueBlock(t *testing.T) {
	lookup := &fakeLookup{subs: map[string][]string{
		"example.com": {"www.example.com", "api.example.com", "api.example.com", " "},
	}}
	sink := &memSink{}

	uc := NewEnumerate(lookup, sink, &recReporter{}, testConfig(1, false), WithLogger(quietLogger()))
	if _, err := uc.Execute(context.Background(), []string{"example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"api.example.com", "www.example.com"}
	if !reflect.DeepEqual(sink.lines, want) {
		t.Fatalf("expected %v, got %v", want, sink.lines)
	}
}

func TestEnumerate_LookupFailureDoesNotAbort(t *testing.T) {
	exhausted := &domain.OpError{
		Op:   "lookup.fetch",
		Kind: domain.KindLookup,
		Path: "down.com",
		Err:  fmt.Errorf("after 3 attempts: %w: %w", domain.ErrRetriesExhausted, &domain.HTTPStatusError{StatusCode: 503, Status: "503 Service Unavailable"}),
	}
	lookup := &fakeLookup{
		subs: map[string][]string{"up.com": {"a.up.com"}},
		errs: map[string]error{"down.com": exhausted},
	}
	sink := &memSink{}
	rep := &recReporter{}

	uc := NewEnumerate(lookup, sink, rep, testConfig(4, false), WithLogger(quietLogger()))
	sum, err := uc.Execute(context.Background(), []string{"down.com", "up.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(sink.lines, []string{"a.up.com"}) {
		t.Fatalf("expected only a.up.com, got %v", sink.lines)
	}
	r := rep.byDomain()["down.com"]
	if r.Status != domain.StatusEmpty || r.Lines != 0 {
		t.Fatalf("expected empty result for down.com, got %+v", r)
	}
	if r.ErrorKind != domain.LookupErrorHTTP || r.Error == "" {
		t.Fatalf("expected recorded http error, got %+v", r)
	}
	if sum.Domains != 2 || len(sum.Results) != 2 {
		t.Fatalf("expected both domains reported, got %+v", sum)
	}
}

func TestEnumerate_PanicIsIsolated(t *testing.T) {
	lookup := &fakeLookup{
		subs:   map[string][]string{"ok.com": {"x.ok.com"}},
		panics: map[string]bool{"bad.com": true},
	}
	sink := &memSink{}
	rep := &recReporter{}

	uc := NewEnumerate(lookup, sink, rep, testConfig(2, false), WithLogger(quietLogger()))
	sum, err := uc.Execute(context.Background(), []string{"bad.com", "ok.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := rep.byDomain()["bad.com"]
	if r.Status != domain.StatusFailed || r.ErrorKind != domain.LookupErrorPanic {
		t.Fatalf("expected failed panic result, got %+v", r)
	}
	if sum.Failed != 1 || sum.Found != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if !reflect.DeepEqual(sink.lines, []string{"x.ok.com"}) {
		t.Fatalf("expected ok.com block, got %v", sink.lines)
	}
}

func TestEnumerate_BlocksStayContiguous(t *testing.T) {
	const n = 200
	subs := map[string][]string{}
	domains := make([]string, 0, n)
	for i := 0; i < n; i++ {
		d := fmt.Sprintf("d%03d.com", i)
		domains = append(domains, d)
		for j := 0; j < 5; j++ {
			subs[d] = append(subs[d], fmt.Sprintf("s%d.%s", j, d))
		}
	}
	lookup := &fakeLookup{subs: subs, delay: time.Millisecond}
	sink := &memSink{}

	uc := NewEnumerate(lookup, sink, &recReporter{}, testConfig(32, false), WithLogger(quietLogger()))
	if _, err := uc.Execute(context.Background(), domains); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sink.lines) != n*5 || sink.blocks != n {
		t.Fatalf("expected %d lines in %d blocks, got %d in %d", n*5, n, len(sink.lines), sink.blocks)
	}
	for i := 0; i < len(sink.lines); i += 5 {
		want := sink.lines[i][len("s0."):]
		for j := 0; j < 5; j++ {
			got := sink.lines[i+j]
			if got != fmt.Sprintf("s%d.%s", j, want) {
				t.Fatalf("block starting at %d interleaved: %v", i, sink.lines[i:i+5])
			}
		}
	}
	if int(lookup.calls.Load()) != n {
		t.Fatalf("expected each domain looked up once, got %d calls", lookup.calls.Load())
	}
}

func TestEnumerate_RespectsWorkerCap(t *testing.T) {
	domains := make([]string, 40)
	for i := range domains {
		domains[i] = fmt.Sprintf("d%d.com", i)
	}
	lookup := &fakeLookup{delay: 5 * time.Millisecond}

	uc := NewEnumerate(lookup, &memSink{}, &recReporter{}, testConfig(4, false), WithLogger(quietLogger()))
	if _, err := uc.Execute(context.Background(), domains); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := lookup.maxSeen.Load(); got > 4 {
		t.Fatalf("expected at most 4 concurrent lookups, saw %d", got)
	}
}

func TestEnumerate_InvalidWorkerCount(t *testing.T) {
	lookup := &fakeLookup{}
	uc := NewEnumerate(lookup, &memSink{}, &recReporter{}, testConfig(0, false), WithLogger(quietLogger()))

	_, err := uc.Execute(context.Background(), []string{"example.com"})
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
	if lookup.calls.Load() != 0 {
		t.Fatalf("expected no lookups")
	}
}

func TestEnumerate_SinkErrorIsFatal(t *testing.T) {
	diskFull := errors.New("no space left on device")
	lookup := &fakeLookup{subs: map[string][]string{
		"a.com": {"x.a.com"},
		"b.com": {"x.b.com"},
	}}
	rep := &recReporter{}

	uc := NewEnumerate(lookup, &memSink{err: diskFull}, rep, testConfig(2, false), WithLogger(quietLogger()))
	_, err := uc.Execute(context.Background(), []string{"a.com", "b.com"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, diskFull) || !domain.IsKind(err, domain.KindExecution) {
		t.Fatalf("expected wrapped sink error, got %v", err)
	}
	if rep.done != nil {
		t.Fatalf("expected no Done on fatal error")
	}
}

func TestEnumerate_StopsOnContextCancel(t *testing.T) {
	domains := make([]string, 50)
	for i := range domains {
		domains[i] = fmt.Sprintf("d%d.com", i)
	}
	lookup := &fakeLookup{delay: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for lookup.calls.Load() == 0 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	uc := NewEnumerate(lookup, &memSink{}, &recReporter{}, testConfig(4, false), WithLogger(quietLogger()))

	done := make(chan error, 1)
	go func() {
		_, err := uc.Execute(ctx, domains)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Execute did not return after cancel")
	}
	if got := lookup.calls.Load(); got > 4 {
		t.Fatalf("expected no new lookups after cancel, got %d", got)
	}
}

func TestEnumerate_ResolverDropsUnresolved(t *testing.T) {
	lookup := &fakeLookup{subs: map[string][]string{
		"example.com": {"api.example.com", "old.example.com"},
	}}
	sink := &memSink{}
	rep := &recReporter{}

	cfg := testConfig(1, false)
	cfg.Resolve.Enabled = true
	res := fakeResolver{known: map[string]bool{"api.example.com": true}}

	uc := NewEnumerate(lookup, sink, rep, cfg, WithResolver(res), WithLogger(quietLogger()))
	if _, err := uc.Execute(context.Background(), []string{"example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(sink.lines, []string{"api.example.com"}) {
		t.Fatalf("expected resolvable host only, got %v", sink.lines)
	}
	if r := rep.byDomain()["example.com"]; r.Dropped != 1 {
		t.Fatalf("expected one dropped host, got %+v", r)
	}
}

func TestEnumerate_ResolverIgnoredWhenDisabled(t *testing.T) {
	lookup := &fakeLookup{subs: map[string][]string{"example.com": {"api.example.com"}}}
	sink := &memSink{}

	uc := NewEnumerate(lookup, sink, &recReporter{}, testConfig(1, false),
		WithResolver(fakeResolver{}), WithLogger(quietLogger()))
	if _, err := uc.Execute(context.Background(), []string{"example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.lines) != 1 {
		t.Fatalf("expected resolver to be skipped, got %v", sink.lines)
	}
}

func TestEnumerate_EmptyInput(t *testing.T) {
	rep := &recReporter{}
	uc := NewEnumerate(&fakeLookup{}, &memSink{}, rep, testConfig(10, false), WithLogger(quietLogger()))

	sum, err := uc.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Domains != 0 || rep.done == nil {
		t.Fatalf("expected empty completed run, got %+v", sum)
	}
}
