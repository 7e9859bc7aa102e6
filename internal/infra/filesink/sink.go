package filesink

import (
	"bufio"
	"errors"
	"os"
	"sync"

	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
	"github.com/LOOTXSEC/subdomain-finder/internal/ports"
)

var errClosed = errors.New("sink is closed")

// Sink is the output file of a run. It is opened once, written block by block
// under a mutex, and closed after every task finished.
type Sink struct {
	mu    sync.Mutex
	path  string
	f     *os.File
	w     *bufio.Writer
	lines int
}

var _ ports.SubdomainSink = (*Sink)(nil)

// Open creates or truncates the file at path.
func Open(path string) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "filesink.open",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	return &Sink{
		path: path,
		f:    f,
		w:    bufio.NewWriter(f),
	}, nil
}

// Path returns the file the sink writes to.
func (s *Sink) Path() string { return s.path }

// Write appends lines as one contiguous block, each terminated by a newline.
func (s *Sink) Write(lines []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return s.wrap("filesink.write", errClosed)
	}

	for _, l := range lines {
		if _, err := s.w.WriteString(l); err != nil {
			return s.wrap("filesink.write", err)
		}
		if err := s.w.WriteByte('\n'); err != nil {
			return s.wrap("filesink.write", err)
		}
	}
	if err := s.w.Flush(); err != nil {
		return s.wrap("filesink.flush", err)
	}
	s.lines += len(lines)
	return nil
}

// Lines returns the number of lines written so far.
func (s *Sink) Lines() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines
}

// Close flushes and closes the file. Calling it twice is a no-op.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return nil
	}

	ferr := s.w.Flush()
	cerr := s.f.Close()
	s.f = nil

	if err := errors.Join(ferr, cerr); err != nil {
		return s.wrap("filesink.close", err)
	}
	return nil
}

func (s *Sink) wrap(op string, err error) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindExecution,
		Path: s.path,
		Err:  err,
	}
}
