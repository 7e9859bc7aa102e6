package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config selects where logs go. Without a File, logs are written as text to
// Stderr (warnings and above, or everything in Debug mode).
type Config struct {
	File   string
	Debug  bool
	Stderr io.Writer
}

var (
	mu       sync.RWMutex
	global   = slog.New(slog.NewJSONHandler(io.Discard, nil))
	logFile  *os.File
	logPath  string
	initedAt time.Time
)

func Setup(cfg Config) (func() error, error) {
	level := slog.LevelWarn
	addSource := false
	if cfg.Debug {
		level = slog.LevelDebug
		addSource = true
	}

	if cfg.File == "" {
		w := cfg.Stderr
		if w == nil {
			w = os.Stderr
		}
		h := slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				// Console output sits next to status lines; the time adds nothing there.
				if a.Key == slog.TimeKey {
					return slog.Attr{}
				}
				return a
			},
		})

		mu.Lock()
		global = slog.New(h)
		logFile = nil
		logPath = ""
		initedAt = time.Now().UTC()
		mu.Unlock()

		return reset, nil
	}

	path := filepath.Clean(cfg.File)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			setDiscard()
			return nil, err
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		setDiscard()
		return nil, err
	}

	if !cfg.Debug {
		level = slog.LevelInfo
	}

	h := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				t := a.Value.Time().UTC()
				a.Value = slog.StringValue(t.Format(time.RFC3339Nano))
			}
			return a
		},
	})

	l := slog.New(h)

	mu.Lock()
	global = l
	logFile = f
	logPath = path
	initedAt = time.Now().UTC()
	mu.Unlock()

	l.Info("logger.initialized", "path", path, "debug", cfg.Debug)

	return reset, nil
}

func reset() error {
	mu.Lock()
	defer mu.Unlock()

	var cerr error
	if logFile != nil {
		cerr = logFile.Close()
	}
	logFile = nil
	logPath = ""
	initedAt = time.Time{}
	global = slog.New(slog.NewJSONHandler(io.Discard, nil))
	return cerr
}

func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

func InitTime() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	return initedAt
}

func setDiscard() {
	mu.Lock()
	defer mu.Unlock()
	global = slog.New(slog.NewJSONHandler(io.Discard, nil))
	logFile = nil
	logPath = ""
	initedAt = time.Time{}
}

// IsReady reports whether logs are being written to a file.
func IsReady() error {
	mu.RLock()
	defer mu.RUnlock()
	if logFile == nil || logPath == "" {
		return errors.New("logger not writing to a file")
	}
	return nil
}
