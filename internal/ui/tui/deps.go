package tui

import (
	"io"
	"log/slog"

	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
)

type Deps struct {
	// Defaults pre-fill the placeholders; Workers is used when the answer is left blank.
	Defaults domain.RunConfig
	// CheckInput is called on the input path before moving to the next prompt.
	CheckInput func(path string) error

	In  io.Reader
	Out io.Writer

	Logger *slog.Logger
}
