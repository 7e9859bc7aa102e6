package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
)

func send(t *testing.T, m tea.Model, text string) (tea.Model, tea.Cmd) {
	t.Helper()
	if text != "" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	}
	return m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func inner(t *testing.T, m tea.Model) model {
	t.Helper()
	sm, ok := m.(safeModel)
	if !ok {
		t.Fatalf("expected safeModel, got %T", m)
	}
	return sm.m
}

func testDeps() Deps {
	cfg := domain.DefaultRunConfig()
	return Deps{Defaults: cfg}
}

func TestWizardCollectsAnswers(t *testing.T) {
	var m tea.Model = wrapSafe(newModel(testDeps()), nil)

	m, _ = send(t, m, "domains.txt")
	m, _ = send(t, m, "y")
	m, _ = send(t, m, "out.txt")
	m, cmd := send(t, m, "25")

	got := inner(t, m)
	if got.step != stepDone {
		t.Fatalf("expected wizard done, at step %d", got.step)
	}
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	want := Answers{InputPath: "domains.txt", Filter: true, OutputPath: "out.txt", Workers: 25}
	if got.answers != want {
		t.Fatalf("expected %+v, got %+v", want, got.answers)
	}
	if !strings.Contains(got.View(), "Starting scan of domains.txt with 25 worker(s)") {
		t.Fatalf("unexpected final view: %q", got.View())
	}
}

func TestWizardDefaultsWorkersAndClamps(t *testing.T) {
	var m tea.Model = wrapSafe(newModel(testDeps()), nil)
	m, _ = send(t, m, "in.txt")
	m, _ = send(t, m, "")
	m, _ = send(t, m, "out.txt")
	m, _ = send(t, m, "")

	got := inner(t, m)
	if got.answers.Workers != 50 || got.answers.Filter {
		t.Fatalf("expected default workers and no filter, got %+v", got.answers)
	}

	m = wrapSafe(newModel(testDeps()), nil)
	m, _ = send(t, m, "in.txt")
	m, _ = send(t, m, "n")
	m, _ = send(t, m, "out.txt")
	m, _ = send(t, m, "9000")
	if w := inner(t, m).answers.Workers; w != domain.MaxWorkers {
		t.Fatalf("expected workers clamped to %d, got %d", domain.MaxWorkers, w)
	}
}

func TestWizardRejectsInvalidAnswers(t *testing.T) {
	deps := testDeps()
	deps.CheckInput = func(path string) error {
		if path == "missing.txt" {
			return &domain.OpError{Op: "domainfile.load", Kind: domain.KindNotFound, Path: path, Err: errors.New("no such file")}
		}
		return nil
	}

	var m tea.Model = wrapSafe(newModel(deps), nil)

	m, _ = send(t, m, "")
	if got := inner(t, m); got.step != stepInput || got.errText == "" {
		t.Fatalf("expected to stay on input prompt with an error, got step %d %q", got.step, got.errText)
	}

	m, _ = send(t, m, "missing.txt")
	if got := inner(t, m); got.step != stepInput || got.errText != "File not found: missing.txt" {
		t.Fatalf("expected not found hint, got step %d %q", got.step, got.errText)
	}

	// The rejected value stays in the field; clear it before typing again.
	m = clearInput(m)
	m, _ = send(t, m, "domains.txt")
	m, _ = send(t, m, "maybe")
	if got := inner(t, m); got.step != stepFilter || got.errText != "Answer y or n" {
		t.Fatalf("expected y/n hint, got step %d %q", got.step, got.errText)
	}

	m = clearInput(m)
	m, _ = send(t, m, "y")
	m, _ = send(t, m, "out.txt")
	m, _ = send(t, m, "0")
	got := inner(t, m)
	if got.step != stepWorkers || !strings.Contains(got.errText, "worker count must be positive") {
		t.Fatalf("expected worker count hint, got step %d %q", got.step, got.errText)
	}

	m = clearInput(m)
	m, _ = send(t, m, "abc")
	if got := inner(t, m); got.errText != "Thread count must be a number" {
		t.Fatalf("expected number hint, got %q", got.errText)
	}
}

func clearInput(m tea.Model) tea.Model {
	sm := m.(safeModel)
	sm.m.input.SetValue("")
	return sm
}

func TestWizardEscQuitsWithoutAnswers(t *testing.T) {
	var m tea.Model = wrapSafe(newModel(testDeps()), nil)
	m, _ = send(t, m, "domains.txt")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if inner(t, m).step == stepDone {
		t.Fatalf("expected wizard to be incomplete")
	}
}

func TestSafeModelRecoversFromPanic(t *testing.T) {
	deps := testDeps()
	deps.CheckInput = func(string) error { panic("boom") }

	var m tea.Model = wrapSafe(newModel(deps), nil)
	m, cmd := send(t, m, "domains.txt")

	got := inner(t, m)
	if cmd != nil {
		t.Fatalf("expected no command after recovery")
	}
	if got.step != stepInput || got.errText != "Unexpected error (see logs)" {
		t.Fatalf("expected restart with error, got step %d %q", got.step, got.errText)
	}
}

func TestViewShowsPreviousAnswers(t *testing.T) {
	var m tea.Model = wrapSafe(newModel(testDeps()), nil)
	m, _ = send(t, m, "domains.txt")
	m, _ = send(t, m, "y")

	v := m.View()
	if !strings.Contains(v, "domains.txt") || !strings.Contains(v, "Save to:") {
		t.Fatalf("expected answered prompts and current prompt in view, got %q", v)
	}
}

func TestUserMessage(t *testing.T) {
	if got := userMessage(nil); got != "" {
		t.Fatalf("expected empty message, got %q", got)
	}
	_, err := domain.ClampWorkers(-1)
	if got := userMessage(err); got != "worker count must be positive, got -1" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := userMessage(errors.New("weird")); got != "Unexpected error (see logs)" {
		t.Fatalf("unexpected message %q", got)
	}
}
