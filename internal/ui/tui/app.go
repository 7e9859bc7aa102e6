package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LOOTXSEC/subdomain-finder/internal/domain"
)

// ErrAborted is returned by Run when the user leaves the wizard before the last prompt.
var ErrAborted = errors.New("wizard aborted")

type step int

const (
	stepInput step = iota
	stepFilter
	stepOutput
	stepWorkers
	stepDone
)

// Answers are the values collected by the wizard.
type Answers struct {
	InputPath  string
	Filter     bool
	OutputPath string
	Workers    int
}

type prompt struct {
	label       string
	placeholder string
}

type model struct {
	theme Theme
	deps  Deps

	step    step
	input   textinput.Model
	answers Answers
	errText string
}

// Run asks for the input file, filter, output file and worker count, in that order.
func Run(deps Deps) (Answers, error) {
	opts := []tea.ProgramOption{}
	if deps.In != nil {
		opts = append(opts, tea.WithInput(deps.In))
	}
	if deps.Out != nil {
		opts = append(opts, tea.WithOutput(deps.Out))
	}

	final, err := tea.NewProgram(wrapSafe(newModel(deps), deps.Logger), opts...).Run()
	if err != nil {
		return Answers{}, err
	}

	sm, ok := final.(safeModel)
	if !ok || sm.m.step != stepDone {
		return Answers{}, ErrAborted
	}
	return sm.m.answers, nil
}

func newModel(deps Deps) model {
	ti := textinput.New()
	ti.CharLimit = 4096
	ti.Width = 60

	m := model{
		theme: DefaultTheme(),
		deps:  deps,
		input: ti,
	}
	return m.restart()
}

// restart goes back to the first prompt, keeping nothing but the dependencies.
func (m model) restart() model {
	m.step = stepInput
	m.answers = Answers{}
	m.errText = ""
	m.prepare()
	return m
}

func (m model) prompts() []prompt {
	workers := m.deps.Defaults.Workers
	if workers <= 0 {
		workers = domain.DefaultRunConfig().Workers
	}
	return []prompt{
		stepInput:   {"$ Enter Your File: ", "domains.txt"},
		stepFilter:  {"$ Auto filter subdomain [y/n]: ", "n"},
		stepOutput:  {"$ Save to: ", "subdomains.txt"},
		stepWorkers: {"Thread: ", strconv.Itoa(workers)},
	}
}

func (m *model) prepare() {
	if m.step >= stepDone {
		m.input.Blur()
		return
	}
	p := m.prompts()[m.step]
	m.input.Reset()
	m.input.Prompt = p.label
	m.input.Placeholder = p.placeholder
	m.input.PromptStyle = m.theme.Prompt
	m.input.Focus()
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) submit() (tea.Model, tea.Cmd) {
	val := strings.TrimSpace(m.input.Value())

	switch m.step {
	case stepInput:
		if val == "" {
			m.errText = "An input file is required"
			return m, nil
		}
		if m.deps.CheckInput != nil {
			if err := m.deps.CheckInput(val); err != nil {
				m.errText = userMessage(err)
				return m, nil
			}
		}
		m.answers.InputPath = val

	case stepFilter:
		switch strings.ToLower(val) {
		case "y", "yes":
			m.answers.Filter = true
		case "n", "no", "":
			m.answers.Filter = false
		default:
			m.errText = "Answer y or n"
			return m, nil
		}

	case stepOutput:
		if val == "" {
			m.errText = "An output file is required"
			return m, nil
		}
		m.answers.OutputPath = val

	case stepWorkers:
		n := m.deps.Defaults.Workers
		if val != "" {
			parsed, err := strconv.Atoi(val)
			if err != nil {
				m.errText = "Thread count must be a number"
				return m, nil
			}
			n = parsed
		}
		clamped, err := domain.ClampWorkers(n)
		if err != nil {
			m.errText = userMessage(err)
			return m, nil
		}
		m.answers.Workers = clamped
		m.step = stepDone
		m.errText = ""
		m.prepare()
		return m, tea.Quit

	default:
		return m, nil
	}

	m.step++
	m.errText = ""
	m.prepare()
	return m, nil
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("Subdomain Finder") + "\n" +
		m.theme.Subtitle.Render("bulk subdomain enumeration") + "\n\n"

	var b strings.Builder
	for _, line := range m.answered() {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.step == stepDone {
		b.WriteString("\n")
		b.WriteString(m.theme.Help.Render(fmt.Sprintf("Starting scan of %s with %d worker(s)...",
			clampString(m.answers.InputPath, 60), m.answers.Workers)))
		return wrap.Render(header+b.String()) + "\n"
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.errText != "" {
		b.WriteString(m.theme.Error.Render("[!] " + m.errText))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render("enter confirm • esc quit"))

	return wrap.Render(header + b.String())
}

func (m model) answered() []string {
	ps := m.prompts()
	values := []string{
		clampString(m.answers.InputPath, 60),
		yesNo(m.answers.Filter),
		clampString(m.answers.OutputPath, 60),
		strconv.Itoa(m.answers.Workers),
	}

	out := make([]string, 0, len(values))
	for i := stepInput; i < m.step && i < stepDone; i++ {
		out = append(out, m.theme.Prompt.Render(ps[i].label)+m.theme.Answer.Render(values[i]))
	}
	return out
}
