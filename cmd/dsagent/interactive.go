package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/workspace"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	previewStyle  = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// datasetPrompt collects a dataset name in two stages: free-form entry
// with a live preview of the directory the name maps to, then a yes/no
// confirmation of the workspace that will be created under base.
type datasetPrompt struct {
	input  textinput.Model
	base   string
	errMsg string

	confirming bool
	accept     bool
	done       bool
	aborted    bool
}

func newDatasetPrompt(base string) datasetPrompt {
	ti := textinput.New()
	ti.Placeholder = "quarterly-sales"
	ti.Focus()
	return datasetPrompt{input: ti, base: base, accept: true}
}

func (m datasetPrompt) Init() tea.Cmd {
	return textinput.Blink
}

func (m datasetPrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	}

	if m.confirming {
		switch key.String() {
		case "enter":
			m.done = true
			return m, tea.Quit
		case "y", "Y":
			m.accept = true
			m.done = true
			return m, tea.Quit
		case "n", "N":
			m.accept = false
			m.done = true
			return m, tea.Quit
		case "left", "right", "tab", "h", "l":
			m.accept = !m.accept
		}
		return m, nil
	}

	if key.String() == "enter" {
		if err := validateDatasetName(m.input.Value()); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.confirming = true
		return m, nil
	}

	m.errMsg = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m datasetPrompt) View() string {
	if m.done {
		return ""
	}

	if m.confirming {
		yes, no := " Yes ", " No "
		if m.accept {
			yes = selectedStyle.Render(yes)
		} else {
			no = selectedStyle.Render(no)
		}
		title := fmt.Sprintf("Create workspace for %q under %s?", m.dirName(), m.base)
		return fmt.Sprintf("%s %s / %s\n", titleStyle.Render(title), yes, no)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Dataset name") + "\n")
	b.WriteString(m.input.View() + "\n")
	if dir := m.dirName(); dir != "" && dir != strings.TrimSpace(m.input.Value()) {
		b.WriteString(previewStyle.Render("directory: "+dir) + "\n")
	}
	if m.errMsg != "" {
		b.WriteString(errStyle.Render(m.errMsg) + "\n")
	}
	return b.String()
}

// dirName is the directory the current input maps to, empty until
// something is typed.
func (m datasetPrompt) dirName() string {
	name := strings.TrimSpace(m.input.Value())
	if name == "" {
		return ""
	}
	return workspace.Sanitize(name)
}

// validateDatasetName rejects names the workspace layer would refuse.
func validateDatasetName(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("dataset name is required")
	}
	if s == "." || s == ".." {
		return fmt.Errorf("invalid dataset name %q", s)
	}
	return nil
}

// promptDataset runs the interactive prompt and returns the entered
// dataset name, or an error if the user backed out.
func promptDataset(base string) (string, error) {
	result, err := tea.NewProgram(newDatasetPrompt(base)).Run()
	if err != nil {
		return "", err
	}
	final := result.(datasetPrompt)
	if final.aborted || !final.accept {
		return "", fmt.Errorf("user aborted")
	}
	return strings.TrimSpace(final.input.Value()), nil
}
