package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	sfjson "github.com/elastic/go-structform/json"

	"github.com/wippyai/metaform"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const sampleJSON = `{
  "recipient": "1234567890",
  "message": {"text": "hello world"},
  "tags": ["alpha", "beta"]
}`

type interactiveModel struct {
	input      textarea.Model
	body       string
	err        error
	nullFields bool
}

func newInteractiveModel(nullFields bool) *interactiveModel {
	ta := textarea.New()
	ta.Placeholder = `{"key": "value"}`
	ta.SetWidth(72)
	ta.SetHeight(8)
	ta.ShowLineNumbers = false
	ta.SetValue(sampleJSON)
	ta.Focus()

	m := &interactiveModel{input: ta, nullFields: nullFields}
	m.encode()
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return textarea.Blink
}

// encode re-renders the form body from the current JSON text. Runs on
// every edit; bodies typed into a TUI are small.
func (m *interactiveModel) encode() {
	src := strings.TrimSpace(m.input.Value())
	if src == "" {
		m.body, m.err = "", nil
		return
	}

	var buf bytes.Buffer
	vs := metaform.NewVisitor(&buf)
	vs.SetNullFields(m.nullFields)
	if err := sfjson.Parse([]byte(src), vs); err != nil {
		m.body, m.err = "", err
		return
	}
	if err := vs.Finish(); err != nil {
		m.body, m.err = "", err
		return
	}
	m.body, m.err = buf.String(), nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+n":
			m.nullFields = !m.nullFields
			m.encode()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.encode()
	return m, cmd
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("metaform"))
	b.WriteString(" JSON → form+JSON body\n\n")

	b.WriteString(labelStyle.Render("JSON input"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Encoded body"))
	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.body == "":
		b.WriteString(helpStyle.Render("(empty body)"))
	default:
		b.WriteString(bodyStyle.Render(m.body))
	}
	b.WriteString("\n\n")

	nullState := "off"
	if m.nullFields {
		nullState = "on"
	}
	b.WriteString(helpStyle.Render("ctrl+n null-fields: " + nullState + " • esc quit"))

	return b.String()
}

func runInteractive(nullFields bool) error {
	p := tea.NewProgram(newInteractiveModel(nullFields), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
