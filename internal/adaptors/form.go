package adaptors

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tacit-code/skills/internal/license"
)

// ErrCancelled is returned when the user leaves the form with Esc or Ctrl+C
var ErrCancelled = errors.New("license request cancelled")

type formField struct {
	key      string
	label    string
	input    textinput.Model
	validate func(string) error
}

// RequestForm prompts for the required license request fields that are
// still empty
type RequestForm struct {
	fields    []formField
	focus     int
	err       string
	submitted bool
	cancelled bool

	labelStyle lipgloss.Style
	errorStyle lipgloss.Style
	hintStyle  lipgloss.Style
}

// NewRequestForm creates a form for the missing required fields of req
func NewRequestForm(req license.Request) *RequestForm {
	f := &RequestForm{
		labelStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1")).Bold(true),
		errorStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")),
		hintStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086")),
	}

	if strings.TrimSpace(req.EntityName) == "" {
		f.add("entity_name", "Entity name", "Acme Corp", func(s string) error {
			if err := required("entity name")(s); err != nil {
				return err
			}
			return license.CheckEntityName(s)
		})
	}
	if req.EntityType == "" {
		names := make([]string, len(license.EntityTypes))
		for i, et := range license.EntityTypes {
			names[i] = string(et)
		}
		f.add("entity_type", "Entity type", strings.Join(names, " | "), func(s string) error {
			_, err := license.ParseEntityType(s)
			return err
		})
	}
	if strings.TrimSpace(req.Jurisdiction) == "" {
		f.add("jurisdiction", "Jurisdiction", "California", required("jurisdiction"))
	}

	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func (f *RequestForm) add(key, label, placeholder string, validate func(string) error) {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = "> "
	f.fields = append(f.fields, formField{key: key, label: label, input: input, validate: validate})
}

// Empty reports whether the form has nothing to ask
func (f *RequestForm) Empty() bool {
	return len(f.fields) == 0
}

// Init initializes the form
func (f *RequestForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (f *RequestForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return f.handleKeyMsg(msg)
	}
	return f, f.updateInput(msg)
}

func (f *RequestForm) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		f.cancelled = true
		return f, tea.Quit
	case tea.KeyEnter, tea.KeyTab:
		if f.Empty() {
			f.submitted = true
			return f, tea.Quit
		}
		current := f.fields[f.focus]
		if err := current.validate(current.input.Value()); err != nil {
			f.err = err.Error()
			return f, nil
		}
		f.err = ""
		if f.focus == len(f.fields)-1 {
			f.submitted = true
			return f, tea.Quit
		}
		return f, f.move(1)
	case tea.KeyShiftTab:
		f.err = ""
		return f, f.move(-1)
	}
	return f, f.updateInput(msg)
}

func (f *RequestForm) move(delta int) tea.Cmd {
	next := f.focus + delta
	if next < 0 || next >= len(f.fields) {
		return nil
	}
	f.fields[f.focus].input.Blur()
	f.focus = next
	return f.fields[f.focus].input.Focus()
}

func (f *RequestForm) updateInput(msg tea.Msg) tea.Cmd {
	if f.Empty() {
		return nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

// View renders the form
func (f *RequestForm) View() string {
	if f.submitted || f.cancelled {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("License request\n\n")
	for i, field := range f.fields {
		label := field.label
		if i == f.focus {
			label = f.labelStyle.Render(label)
		}
		sb.WriteString(label)
		sb.WriteString("\n")
		sb.WriteString(field.input.View())
		sb.WriteString("\n\n")
	}
	if f.err != "" {
		sb.WriteString(f.errorStyle.Render(f.err))
		sb.WriteString("\n")
	}
	sb.WriteString(f.hintStyle.Render("enter/tab next | shift+tab back | esc cancel"))
	sb.WriteString("\n")
	return sb.String()
}

// Fill copies the submitted values into req
func (f *RequestForm) Fill(req *license.Request) error {
	if f.cancelled {
		return ErrCancelled
	}
	if !f.submitted {
		return fmt.Errorf("license request form was not submitted")
	}
	for _, field := range f.fields {
		value := strings.TrimSpace(field.input.Value())
		switch field.key {
		case "entity_name":
			req.EntityName = value
		case "entity_type":
			et, err := license.ParseEntityType(value)
			if err != nil {
				return err
			}
			req.EntityType = et
		case "jurisdiction":
			req.Jurisdiction = value
		}
	}
	return nil
}

// RunRequestForm asks for the missing fields of req on in/out and returns
// the completed request
func RunRequestForm(req license.Request, in io.Reader, out io.Writer) (license.Request, error) {
	form := NewRequestForm(req)
	if form.Empty() {
		return req, nil
	}

	p := tea.NewProgram(form, tea.WithInput(in), tea.WithOutput(out))
	if _, err := p.Run(); err != nil {
		return req, fmt.Errorf("failed to run request form: %w", err)
	}

	if err := form.Fill(&req); err != nil {
		return req, err
	}
	return req, nil
}

var (
	_ tea.Model = (*RequestForm)(nil)
)
