// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pathok-dev/pathok/internal/adapters/driving/tui/styles"
)

// CharLimit bounds the length of a question or query.
const CharLimit = 500

// LabelledInput wraps a bubbles textinput with a styled label.
// It accepts Bangla and English text.
type LabelledInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// NewLabelledInput creates a focused input with the given label and placeholder.
func NewLabelledInput(s *styles.Styles, label, placeholder string) *LabelledInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = CharLimit
	ti.Width = 50

	return &LabelledInput{
		textinput: ti,
		styles:    s,
		label:     label,
		width:     50,
	}
}

// NewQuestionInput creates the input used on the ask view.
func NewQuestionInput(s *styles.Styles) *LabelledInput {
	return NewLabelledInput(s, "প্রশ্ন: ", "Ask a question / প্রশ্ন লিখুন...")
}

// NewSearchInput creates the input used on the search view.
func NewSearchInput(s *styles.Styles) *LabelledInput {
	return NewLabelledInput(s, "Search: ", "Enter search query...")
}

// Init initialises the input.
func (s *LabelledInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (s *LabelledInput) Update(msg tea.Msg) (*LabelledInput, tea.Cmd) {
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the input.
func (s *LabelledInput) View() string {
	label := s.styles.Title.Render(s.label)
	input := s.styles.InputField.Render(s.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, input)
}

// Label returns the input label.
func (s *LabelledInput) Label() string {
	return s.label
}

// Value returns the current input value.
func (s *LabelledInput) Value() string {
	return s.textinput.Value()
}

// SetValue sets the input value.
func (s *LabelledInput) SetValue(value string) {
	s.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (s *LabelledInput) Focus() tea.Cmd {
	return s.textinput.Focus()
}

// Blur removes focus from the input.
func (s *LabelledInput) Blur() {
	s.textinput.Blur()
}

// Focused returns whether the input is focused.
func (s *LabelledInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth sets the width of the input.
func (s *LabelledInput) SetWidth(width int) {
	s.width = width
	// Account for label and padding
	inputWidth := width - lipgloss.Width(s.label) - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.textinput.Width = inputWidth
}

// Width returns the current width.
func (s *LabelledInput) Width() int {
	return s.width
}

// Reset clears the input.
func (s *LabelledInput) Reset() {
	s.textinput.Reset()
}
