// Package ask provides the question answering view for the TUI.
package ask

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pathok-dev/pathok/internal/adapters/driving/tui/components/input"
	"github.com/pathok-dev/pathok/internal/adapters/driving/tui/components/status"
	"github.com/pathok-dev/pathok/internal/adapters/driving/tui/keymap"
	"github.com/pathok-dev/pathok/internal/adapters/driving/tui/messages"
	"github.com/pathok-dev/pathok/internal/adapters/driving/tui/styles"
	"github.com/pathok-dev/pathok/internal/core/domain"
	"github.com/pathok-dev/pathok/internal/core/ports/driving"
)

// ErrNoAnswerService indicates that no answer service was provided.
var ErrNoAnswerService = errors.New("answer service is required")

// ErrNoCorpus indicates that no corpus service was provided.
var ErrNoCorpus = errors.New("corpus service is required")

// reserved is the number of rows used by the title, input and status bar.
const reserved = 8

// View asks a question and shows the grounded answer with its sources.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.LabelledInput
	spinner   spinner.Model
	viewport  viewport.Model
	statusbar *status.Bar

	answerService driving.AnswerService
	corpusService driving.CorpusService
	userID        string
	ctx           context.Context

	question string
	answer   *domain.Answer
	thinking bool
	width    int
	height   int
	ready    bool
}

// NewView creates a new ask view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	answerService driving.AnswerService,
	corpusService driving.CorpusService,
	userID string,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Citation

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQuestionInput(s),
		spinner:       sp,
		viewport:      viewport.New(80, 24-reserved),
		statusbar:     status.NewBar(s, km),
		answerService: answerService,
		corpusService: corpusService,
		userID:        userID,
		ctx:           context.Background(),
		width:         80,
		height:        24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !v.thinking {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.AnswerCompleted:
		v.handleAnswer(msg)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.thinking {
		return v, nil
	}

	if v.input.Focused() {
		if msg.Type == tea.KeyEnter {
			return v, v.submit(v.input.Value())
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	if keymap.Matches(msg.String(), v.keymap.NewQuestion) {
		v.input.SetValue("")
		return v, v.input.Focus()
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// submit starts answering the question unless it is blank.
func (v *View) submit(question string) tea.Cmd {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil
	}

	v.question = question
	v.thinking = true
	v.input.Blur()
	v.statusbar.SetKeywordOnly(false)
	v.statusbar.SetState(status.StateThinking)

	return tea.Batch(v.spinner.Tick, v.ask(question))
}

// ask composes the answer in the background.
func (v *View) ask(question string) tea.Cmd {
	return func() tea.Msg {
		if v.answerService == nil {
			return messages.AnswerCompleted{Question: question, Answer: domain.FailedAnswer(ErrNoAnswerService)}
		}
		if v.corpusService == nil {
			return messages.AnswerCompleted{Question: question, Answer: domain.FailedAnswer(ErrNoCorpus)}
		}

		books, err := v.corpusService.Books(v.ctx)
		if err != nil {
			return messages.AnswerCompleted{Question: question, Answer: domain.FailedAnswer(err)}
		}

		return messages.AnswerCompleted{
			Question: question,
			Answer:   v.answerService.Answer(v.ctx, question, books, v.userID),
		}
	}
}

func (v *View) handleAnswer(msg messages.AnswerCompleted) {
	answer := msg.Answer
	v.answer = &answer
	v.thinking = false

	switch {
	case answer.OK():
		v.statusbar.SetState(status.StateAnswered)
		v.statusbar.SetResultCount(len(answer.Sources))
	case answer.IsNotFound():
		v.statusbar.SetState(status.StateReady)
	default:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(failureMessage(&answer))
	}
	v.statusbar.SetKeywordOnly(answer.KeywordOnly)

	v.viewport.SetContent(v.renderAnswer())
	v.viewport.GotoTop()
}

// failureMessage returns the localised text shown for a failed answer.
func failureMessage(a *domain.Answer) string {
	if a.Err != nil {
		return domain.UserMessage(a.Err)
	}
	return a.Error
}

// renderAnswer builds the scrollable answer body.
func (v *View) renderAnswer() string {
	if v.answer == nil {
		return ""
	}
	a := v.answer
	width := v.contentWidth()

	var b strings.Builder
	b.WriteString(v.styles.Muted.Render("Q: " + v.question))
	b.WriteString("\n\n")

	if !a.OK() {
		style := v.styles.Error
		if a.IsNotFound() {
			style = v.styles.Warning
		}
		b.WriteString(style.Width(width).Render(failureMessage(a)))
		return b.String()
	}

	b.WriteString(v.styles.Answer.Width(width).Render(a.Text))
	b.WriteString("\n")

	if len(a.Sources) > 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.Subtitle.Render("Sources:"))
		b.WriteString("\n")
		for i, src := range a.Sources {
			b.WriteString(v.styles.Citation.Render(fmt.Sprintf("[%d] %s ", i+1, src.BookTitle)))
			b.WriteString(v.styles.Relevance(src.Similarity).Render(fmt.Sprintf("(%d%%)", src.Similarity)))
			b.WriteString("\n")
		}
	}

	if a.KeywordOnly {
		b.WriteString("\n")
		b.WriteString(v.styles.Warning.Width(width).Render(domain.MsgKeywordOnly))
	}

	return b.String()
}

func (v *View) contentWidth() int {
	if v.width > 8 {
		return v.width - 4
	}
	return v.width
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{v.styles.Title.Render("pathok · Ask"), "", v.input.View(), ""}

	switch {
	case v.thinking:
		sections = append(sections, v.spinner.View()+" "+v.styles.Muted.Render("উত্তর তৈরি হচ্ছে... (Thinking)"))
	case v.answer != nil:
		sections = append(sections, v.viewport.View())
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.viewport.Width = width
	v.viewport.Height = max(height-reserved, 3)
	if v.answer != nil {
		v.viewport.SetContent(v.renderAnswer())
	}
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Thinking reports whether an answer is being composed.
func (v *View) Thinking() bool {
	return v.thinking
}

// Answer returns the last answer, or nil before the first question.
func (v *View) Answer() *domain.Answer {
	return v.answer
}

// Question returns the last submitted question.
func (v *View) Question() string {
	return v.question
}

// SetQuestion sets the input text.
func (v *View) SetQuestion(q string) {
	v.input.SetValue(q)
}

// InputFocused returns whether the question input has focus.
func (v *View) InputFocused() bool {
	return v.input.Focused()
}

// Reset clears the last answer and focuses the input.
func (v *View) Reset() tea.Cmd {
	v.answer = nil
	v.question = ""
	v.thinking = false
	v.input.SetValue("")
	v.viewport.SetContent("")
	v.statusbar.Clear()
	return v.input.Focus()
}
