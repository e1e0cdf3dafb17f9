// Package books provides the textbook listing view for the TUI.
package books

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pathok-dev/pathok/internal/adapters/driving/tui/keymap"
	"github.com/pathok-dev/pathok/internal/adapters/driving/tui/messages"
	"github.com/pathok-dev/pathok/internal/adapters/driving/tui/styles"
	"github.com/pathok-dev/pathok/internal/core/domain"
	"github.com/pathok-dev/pathok/internal/core/ports/driving"
)

// ErrNoCorpus indicates that no corpus service was provided.
var ErrNoCorpus = errors.New("corpus service is required")

// View lists the loaded textbooks with corpus statistics.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	corpus driving.CorpusService
	ctx    context.Context

	books    []domain.Book
	stats    domain.CorpusStats
	selected int
	loading  bool
	err      error
	width    int
	height   int
	ready    bool
}

// NewView creates a new books view.
func NewView(s *styles.Styles, km *keymap.KeyMap, corpus driving.CorpusService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles: s,
		keymap: km,
		corpus: corpus,
		ctx:    context.Background(),
		width:  80,
		height: 24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the books.
func (v *View) Init() tea.Cmd {
	return v.Load()
}

// Load fetches the current books.
func (v *View) Load() tea.Cmd {
	v.loading = true
	return v.fetch(false)
}

func (v *View) fetch(reload bool) tea.Cmd {
	return func() tea.Msg {
		if v.corpus == nil {
			return messages.BooksLoaded{Err: ErrNoCorpus}
		}

		var books []domain.Book
		var err error
		if reload {
			books, err = v.corpus.Reload(v.ctx)
		} else {
			books, err = v.corpus.Books(v.ctx)
		}
		if err != nil {
			return messages.BooksLoaded{Err: err}
		}
		return messages.BooksLoaded{Books: books, Stats: v.corpus.Stats()}
	}
}

// Update handles messages for the books view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.BooksLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.books = msg.Books
			v.stats = msg.Stats
			if v.selected >= len(v.books) {
				v.selected = max(len(v.books)-1, 0)
			}
		}

	case tea.KeyMsg:
		key := msg.String()
		switch {
		case msg.Type == tea.KeyEsc:
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case keymap.Matches(key, v.keymap.Up):
			if v.selected > 0 {
				v.selected--
			}
		case keymap.Matches(key, v.keymap.Down):
			if v.selected < len(v.books)-1 {
				v.selected++
			}
		case keymap.Matches(key, v.keymap.Reload):
			if !v.loading {
				v.loading = true
				return v, v.fetch(true)
			}
		}
	}

	return v, nil
}

// View renders the books view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("pathok · Books"))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(domain.UserMessage(v.err)))
		b.WriteString("\n")
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading books..."))
		b.WriteString("\n")
	case len(v.books) == 0:
		b.WriteString(v.styles.Muted.Render("No books loaded."))
		b.WriteString("\n")
	default:
		for i := range v.books {
			b.WriteString(v.renderBook(i))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf(
		"%d books, %d chunks, %d embedded (%d dims)",
		v.stats.Books, v.stats.Chunks, v.stats.EmbeddedChunks, v.stats.Dimensions,
	)))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [r] Reload  [Esc] Back"))

	return b.String()
}

func (v *View) renderBook(i int) string {
	book := &v.books[i]

	cursor := "  "
	style := v.styles.Normal
	if i == v.selected {
		cursor = "> "
		style = v.styles.Selected
	}

	detail := fmt.Sprintf("%d chunks", len(book.Chunks))
	if book.Metadata.Class != "" || book.Metadata.Subject != "" {
		detail = strings.TrimSpace(book.Metadata.Class+" "+book.Metadata.Subject) + " · " + detail
	}

	return cursor + style.Render(book.Title()) + "  " + v.styles.Muted.Render(detail)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Books returns the loaded books.
func (v *View) Books() []domain.Book {
	return v.books
}

// Selected returns the selected index.
func (v *View) Selected() int {
	return v.selected
}

// Loading reports whether a load is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
