// Package list renders ranked passages for the search view.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pathok-dev/pathok/internal/adapters/driving/tui/styles"
	"github.com/pathok-dev/pathok/internal/core/domain"
)

// Each result is a title row plus a preview row, followed by a blank line.
const rowsPerResult = 3

// ResultList is a scrollable list of search results with one selected entry.
type ResultList struct {
	results  []domain.SearchResult
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList returns an empty list sized for an 80x10 area.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &ResultList{styles: s, width: 80, height: 10}
}

// Init implements the bubbletea component contract.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update moves the selection on arrow keys and j/k.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, nil
	}
	switch key.String() {
	case "up", "k":
		r.MoveUp()
	case "down", "j":
		r.MoveDown()
	case "home", "g":
		r.selected = 0
	case "end", "G":
		if len(r.results) > 0 {
			r.selected = len(r.results) - 1
		}
	}
	return r, nil
}

// View renders the visible window of results around the selection.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	start, end := r.window()

	var b strings.Builder
	b.WriteString(r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.results))))
	b.WriteString("\n")
	for i := start; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(r.renderResult(i))
		b.WriteString("\n")
	}
	if end < len(r.results) {
		b.WriteString(r.styles.Muted.Render(fmt.Sprintf("  … %d more", len(r.results)-end)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// window returns the half-open range of result indices that fit the height,
// scrolled so the selection stays visible.
func (r *ResultList) window() (int, int) {
	visible := max((r.height-2)/rowsPerResult, 1)
	start := max(r.selected-visible+1, 0)
	end := min(start+visible, len(r.results))
	return start, end
}

func (r *ResultList) renderResult(i int) string {
	result := &r.results[i]

	title := result.BookTitle
	if title == "" {
		title = "(Untitled)"
	}
	titleWidth := max(r.width-24, 10)
	title = truncate(title, titleWidth)
	if gap := titleWidth - lipgloss.Width(title); gap > 0 {
		title += strings.Repeat(" ", gap)
	}

	pct := result.Percent()
	score := fmt.Sprintf("%3d%% %s", pct, result.Method)

	var head string
	if i == r.selected {
		head = r.styles.Selected.Render("> " + title + "  " + score)
	} else {
		head = r.styles.Normal.Render("  "+title+"  ") + r.styles.Relevance(pct).Render(score)
	}

	preview := truncate(oneLine(result.Chunk.Text), max(r.width-6, 20))
	return head + "\n" + r.styles.Muted.Render("    "+preview)
}

// truncate cuts s to n runes with a trailing ellipsis. Byte slicing would
// split Bangla characters.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SetResults replaces the results and resets the selection.
func (r *ResultList) SetResults(results []domain.SearchResult) {
	r.results = results
	r.selected = 0
}

// Results returns the current results.
func (r *ResultList) Results() []domain.SearchResult {
	return r.results
}

// Selected returns the selected index.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected selects index if it is in range.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.results) {
		r.selected = index
	}
}

// SelectedResult returns the selected result, or nil when the list is empty.
func (r *ResultList) SelectedResult() *domain.SearchResult {
	if r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the area the list renders into.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Len returns the number of results.
func (r *ResultList) Len() int {
	return len(r.results)
}
