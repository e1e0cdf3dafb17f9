package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, 80, bar.Width())
	assert.Nil(t, bar.Init())
}

func TestBar_View(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		message  string
		count    int
		contains []string
	}{
		{"ready", StateReady, "", 0, []string{"Ready", "enter: ask"}},
		{"thinking", StateThinking, "", 0, []string{"Thinking..."}},
		{"searching", StateSearching, "", 0, []string{"Searching..."}},
		{"error with message", StateError, "rate limited", 0, []string{"Error: rate limited"}},
		{"error without message", StateError, "", 0, []string{"Error"}},
		{"answered", StateAnswered, "", 3, []string{"Answered from 3 sources", "n: new question"}},
		{"results", StateResults, "", 5, []string{"5 results", "enter: select"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)
			bar.SetResultCount(tt.count)

			view := bar.View()
			for _, c := range tt.contains {
				assert.Contains(t, view, c)
			}
		})
	}
}

func TestBar_KeywordOnlyMarker(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)

	assert.NotContains(t, bar.View(), "keyword search")

	bar.SetKeywordOnly(true)
	assert.True(t, bar.KeywordOnly())
	assert.Contains(t, bar.View(), "[keyword search]")
}

func TestBar_NarrowWidth(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(5)

	assert.NotEmpty(t, bar.View())
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetResultCount(4)
	bar.SetKeywordOnly(true)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Zero(t, bar.ResultCount())
	assert.False(t, bar.KeywordOnly())
}
