package tui

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vakeel-dev/vakeel/internal/transport"
	"github.com/vakeel-dev/vakeel/pkg/chat"
)

type stubTransport struct{}

func (stubTransport) SendChat(ctx context.Context, text string) (*transport.ChatResult, error) {
	return &transport.ChatResult{Answer: "ok"}, nil
}

func (stubTransport) AnalyzeDocument(ctx context.Context, doc transport.Document, question string) (*transport.AnalysisResult, error) {
	return &transport.AnalysisResult{Analysis: "ok"}, nil
}

func TestTypingStagesDraftThroughManager(t *testing.T) {
	mgr := chat.NewManager(stubTransport{})
	model := New(mgr)

	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hi")})
	model = next.(Model)

	assert.Equal(t, "hi", mgr.Draft(), "keystrokes should reach the manager's draft")

	next, _ = model.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	model = next.(Model)

	assert.Empty(t, mgr.Draft(), "new session should clear the draft")
	assert.Empty(t, model.input.Value(), "compose area should mirror the cleared draft")
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{
			name:  "breaks at the last space",
			text:  "cheating and dishonestly inducing delivery",
			width: 12,
			want:  "cheating and\ndishonestly\ninducing\ndelivery",
		},
		{
			name:  "hard cut when no space fits",
			text:  "abcdefghij",
			width: 4,
			want:  "abcd\nefgh\nij",
		},
		{
			name:  "preserves existing newlines",
			text:  "first\nsecond",
			width: 20,
			want:  "first\nsecond",
		},
		{
			name:  "zero width returns text unchanged",
			text:  "anything at all",
			width: 0,
			want:  "anything at all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrap(tt.text, tt.width))
		})
	}
}

func TestWrapKeepsMultibyteRunesIntact(t *testing.T) {
	// Section signs are everywhere in legal text; a cut that lands inside
	// one must not split its encoding.
	text := strings.Repeat("§", 10)
	got := wrap(text, 4)

	require.True(t, utf8.ValidString(got), "wrap split a multibyte rune")
	for _, line := range strings.Split(got, "\n") {
		assert.LessOrEqual(t, utf8.RuneCountInString(line), 4)
	}
	assert.Equal(t, text, strings.ReplaceAll(got, "\n", ""), "wrap must not lose characters")
}

func TestWrapMeasuresWidthInRunes(t *testing.T) {
	// "धारा ४२०" is 8 runes but far more bytes; a byte-measured wrap would
	// break it even though it fits.
	text := "धारा ४२०"
	assert.Equal(t, text, wrap(text, 10))
}
