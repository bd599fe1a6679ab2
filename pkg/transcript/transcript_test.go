package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain text", input: "The reactor hums.", expected: "The reactor hums."},
		{name: "strips CSI", input: "danger \x1b[31mred\x1b[0m zone", expected: "danger red zone"},
		{name: "strips OSC", input: "\x1b]0;evil title\x07hello", expected: "hello"},
		{name: "strips control chars", input: "be\x07ep\x00", expected: "beep"},
		{name: "keeps newline and tab", input: "line one\n\tindented", expected: "line one\n\tindented"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Sanitize(tc.input))
		})
	}
}

func TestHighlightKeywords(t *testing.T) {
	h := NewHighlighter()

	out := h.Highlight("The reactor hums near the terminal.")
	assert.Contains(t, out, h.style.Render("reactor"))
	assert.Contains(t, out, h.style.Render("terminal"))
	assert.Equal(t, "The reactor hums near the terminal.", stripEscapes(out))

	// Case-insensitive match, original casing preserved.
	out = h.Highlight("GAIA watches. Gaia always watches.")
	assert.Contains(t, out, h.style.Render("GAIA"))
	assert.Contains(t, out, h.style.Render("Gaia"))
}

func TestHighlightWordBoundaries(t *testing.T) {
	h := NewHighlighter()
	// "reactors" contains "reactor" but crosses the word boundary.
	out := h.Highlight("overlook the reactors")
	assert.Equal(t, "overlook the reactors", stripEscapes(out))
}

func TestHighlightSkipsStyledRegions(t *testing.T) {
	h := NewHighlighter()
	in := "\x1b[1mreactor\x1b[0m and reactor"
	out := h.Highlight(in)

	// The pre-styled occurrence is untouched; the plain one may be
	// wrapped, but the visible text never changes.
	assert.True(t, strings.HasPrefix(out, "\x1b[1mreactor\x1b[0m"))
	assert.Equal(t, "reactor and reactor", stripEscapes(out))
}

func TestTokensAtomicEscapes(t *testing.T) {
	tokens := Tokens("\x1b[1mAB\x1b[0m")
	require.Equal(t, []string{"\x1b[1m", "A", "B", "\x1b[0m"}, tokens)
}

func TestTypewriterReveal(t *testing.T) {
	tw := NewTypewriter("abc")
	require.False(t, tw.Done())

	tw.Advance()
	assert.Equal(t, "a", tw.Prefix())
	tw.Advance()
	assert.Equal(t, "ab", tw.Prefix())
	more := tw.Advance()
	assert.Equal(t, "abc", tw.Prefix())
	assert.False(t, more)
	assert.True(t, tw.Done())
}

func TestTypewriterEscapeDoesNotConsumeTick(t *testing.T) {
	tw := NewTypewriter("\x1b[1ma\x1b[0m")

	// One tick reveals the style opener plus the first character.
	tw.Advance()
	assert.Equal(t, "\x1b[1ma\x1b[0m", tw.Prefix(), "partial styled prefix must be reset-terminated")
}

func TestTypewriterPartialStyleReset(t *testing.T) {
	tw := NewTypewriter("\x1b[1mab\x1b[0m")
	tw.Advance()
	prefix := tw.Prefix()
	assert.True(t, strings.HasSuffix(prefix, "\x1b[0m"), "prefix %q must end with a reset", prefix)
	assert.Equal(t, "a", stripEscapes(prefix))
}

func TestTypewriterFull(t *testing.T) {
	text := "The \x1b[1mcore\x1b[0m waits."
	tw := NewTypewriter(text)
	assert.Equal(t, text, tw.Full())
}

func stripEscapes(s string) string {
	return escapeSeq.ReplaceAllString(s, "")
}
