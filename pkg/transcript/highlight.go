// Package transcript renders narrative text for the terminal: it
// sanitizes untrusted oracle output, highlights a fixed thematic
// vocabulary, and reveals lines one display unit at a time.
package transcript

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Keywords is the fixed vocabulary highlighted in narrator lines.
var Keywords = []string{
	"look", "inventory", "terminal", "reactor", "gaia",
	"sector", "airlock", "keycard", "core", "console",
	"stability", "sync", "hatch", "corridor",
}

var keywordStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("51")). // cyan
	Bold(true)

// Highlighter wraps occurrences of the thematic vocabulary in an
// inline style, case-insensitively, preserving the original casing of
// each match.
type Highlighter struct {
	pattern *regexp.Regexp
	style   lipgloss.Style
}

func NewHighlighter() *Highlighter {
	quoted := make([]string, len(Keywords))
	for i, w := range Keywords {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return &Highlighter{
		pattern: regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`),
		style:   keywordStyle,
	}
}

// Highlight styles keyword matches in text. Regions already inside an
// escape-sequence span are left alone so styled text is never wrapped
// twice.
func (h *Highlighter) Highlight(text string) string {
	if !strings.ContainsRune(text, escChar) {
		return h.pattern.ReplaceAllStringFunc(text, func(match string) string {
			return h.style.Render(match)
		})
	}

	var out strings.Builder
	styled := false
	for _, tok := range segments(text) {
		if isEscape(tok) {
			styled = !isReset(tok)
			out.WriteString(tok)
			continue
		}
		if styled {
			out.WriteString(tok)
			continue
		}
		out.WriteString(h.pattern.ReplaceAllStringFunc(tok, func(match string) string {
			return h.style.Render(match)
		}))
	}
	return out.String()
}

const escChar = '\x1b'

var escapeSeq = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(\x07|\x1b\\)`)

// Sanitize neutralizes terminal-significant sequences in untrusted
// text: escape sequences are stripped and control characters other
// than newline and tab are dropped.
func Sanitize(text string) string {
	text = escapeSeq.ReplaceAllString(text, "")
	var out strings.Builder
	out.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 0x20 && r != 0x7f {
			out.WriteRune(r)
		}
	}
	return out.String()
}

func isEscape(tok string) bool {
	return len(tok) > 0 && tok[0] == escChar
}

func isReset(tok string) bool {
	return tok == "\x1b[0m" || tok == "\x1b[m"
}
