package transcript

import (
	"strings"
	"time"
)

// CharDelay is the fixed delay between revealed units.
const CharDelay = 20 * time.Millisecond

// segments splits text into maximal runs, where an escape sequence is
// always its own segment.
func segments(text string) []string {
	var segs []string
	for len(text) > 0 {
		loc := escapeSeq.FindStringIndex(text)
		if loc == nil {
			segs = append(segs, text)
			break
		}
		if loc[0] > 0 {
			segs = append(segs, text[:loc[0]])
		}
		segs = append(segs, text[loc[0]:loc[1]])
		text = text[loc[1]:]
	}
	return segs
}

// Tokens splits styled text into display units: one unit per rune,
// except that a whole escape sequence counts as a single unit.
func Tokens(text string) []string {
	var tokens []string
	for _, seg := range segments(text) {
		if isEscape(seg) {
			tokens = append(tokens, seg)
			continue
		}
		for _, r := range seg {
			tokens = append(tokens, string(r))
		}
	}
	return tokens
}

// Typewriter reveals a line of styled text one unit at a time. It is
// finite and not restartable mid-reveal; abandon it and build a new
// one when the view tears down.
type Typewriter struct {
	tokens []string
	pos    int
}

func NewTypewriter(text string) *Typewriter {
	return &Typewriter{tokens: Tokens(text)}
}

// Advance reveals the next unit and reports whether anything remains
// hidden. Escape sequences are revealed together with the character
// that follows them, so styling never consumes a visible tick.
func (tw *Typewriter) Advance() bool {
	for tw.pos < len(tw.tokens) {
		tok := tw.tokens[tw.pos]
		tw.pos++
		if !isEscape(tok) {
			break
		}
	}
	return tw.pos < len(tw.tokens)
}

// Done reports whether the full text has been revealed.
func (tw *Typewriter) Done() bool {
	return tw.pos >= len(tw.tokens)
}

// Prefix returns the revealed portion. A prefix that ends inside a
// styled span gets a trailing reset so partial reveals never bleed
// style into surrounding content.
func (tw *Typewriter) Prefix() string {
	prefix := strings.Join(tw.tokens[:tw.pos], "")
	if strings.ContainsRune(prefix, escChar) && !strings.HasSuffix(prefix, "\x1b[0m") {
		prefix += "\x1b[0m"
	}
	return prefix
}

// Full returns the complete text, as if the reveal had finished.
func (tw *Typewriter) Full() string {
	return strings.Join(tw.tokens, "")
}
