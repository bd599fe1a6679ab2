package engine

import (
	"strings"
)

// CmdQuit is the canonical quit command. The engine never handles it;
// the view intercepts it and opens its quit flow.
const CmdQuit = "quit"

// aliases maps shorthand input to its canonical command.
var aliases = map[string]string{
	"l":   "look around",
	"i":   "inventory",
	"inv": "inventory",
	"s":   "status",
	"h":   "help",
	"?":   "help",
	"q":   CmdQuit,
}

// Normalize turns raw player text into a canonical command and records
// the original text in command history. It returns the canonical
// command, whether an alias was expanded, and whether there was any
// input at all. Empty input is a no-op: nothing is recorded and the
// caller must not proceed.
func (s *Session) Normalize(raw string) (canonical string, expanded, ok bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false, false
	}
	s.commands.Push(trimmed)

	canonical = strings.ToLower(trimmed)
	if mapped, found := aliases[canonical]; found {
		return mapped, true, true
	}
	return canonical, false, true
}

const helpText = `Available commands:
  look around      survey your surroundings
  inventory (i)    list carried items
  status (s)       show sector stability and AI sync
  help (h, ?)      show this help
  quit (q)         leave the terminal

Anything else is sent to GAIA. Describe what you do.`

// LocalResult is the outcome of local command dispatch. When Handled
// is true the command was fully resolved and no oracle call is made.
type LocalResult struct {
	Handled bool
	Lines   []string // narrator-styled output, rendered instantly
}

// DispatchLocal intercepts canonical commands that are answered
// without contacting the oracle. It never mutates session state.
func (s *Session) DispatchLocal(canonical string) LocalResult {
	switch canonical {
	case "help":
		return LocalResult{Handled: true, Lines: []string{helpText}}
	case "inventory":
		if len(s.inventory) == 0 {
			return LocalResult{Handled: true, Lines: []string{"Your inventory is empty."}}
		}
		lines := make([]string, 0, len(s.inventory)+1)
		lines = append(lines, "You are carrying:")
		for _, item := range s.inventory {
			lines = append(lines, "  - "+item)
		}
		return LocalResult{Handled: true, Lines: lines}
	case "status":
		return LocalResult{Handled: true, Lines: []string{
			"Sector Stability: " + formatGauge(s.sectorStability) + "%",
			"AI Sync: " + formatGauge(s.aiSync) + "%",
		}}
	}
	return LocalResult{Handled: false}
}
