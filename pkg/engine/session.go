package engine

import (
	"strconv"

	"gaiaterm/pkg/oracle"
)

const (
	// HistoryRoundTrips is the number of player/narrator pairs kept in
	// turn history. Older pairs are evicted first.
	HistoryRoundTrips = 5
	maxTurnHistory    = HistoryRoundTrips * 2

	maxCommandHistory     = 20
	narratorContentLimit  = 200
	locationFallbackLimit = 150
)

// DefaultTheme is the fixed narrative theme sent with every turn.
const DefaultTheme = "gaia-terminal: a derelict orbital station run by the GAIA core, " +
	"retro terminal sci-fi, hopeful but eerie"

// Session owns the state of one play session. It lives for the
// lifetime of the view that created it and is never persisted.
type Session struct {
	playerName      string
	inventory       []string
	sectorStability float64
	aiSync          float64
	location        string
	turnHistory     []oracle.Message
	commands        *History
	theme           string
	awaiting        bool
}

// NewSession creates a fresh session for the named player. Gauges
// start at full; values are not clamped afterwards, the oracle owns
// them entirely.
func NewSession(playerName string) *Session {
	return &Session{
		playerName:      playerName,
		inventory:       make([]string, 0),
		sectorStability: 100,
		aiSync:          100,
		turnHistory:     make([]oracle.Message, 0, maxTurnHistory),
		commands:        NewHistory(maxCommandHistory),
		theme:           DefaultTheme,
	}
}

func (s *Session) PlayerName() string { return s.playerName }

func (s *Session) SectorStability() float64 { return s.sectorStability }

func (s *Session) AISync() float64 { return s.aiSync }

func (s *Session) Location() string { return s.location }

// Awaiting reports whether an oracle request is outstanding.
func (s *Session) Awaiting() bool { return s.awaiting }

// Commands is the raw submitted-command history used for recall.
func (s *Session) Commands() *History { return s.commands }

// Inventory returns a copy of the inventory item names in insertion
// order.
func (s *Session) Inventory() []string {
	out := make([]string, len(s.inventory))
	copy(out, s.inventory)
	return out
}

// TurnHistory returns a copy of the capped turn history.
func (s *Session) TurnHistory() []oracle.Message {
	out := make([]oracle.Message, len(s.turnHistory))
	copy(out, s.turnHistory)
	return out
}

// AddItem appends an item unless one with the same name already
// exists. It reports whether the item was added.
func (s *Session) AddItem(name string) bool {
	if name == "" {
		return false
	}
	for _, have := range s.inventory {
		if have == name {
			return false
		}
	}
	s.inventory = append(s.inventory, name)
	return true
}

// SetGauge overwrites a gauge by its wire name. Unknown names are
// ignored. Values are stored verbatim, including values outside
// [0, 100].
func (s *Session) SetGauge(name string, value float64) bool {
	switch name {
	case "sectorStability":
		s.sectorStability = value
	case "aiSync":
		s.aiSync = value
	default:
		return false
	}
	return true
}

// Snapshot builds the game-state view sent to the oracle.
func (s *Session) Snapshot() oracle.GameState {
	return oracle.GameState{
		PlayerName:                 s.playerName,
		Inventory:                  s.Inventory(),
		SectorStability:            s.sectorStability,
		AISync:                     s.aiSync,
		CurrentLocationDescription: s.location,
	}
}

func (s *Session) appendHistory(role, content string) {
	s.turnHistory = append(s.turnHistory, oracle.Message{Role: role, Content: content})
	if len(s.turnHistory) > maxTurnHistory {
		s.turnHistory = s.turnHistory[len(s.turnHistory)-maxTurnHistory:]
	}
}

func formatGauge(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// truncate shortens s to at most limit runes.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
