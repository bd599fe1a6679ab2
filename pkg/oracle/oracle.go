package oracle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	RoleUser     = "user"      // player
	RoleNarrator = "assistant" // narrative oracle

	// StartCommand is sent once at session start to obtain the opening
	// narration. It is never shown to the player and never recorded in
	// command history.
	StartCommand = "##START_GAME##"
)

// Message is a single entry of the turn history sent to the oracle.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// GameState is the snapshot of session state included with each turn.
type GameState struct {
	PlayerName                 string   `json:"playerName"`
	Inventory                  []string `json:"inventory"`
	SectorStability            float64  `json:"sectorStability"`
	AISync                     float64  `json:"aiSync"`
	CurrentLocationDescription string   `json:"currentLocationDescription"`
}

// TurnRequest is one player-command request to the narrative oracle.
type TurnRequest struct {
	CurrentGameState GameState `json:"currentGameState"`
	PlayerCommand    string    `json:"playerCommand"`
	TurnHistory      []Message `json:"turnHistory,omitempty"`
	GameTheme        string    `json:"gameTheme,omitempty"`
}

func (r *TurnRequest) Validate() error {
	if strings.TrimSpace(r.PlayerCommand) == "" {
		return fmt.Errorf("playerCommand cannot be empty")
	}
	if strings.TrimSpace(r.CurrentGameState.PlayerName) == "" {
		return fmt.Errorf("playerName cannot be empty")
	}
	return nil
}

// Item is an inventory item in an oracle response. The wire format
// accepts either a bare string or an object with a name field.
type Item struct {
	Name string `json:"name"`
}

func (i *Item) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &i.Name)
	}
	type alias Item
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	i.Name = a.Name
	return nil
}

func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Name)
}

// StatusUpdate overwrites one named session gauge. NewValue arrives as
// any JSON scalar; numeric strings are tolerated.
type StatusUpdate struct {
	StatusName string  `json:"statusName"`
	NewValue   float64 `json:"newValue"`
	Reason     string  `json:"reason,omitempty"`
}

func (s *StatusUpdate) UnmarshalJSON(data []byte) error {
	var raw struct {
		StatusName string          `json:"statusName"`
		NewValue   json.RawMessage `json:"newValue"`
		Reason     string          `json:"reason"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.StatusName = raw.StatusName
	s.Reason = raw.Reason
	if len(raw.NewValue) == 0 {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw.NewValue, &n); err == nil {
		s.NewValue = n
		return nil
	}
	var str string
	if err := json.Unmarshal(raw.NewValue, &str); err != nil {
		return fmt.Errorf("status %q: newValue is neither number nor string", raw.StatusName)
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		return fmt.Errorf("status %q: newValue %q is not numeric", raw.StatusName, str)
	}
	s.NewValue = n
	return nil
}

// TurnResponse is the structured narrative delta returned by the
// oracle. Every field is optional; absent lists are treated as empty.
type TurnResponse struct {
	StoryText              string         `json:"storyText,omitempty"`
	Choices                []string       `json:"choices,omitempty"`
	ItemsFound             []Item         `json:"itemsFound,omitempty"`
	StatusUpdates          []StatusUpdate `json:"statusUpdates,omitempty"`
	NewLocationDescription string         `json:"newLocationDescription,omitempty"`
}

// ErrorResponse is the failure envelope for oracle endpoints.
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

// GenericErrorMessage is the fallback shown when a failure carries no
// usable message of its own.
const GenericErrorMessage = "The connection to the narrative core was lost. Try again."

// Message returns the best user-facing text for the error, falling
// back to a generic line when the envelope is empty.
func (e *ErrorResponse) Message() string {
	if e == nil {
		return GenericErrorMessage
	}
	switch {
	case e.Error != "" && e.Details != "":
		return e.Error + ": " + e.Details
	case e.Error != "":
		return e.Error
	case e.Details != "":
		return e.Details
	default:
		return GenericErrorMessage
	}
}

// ParseResponse decodes a TurnResponse from raw model output. Models
// routinely wrap JSON in markdown fences or lead with prose, so the
// parser extracts the outermost object before unmarshalling.
func ParseResponse(raw string) (*TurnResponse, error) {
	text := strings.TrimSpace(raw)
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			text = text[start : end+1]
		}
	}
	if text == "" || !strings.HasPrefix(text, "{") {
		return nil, fmt.Errorf("no JSON object in oracle output")
	}
	var resp TurnResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse oracle output: %w", err)
	}
	return &resp, nil
}
