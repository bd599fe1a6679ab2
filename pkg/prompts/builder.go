package prompts

import (
	"encoding/json"
	"fmt"

	"gaiaterm/pkg/oracle"
)

const defaultHistoryLimit = 10

// Builder assembles the model conversation for one oracle turn.
type Builder struct {
	req          *oracle.TurnRequest
	historyLimit int
}

func New() *Builder {
	return &Builder{historyLimit: defaultHistoryLimit}
}

// WithRequest sets the turn request to build from.
func (b *Builder) WithRequest(req *oracle.TurnRequest) *Builder {
	b.req = req
	return b
}

// WithHistoryLimit overrides the turn-history window size.
func (b *Builder) WithHistoryLimit(limit int) *Builder {
	b.historyLimit = limit
	return b
}

// Build returns the message array for the model: system prompt,
// windowed history, then the player command (or the start directive
// for the sentinel).
func (b *Builder) Build() ([]oracle.Message, error) {
	if b.req == nil {
		return nil, fmt.Errorf("turn request is required")
	}

	stateJSON, err := json.Marshal(b.req.CurrentGameState)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize game state: %w", err)
	}

	messages := make([]oracle.Message, 0, len(b.req.TurnHistory)+2)
	messages = append(messages, oracle.Message{
		Role:    "system",
		Content: fmt.Sprintf(NarratorSystemPrompt, b.req.GameTheme, string(stateJSON)),
	})

	history := b.req.TurnHistory
	if len(history) > b.historyLimit {
		history = history[len(history)-b.historyLimit:]
	}
	messages = append(messages, history...)

	command := b.req.PlayerCommand
	if command == oracle.StartCommand {
		command = StartDirective
	}
	messages = append(messages, oracle.Message{Role: oracle.RoleUser, Content: command})

	return messages, nil
}
