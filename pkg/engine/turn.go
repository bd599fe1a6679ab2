package engine

import (
	"errors"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"gaiaterm/pkg/oracle"
)

// ErrBusy is returned by BeginTurn while an oracle request is already
// outstanding. Callers drop the submission; nothing is queued.
var ErrBusy = errors.New("oracle request already in progress")

// PonderingText replaces the narrative line when a successful response
// carries no story text.
const PonderingText = "GAIA ponders your words in silence."

// EventKind classifies a render event emitted by turn reconciliation.
type EventKind int

const (
	// EventNarrative is narrator prose, revealed with the typing
	// effect and keyword highlighting.
	EventNarrative EventKind = iota
	// EventSystem is an instant system-styled notice.
	EventSystem
	// EventError is an instant error-styled line.
	EventError
	// EventChoices replaces the selectable choice panel.
	EventChoices
)

// Event is one ordered rendering instruction produced by a turn.
type Event struct {
	Kind    EventKind
	Text    string
	Choices []string
}

var titleCaser = cases.Title(language.English)

// BeginTurn transitions the session to awaiting and returns the
// request snapshot for the oracle. While a request is outstanding any
// further call returns ErrBusy and leaves the session untouched.
func (s *Session) BeginTurn(command string) (*oracle.TurnRequest, error) {
	if s.awaiting {
		return nil, ErrBusy
	}
	s.awaiting = true
	return &oracle.TurnRequest{
		CurrentGameState: s.Snapshot(),
		PlayerCommand:    command,
		TurnHistory:      s.TurnHistory(),
		GameTheme:        s.theme,
	}, nil
}

// ApplyResponse reconciles a successful oracle response into session
// state and returns render events in their fixed order: narrative,
// choices, item notices, status notices. It releases the awaiting
// guard.
func (s *Session) ApplyResponse(command string, resp *oracle.TurnResponse) []Event {
	defer func() { s.awaiting = false }()

	if command != oracle.StartCommand {
		s.appendHistory(oracle.RoleUser, command)
	}
	if resp.StoryText != "" {
		s.appendHistory(oracle.RoleNarrator, truncate(resp.StoryText, narratorContentLimit))
	}

	events := make([]Event, 0, 4)

	narrative := resp.StoryText
	if narrative == "" {
		narrative = PonderingText
	}
	events = append(events, Event{Kind: EventNarrative, Text: narrative})

	switch {
	case resp.NewLocationDescription != "":
		s.location = resp.NewLocationDescription
	case resp.StoryText != "":
		s.location = truncate(resp.StoryText, locationFallbackLimit) + "..."
	}

	choices := make([]string, 0, len(resp.Choices))
	for _, c := range resp.Choices {
		if c != "" {
			choices = append(choices, c)
		}
	}
	if len(choices) > 0 {
		events = append(events, Event{Kind: EventChoices, Choices: choices})
	}

	for _, item := range resp.ItemsFound {
		if s.AddItem(item.Name) {
			events = append(events, Event{
				Kind: EventSystem,
				Text: "Item added: " + titleCaser.String(item.Name),
			})
		}
	}

	for _, su := range resp.StatusUpdates {
		if s.SetGauge(su.StatusName, su.NewValue) {
			text := "Status updated: " + su.StatusName + " is now " + formatGauge(su.NewValue)
			if su.Reason != "" {
				text += " (" + su.Reason + ")"
			}
			events = append(events, Event{Kind: EventSystem, Text: text})
		}
	}

	return events
}

// FailTurn releases the awaiting guard after a failed round-trip and
// returns the error event to render. Session state is otherwise
// untouched.
func (s *Session) FailTurn(err error) Event {
	s.awaiting = false
	text := ""
	if err != nil {
		text = err.Error()
	}
	if text == "" {
		text = oracle.GenericErrorMessage
	}
	return Event{Kind: EventError, Text: text}
}
