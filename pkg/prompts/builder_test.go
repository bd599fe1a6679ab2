package prompts

import (
	"strings"
	"testing"

	"gaiaterm/pkg/oracle"
)

func testRequest() *oracle.TurnRequest {
	return &oracle.TurnRequest{
		CurrentGameState: oracle.GameState{
			PlayerName:      "Dax",
			Inventory:       []string{"keycard"},
			SectorStability: 90,
			AISync:          100,
		},
		PlayerCommand: "look around",
		GameTheme:     "derelict orbital station",
	}
}

func TestBuildMessages(t *testing.T) {
	req := testRequest()
	req.TurnHistory = []oracle.Message{
		{Role: oracle.RoleUser, Content: "wake up"},
		{Role: oracle.RoleNarrator, Content: "You wake."},
	}

	messages, err := New().WithRequest(req).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(messages))
	}

	system := messages[0]
	if system.Role != "system" {
		t.Errorf("first message must be the system prompt, got role %q", system.Role)
	}
	if !strings.Contains(system.Content, "derelict orbital station") {
		t.Error("system prompt must carry the game theme")
	}
	if !strings.Contains(system.Content, `"playerName":"Dax"`) {
		t.Error("system prompt must embed the game-state snapshot")
	}
	if !strings.Contains(system.Content, "sectorStability") {
		t.Error("system prompt must name the gauge schema")
	}

	if messages[1].Content != "wake up" || messages[2].Content != "You wake." {
		t.Errorf("history not carried in order: %v", messages[1:3])
	}

	last := messages[3]
	if last.Role != oracle.RoleUser || last.Content != "look around" {
		t.Errorf("final message must be the player command, got %v", last)
	}
}

func TestBuildWindowsHistory(t *testing.T) {
	req := testRequest()
	for i := 0; i < 30; i++ {
		req.TurnHistory = append(req.TurnHistory, oracle.Message{Role: oracle.RoleUser, Content: "step"})
	}

	messages, err := New().WithRequest(req).WithHistoryLimit(10).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	// system + 10 history + command
	if len(messages) != 12 {
		t.Errorf("expected 12 messages, got %d", len(messages))
	}
}

func TestBuildStartSentinel(t *testing.T) {
	req := testRequest()
	req.PlayerCommand = oracle.StartCommand

	messages, err := New().WithRequest(req).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	last := messages[len(messages)-1]
	if strings.Contains(last.Content, oracle.StartCommand) {
		t.Error("sentinel must not reach the model verbatim")
	}
	if last.Content != StartDirective {
		t.Errorf("expected start directive, got %q", last.Content)
	}
}

func TestBuildRequiresRequest(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Error("Build without a request must fail")
	}
}
