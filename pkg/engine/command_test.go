package engine

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		canonical string
		expanded  bool
		ok        bool
	}{
		{name: "alias l", input: "l", canonical: "look around", expanded: true, ok: true},
		{name: "alias i", input: "i", canonical: "inventory", expanded: true, ok: true},
		{name: "alias inv", input: "inv", canonical: "inventory", expanded: true, ok: true},
		{name: "alias question mark", input: "?", canonical: "help", expanded: true, ok: true},
		{name: "alias q", input: "q", canonical: "quit", expanded: true, ok: true},
		{name: "alias uppercase", input: "  L  ", canonical: "look around", expanded: true, ok: true},
		{name: "passthrough lowercased", input: "Take KEYCARD", canonical: "take keycard", expanded: false, ok: true},
		{name: "empty", input: "", ok: false},
		{name: "whitespace only", input: "   \t  ", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSession("Dax")
			canonical, expanded, ok := s.Normalize(tc.input)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if !tc.ok {
				if s.Commands().Len() != 0 {
					t.Error("empty input must not be recorded in command history")
				}
				return
			}
			if canonical != tc.canonical {
				t.Errorf("canonical = %q, want %q", canonical, tc.canonical)
			}
			if expanded != tc.expanded {
				t.Errorf("expanded = %v, want %v", expanded, tc.expanded)
			}
			if s.Commands().Len() != 1 {
				t.Errorf("expected 1 recorded command, got %d", s.Commands().Len())
			}
		})
	}
}

func TestNormalizeRecordsOriginalText(t *testing.T) {
	s := NewSession("Dax")
	s.Normalize("L")
	recalled, ok := s.Commands().Prev()
	if !ok || recalled != "L" {
		t.Errorf("expected original text %q recorded, got %q (ok=%v)", "L", recalled, ok)
	}
}

func TestDispatchLocalHelp(t *testing.T) {
	s := NewSession("Dax")
	res := s.DispatchLocal("help")
	if !res.Handled {
		t.Fatal("help must be handled locally")
	}
	if len(res.Lines) == 0 || !strings.Contains(res.Lines[0], "Available commands") {
		t.Errorf("unexpected help output: %v", res.Lines)
	}
}

func TestDispatchLocalInventoryEmpty(t *testing.T) {
	s := NewSession("Dax")
	res := s.DispatchLocal("inventory")
	if !res.Handled {
		t.Fatal("inventory must be handled locally")
	}
	if len(res.Lines) != 1 || res.Lines[0] != "Your inventory is empty." {
		t.Errorf("unexpected output: %v", res.Lines)
	}
}

func TestDispatchLocalInventoryItems(t *testing.T) {
	s := NewSession("Dax")
	s.AddItem("keycard")
	s.AddItem("plasma torch")
	res := s.DispatchLocal("inventory")
	if !res.Handled {
		t.Fatal("inventory must be handled locally")
	}
	joined := strings.Join(res.Lines, "\n")
	if !strings.Contains(joined, "keycard") || !strings.Contains(joined, "plasma torch") {
		t.Errorf("expected both items listed, got %q", joined)
	}
}

func TestDispatchLocalStatus(t *testing.T) {
	s := NewSession("Dax")
	s.SetGauge("sectorStability", 77)
	res := s.DispatchLocal("status")
	if !res.Handled {
		t.Fatal("status must be handled locally")
	}
	joined := strings.Join(res.Lines, "\n")
	if !strings.Contains(joined, "77") || !strings.Contains(joined, "100") {
		t.Errorf("expected gauge values in output, got %q", joined)
	}
}

func TestDispatchLocalFallthrough(t *testing.T) {
	s := NewSession("Dax")
	res := s.DispatchLocal("take keycard")
	if res.Handled {
		t.Error("unrecognized commands must fall through to the oracle")
	}
}

// Local commands must never mutate session state.
func TestDispatchLocalLeavesStateUntouched(t *testing.T) {
	s := NewSession("Dax")
	s.AddItem("keycard")
	for _, cmd := range []string{"help", "inventory", "status"} {
		s.DispatchLocal(cmd)
	}
	if len(s.Inventory()) != 1 || s.SectorStability() != 100 || len(s.TurnHistory()) != 0 {
		t.Error("local dispatch mutated session state")
	}
}
