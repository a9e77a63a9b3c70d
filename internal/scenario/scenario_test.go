package scenario

import (
	"testing"

	"github.com/hailam/tensorchess/internal/board"
)

func TestCatalog(t *testing.T) {
	all := All()
	if len(all) != 9 {
		t.Fatalf("catalog has %d scenarios, want 9", len(all))
	}
	seen := map[string]bool{}
	for _, s := range all {
		if seen[s.ID] {
			t.Errorf("duplicate scenario id %q", s.ID)
		}
		seen[s.ID] = true
		if s.Name == "" || s.Description == "" {
			t.Errorf("scenario %q is missing a name or description", s.ID)
		}
		if _, err := board.ParseFEN(s.FEN); err != nil {
			t.Errorf("scenario %q: %v", s.ID, err)
		}
	}
}

func TestFindAndResolve(t *testing.T) {
	s, ok := Find("en-passant")
	if !ok {
		t.Fatal("en-passant not found")
	}
	pos := s.Position()
	if pos.EnPassant != board.D6 {
		t.Errorf("EnPassant = %v, want d6", pos.EnPassant)
	}

	if _, ok := Find("nope"); ok {
		t.Error("unknown id found")
	}
	if got := Resolve("nope").ID; got != DefaultID {
		t.Errorf("Resolve(unknown) = %q, want %q", got, DefaultID)
	}
	if got := Default().FEN; got != board.StartFEN {
		t.Errorf("Default().FEN = %q", got)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].Name = "changed"
	if Default().Name == "changed" {
		t.Error("All exposed the catalog's backing array")
	}
}

func TestScenarioPlayability(t *testing.T) {
	tests := []struct {
		id        string
		wantMoves bool
	}{
		{"italian", true},
		{"classic", true},
		{"castle-test", true},
		{"promotion", true},
		{"promotion-black", true},
		{"pregame", false},
	}
	for _, tc := range tests {
		s, _ := Find(tc.id)
		if got := board.HasLegalMoves(s.Position()); got != tc.wantMoves {
			t.Errorf("%s: HasLegalMoves = %v, want %v", tc.id, got, tc.wantMoves)
		}
	}
}
