// Package scenario is the catalog of named starting positions.
package scenario

import (
	"github.com/hailam/tensorchess/internal/board"
)

// Scenario is a named starting position.
type Scenario struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	FEN         string `json:"fen"`
}

// DefaultID is the scenario loaded when nothing else is requested.
const DefaultID = "italian"

var catalog = []Scenario{
	{
		ID:          "italian",
		Name:        "Italian Game",
		Description: "Giuoco Pianissimo after 6...O-O, the default position.",
		FEN:         board.StartFEN,
	},
	{
		ID:          "classic",
		Name:        "Fresh Start",
		Description: "The standard initial position.",
		FEN:         board.StandardFEN,
	},
	{
		ID:          "queen-h4",
		Name:        "Latvian Alarm",
		Description: "White to move must stop ...Qxf2# with g3 or Qf3.",
		FEN:         "r3k2r/pppppppp/8/2b5/7q/8/PPPPPPPP/R1BQ1BKR w - - 0 1",
	},
	{
		ID:          "setup",
		Name:        "Open Launchpad",
		Description: "A sparse board for exploring tactics.",
		FEN:         "4k3/8/3p4/8/4N3/8/3P4/4K3 w - - 0 1",
	},
	{
		ID:          "pregame",
		Name:        "Pregame Focus",
		Description: "An empty board for custom drills.",
		FEN:         "8/8/8/8/8/8/8/8 w - - 0 1",
	},
	{
		ID:          "castle-test",
		Name:        "Castle Drill",
		Description: "Kings and rooks on their home squares with every castling right.",
		FEN:         "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
	},
	{
		ID:          "en-passant",
		Name:        "En Passant Trap",
		Description: "White can take the d5 pawn en passant immediately.",
		FEN:         "rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 4",
	},
	{
		ID:          "promotion",
		Name:        "Promotion Test",
		Description: "The d7 pawn promotes on d8.",
		FEN:         "4k3/3P4/8/8/8/8/8/4K3 w - - 0 1",
	},
	{
		ID:          "promotion-black",
		Name:        "Black Promotion",
		Description: "The d2 pawn promotes on d1.",
		FEN:         "4K3/8/8/8/8/8/3p4/4k3 b - - 0 1",
	},
}

// All returns a copy of the catalog in display order.
func All() []Scenario {
	out := make([]Scenario, len(catalog))
	copy(out, catalog)
	return out
}

// Find looks up a scenario by id.
func Find(id string) (Scenario, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}

// Default returns the default scenario.
func Default() Scenario {
	s, _ := Find(DefaultID)
	return s
}

// Resolve returns the scenario for id, falling back to Default for unknown ids.
func Resolve(id string) Scenario {
	if s, ok := Find(id); ok {
		return s
	}
	return Default()
}

// Position builds the scenario's starting position.
func (s Scenario) Position() *board.Position {
	return board.NewGame(s.FEN)
}
