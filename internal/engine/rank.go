package engine

import (
	"sort"

	"github.com/hailam/tensorchess/internal/board"
)

// autoPieceValues breaks ties between equally scored moves in favor of
// moving the cheaper piece.
var autoPieceValues = [7]int{1, 3, 3, 5, 9, 100, 0}

// Candidate is one scored auto-move option.
type Candidate struct {
	Move       board.Move
	Score      float64 // Evaluate of the resulting position for the mover
	PieceValue int
	Mates      bool // the move checkmates the opponent
}

// RankMoves scores every legal move of color, with color forced to move, and
// orders them: mating moves first, then by score descending, then by the
// value of the moving piece ascending. It looks exactly one ply ahead.
func RankMoves(p *board.Position, color board.Color) []Candidate {
	asColor := p.WithTurn(color)
	var cands []Candidate

	for _, m := range board.AllLegalMoves(asColor) {
		next := board.SimulateMove(asColor, m)
		cands = append(cands, Candidate{
			Move:       m,
			Score:      Evaluate(next, color),
			PieceValue: autoPieceValues[m.Piece.Type()],
			Mates:      board.CheckmatedColor(next) == color.Other(),
		})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.Mates != b.Mates {
			return a.Mates
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.PieceValue < b.PieceValue
	})
	return cands
}

// BestMove returns the top-ranked move for color. The second result is false
// when color has no legal move.
func BestMove(p *board.Position, color board.Color) (board.Move, bool) {
	cands := RankMoves(p, color)
	if len(cands) == 0 {
		return board.Move{}, false
	}
	return cands[0].Move, true
}
