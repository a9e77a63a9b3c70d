// Package engine scores positions and ranks candidate moves. It never
// searches: every judgement looks one ply ahead at most.
package engine

import (
	"math"

	"github.com/hailam/tensorchess/internal/board"
)

// Material values. The king value is a sentinel that dominates the sum
// rather than a realistic score.
const (
	PawnValue   = 1
	KnightValue = 3
	BishopValue = 3
	RookValue   = 5
	QueenValue  = 9
	KingValue   = 100
)

// pieceValues is indexed by board.PieceType.
var pieceValues = [7]float64{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue, 0}

// threatMultiplier scales the penalty for an attacked piece.
var threatMultiplier = [7]float64{1, 1, 1, 1, 3, 5, 0}

// mobilityExponent makes mobility super-linear in the move count.
const mobilityExponent = 1.25

// PieceValue returns the material value of a piece type.
func PieceValue(pt board.PieceType) float64 {
	if pt > board.NoPieceType {
		return 0
	}
	return pieceValues[pt]
}

// Breakdown holds the terms of one side's score.
type Breakdown struct {
	Material float64 `json:"material"`
	Mobility float64 `json:"mobility"`
	Threat   float64 `json:"threat"`
}

// Total returns material + mobility - threat.
func (b Breakdown) Total() float64 {
	return b.Material + b.Mobility - b.Threat
}

// Side computes the breakdown for color alone.
func Side(p *board.Position, color board.Color) Breakdown {
	var bd Breakdown
	asColor := p.WithTurn(color)
	enemy := color.Other()

	for sq := board.Square(0); sq < board.NoSquare; sq++ {
		piece := p.Board[sq]
		if piece == board.NoPiece || piece.Color() != color {
			continue
		}
		pt := piece.Type()
		bd.Material += pieceValues[pt]

		if n := len(board.LegalMoves(asColor, sq)); n > 0 {
			bd.Mobility += math.Pow(float64(n), mobilityExponent)
		}

		if board.IsSquareAttacked(&p.Board, sq, enemy) {
			bd.Threat += pieceValues[pt] * threatMultiplier[pt]
		}
	}
	return bd
}

// Evaluate scores p from color's point of view: color's
// material + mobility - threat, minus the same for the opponent.
// Positive means color stands better. The magnitude is unbounded.
func Evaluate(p *board.Position, color board.Color) float64 {
	return Side(p, color).Total() - Side(p, color.Other()).Total()
}

// Evaluation is a full two-sided breakdown.
type Evaluation struct {
	Color    board.Color `json:"-"`
	Own      Breakdown   `json:"own"`
	Opponent Breakdown   `json:"opponent"`
	Score    float64     `json:"score"`
}

// EvaluateBreakdown returns both sides' terms alongside the score.
func EvaluateBreakdown(p *board.Position, color board.Color) Evaluation {
	own := Side(p, color)
	opp := Side(p, color.Other())
	return Evaluation{
		Color:    color,
		Own:      own,
		Opponent: opp,
		Score:    own.Total() - opp.Total(),
	}
}
