package engine

import (
	"math"

	"github.com/hailam/tensorchess/internal/board"
)

// threatPieceValues weight attacked pieces for the threat overlay. The king
// is worth more than a queen here but not the material sentinel.
var threatPieceValues = [7]float64{1, 3, 3, 5, 9, 12, 0}

// Heat weights.
const (
	heatOpponentWeight = 0.45
	heatFriendlyWeight = 0.15
	heatKingPressure   = 0.25
	heatKingLineBonus  = 0.15
	heatKingRadius     = 5.0
)

// ThreatLevels returns, for every occupied square, how endangered its piece
// is: attackers times the piece's threat value, normalized to [0,1] by 9.
func ThreatLevels(b *board.Board) [64]float64 {
	var levels [64]float64
	attackedByBlack := board.AttackMap(b, board.Black)
	attackedByWhite := board.AttackMap(b, board.White)

	for sq := board.Square(0); sq < board.NoSquare; sq++ {
		piece := b[sq]
		if piece == board.NoPiece {
			continue
		}
		attacks := attackedByWhite[sq]
		if piece.Color() == board.White {
			attacks = attackedByBlack[sq]
		}
		if attacks == 0 {
			continue
		}
		levels[sq] = math.Min(1, float64(attacks)*threatPieceValues[piece.Type()]/9)
	}
	return levels
}

// Heat returns a danger map for the perspective color's king, in [0,1] per
// square. It is all zeros when that king is missing.
func Heat(b *board.Board, perspective board.Color) [64]float64 {
	var heat [64]float64
	ksq := board.KingSquare(b, perspective)
	if ksq == board.NoSquare {
		return heat
	}

	opponent := board.AttackMap(b, perspective.Other())
	friendly := board.AttackMap(b, perspective)
	kingPressure := float64(opponent[ksq])

	for sq := board.Square(0); sq < board.NoSquare; sq++ {
		df := sq.File() - ksq.File()
		dr := sq.Row() - ksq.Row()
		distance := math.Hypot(float64(df), float64(dr))
		distanceFactor := math.Max(0, 1-distance/heatKingRadius)

		danger := float64(opponent[sq]) * heatOpponentWeight
		danger -= float64(friendly[sq]) * heatFriendlyWeight
		danger += distanceFactor * kingPressure * heatKingPressure

		sameFile := df == 0
		sameDiag := abs(df) == abs(dr)
		if (sameFile || sameDiag) && opponent[sq] > 0 {
			danger += heatKingLineBonus
		}

		heat[sq] = clamp01(danger)
	}
	return heat
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
