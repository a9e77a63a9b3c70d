package board

// Direction is a (file, row) step on the board. Positive DR moves toward
// rank 1.
type Direction struct {
	DF, DR int
}

var (
	bishopDirections = []Direction{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
	rookDirections   = []Direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	queenDirections  = []Direction{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
	}
	knightJumps = []Direction{
		{1, 2}, {2, 1}, {-1, 2}, {-2, 1},
		{1, -2}, {2, -1}, {-1, -2}, {-2, -1},
	}
	kingSteps = queenDirections
)

// sliderDirections returns the ray directions of a sliding piece type, or nil.
func sliderDirections(pt PieceType) []Direction {
	switch pt {
	case Bishop:
		return bishopDirections
	case Rook:
		return rookDirections
	case Queen:
		return queenDirections
	}
	return nil
}

// pawnDirection returns the row step of a pawn of color c.
func pawnDirection(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

// PieceAttacks returns the squares attacked by the piece on sq.
// Sliders include the first blocker on each ray, friend or foe. Pawns attack
// only their two forward diagonals.
func PieceAttacks(b *Board, sq Square) Bitboard {
	piece := b.PieceAt(sq)
	if piece == NoPiece {
		return Empty
	}

	var attacks Bitboard
	switch pt := piece.Type(); pt {
	case Pawn:
		dir := pawnDirection(piece.Color())
		for _, df := range [2]int{-1, 1} {
			if t, ok := sq.Offset(df, dir); ok {
				attacks = attacks.Set(t)
			}
		}
	case Knight:
		attacks = stepAttacks(sq, knightJumps)
	case King:
		attacks = stepAttacks(sq, kingSteps)
	default:
		for _, d := range sliderDirections(pt) {
			cursor := sq
			for {
				next, ok := cursor.Offset(d.DF, d.DR)
				if !ok {
					break
				}
				attacks = attacks.Set(next)
				if b[next] != NoPiece {
					break
				}
				cursor = next
			}
		}
	}
	return attacks
}

func stepAttacks(sq Square, steps []Direction) Bitboard {
	var attacks Bitboard
	for _, d := range steps {
		if t, ok := sq.Offset(d.DF, d.DR); ok {
			attacks = attacks.Set(t)
		}
	}
	return attacks
}

// AttackMap returns, for every square, how many pieces of color attack it.
func AttackMap(b *Board, color Color) [64]int {
	var counts [64]int
	for sq := Square(0); sq < NoSquare; sq++ {
		p := b[sq]
		if p == NoPiece || p.Color() != color {
			continue
		}
		attacks := PieceAttacks(b, sq)
		for attacks != 0 {
			counts[attacks.PopLSB()]++
		}
	}
	return counts
}

// Attackers returns the squares of the by-colored pieces attacking sq.
func Attackers(b *Board, sq Square, by Color) Bitboard {
	var out Bitboard
	if !sq.IsValid() {
		return out
	}
	for from := Square(0); from < NoSquare; from++ {
		p := b[from]
		if p == NoPiece || p.Color() != by {
			continue
		}
		if PieceAttacks(b, from).IsSet(sq) {
			out = out.Set(from)
		}
	}
	return out
}

// IsSquareAttacked returns true if any piece of color by attacks sq.
func IsSquareAttacked(b *Board, sq Square, by Color) bool {
	if !sq.IsValid() {
		return false
	}
	for from := Square(0); from < NoSquare; from++ {
		p := b[from]
		if p == NoPiece || p.Color() != by {
			continue
		}
		if PieceAttacks(b, from).IsSet(sq) {
			return true
		}
	}
	return false
}

// KingSquare returns the square of color's king, or NoSquare if it has none.
func KingSquare(b *Board, color Color) Square {
	king := NewPiece(King, color)
	for sq := Square(0); sq < NoSquare; sq++ {
		if b[sq] == king {
			return sq
		}
	}
	return NoSquare
}

// IsKingInCheck returns true if color's king is attacked. A side without a
// king is never in check.
func IsKingInCheck(b *Board, color Color) bool {
	ksq := KingSquare(b, color)
	if ksq == NoSquare {
		return false
	}
	return IsSquareAttacked(b, ksq, color.Other())
}

// Ray is an unobstructed slider line from a square: its direction and how
// many squares it reaches, including a blocker.
type Ray struct {
	DF     int `json:"df"`
	DR     int `json:"dr"`
	Length int `json:"length"`
}

// MoveRays returns the rays of the sliding piece on sq. Pawns, knights,
// kings and empty squares have none.
func MoveRays(b *Board, sq Square) []Ray {
	piece := b.PieceAt(sq)
	if piece == NoPiece {
		return nil
	}
	var rays []Ray
	for _, d := range sliderDirections(piece.Type()) {
		cursor := sq
		length := 0
		for {
			next, ok := cursor.Offset(d.DF, d.DR)
			if !ok {
				break
			}
			length++
			if b[next] != NoPiece {
				break
			}
			cursor = next
		}
		if length > 0 {
			rays = append(rays, Ray{DF: d.DF, DR: d.DR, Length: length})
		}
	}
	return rays
}
