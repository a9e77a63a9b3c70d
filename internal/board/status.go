package board

// Status is the outcome of a position for the side to move.
type Status uint8

const (
	Ongoing Status = iota
	Check
	Checkmate
	Stalemate
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// IsCheckmate returns true if the side to move is in check and has no legal move.
func IsCheckmate(p *Position) bool {
	return IsKingInCheck(&p.Board, p.Turn) && !HasLegalMoves(p)
}

// IsStalemate returns true if the side to move is not in check but has no legal move.
func IsStalemate(p *Position) bool {
	return !IsKingInCheck(&p.Board, p.Turn) && !HasLegalMoves(p)
}

// GameStatus classifies the position for the side to move.
func GameStatus(p *Position) Status {
	inCheck := IsKingInCheck(&p.Board, p.Turn)
	if HasLegalMoves(p) {
		if inCheck {
			return Check
		}
		return Ongoing
	}
	if inCheck {
		return Checkmate
	}
	return Stalemate
}

// CheckmatedColor returns the side that has been mated, or NoColor.
func CheckmatedColor(p *Position) Color {
	if IsCheckmate(p) {
		return p.Turn
	}
	return NoColor
}
