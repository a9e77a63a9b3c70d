package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// Right returns the castling flag for a color and side.
func Right(c Color, side CastleSide) CastlingRights {
	switch {
	case c == White && side == KingSide:
		return WhiteKingSideCastle
	case c == White && side == QueenSide:
		return WhiteQueenSideCastle
	case c == Black && side == KingSide:
		return BlackKingSideCastle
	case c == Black && side == QueenSide:
		return BlackQueenSideCastle
	}
	return NoCastling
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, side CastleSide) bool {
	r := Right(c, side)
	return r != NoCastling && cr&r != 0
}

// Board is the 64-slot piece array, indexed by Square.
// It is a value type: assigning a Board copies it.
type Board [64]Piece

// PieceAt returns the piece on sq, or NoPiece for empty or off-board squares.
func (b *Board) PieceAt(sq Square) Piece {
	if !sq.IsValid() {
		return NoPiece
	}
	return b[sq]
}

// IsEmpty returns true if the square is empty.
func (b *Board) IsEmpty(sq Square) bool {
	return b.PieceAt(sq) == NoPiece
}

// Occupied returns the set of squares holding a piece of color c.
func (b *Board) Occupied(c Color) Bitboard {
	var bb Bitboard
	for sq := Square(0); sq < NoSquare; sq++ {
		if p := b[sq]; p != NoPiece && p.Color() == c {
			bb = bb.Set(sq)
		}
	}
	return bb
}

// Count returns the number of pieces of the given color and type.
func (b *Board) Count(c Color, pt PieceType) int {
	n := 0
	for _, p := range b {
		if p.Is(c, pt) {
			n++
		}
	}
	return n
}

// Position represents a complete chess position.
// Engine functions never modify a Position they are given.
type Position struct {
	Board     Board
	Turn      Color
	LastMove  *Move // the move that produced this position, nil for a loaded one
	Castling  CastlingRights
	EnPassant Square // target square for en passant, NoSquare if none
}

// NewPosition returns an empty board with white to move.
func NewPosition() *Position {
	return &Position{EnPassant: NoSquare}
}

// Copy creates a copy of the position.
func (p *Position) Copy() *Position {
	cp := *p
	if p.LastMove != nil {
		m := *p.LastMove
		cp.LastMove = &m
	}
	return &cp
}

// PieceAt returns the piece at the given square.
func (p *Position) PieceAt(sq Square) Piece {
	return p.Board.PieceAt(sq)
}

// WithTurn returns a copy of the position with the side to move replaced.
func (p *Position) WithTurn(c Color) *Position {
	cp := p.Copy()
	cp.Turn = c
	return cp
}

// SamePlacement reports whether two positions agree on board, turn, castling
// rights and en passant target.
func (p *Position) SamePlacement(o *Position) bool {
	return p.Board == o.Board && p.Turn == o.Turn && p.Castling == o.Castling && p.EnPassant == o.EnPassant
}

// String returns a human-readable diagram of the position.
func (p *Position) String() string {
	return p.Diagram(false)
}

// Diagram renders the board as text, optionally from black's side.
func (p *Position) Diagram(flipped bool) string {
	var sb strings.Builder
	sb.WriteString("\n")
	for i := 0; i < 8; i++ {
		row := i
		if flipped {
			row = 7 - i
		}
		fmt.Fprintf(&sb, "%d  ", 8-row)
		for j := 0; j < 8; j++ {
			file := j
			if flipped {
				file = 7 - j
			}
			piece := p.PieceAt(NewSquare(file, row))
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	if flipped {
		sb.WriteString("\n   h g f e d c b a\n\n")
	} else {
		sb.WriteString("\n   a b c d e f g h\n\n")
	}
	fmt.Fprintf(&sb, "Side to move: %s\n", p.Turn.Name())
	fmt.Fprintf(&sb, "Castling: %s\n", p.Castling)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	if p.LastMove != nil {
		fmt.Fprintf(&sb, "Last move: %s\n", p.LastMove)
	}
	return sb.String()
}

// DefaultCounts is the number of pieces of each type a side starts with.
var DefaultCounts = [6]int{Pawn: 8, Knight: 2, Bishop: 2, Rook: 2, Queen: 1, King: 1}

// PieceCounts tallies the pieces of each type per color.
type PieceCounts [2][6]int

// CountPieces tallies every piece on the board.
func CountPieces(b *Board) PieceCounts {
	var pc PieceCounts
	for _, p := range b {
		if p == NoPiece {
			continue
		}
		pc[p.Color()][p.Type()]++
	}
	return pc
}

// Missing returns, per color and type, how many pieces are absent compared
// to a full starting set. Promoted pieces can make a count negative, which
// is clamped to zero.
func (pc PieceCounts) Missing() PieceCounts {
	var out PieceCounts
	for c := 0; c < 2; c++ {
		for pt := 0; pt < 6; pt++ {
			if d := DefaultCounts[pt] - pc[c][pt]; d > 0 {
				out[c][pt] = d
			}
		}
	}
	return out
}
