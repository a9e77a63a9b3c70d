package board

import (
	"fmt"
	"strings"
)

// CastleSide identifies which castle a move performs.
type CastleSide byte

const (
	NoCastle  CastleSide = 0
	KingSide  CastleSide = 'K'
	QueenSide CastleSide = 'Q'
)

// String returns "K", "Q" or "".
func (cs CastleSide) String() string {
	if cs == NoCastle {
		return ""
	}
	return string(cs)
}

// Move describes one move together with everything needed to apply it.
type Move struct {
	From         Square
	To           Square
	Piece        Piece     // the moving piece
	Captured     Piece     // the piece on To, NoPiece otherwise
	Promotion    PieceType // NoPieceType unless the pawn promotes
	Castle       CastleSide
	EnPassant    bool   // an en passant capture
	RemoveSquare Square // the en passant victim's square, NoSquare otherwise
}

// NewMove builds a plain move of the piece on from, recording any capture.
func NewMove(b *Board, from, to Square) Move {
	return Move{
		From:         from,
		To:           to,
		Piece:        b.PieceAt(from),
		Captured:     b.PieceAt(to),
		Promotion:    NoPieceType,
		RemoveSquare: NoSquare,
	}
}

// IsCapture returns true if this move captures a piece.
func (m Move) IsCapture() bool {
	return m.Captured != NoPiece || m.EnPassant
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoPieceType
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	return m.Castle != NoCastle
}

// WithPromotion returns a copy of a promotion move promoting to pt instead.
// Non-promotion moves are returned unchanged.
func (m Move) WithPromotion(pt PieceType) Move {
	if !m.IsPromotion() || pt == Pawn || pt == King || pt >= NoPieceType {
		return m
	}
	m.Promotion = pt
	return m
}

// String returns the move in coordinate notation (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += strings.ToLower(string(m.Promotion.Letter()))
	}
	return s
}

// Describe returns a readable sentence such as "Pawn e7→e8 promoting to Q".
func (m Move) Describe() string {
	var sb strings.Builder
	sb.WriteString(m.Piece.Type().String())
	fmt.Fprintf(&sb, " %s→%s", m.From, m.To)
	switch {
	case m.EnPassant:
		sb.WriteString(" capturing en passant")
	case m.Captured != NoPiece:
		sb.WriteString(" capturing " + m.Captured.Type().String())
	}
	if m.IsPromotion() {
		sb.WriteString(" promoting to " + string(m.Promotion.Letter()))
	}
	if m.IsCastling() {
		if m.Castle == KingSide {
			sb.WriteString(" (castles king-side)")
		} else {
			sb.WriteString(" (castles queen-side)")
		}
	}
	return sb.String()
}

// ParseCoordinates splits a coordinate move such as "e2e4" or "e7e8n" into
// its squares and optional promotion piece.
func ParseCoordinates(s string) (from, to Square, promo PieceType, err error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 && len(s) != 5 {
		return NoSquare, NoSquare, NoPieceType, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	if from, err = ParseSquare(s[0:2]); err != nil {
		return NoSquare, NoSquare, NoPieceType, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	if to, err = ParseSquare(s[2:4]); err != nil {
		return NoSquare, NoSquare, NoPieceType, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	promo = NoPieceType
	if len(s) == 5 {
		promo = PieceTypeFromLetter(s[4])
		if promo == NoPieceType || promo == Pawn || promo == King {
			return NoSquare, NoSquare, NoPieceType, fmt.Errorf("%w: %q", ErrInvalidMove, s)
		}
	}
	return from, to, promo, nil
}

// FindMove looks up the legal move from->to in p, applying promo when the
// move promotes. The second result is false if no such legal move exists.
func FindMove(p *Position, from, to Square, promo PieceType) (Move, bool) {
	for _, m := range LegalMoves(p, from) {
		if m.To != to {
			continue
		}
		if m.IsPromotion() && promo != NoPieceType {
			m = m.WithPromotion(promo)
		}
		return m, true
	}
	return Move{}, false
}
