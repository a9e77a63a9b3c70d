package board

// ApplyMove returns the position reached by playing m in p. The input is not
// modified. The move is not validated: callers obtain moves from LegalMoves,
// or pass a speculative move deliberately for previews.
func ApplyMove(p *Position, m Move) *Position {
	next := &Position{
		Board:     p.Board,
		Turn:      p.Turn.Other(),
		Castling:  p.Castling,
		EnPassant: NoSquare,
	}
	applyToBoard(&next.Board, m)
	next.Castling = updateCastlingRights(p.Castling, m)

	if m.Piece.Type() == Pawn {
		if d := m.To.Row() - m.From.Row(); d == 2 || d == -2 {
			next.EnPassant = NewSquare(m.From.File(), (m.From.Row()+m.To.Row())/2)
		}
	}

	last := m
	next.LastMove = &last
	return next
}

// MakeMove commits m. It is identical to SimulateMove; the two names only
// state the caller's intent.
func MakeMove(p *Position, m Move) *Position {
	return ApplyMove(p, m)
}

// SimulateMove previews m without committing it.
func SimulateMove(p *Position, m Move) *Position {
	return ApplyMove(p, m)
}

// applyToBoard moves the pieces for m in place on b.
func applyToBoard(b *Board, m Move) {
	if !m.From.IsValid() || !m.To.IsValid() {
		return
	}
	piece := m.Piece
	if piece == NoPiece {
		piece = b[m.From]
	}
	if m.IsPromotion() && piece != NoPiece {
		piece = NewPiece(m.Promotion, piece.Color())
	}
	b[m.To] = piece
	b[m.From] = NoPiece

	if m.IsCastling() {
		if cs := findCastleSpec(piece.Color(), m.Castle); cs != nil {
			b[cs.rookTo] = b[cs.rookFrom]
			b[cs.rookFrom] = NoPiece
		}
	}

	if m.EnPassant && m.RemoveSquare.IsValid() {
		b[m.RemoveSquare] = NoPiece
	}
}

// rookHomes maps each corner to the castling right it guards.
var rookHomes = map[Square]CastlingRights{
	H1: WhiteKingSideCastle,
	A1: WhiteQueenSideCastle,
	H8: BlackKingSideCastle,
	A8: BlackQueenSideCastle,
}

// updateCastlingRights removes the rights forfeited by m. Rights are never added.
func updateCastlingRights(cr CastlingRights, m Move) CastlingRights {
	if cr == NoCastling {
		return cr
	}
	switch m.Piece.Type() {
	case King:
		if m.Piece.Color() == White {
			cr &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			cr &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	case Rook:
		if r, ok := rookHomes[m.From]; ok && ownRight(r, m.Piece.Color()) {
			cr &^= r
		}
	}
	if r, ok := rookHomes[m.To]; ok && !ownRight(r, m.Piece.Color()) {
		cr &^= r
	}
	return cr
}

func ownRight(r CastlingRights, c Color) bool {
	if c == White {
		return r&(WhiteKingSideCastle|WhiteQueenSideCastle) != 0
	}
	return r&(BlackKingSideCastle|BlackQueenSideCastle) != 0
}
