package board

// castleSpec describes one castle: the squares involved and which of them
// must be empty or unattacked.
type castleSpec struct {
	color      Color
	side       CastleSide
	kingFrom   Square
	kingTo     Square
	rookFrom   Square
	rookTo     Square
	empty      []Square // squares between king and rook
	kingTravel []Square // squares the king passes through or lands on
}

var castleSpecs = [4]castleSpec{
	{White, KingSide, E1, G1, H1, F1, []Square{F1, G1}, []Square{F1, G1}},
	{White, QueenSide, E1, C1, A1, D1, []Square{D1, C1, B1}, []Square{D1, C1}},
	{Black, KingSide, E8, G8, H8, F8, []Square{F8, G8}, []Square{F8, G8}},
	{Black, QueenSide, E8, C8, A8, D8, []Square{D8, C8, B8}, []Square{D8, C8}},
}

func findCastleSpec(c Color, side CastleSide) *castleSpec {
	for i := range castleSpecs {
		if castleSpecs[i].color == c && castleSpecs[i].side == side {
			return &castleSpecs[i]
		}
	}
	return nil
}

// PseudoMoves generates the geometrically valid moves of the piece on from,
// ignoring whether they leave the mover's own king in check. Castling is the
// exception: it is only generated when the king is safe on every square it
// crosses.
func PseudoMoves(p *Position, from Square) []Move {
	piece := p.PieceAt(from)
	if piece == NoPiece {
		return nil
	}

	switch pt := piece.Type(); pt {
	case Pawn:
		return pawnMoves(p, from, piece.Color())
	case Knight:
		return stepMoves(&p.Board, from, piece.Color(), knightJumps)
	case King:
		moves := stepMoves(&p.Board, from, piece.Color(), kingSteps)
		return append(moves, castleMoves(p, from, piece.Color())...)
	default:
		return slidingMoves(&p.Board, from, piece.Color(), sliderDirections(pt))
	}
}

func pawnMoves(p *Position, from Square, color Color) []Move {
	var moves []Move
	b := &p.Board
	dir := pawnDirection(color)
	startRow, promoRow := 6, 0
	if color == Black {
		startRow, promoRow = 1, 7
	}

	add := func(m Move) {
		if m.To.Row() == promoRow {
			m.Promotion = Queen
		}
		moves = append(moves, m)
	}

	if one, ok := from.Offset(0, dir); ok && b.IsEmpty(one) {
		add(NewMove(b, from, one))
		if two, ok := from.Offset(0, 2*dir); ok && from.Row() == startRow && b.IsEmpty(two) {
			add(NewMove(b, from, two))
		}
	}

	for _, df := range [2]int{-1, 1} {
		target, ok := from.Offset(df, dir)
		if !ok {
			continue
		}
		occupant := b[target]
		if occupant != NoPiece {
			if occupant.Color() != color {
				add(NewMove(b, from, target))
			}
			continue
		}
		if target != p.EnPassant {
			continue
		}
		victim := NewSquare(target.File(), from.Row())
		if b[victim].Is(color.Other(), Pawn) {
			m := NewMove(b, from, target)
			m.EnPassant = true
			m.RemoveSquare = victim
			add(m)
		}
	}

	return moves
}

func stepMoves(b *Board, from Square, color Color, steps []Direction) []Move {
	var moves []Move
	for _, d := range steps {
		target, ok := from.Offset(d.DF, d.DR)
		if !ok {
			continue
		}
		if occupant := b[target]; occupant == NoPiece || occupant.Color() != color {
			moves = append(moves, NewMove(b, from, target))
		}
	}
	return moves
}

func slidingMoves(b *Board, from Square, color Color, dirs []Direction) []Move {
	var moves []Move
	for _, d := range dirs {
		cursor := from
		for {
			next, ok := cursor.Offset(d.DF, d.DR)
			if !ok {
				break
			}
			occupant := b[next]
			if occupant == NoPiece {
				moves = append(moves, NewMove(b, from, next))
				cursor = next
				continue
			}
			if occupant.Color() != color {
				moves = append(moves, NewMove(b, from, next))
			}
			break
		}
	}
	return moves
}

// castleMoves generates the castles still permitted by the declared rights.
// The king and the rook must stand on their home squares.
func castleMoves(p *Position, from Square, color Color) []Move {
	if p.Castling == NoCastling {
		return nil
	}
	var moves []Move
	b := &p.Board
	enemy := color.Other()
	inCheck := false
	checked := false

	for _, side := range [2]CastleSide{KingSide, QueenSide} {
		if !p.Castling.CanCastle(color, side) {
			continue
		}
		cs := findCastleSpec(color, side)
		if from != cs.kingFrom || !b[cs.rookFrom].Is(color, Rook) {
			continue
		}
		if !squaresEmpty(b, cs.empty) {
			continue
		}
		if !checked {
			inCheck = IsSquareAttacked(b, from, enemy)
			checked = true
		}
		if inCheck {
			return nil
		}
		if anyAttacked(b, cs.kingTravel, enemy) {
			continue
		}
		m := NewMove(b, from, cs.kingTo)
		m.Castle = side
		moves = append(moves, m)
	}
	return moves
}

func squaresEmpty(b *Board, squares []Square) bool {
	for _, sq := range squares {
		if b[sq] != NoPiece {
			return false
		}
	}
	return true
}

func anyAttacked(b *Board, squares []Square, by Color) bool {
	for _, sq := range squares {
		if IsSquareAttacked(b, sq, by) {
			return true
		}
	}
	return false
}

// LegalMoves returns the moves of the piece on from that do not leave the
// mover's king attacked. It is empty for empty squares and for pieces that
// do not belong to the side to move.
func LegalMoves(p *Position, from Square) []Move {
	piece := p.PieceAt(from)
	if piece == NoPiece || piece.Color() != p.Turn {
		return nil
	}
	pseudo := PseudoMoves(p, from)
	legal := pseudo[:0:0]
	for _, m := range pseudo {
		next := p.Board
		applyToBoard(&next, m)
		if !IsKingInCheck(&next, p.Turn) {
			legal = append(legal, m)
		}
	}
	return legal
}

// AllLegalMoves returns every legal move for the side to move, in square order.
func AllLegalMoves(p *Position) []Move {
	var moves []Move
	for sq := Square(0); sq < NoSquare; sq++ {
		if pc := p.Board[sq]; pc != NoPiece && pc.Color() == p.Turn {
			moves = append(moves, LegalMoves(p, sq)...)
		}
	}
	return moves
}

// HasLegalMoves returns true if the side to move has at least one legal move.
// It stops at the first piece that can move.
func HasLegalMoves(p *Position) bool {
	for sq := Square(0); sq < NoSquare; sq++ {
		if pc := p.Board[sq]; pc != NoPiece && pc.Color() == p.Turn {
			if len(LegalMoves(p, sq)) > 0 {
				return true
			}
		}
	}
	return false
}

// MovableSquares returns the destinations of the legal moves from sq.
func MovableSquares(p *Position, from Square) Bitboard {
	var bb Bitboard
	for _, m := range LegalMoves(p, from) {
		bb = bb.Set(m.To)
	}
	return bb
}

// Draggable returns the squares holding a piece of the side to move that
// has at least one legal move.
func Draggable(p *Position) Bitboard {
	var bb Bitboard
	for sq := Square(0); sq < NoSquare; sq++ {
		if pc := p.Board[sq]; pc != NoPiece && pc.Color() == p.Turn {
			if len(LegalMoves(p, sq)) > 0 {
				bb = bb.Set(sq)
			}
		}
	}
	return bb
}
