package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the default position: the Italian Game (Giuoco Pianissimo)
// after 6...O-O, white to move.
const StartFEN = "r1bq1rk1/ppp11ppp/2np1n2/2b1p3/2B1P3/2PP1N2/PP3PPP/RNBQ1RK1 w - - 2 7"

// StandardFEN is the FEN string for the standard starting position.
const StandardFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// NewGame creates the initial position for fen. An empty fen selects StartFEN,
// and an unusable one falls back to it.
func NewGame(fen string) *Position {
	if strings.TrimSpace(fen) == "" {
		fen = StartFEN
	}
	pos, err := ParseFEN(fen)
	if err != nil {
		pos, _ = ParseFEN(StartFEN)
	}
	return pos
}

// ParseFEN parses a FEN string and returns a Position.
//
// Parsing is lenient: missing fields default to white to move, no castling
// and no en passant target, unknown placement characters are skipped and the
// move counters are ignored. Only a blank string is rejected.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) == 0 {
		return nil, ErrEmptyFEN
	}

	pos := NewPosition()
	parsePiecePlacement(pos, parts[0])

	if len(parts) > 1 && parts[1] == "b" {
		pos.Turn = Black
	}

	if len(parts) > 2 {
		pos.Castling = parseCastlingRights(parts[2])
	}

	if len(parts) > 3 && parts[3] != "-" {
		if sq, err := ParseSquare(parts[3]); err == nil {
			pos.EnPassant = sq
		}
	}

	return pos, nil
}

// parsePiecePlacement fills the board from the placement field. Rows map
// top to bottom onto indices 0-63 and each digit skips that many files.
func parsePiecePlacement(pos *Position, placement string) {
	rows := strings.Split(placement, "/")
	for row, rowStr := range rows {
		if row > 7 {
			break
		}
		file := 0
		for i := 0; i < len(rowStr); i++ {
			c := rowStr[i]
			if c >= '0' && c <= '9' {
				file += int(c - '0')
				continue
			}
			piece := PieceFromChar(c)
			if piece == NoPiece {
				continue
			}
			if file <= 7 {
				pos.Board[NewSquare(file, row)] = piece
			}
			file++
		}
	}
}

func parseCastlingRights(s string) CastlingRights {
	var cr CastlingRights
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'K':
			cr |= WhiteKingSideCastle
		case 'Q':
			cr |= WhiteQueenSideCastle
		case 'k':
			cr |= BlackKingSideCastle
		case 'q':
			cr |= BlackQueenSideCastle
		}
	}
	return cr
}

// FEN returns the FEN string for the position. The half-move clock and
// full-move number are not tracked and are always written as "0 1".
func (p *Position) FEN() string {
	return BoardToFEN(&p.Board, p.Turn, p.Castling, p.EnPassant)
}

// BoardToFEN serializes a board together with the side to move, castling
// rights and en passant target.
func BoardToFEN(b *Board, turn Color, castling CastlingRights, ep Square) string {
	var sb strings.Builder

	for row := 0; row < 8; row++ {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := b[NewSquare(file, row)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}

	if turn == Black {
		sb.WriteString(" b ")
	} else {
		sb.WriteString(" w ")
	}
	sb.WriteString(castling.String())
	sb.WriteByte(' ')
	sb.WriteString(ep.String())
	sb.WriteString(" 0 1")

	return sb.String()
}

// MustParseFEN parses fen and panics on error. Intended for constants and tests.
func MustParseFEN(fen string) *Position {
	pos, err := ParseFEN(fen)
	if err != nil {
		panic(fmt.Sprintf("board: %v", err))
	}
	return pos
}
