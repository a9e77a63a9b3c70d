package board

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPromotion(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		from  Square
		to    Square
		promo PieceType
		want  Piece
	}{
		{"white default queen", "4k3/3P4/8/8/8/8/8/4K3 w - -", D7, D8, NoPieceType, WhiteQueen},
		{"white knight", "4k3/3P4/8/8/8/8/8/4K3 w - -", D7, D8, Knight, WhiteKnight},
		{"black default queen", "4K3/8/8/8/8/8/3p4/4k3 b - -", D2, D1, NoPieceType, BlackQueen},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := MustParseFEN(tc.fen)
			for _, m := range LegalMoves(pos, tc.from) {
				if !m.IsPromotion() {
					t.Errorf("%s reaches the last rank without a promotion", m)
				}
				if m.Promotion != Queen {
					t.Errorf("%s promotes to %v by default, want Queen", m, m.Promotion)
				}
			}

			m, ok := FindMove(pos, tc.from, tc.to, tc.promo)
			if !ok {
				t.Fatalf("%s%s not legal", tc.from, tc.to)
			}
			next := ApplyMove(pos, m)
			if got := next.PieceAt(tc.to); got != tc.want {
				t.Errorf("PieceAt(%s) = %q, want %q", tc.to, got, tc.want)
			}
			if next.PieceAt(tc.from) != NoPiece {
				t.Errorf("origin %s not cleared", tc.from)
			}
		})
	}
}

func TestWithPromotionIgnoresInvalidChoices(t *testing.T) {
	m := Move{From: D7, To: D8, Piece: WhitePawn, Promotion: Queen, RemoveSquare: NoSquare}
	if got := m.WithPromotion(King).Promotion; got != Queen {
		t.Errorf("WithPromotion(King) = %v, want Queen", got)
	}
	plain := Move{From: E2, To: E4, Piece: WhitePawn, Promotion: NoPieceType, RemoveSquare: NoSquare}
	if got := plain.WithPromotion(Knight); got.IsPromotion() {
		t.Error("WithPromotion must not turn a normal move into a promotion")
	}
}

func TestApplyMoveDoesNotMutate(t *testing.T) {
	pos := MustParseFEN(StandardFEN)
	before := *pos.Copy()

	m, _ := FindMove(pos, E2, E4, NoPieceType)
	next := ApplyMove(pos, m)

	if diff := cmp.Diff(before, *pos); diff != "" {
		t.Errorf("ApplyMove mutated its input:\n%s", diff)
	}
	if next.Turn != Black {
		t.Errorf("Turn = %v, want b", next.Turn)
	}
	if next.LastMove == nil || *next.LastMove != m {
		t.Errorf("LastMove = %v, want %v", next.LastMove, m)
	}
	if MakeMove(pos, m).FEN() != SimulateMove(pos, m).FEN() {
		t.Error("MakeMove and SimulateMove disagree")
	}
}

func TestCastlingRelocatesRook(t *testing.T) {
	tests := []struct {
		name          string
		fen           string
		from, to      Square
		rookFrom      Square
		rookTo        Square
		wantCastling  string
	}{
		{"white king side", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq -", E1, G1, H1, F1, "kq"},
		{"white queen side", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq -", E1, C1, A1, D1, "kq"},
		{"black king side", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq -", E8, G8, H8, F8, "KQ"},
		{"black queen side", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq -", E8, C8, A8, D8, "KQ"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := MustParseFEN(tc.fen)
			m, ok := FindMove(pos, tc.from, tc.to, NoPieceType)
			if !ok || !m.IsCastling() {
				t.Fatalf("castle %s%s not generated", tc.from, tc.to)
			}
			next := ApplyMove(pos, m)
			king := pos.PieceAt(tc.from)
			rook := pos.PieceAt(tc.rookFrom)
			if next.PieceAt(tc.to) != king || next.PieceAt(tc.rookTo) != rook {
				t.Errorf("pieces not relocated:\n%s", next)
			}
			if next.PieceAt(tc.from) != NoPiece || next.PieceAt(tc.rookFrom) != NoPiece {
				t.Errorf("home squares not cleared:\n%s", next)
			}
			if got := next.Castling.String(); got != tc.wantCastling {
				t.Errorf("Castling = %q, want %q", got, tc.wantCastling)
			}
		})
	}
}

func TestCaptureOnRookHomeRevokesRight(t *testing.T) {
	pos := MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq -")
	m, ok := FindMove(pos, A1, A8, NoPieceType)
	if !ok {
		t.Fatal("Ra1xa8 not legal")
	}
	if m.Captured != BlackRook {
		t.Errorf("Captured = %v, want black rook", m.Captured)
	}
	next := ApplyMove(pos, m)
	if got := next.Castling.String(); got != "Kk" {
		t.Errorf("Castling = %q, want Kk", got)
	}
}

func TestRightsNeverReturn(t *testing.T) {
	pos := MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq -")
	prev := pos.Castling
	for i := 0; i < 12; i++ {
		moves := AllLegalMoves(pos)
		if len(moves) == 0 {
			break
		}
		pos = ApplyMove(pos, moves[i%len(moves)])
		if pos.Castling&^prev != 0 {
			t.Fatalf("castling rights grew from %v to %v", prev, pos.Castling)
		}
		prev = pos.Castling
	}
}

func TestSpeculativeMoveDoesNotPanic(t *testing.T) {
	pos := MustParseFEN(StandardFEN)
	odd := Move{From: E4, To: E5, Promotion: NoPieceType, RemoveSquare: NoSquare}
	next := ApplyMove(pos, odd)
	if next.Turn != Black {
		t.Errorf("Turn = %v, want b", next.Turn)
	}
	off := Move{From: NoSquare, To: E5, Promotion: NoPieceType, RemoveSquare: NoSquare}
	if got := ApplyMove(pos, off); got.Board != pos.Board {
		t.Error("off-board move changed the board")
	}
}

func TestMissingPieces(t *testing.T) {
	pos := MustParseFEN(StartFEN)
	missing := CountPieces(&pos.Board).Missing()
	if missing[White][Pawn] != 0 || missing[Black][Pawn] != 0 {
		t.Errorf("missing pawns = %d/%d, want 0/0", missing[White][Pawn], missing[Black][Pawn])
	}

	pos = MustParseFEN("4k3/3P4/8/8/8/8/8/4K3 w - -")
	missing = CountPieces(&pos.Board).Missing()
	if missing[White][Pawn] != 7 || missing[Black][Queen] != 1 || missing[White][King] != 0 {
		t.Errorf("missing = %v", missing)
	}
}
