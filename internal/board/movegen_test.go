package board

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func destinations(moves []Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.To.String())
	}
	sort.Strings(out)
	return out
}

func TestStartingPositionMoveCount(t *testing.T) {
	pos := MustParseFEN(StandardFEN)
	moves := AllLegalMoves(pos)
	if len(moves) != 20 {
		t.Fatalf("got %d legal moves, want 20", len(moves))
	}

	pawns, knights := 0, 0
	for _, m := range moves {
		switch m.Piece.Type() {
		case Pawn:
			pawns++
		case Knight:
			knights++
		}
	}
	if pawns != 16 || knights != 4 {
		t.Errorf("pawn/knight moves = %d/%d, want 16/4", pawns, knights)
	}
}

func TestLegalMovesEmptyForWrongSide(t *testing.T) {
	pos := MustParseFEN(StandardFEN)

	tests := []struct {
		name string
		sq   Square
	}{
		{"empty square", E4},
		{"opponent piece", E7},
		{"off board", NoSquare},
	}
	for _, tc := range tests {
		if got := LegalMoves(pos, tc.sq); len(got) != 0 {
			t.Errorf("%s: LegalMoves(%s) = %v, want none", tc.name, tc.sq, got)
		}
	}
}

func TestPieceMoves(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		from Square
		want []string
	}{
		{"knight in corner", "4k3/8/8/8/8/8/8/N3K3 w - -", A1, []string{"b3", "c2"}},
		{"rook stops at blockers", "4k3/8/8/8/R2p4/8/P7/4K3 w - -", A4, []string{"a3", "a5", "a6", "a7", "a8", "b4", "c4", "d4"}},
		{"bishop captures first enemy", "4k3/8/8/3p4/8/1B6/8/4K3 w - -", B3, []string{"a2", "a4", "c2", "c4", "d1", "d5"}},
		{"pawn double step", "4k3/8/8/8/8/8/4P3/4K3 w - -", E2, []string{"e3", "e4"}},
		{"pawn blocked", "4k3/8/8/8/8/4p3/4P3/4K3 w - -", E2, nil},
		{"double step blocked on far square", "4k3/8/8/8/4p3/8/4P3/4K3 w - -", E2, []string{"e3"}},
		{"pawn captures diagonally", "4k3/8/8/8/8/3p1p2/4P3/4K3 w - -", E2, []string{"d3", "e3", "e4", "f3"}},
		{"black pawn moves down", "4k3/4p3/8/8/8/8/8/4K3 b - -", E7, []string{"e5", "e6"}},
		{"pinned piece cannot leave the line", "4k3/4r3/8/8/8/8/4B3/4K3 w - -", E2, nil},
		{"king avoids attacked squares", "4k3/8/8/8/8/8/r7/4K3 w - -", E1, []string{"d1", "f1"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := MustParseFEN(tc.fen)
			got := destinations(LegalMoves(pos, tc.from))
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("destinations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEnPassant(t *testing.T) {
	pos := MustParseFEN("rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 4")

	var ep *Move
	for _, m := range LegalMoves(pos, E5) {
		if m.To == D6 {
			m := m
			ep = &m
		}
	}
	if ep == nil {
		t.Fatal("e5xd6 en passant not generated")
	}
	if !ep.EnPassant || ep.RemoveSquare != D5 {
		t.Fatalf("move = %+v, want EnPassant with RemoveSquare d5", *ep)
	}
	if ep.Captured != NoPiece {
		t.Errorf("Captured = %v, want none for en passant", ep.Captured)
	}

	next := ApplyMove(pos, *ep)
	if next.PieceAt(E5) != NoPiece || next.PieceAt(D5) != NoPiece {
		t.Errorf("e5/d5 not cleared:\n%s", next)
	}
	if next.PieceAt(D6) != WhitePawn {
		t.Errorf("d6 = %q, want white pawn", next.PieceAt(D6))
	}
	if next.EnPassant != NoSquare {
		t.Errorf("EnPassant = %v, want cleared", next.EnPassant)
	}
}

func TestEnPassantExpiresAfterOneMove(t *testing.T) {
	pos := MustParseFEN("rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 4")

	m, _ := FindMove(pos, G1, F3, NoPieceType)
	pos = ApplyMove(pos, m)
	m, _ = FindMove(pos, G8, F6, NoPieceType)
	pos = ApplyMove(pos, m)

	for _, mv := range LegalMoves(pos, E5) {
		if mv.EnPassant {
			t.Errorf("stale en passant generated: %s", mv)
		}
	}
}

func TestDoubleStepSetsEnPassantTarget(t *testing.T) {
	pos := MustParseFEN(StandardFEN)
	m, ok := FindMove(pos, E2, E4, NoPieceType)
	if !ok {
		t.Fatal("e2e4 not legal")
	}
	next := ApplyMove(pos, m)
	if next.EnPassant != E3 {
		t.Errorf("EnPassant = %v, want e3", next.EnPassant)
	}
	if got := next.FEN(); got != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1" {
		t.Errorf("FEN() = %q", got)
	}
}

func TestCastlingGeneration(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want []CastleSide
	}{
		{"both sides", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq -", []CastleSide{KingSide, QueenSide}},
		{"no rights", "r3k2r/8/8/8/8/8/8/R3K2R w - -", nil},
		{"king in check", "4k3/4r3/8/8/8/8/8/R3K2R w KQ -", nil},
		{"transit square attacked", "4kr2/8/8/8/8/8/8/R3K2R w KQ -", []CastleSide{QueenSide}},
		{"landing square attacked", "2r1k3/8/8/8/8/8/8/R3K2R w KQ -", []CastleSide{KingSide}},
		{"b-file attack does not stop queen side", "1r2k3/8/8/8/8/8/8/R3K2R w KQ -", []CastleSide{KingSide, QueenSide}},
		{"path blocked", "4k3/8/8/8/8/8/8/RN2K1NR w KQ -", nil},
		{"rook missing", "4k3/8/8/8/8/8/8/4K2R w KQ -", []CastleSide{KingSide}},
		{"black castles", "r3k2r/8/8/8/8/8/8/4K3 b kq -", []CastleSide{KingSide, QueenSide}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := MustParseFEN(tc.fen)
			from := KingSquare(&pos.Board, pos.Turn)
			var got []CastleSide
			for _, m := range LegalMoves(pos, from) {
				if m.IsCastling() {
					got = append(got, m.Castle)
				}
			}
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("castles mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCastlingRightsRevocation(t *testing.T) {
	pos := MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq -")

	play := func(from, to Square) {
		t.Helper()
		m, ok := FindMove(pos, from, to, NoPieceType)
		if !ok {
			t.Fatalf("%s%s not legal in %s", from, to, pos.FEN())
		}
		pos = MakeMove(pos, m)
	}

	play(H1, H2)
	play(A8, B8)
	play(H2, H1)
	play(B8, A8)

	if got := pos.Castling.String(); got != "Qk" {
		t.Errorf("Castling = %q, want Qk", got)
	}
	for _, m := range LegalMoves(pos, E1) {
		if m.Castle == KingSide {
			t.Error("king-side castle generated after the rook moved away and back")
		}
	}
	if _, ok := FindMove(pos, E1, C1, NoPieceType); !ok {
		t.Error("queen-side castle should still be available")
	}
}

func TestIdempotentGeneration(t *testing.T) {
	pos := MustParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	before := *pos.Copy()

	for sq := Square(0); sq < NoSquare; sq++ {
		first := LegalMoves(pos, sq)
		second := LegalMoves(pos, sq)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("LegalMoves(%s) changed between calls:\n%s", sq, diff)
		}
	}
	if diff := cmp.Diff(before, *pos); diff != "" {
		t.Errorf("position mutated by generation:\n%s", diff)
	}
}

func TestNoSelfCheck(t *testing.T) {
	fens := []string{
		StandardFEN,
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	}

	for _, fen := range fens {
		root := MustParseFEN(fen)
		for _, p := range append([]*Position{root}, children(root)...) {
			for _, m := range AllLegalMoves(p) {
				next := ApplyMove(p, m)
				if IsKingInCheck(&next.Board, p.Turn) {
					t.Errorf("%s leaves own king in check in %s", m, p.FEN())
				}
			}
		}
	}
}

func children(p *Position) []*Position {
	var out []*Position
	for _, m := range AllLegalMoves(p) {
		out = append(out, ApplyMove(p, m))
	}
	return out
}

func TestAttackMap(t *testing.T) {
	pos := MustParseFEN("4k3/8/8/8/3R4/8/8/R3K3 w - -")
	am := AttackMap(&pos.Board, White)

	// a4 is attacked by both rooks; d1 by the a1 rook, the king and the d4 rook.
	if am[A4] != 2 {
		t.Errorf("AttackMap[a4] = %d, want 2", am[A4])
	}
	if am[D1] != 3 {
		t.Errorf("AttackMap[d1] = %d, want 3", am[D1])
	}
	// The a1 rook's rank ray stops at its own king on e1.
	if am[F1] != 1 {
		t.Errorf("AttackMap[f1] = %d, want 1", am[F1])
	}
	if am[D4] != 0 {
		t.Errorf("AttackMap[d4] = %d, want 0", am[D4])
	}
}

func TestPawnForwardIsNotAttack(t *testing.T) {
	pos := MustParseFEN("4k3/8/8/8/8/8/4P3/4K3 w - -")
	if IsSquareAttacked(&pos.Board, E3, White) {
		t.Error("pawn push square reported as attacked")
	}
	if !IsSquareAttacked(&pos.Board, D3, White) || !IsSquareAttacked(&pos.Board, F3, White) {
		t.Error("pawn diagonals not reported as attacked")
	}
}

func TestKingSquare(t *testing.T) {
	pos := MustParseFEN(StandardFEN)
	if got := KingSquare(&pos.Board, White); got != E1 {
		t.Errorf("KingSquare(w) = %v, want e1", got)
	}
	if got := KingSquare(&pos.Board, Black); got != E8 {
		t.Errorf("KingSquare(b) = %v, want e8", got)
	}
}

func TestMoveRays(t *testing.T) {
	pos := MustParseFEN("4k3/8/8/8/8/8/1p6/R3K3 w - -")
	got := MoveRays(&pos.Board, A1)
	want := []Ray{
		{DF: 1, DR: 0, Length: 4},
		{DF: 0, DR: -1, Length: 7},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MoveRays mismatch (-want +got):\n%s", diff)
	}
	if rays := MoveRays(&pos.Board, E1); rays != nil {
		t.Errorf("king rays = %v, want none", rays)
	}
}
