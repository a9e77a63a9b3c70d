package engine

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/hailam/tensorchess/internal/board"
)

const epsilon = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestEvaluateSymmetry(t *testing.T) {
	pos := board.MustParseFEN(board.StandardFEN)

	if score := Evaluate(pos, board.White); !near(score, 0) {
		t.Errorf("Evaluate(start, w) = %v, want 0", score)
	}

	for _, fen := range []string{board.StartFEN, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -"} {
		p := board.MustParseFEN(fen)
		w, b := Evaluate(p, board.White), Evaluate(p, board.Black)
		if w != -b {
			t.Errorf("%s: Evaluate(w)=%v, Evaluate(b)=%v, want negatives", fen, w, b)
		}
	}
}

func TestSideTerms(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		color board.Color
		want  Breakdown
	}{
		{
			name:  "lone king in corner",
			fen:   "7k/8/8/8/8/8/8/K7 w - -",
			color: board.White,
			want:  Breakdown{Material: 100, Mobility: math.Pow(3, 1.25)},
		},
		{
			name:  "attacked queen is penalized triple",
			fen:   "k7/8/8/8/r2Q4/8/8/7K w - -",
			color: board.White,
			want:  Breakdown{Material: 109, Mobility: side(t, "k7/8/8/8/r2Q4/8/8/7K w - -", board.White).Mobility, Threat: 27},
		},
		{
			name:  "attacked rook",
			fen:   "k7/8/8/8/r2Q4/8/8/7K w - -",
			color: board.Black,
			want:  Breakdown{Material: 105, Mobility: side(t, "k7/8/8/8/r2Q4/8/8/7K w - -", board.Black).Mobility, Threat: 5},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Side(board.MustParseFEN(tc.fen), tc.color)
			if diff := cmp.Diff(tc.want, got, cmpopts.EquateApprox(0, epsilon)); diff != "" {
				t.Errorf("Side mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func side(t *testing.T, fen string, c board.Color) Breakdown {
	t.Helper()
	return Side(board.MustParseFEN(fen), c)
}

func TestKingThreatMultiplier(t *testing.T) {
	// The white king on e1 is attacked by the h1 rook.
	pos := board.MustParseFEN("4k3/8/8/8/8/8/8/4K2r w - -")
	if got := Side(pos, board.White).Threat; !near(got, 500) {
		t.Errorf("king threat = %v, want 500", got)
	}
}

func TestMobilityIgnoresSideToMove(t *testing.T) {
	w := board.MustParseFEN(board.StandardFEN)
	b := w.WithTurn(board.Black)
	if a, c := Side(w, board.Black).Mobility, Side(b, board.Black).Mobility; !near(a, c) {
		t.Errorf("black mobility depends on turn: %v vs %v", a, c)
	}
}

func TestRankMovesMateFirst(t *testing.T) {
	pos := board.MustParseFEN("6k1/8/6K1/8/8/8/8/7Q w - -")
	cands := RankMoves(pos, board.White)
	if len(cands) == 0 {
		t.Fatal("no candidates")
	}
	if !cands[0].Mates {
		t.Fatalf("first candidate %s does not mate", cands[0].Move)
	}
	if got := cands[0].Move.String(); got != "h1a8" {
		t.Errorf("first candidate = %s, want h1a8", got)
	}
	best, ok := BestMove(pos, board.White)
	if !ok || best != cands[0].Move {
		t.Errorf("BestMove = %v, want %v", best, cands[0].Move)
	}
}

func TestRankMovesOrdering(t *testing.T) {
	pos := board.MustParseFEN(board.StartFEN)
	cands := RankMoves(pos, board.White)
	if len(cands) != len(board.AllLegalMoves(pos)) {
		t.Fatalf("got %d candidates, want one per legal move", len(cands))
	}
	for i := 1; i < len(cands); i++ {
		a, b := cands[i-1], cands[i]
		if a.Mates != b.Mates {
			if !a.Mates {
				t.Errorf("non-mate %s ranked before mate %s", a.Move, b.Move)
			}
			continue
		}
		if a.Score < b.Score {
			t.Errorf("%s (%v) ranked before %s (%v)", a.Move, a.Score, b.Move, b.Score)
		}
		if a.Score == b.Score && a.PieceValue > b.PieceValue {
			t.Errorf("tie broken toward the dearer piece: %s before %s", a.Move, b.Move)
		}
	}
}

func TestRankMovesForcedColor(t *testing.T) {
	pos := board.MustParseFEN(board.StandardFEN)
	cands := RankMoves(pos, board.Black)
	if len(cands) != 20 {
		t.Fatalf("got %d black candidates, want 20", len(cands))
	}
	for _, c := range cands {
		if c.Move.Piece.Color() != board.Black {
			t.Errorf("candidate %s moves a white piece", c.Move)
		}
	}
	if pos.Turn != board.White {
		t.Error("RankMoves changed the side to move")
	}
}

func TestRankMovesNoMoves(t *testing.T) {
	pos := board.MustParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - -")
	if cands := RankMoves(pos, board.Black); len(cands) != 0 {
		t.Errorf("stalemated side has %d candidates", len(cands))
	}
	if _, ok := BestMove(pos, board.Black); ok {
		t.Error("BestMove reported a move for a stalemated side")
	}
}

func TestHeat(t *testing.T) {
	pos := board.MustParseFEN("4k3/8/8/8/8/8/8/4K2r w - -")
	heat := Heat(&pos.Board, board.White)

	tests := []struct {
		sq   board.Square
		want float64
	}{
		{board.E1, 0.85},
		{board.F1, 0.5},
		{board.A8, 0},
	}
	for _, tc := range tests {
		if got := heat[tc.sq]; !near(got, tc.want) {
			t.Errorf("heat[%s] = %v, want %v", tc.sq, got, tc.want)
		}
	}
	for sq, v := range heat {
		if v < 0 || v > 1 {
			t.Errorf("heat[%d] = %v out of range", sq, v)
		}
	}
}

func TestHeatWithoutKing(t *testing.T) {
	pos := board.MustParseFEN("8/8/8/8/8/8/8/R6r w - -")
	if heat := Heat(&pos.Board, board.White); heat != [64]float64{} {
		t.Errorf("heat without a king = %v, want zeros", heat)
	}
}

func TestThreatLevels(t *testing.T) {
	pos := board.MustParseFEN("k7/8/8/8/r2Q4/8/8/7K w - -")
	levels := ThreatLevels(&pos.Board)

	if !near(levels[board.D4], 1) {
		t.Errorf("queen threat = %v, want 1", levels[board.D4])
	}
	if !near(levels[board.A4], 5.0/9) {
		t.Errorf("rook threat = %v, want 5/9", levels[board.A4])
	}
	if levels[board.H1] != 0 || levels[board.E4] != 0 {
		t.Error("unattacked or empty squares must have no threat")
	}
}

func TestSummarize(t *testing.T) {
	var cands []Candidate
	for i := 1; i <= 5; i++ {
		cands = append(cands, Candidate{Score: float64(i)})
	}

	sum, err := Summarize(cands)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	want := Summary{Count: 5, Min: 1, Max: 5, Mean: 3, Median: 3, P80: 4, StdDev: math.Sqrt(2)}
	if diff := cmp.Diff(want, sum, cmpopts.EquateApprox(0, epsilon)); diff != "" {
		t.Errorf("Summary mismatch (-want +got):\n%s", diff)
	}

	if strong := Strong(cands); len(strong) != 2 {
		t.Errorf("Strong kept %d candidates, want 2", len(strong))
	}

	empty, err := Summarize(nil)
	if err != nil || empty != (Summary{}) {
		t.Errorf("Summarize(nil) = %+v, %v", empty, err)
	}
}

func TestAnalyze(t *testing.T) {
	var seen int
	a := NewAnalyzer(3)
	a.OnAnalysis = func(Analysis) { seen++ }

	res, err := a.Analyze(board.MustParseFEN("6k1/8/6K1/8/8/8/8/7Q w - -"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.Candidates) != 3 {
		t.Errorf("got %d candidates, want 3", len(res.Candidates))
	}
	if !res.Candidates[0].Mates || res.Status != "ongoing" || res.Turn != "w" {
		t.Errorf("unexpected analysis: %+v", res)
	}
	if seen != 1 {
		t.Errorf("OnAnalysis called %d times, want 1", seen)
	}
}
