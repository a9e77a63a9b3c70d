package engine

import (
	"github.com/hailam/tensorchess/internal/board"
)

// Analysis is everything the front ends display after a move.
type Analysis struct {
	FEN        string          `json:"fen"`
	Turn       string          `json:"turn"`
	Status     string          `json:"status"`
	Evaluation Evaluation      `json:"evaluation"`
	Candidates []CandidateInfo `json:"candidates"`
	Summary    Summary         `json:"summary"`
}

// CandidateInfo is the display form of a Candidate.
type CandidateInfo struct {
	Move        string  `json:"move"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
	Mates       bool    `json:"mates"`
}

// Analyzer ranks and evaluates positions. The zero value is ready to use.
type Analyzer struct {
	// MaxCandidates caps how many ranked moves Analyze reports; 0 means all.
	MaxCandidates int

	// Cache, if set, memoizes the move rankings.
	Cache *RankCache

	// OnAnalysis is called after every Analyze, if set.
	OnAnalysis func(Analysis)
}

// NewAnalyzer creates an analyzer that reports at most maxCandidates moves.
func NewAnalyzer(maxCandidates int) *Analyzer {
	return &Analyzer{MaxCandidates: maxCandidates}
}

// Analyze evaluates p for the side to move and ranks its replies.
func (a *Analyzer) Analyze(p *board.Position) (Analysis, error) {
	var cands []Candidate
	if a.Cache != nil {
		cands = a.Cache.Rank(p, p.Turn)
	} else {
		cands = RankMoves(p, p.Turn)
	}
	sum, err := Summarize(cands)
	if err != nil {
		return Analysis{}, err
	}

	shown := cands
	if a.MaxCandidates > 0 && len(shown) > a.MaxCandidates {
		shown = shown[:a.MaxCandidates]
	}
	infos := make([]CandidateInfo, 0, len(shown))
	for _, c := range shown {
		infos = append(infos, CandidateInfo{
			Move:        c.Move.String(),
			Description: c.Move.Describe(),
			Score:       c.Score,
			Mates:       c.Mates,
		})
	}

	res := Analysis{
		FEN:        p.FEN(),
		Turn:       p.Turn.String(),
		Status:     board.GameStatus(p).String(),
		Evaluation: EvaluateBreakdown(p, p.Turn),
		Candidates: infos,
		Summary:    sum,
	}
	if a.OnAnalysis != nil {
		a.OnAnalysis(res)
	}
	return res, nil
}
