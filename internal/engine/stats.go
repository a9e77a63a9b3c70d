package engine

import (
	"github.com/montanaflynn/stats"
)

// Summary describes the spread of candidate scores.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P80    float64 `json:"p80"`
	StdDev float64 `json:"stddev"`
}

// Summarize computes score statistics over cands. An empty slice yields a
// zero Summary.
func Summarize(cands []Candidate) (Summary, error) {
	if len(cands) == 0 {
		return Summary{}, nil
	}
	scores := make([]float64, 0, len(cands))
	for _, c := range cands {
		scores = append(scores, c.Score)
	}
	data := stats.LoadRawData(scores)

	var (
		s   = Summary{Count: len(scores)}
		err error
	)
	if s.Min, err = stats.Min(data); err != nil {
		return Summary{}, err
	}
	if s.Max, err = stats.Max(data); err != nil {
		return Summary{}, err
	}
	if s.Mean, err = stats.Mean(data); err != nil {
		return Summary{}, err
	}
	if s.Median, err = stats.Median(data); err != nil {
		return Summary{}, err
	}
	if s.P80, err = stats.Percentile(data, 80); err != nil {
		return Summary{}, err
	}
	if s.StdDev, err = stats.StandardDeviation(data); err != nil {
		return Summary{}, err
	}
	return s, nil
}

// Strong returns the candidates scoring at or above the 80th percentile,
// keeping their ranked order. Mating moves are always included.
func Strong(cands []Candidate) []Candidate {
	if len(cands) == 0 {
		return nil
	}
	sum, err := Summarize(cands)
	if err != nil {
		return cands
	}
	var out []Candidate
	for _, c := range cands {
		if c.Mates || c.Score >= sum.P80 {
			out = append(out, c)
		}
	}
	return out
}
