package metrics

import (
	"reversi/game"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the games of one match-up.
type Summary struct {
	Games       int
	Wins        map[int]int // by AgentConfig.ID
	Draws       int
	MeanMoves   float64
	StdDevMoves float64
	MeanDepth   float64
	MaxDepth    float64
}

// Summarize tallies wins per agent and the spread of game lengths and search
// depths. Agent1 of each record played game.Max.
func Summarize(games []GameRecord, moves []MoveRecord) Summary {
	summary := Summary{Games: len(games), Wins: map[int]int{}}

	lengths := make([]float64, 0, len(games))
	for _, g := range games {
		lengths = append(lengths, float64(g.TotalMoves))
		switch g.Winner {
		case game.Max:
			summary.Wins[g.Agent1]++
		case game.Min:
			summary.Wins[g.Agent2]++
		default:
			summary.Draws++
		}
	}
	switch {
	case len(lengths) > 1:
		summary.MeanMoves, summary.StdDevMoves = stat.MeanStdDev(lengths, nil)
	case len(lengths) == 1:
		summary.MeanMoves = lengths[0]
	}

	depths := make([]float64, 0, len(moves))
	for _, m := range moves {
		depths = append(depths, float64(m.MaxDepth))
	}
	if len(depths) > 0 {
		summary.MeanDepth = stat.Mean(depths, nil)
		summary.MaxDepth = floats.Max(depths)
	}
	return summary
}
