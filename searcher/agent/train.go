package agent

import (
	"math"
	"reversi/experiments/metrics"
	"reversi/game"
	"reversi/searcher"
	"reversi/utils"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

type trainingAgent struct {
	session     *searcher.Session
	simulations int
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns an agent for self-play: after the simulation budget
// it samples a root move in proportion to visits^(1/temperature). A
// non-positive temperature always plays the most visited move.
func NewTrainingAgent(session *searcher.Session, simulations int, temperature float64, seed uint64) Agent {
	return &trainingAgent{
		session:     session,
		simulations: simulations,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a *trainingAgent) FindMove(board game.Board, player game.Player) (game.Move, metrics.SearchMetric, error) {
	_, metric, err := a.session.Search(board, player, a.simulations)
	if err != nil {
		return nil, metric, err
	}

	policy := a.session.Policy()
	visits := make([]float64, len(policy))
	for i, edge := range policy {
		visits[i] = float64(edge.Visits)
	}
	probs := adjustTemperature(visits, a.temperature)
	return policy[sample(probs, a.rng.Float64())].Move, metric, nil
}

func (a *trainingAgent) Reset() {
	a.session.Reset()
}

func adjustTemperature(visits []float64, temperature float64) []float64 {
	probs := make([]float64, len(visits))
	if temperature <= 0 {
		probs[utils.ArgMax(visits)] = 1
		return probs
	}

	// Scale by the largest count first so the power stays in [0, 1]
	most := floats.Max(visits)
	if most <= 0 {
		for i := range probs {
			probs[i] = 1
		}
		floats.Scale(1/float64(len(probs)), probs)
		return probs
	}
	exponent := 1.0 / temperature
	for i, visit := range visits {
		probs[i] = math.Pow(visit/most, exponent)
	}
	// Normalize
	floats.Scale(1/floats.Sum(probs), probs)
	return probs
}

// sample maps u in [0, 1) to an index of probs.
func sample(probs []float64, u float64) int {
	cumulative := 0.0
	for i, prob := range probs {
		cumulative += prob
		if u < cumulative {
			return i
		}
	}
	return len(probs) - 1 // Fallback in case of rounding errors
}
