package searcher

import (
	"math"
	"reversi/game"
)

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N int) *uct {
	if N <= 0 {
		panic("N must be positive")
	}
	return &uct{numerator: cSquared * math.Log(float64(N))}
}

// evaluate scores a child with mean reward q over n visits:
// UCT = q + sqrt(c^2*ln(N)/n)
func (u uct) evaluate(q float64, n int) float64 {
	if n <= 0 {
		panic("n must be positive")
	}
	return q + math.Sqrt(u.numerator/float64(n))
}

// exploitation reads a child's mean reward from the perspective of the
// player choosing between children. Max takes the mean as stored, Min its
// complement.
func exploitation(chooser game.Player, child *Node) float64 {
	if chooser == game.Max {
		return child.mean
	}
	return 1 - child.mean
}
