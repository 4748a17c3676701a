package engine

import (
	"reversi/experiments/metrics"
	"reversi/game"
)

const MaxMoves = 10000

type Engine interface {
	// Run plays a game until the side to move has no legal moves or a max
	// number of moves is reached
	Run() (winner game.Player, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}

var _ Engine = (*LocalEngine)(nil)
