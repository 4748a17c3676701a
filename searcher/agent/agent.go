package agent

import (
	"reversi/experiments/metrics"
	"reversi/game"
)

type Agent interface {
	// FindMove returns the chosen move and search metrics (if collected) for
	// player to move on board
	FindMove(board game.Board, player game.Player) (game.Move, metrics.SearchMetric, error)
	// Reset drops any search state carried between moves
	Reset()
}
