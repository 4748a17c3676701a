package agent

import (
	"reversi/experiments/metrics"
	"reversi/game"
	"reversi/searcher"
)

type evaluationAgent struct {
	session     *searcher.Session
	simulations int
}

// NewEvaluationAgent returns an agent for actual game play: it runs
// simulations passes and commits to the most visited move.
func NewEvaluationAgent(session *searcher.Session, simulations int) Agent {
	return &evaluationAgent{session: session, simulations: simulations}
}

func (a *evaluationAgent) FindMove(board game.Board, player game.Player) (game.Move, metrics.SearchMetric, error) {
	return a.session.Search(board, player, a.simulations)
}

func (a *evaluationAgent) Reset() {
	a.session.Reset()
}
