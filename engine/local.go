package engine

import (
	"fmt"
	"reversi/experiments/metrics"
	"reversi/game"
	"reversi/searcher/agent"
	"reversi/utils"
	"time"

	"github.com/rs/zerolog/log"
)

type LocalEngine struct {
	Oracle   game.Oracle
	Board    game.Board
	Agents   map[game.Player]agent.Agent
	MaxMoves int
	OnMove   func(step int, player game.Player, move game.Move, board game.Board) // Optional
}

// Local sets up a game on board where maxAgent moves first.
func Local(oracle game.Oracle, board game.Board, maxAgent, minAgent agent.Agent) *LocalEngine {
	if maxAgent == nil || minAgent == nil {
		panic("need an agent for each player")
	}
	return &LocalEngine{
		Oracle: oracle,
		Board:  oracle.Copy(board),
		Agents: map[game.Player]agent.Agent{
			game.Max: maxAgent,
			game.Min: minAgent,
		},
		MaxMoves: MaxMoves,
	}
}

// Run executes the entire game loop until the side to move is out of moves.
func (e *LocalEngine) Run() (game.Player, metrics.GameMetric, []metrics.MoveMetric, error) {
	for _, a := range e.Agents {
		a.Reset()
	}

	start := time.Now()
	var moveMetrics []metrics.MoveMetric
	player := game.Max
	step := 1

	log.Debug().Stringer("player", player).Msg("game started")

	for {
		moves := e.Oracle.LegalMoves(e.Board, player)
		if len(moves) == 0 {
			break
		}
		if step > e.MaxMoves {
			log.Warn().Int("moves", e.MaxMoves).Msg("stopped at move limit")
			break
		}

		move, searchMetric, err := e.Agents[player].FindMove(e.Board, player)
		if err != nil {
			return game.Draw, metrics.GameMetric{}, moveMetrics, fmt.Errorf("%s agent failed at step %d: %w", player, step, err)
		}
		if utils.FindIndex(moves, move) < 0 {
			log.Warn().Stringer("player", player).Str("move", fmt.Sprint(move)).Msg("agent returned an illegal move, forcing first legal move")
			move = moves[0]
		}

		board, err := e.Oracle.Play(e.Board, player, move)
		if err != nil {
			return game.Draw, metrics.GameMetric{}, moveMetrics, fmt.Errorf("failed to play %s for %s: %w", move, player, err)
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player,
			Move:         move.String(),
			SearchMetric: searchMetric,
		})
		log.Debug().Int("step", step).Stringer("player", player).Str("move", move.String()).Msg("move played")

		e.Board = board
		if e.OnMove != nil {
			e.OnMove(step, player, move, board)
		}
		player = player.Opponent()
		step++
	}

	end := time.Now()
	winner := game.Winner(e.Oracle, e.Board)
	gameMetric := metrics.GameMetric{
		Winner:     winner,
		StartTime:  start,
		EndTime:    end,
		Duration:   end.Sub(start),
		TotalMoves: len(moveMetrics),
		Score:      e.Oracle.Score(e.Board),
	}

	log.Debug().Stringer("winner", winner).Int("moves", len(moveMetrics)).Msg("game over")
	return winner, gameMetric, moveMetrics, nil
}
