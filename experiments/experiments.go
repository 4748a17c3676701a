package experiments

import (
	"fmt"
	"reversi/engine"
	"reversi/experiments/metrics"
	"reversi/game"
	"reversi/game/reversi"
	"reversi/meta"
	"reversi/searcher"
	"reversi/searcher/agent"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const (
	NumGames     = 20 // Per match up
	OpeningPlies = 2  // Even, so game.Max still moves first
)

// MatchUp pairs two agents. The first plays game.Max in even-numbered games.
type MatchUp [2]metrics.AgentConfig

// Experiment describes a batch of match-ups played on one board size.
type Experiment struct {
	Name      string
	Root      string // Output directory
	BoardSize int
	NumGames  int
	Configs   []metrics.AgentConfig
	MatchUps  []MatchUp
	Seed      uint64
}

var budgetConfigs = []metrics.AgentConfig{
	{ID: 1, Simulations: 25, Exploration: searcher.CSquared, Seed: 1},
	{ID: 2, Simulations: 50, Exploration: searcher.CSquared, Seed: 2},
	{ID: 3, Simulations: 100, Exploration: searcher.CSquared, Seed: 3},
	{ID: 4, Simulations: 200, Exploration: searcher.CSquared, Seed: 4},
}

// RunBudgetExperiment pairs every budget against the baseline budget and
// writes the results under root. It returns the output directory.
func RunBudgetExperiment(root string, boardSize int) (string, error) {
	baseline := metrics.AgentConfig{ID: 0, Simulations: meta.SIMULATIONS, Exploration: searcher.CSquared, Seed: 0}
	matchUps := []MatchUp{}
	for _, config := range budgetConfigs {
		matchUps = append(matchUps, MatchUp{baseline, config})
	}

	return Run(Experiment{
		Name:      "simulation_budget",
		Root:      root,
		BoardSize: boardSize,
		NumGames:  NumGames,
		Configs:   append([]metrics.AgentConfig{baseline}, budgetConfigs...),
		MatchUps:  matchUps,
	})
}

// Run plays every match-up, alternating which agent moves first, and stores
// the agent configs, game records and move records as CSV.
func Run(exp Experiment) (string, error) {
	rng := rand.New(rand.NewSource(exp.Seed))
	rules := reversi.NewRules()
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Str("experiment", exp.Name).Int("match_ups", len(exp.MatchUps)).Msg("starting experiment")

	for mi, matchUp := range exp.MatchUps {
		var games []metrics.GameRecord
		var moves []metrics.MoveRecord
		var opening game.Board

		for i := 0; i < exp.NumGames; i++ {
			// Both orders of a pair share an opening
			if i%2 == 0 {
				opening = randomOpening(rules, reversi.NewBoard(exp.BoardSize), OpeningPlies, rng)
			}
			first, second := matchUp[0], matchUp[1]
			if i%2 == 1 {
				first, second = second, first
			}

			record, moveMetrics, err := runGame(rules, opening, first, second, uint64(i))
			if err != nil {
				return "", fmt.Errorf("match up %d game %d: %w", mi+1, i+1, err)
			}
			games = append(games, record)
			for _, mm := range moveMetrics {
				moves = append(moves, metrics.MoveRecord{Game: record.ID, MoveMetric: mm})
			}

			log.Debug().
				Int("match_up", mi+1).
				Int("game", i+1).
				Stringer("winner", record.Winner).
				Int("moves", record.TotalMoves).
				Msg("game complete")
		}

		summary := metrics.Summarize(games, moves)
		log.Info().
			Int("match_up", mi+1).
			Int("agent1", matchUp[0].ID).
			Int("agent2", matchUp[1].ID).
			Int("agent1_wins", summary.Wins[matchUp[0].ID]).
			Int("agent2_wins", summary.Wins[matchUp[1].ID]).
			Int("draws", summary.Draws).
			Float64("mean_moves", summary.MeanMoves).
			Float64("mean_depth", summary.MeanDepth).
			Msg("completed match up")

		gameRecords = append(gameRecords, games...)
		moveRecords = append(moveRecords, moves...)
	}

	writer, err := metrics.NewWriter(exp.Root, exp.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(exp.Configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}

	log.Info().Str("experiment", exp.Name).Str("dir", writer.Dir()).Msg("stored experiment results")
	return writer.Dir(), nil
}

// runGame plays one game with first as game.Max.
func runGame(rules game.Oracle, board game.Board, first, second metrics.AgentConfig, index uint64) (metrics.GameRecord, []metrics.MoveMetric, error) {
	e := engine.Local(rules, board, createAgent(rules, first, index), createAgent(rules, second, index))
	e.MaxMoves = meta.MAX_TURNS

	_, gameMetric, moveMetrics, err := e.Run()
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}
	gameMetric.StartingAgent = first.ID

	return metrics.GameRecord{
		ID:         uuid.New(),
		Agent1:     first.ID,
		Agent2:     second.ID,
		GameMetric: gameMetric,
	}, moveMetrics, nil
}

func createAgent(rules game.Oracle, config metrics.AgentConfig, index uint64) agent.Agent {
	options := []searcher.Option{
		searcher.WithSeed(config.Seed + index),
		searcher.WithMetrics(),
	}
	if config.Exploration > 0 {
		options = append(options, searcher.WithExploration(config.Exploration))
	}
	return agent.NewEvaluationAgent(searcher.NewSession(rules, options...), config.Simulations)
}

// randomOpening plays up to plies uniformly random moves, Max first.
func randomOpening(rules game.Oracle, board game.Board, plies int, rng *rand.Rand) game.Board {
	player := game.Max
	for i := 0; i < plies; i++ {
		moves := rules.LegalMoves(board, player)
		if len(moves) == 0 {
			break
		}
		next, err := rules.Play(board, player, moves[rng.Intn(len(moves))])
		if err != nil {
			break
		}
		board = next
		player = player.Opponent()
	}
	return board
}
