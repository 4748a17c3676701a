package main

import (
	"flag"
	"os"
	"reversi/engine"
	"reversi/experiments"
	"reversi/game"
	"reversi/game/reversi"
	"reversi/meta"
	"reversi/searcher"
	"reversi/searcher/agent"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	mode := flag.String("mode", "selfplay", "One of selfplay, serve or experiment")
	simulations := flag.Int("simulations", meta.SIMULATIONS, "Search simulations per move")
	size := flag.Int("size", meta.BOARD_SIZE, "Board edge length (even, at least 4)")
	port := flag.String("port", meta.PORT, "Agent server port")
	remote := flag.String("remote", "", "Agent server URL playing O in selfplay")
	train := flag.Bool("train", false, "Serve a training agent that samples moves")
	temperature := flag.Float64("temperature", meta.TEMPERATURE, "Training agent sampling temperature")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Random seed")
	out := flag.String("out", meta.RESULTS_DIR, "Experiment output directory")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	newSession := func(seed uint64) *searcher.Session {
		return searcher.NewSession(reversi.NewRules(),
			searcher.WithSeed(seed),
			searcher.WithLogger(log.Logger),
			searcher.WithMetrics(),
		)
	}

	switch *mode {
	case "selfplay":
		var opponent agent.Agent = agent.NewEvaluationAgent(newSession(*seed+1), *simulations)
		if *remote != "" {
			opponent = agent.NewRemoteAgent(*remote, nil)
		}
		selfPlay(agent.NewEvaluationAgent(newSession(*seed), *simulations), opponent, *size)

	case "serve":
		var a agent.Agent = agent.NewEvaluationAgent(newSession(*seed), *simulations)
		if *train {
			a = agent.NewTrainingAgent(newSession(*seed), *simulations, *temperature, *seed)
		}
		if err := agent.StartAgentServer(*port, a); err != nil {
			log.Fatal().Err(err).Msg("agent server stopped")
		}

	case "experiment":
		dir, err := experiments.RunBudgetExperiment(*out, *size)
		if err != nil {
			log.Fatal().Err(err).Msg("experiment failed")
		}
		log.Info().Str("dir", dir).Msg("experiment complete")

	default:
		log.Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}

func selfPlay(black, white agent.Agent, size int) {
	rules := reversi.NewRules()
	board := reversi.NewBoard(size)
	e := engine.Local(rules, board, black, white)
	e.MaxMoves = meta.MAX_TURNS

	r := newRenderer(os.Stdout)
	r.board(board, nil)
	e.OnMove = func(step int, player game.Player, move game.Move, board game.Board) {
		r.move(step, player, move)
		r.board(board.(*reversi.Board), move)
	}

	winner, gameMetric, _, err := e.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("game failed")
	}
	r.result(winner, gameMetric.Score)
	log.Info().
		Stringer("winner", winner).
		Int("moves", gameMetric.TotalMoves).
		Dur("duration", gameMetric.Duration).
		Msg("game over")
}
