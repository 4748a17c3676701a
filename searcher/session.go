package searcher

import (
	"fmt"
	"reversi/experiments/metrics"
	"reversi/game"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

type Option func(s *Session)

// Session holds the search state for one game: the roots queried so far and
// the set of nodes that completed at least one simulation. Membership is by
// node identity, so two nodes for the same board are tracked separately.
//
// A Session is not safe for concurrent use.
type Session struct {
	id       uuid.UUID
	oracle   game.Oracle
	history  []*Node
	visited  map[*Node]struct{}
	cSquared float64
	choose   func(n int) int
	logger   zerolog.Logger
	metrics  metrics.Collector
}

// Edge summarises one root child.
type Edge struct {
	Move   game.Move
	Visits int
	Mean   float64
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

func WithExploration(cSquared float64) Option {
	return func(s *Session) {
		if cSquared >= 0 {
			s.cSquared = cSquared
		}
	}
}

// WithChooser replaces the random pick among unvisited children. choose(n)
// must return an index in [0, n).
func WithChooser(choose func(n int) int) Option {
	return func(s *Session) {
		if choose != nil {
			s.choose = choose
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(s *Session) {
		s.choose = rand.New(rand.NewSource(seed)).Intn
	}
}

func WithMetrics() Option {
	return func(s *Session) {
		s.metrics = metrics.NewCollector()
	}
}

func NewSession(oracle game.Oracle, options ...Option) *Session {
	s := &Session{ // Default values
		id:       uuid.New(),
		oracle:   oracle,
		visited:  make(map[*Node]struct{}),
		cSquared: CSquared,
		choose:   rand.Intn,
		logger:   zerolog.Nop(),
		metrics:  metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(s)
	}
	s.logger = s.logger.With().Str("session", s.id.String()).Logger()
	return s
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

// Root returns the most recently queried root, or nil.
func (s *Session) Root() *Node {
	if len(s.history) == 0 {
		return nil
	}
	return s.history[len(s.history)-1]
}

// History returns the roots queried so far, oldest first.
func (s *Session) History() []*Node {
	return s.history
}

// Reset forgets every tree and visit so the session can start a new game.
func (s *Session) Reset() {
	s.history = nil
	s.visited = make(map[*Node]struct{})
	s.logger.Debug().Msg("session reset")
}

// GetMove runs one simulation for the position and returns the most visited
// move so far. Repeated calls on an unchanged board keep growing the same
// tree; a different board starts a new one.
func (s *Session) GetMove(board game.Board, player game.Player) (game.Move, error) {
	if board == nil {
		return nil, ErrNilBoard
	}
	root := s.Root()
	if root == nil || !root.board.Equal(board) {
		root = NewNode(s.oracle.Copy(board), player, nil)
		s.history = append(s.history, root)
		s.metrics.SetTreeReset(true)
		s.logger.Debug().
			Stringer("player", player).
			Int("history", len(s.history)).
			Msg("new search tree")
	}

	if _, err := s.Simulate(root); err != nil {
		return nil, fmt.Errorf("failed to simulate from %s root: %w", root.player, err)
	}
	return BestMove(root)
}

// Search calls GetMove simulations times and commits to the final answer.
func (s *Session) Search(board game.Board, player game.Player, simulations int) (game.Move, metrics.SearchMetric, error) {
	if simulations < 1 {
		return nil, metrics.SearchMetric{}, fmt.Errorf("simulations must be positive, got %d", simulations)
	}

	s.metrics.Start()
	var move game.Move
	for i := 0; i < simulations; i++ {
		var err error
		move, err = s.GetMove(board, player)
		if err != nil {
			return nil, s.metrics.Complete(), err
		}
	}
	metric := s.metrics.Complete()

	s.logger.Debug().
		Str("move", moveName(move)).
		Int("simulations", simulations).
		Int("root_visits", s.Root().visits).
		Msg("search complete")
	return move, metric, nil
}

// Policy lists the children of the most recent root in generation order.
func (s *Session) Policy() []Edge {
	root := s.Root()
	if root == nil {
		return nil
	}
	edges := make([]Edge, 0, len(root.children))
	for _, child := range root.children {
		edges = append(edges, Edge{Move: child.move, Visits: child.visits, Mean: child.mean})
	}
	return edges
}
