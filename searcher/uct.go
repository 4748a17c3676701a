package searcher

import (
	"fmt"
	"reversi/game"
	"reversi/utils"
)

// Rollout is the result of one simulation. Move is the originating move of the
// terminal node reached, kept for tracing only.
type Rollout struct {
	Value float64
	Move  game.Move
	Depth int
}

// Expand generates the children of n from the oracle, one per legal move in
// the oracle's order. Once n has children it is left untouched.
func (s *Session) Expand(n *Node) error {
	if len(n.children) > 0 {
		return nil
	}

	moves := s.oracle.LegalMoves(n.board, n.player)
	children := make([]*Node, 0, len(moves))
	for _, move := range moves {
		board, err := s.oracle.Play(s.oracle.Copy(n.board), n.player, move)
		if err != nil {
			return fmt.Errorf("%w: playing legal move %s for %s: %w", ErrOracleInconsistency, move, n.player, err)
		}
		if board == nil {
			return fmt.Errorf("%w: playing legal move %s for %s returned no board", ErrOracleInconsistency, move, n.player)
		}
		children = append(children, NewNode(board, n.player.Opponent(), move))
	}
	n.children = children
	return nil
}

// Select picks the child of n to descend into. Children that have not yet
// completed a simulation are tried first, in the order given by the session's
// chooser. Once all have, the child with the highest UCB1 score wins.
func (s *Session) Select(n *Node) (*Node, game.Move, error) {
	if len(n.children) == 0 {
		return nil, nil, fmt.Errorf("%w: cannot select from a node with no children", ErrTerminalQuery)
	}

	unvisited := make([]*Node, 0, len(n.children))
	for _, child := range n.children {
		if _, ok := s.visited[child]; !ok {
			unvisited = append(unvisited, child)
		}
	}
	if len(unvisited) > 0 {
		child := unvisited[s.choose(len(unvisited))]
		return child, child.move, nil
	}

	total := 0
	for _, child := range n.children {
		total += child.visits
	}
	policy := newUCT(s.cSquared, total)

	scores := make([]float64, len(n.children))
	for i, child := range n.children {
		scores[i] = policy.evaluate(exploitation(n.player, child), child.visits)
	}
	child := n.children[utils.ArgMax(scores)]
	return child, child.move, nil
}

// Simulate runs one descent from n to a terminal position and folds the
// terminal value into every node on the path. On error no node on the path
// is updated.
func (s *Session) Simulate(n *Node) (Rollout, error) {
	rollout, err := s.simulate(n, 0)
	if err != nil {
		return Rollout{}, err
	}

	s.metrics.AddEpisode(rollout.Depth)
	s.logger.Debug().
		Float64("value", rollout.Value).
		Str("move", moveName(rollout.Move)).
		Int("depth", rollout.Depth).
		Int("visits", n.visits).
		Msg("simulation complete")
	return rollout, nil
}

func (s *Session) simulate(n *Node, depth int) (Rollout, error) {
	var rollout Rollout

	if len(s.oracle.LegalMoves(n.board, n.player)) == 0 {
		if len(n.children) > 0 {
			return Rollout{}, fmt.Errorf("%w: expanded position reports no legal moves for %s", ErrOracleInconsistency, n.player)
		}
		rollout = Rollout{Value: terminalValue(s.oracle, n), Move: n.move, Depth: depth}
	} else {
		if err := s.Expand(n); err != nil {
			return Rollout{}, err
		}
		if len(n.children) == 0 {
			return Rollout{}, fmt.Errorf("%w: legal moves for %s vanished during expansion", ErrOracleInconsistency, n.player)
		}

		child, _, err := s.Select(n)
		if err != nil {
			return Rollout{}, err
		}
		rollout, err = s.simulate(child, depth+1)
		if err != nil {
			return Rollout{}, err
		}
	}

	s.visited[n] = struct{}{}
	n.backup(rollout.Value)
	return rollout, nil
}

// terminalValue is WIN if the node's own mover finished strictly ahead.
func terminalValue(oracle game.Oracle, n *Node) float64 {
	if game.Leads(oracle, n.board, n.player) {
		return WIN
	}
	return LOSS
}

func moveName(m game.Move) string {
	if m == nil {
		return "-"
	}
	return m.String()
}
