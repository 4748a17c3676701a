package searcher

import (
	"reversi/game"
	"reversi/game/reversi"
	"testing"

	"github.com/stretchr/testify/require"
)

/**
Tests the sequential UCT search on decision nodes
- expansion:
	- happy path: one child per legal move, in oracle order, mover flipped
	- idempotent: second call changes nothing
	- edge case: oracle fails to play a legal move -> inconsistency, no children
- selection:
	- warm-up: unvisited children first, each exactly once
	- happy path: all visited -> max UCB1 child, Min reads the complement
	- edge case: no children -> terminal query
- simulation:
	- terminal value from the terminal node's own mover
	- backup on every frame of the path, nothing on error
*/

func chainOracle() *mockOracle {
	return &mockOracle{
		moves: map[string][]string{
			"root":     {"a"},
			"root/a":   {"b"},
			"root/a/b": {"c"},
		},
		scores: map[string]map[game.Player]int{
			"root/a/b/c": {game.Max: 3, game.Min: 5},
		},
	}
}

// twoWayOracle gives the root one child whose game always ends with value 1
// and one whose game always ends with value 0.
func twoWayOracle() *mockOracle {
	return &mockOracle{
		moves: map[string][]string{
			"root": {"win", "lose"},
		},
		scores: map[string]map[game.Player]int{
			// Children are Min to move, so Min ahead means value 1
			"root/win":  {game.Max: 0, game.Min: 1},
			"root/lose": {game.Max: 1, game.Min: 0},
		},
	}
}

func TestExpand(t *testing.T) {
	t.Run("creating one child per legal move", func(t *testing.T) {
		oracle := &mockOracle{moves: map[string][]string{"root": {"x", "y", "z"}}}
		s := NewSession(oracle)
		root := NewNode(&mockBoard{id: "root"}, game.Max, nil)

		err := s.Expand(root)

		require.NoError(t, err)
		require.Len(t, root.children, 3)
		for i, id := range []string{"x", "y", "z"} {
			child := root.children[i]
			require.Equal(t, mockMove(id), child.move, "Children should follow the oracle's move order")
			require.Equal(t, game.Min, child.player, "Children should flip the mover")
			require.Equal(t, "root/"+id, child.board.String())
			require.Zero(t, child.visits)
			require.Zero(t, child.mean)
		}
	})

	t.Run("expanding twice leaves children unchanged", func(t *testing.T) {
		oracle := &mockOracle{moves: map[string][]string{"root": {"x", "y"}}}
		s := NewSession(oracle)
		root := NewNode(&mockBoard{id: "root"}, game.Max, nil)

		require.NoError(t, s.Expand(root))
		before := append([]*Node(nil), root.children...)
		plays := oracle.plays

		require.NoError(t, s.Expand(root))

		require.Equal(t, before, root.children, "Second expansion should keep the same children in order")
		for i := range before {
			require.Same(t, before[i], root.children[i])
		}
		require.Equal(t, plays, oracle.plays, "Second expansion should not consult the oracle")
	})

	t.Run("expanding a terminal node is a no-op", func(t *testing.T) {
		s := NewSession(&mockOracle{})
		root := NewNode(&mockBoard{id: "root"}, game.Max, nil)

		require.NoError(t, s.Expand(root))
		require.Empty(t, root.children)
	})

	t.Run("failing to play a legal move", func(t *testing.T) {
		oracle := &mockOracle{moves: map[string][]string{"root": {"x", "y"}}, failOn: "y"}
		s := NewSession(oracle)
		root := NewNode(&mockBoard{id: "root"}, game.Max, nil)

		err := s.Expand(root)

		require.ErrorIs(t, err, ErrOracleInconsistency)
		require.Empty(t, root.children, "A failed expansion should not leave partial children")
	})

	t.Run("children never alias the parent board", func(t *testing.T) {
		s := NewSession(reversi.NewRules())
		root := NewNode(reversi.NewBoard(4), game.Max, nil)

		require.NoError(t, s.Expand(root))
		for _, child := range root.children {
			require.NotSame(t, root.board, child.board)
		}
		require.Equal(t, []string{"....", ".OX.", ".XO.", "...."}, root.board.(*reversi.Board).Rows(),
			"Expansion should not modify the parent board")
	})
}

func TestSelect(t *testing.T) {
	t.Run("selecting from a node without children", func(t *testing.T) {
		s := NewSession(&mockOracle{})

		_, _, err := s.Select(NewNode(&mockBoard{id: "root"}, game.Max, nil))

		require.ErrorIs(t, err, ErrTerminalQuery)
	})

	t.Run("preferring unvisited children", func(t *testing.T) {
		s := NewSession(&mockOracle{}, WithChooser(first))
		visitedChild := &Node{move: mockMove("a"), visits: 10, mean: 1}
		freshChild := &Node{move: mockMove("b")}
		node := &Node{player: game.Max, children: []*Node{visitedChild, freshChild}}
		s.visited[visitedChild] = struct{}{}

		child, move, err := s.Select(node)

		require.NoError(t, err)
		require.Same(t, freshChild, child, "Unvisited child should be selected before any UCB1 comparison")
		require.Equal(t, mockMove("b"), move)
	})

	t.Run("visitation is tracked by node identity", func(t *testing.T) {
		s := NewSession(&mockOracle{}, WithChooser(first))
		twin := &Node{board: &mockBoard{id: "same"}, move: mockMove("a"), visits: 1}
		other := &Node{board: &mockBoard{id: "same"}, move: mockMove("b"), visits: 1}
		node := &Node{player: game.Max, children: []*Node{twin, other}}
		s.visited[twin] = struct{}{}

		child, _, err := s.Select(node)

		require.NoError(t, err)
		require.Same(t, other, child, "An equal board on another node should not count as visited")
	})

	t.Run("max player picks the highest mean with equal visits", func(t *testing.T) {
		s := NewSession(&mockOracle{})
		low := &Node{move: mockMove("low"), visits: 3, mean: 0.2}
		high := &Node{move: mockMove("high"), visits: 3, mean: 0.8}
		node := &Node{player: game.Max, children: []*Node{low, high}}
		s.visited[low] = struct{}{}
		s.visited[high] = struct{}{}

		child, _, err := s.Select(node)

		require.NoError(t, err)
		require.Same(t, high, child)
	})

	t.Run("min player picks the lowest mean with equal visits", func(t *testing.T) {
		s := NewSession(&mockOracle{})
		low := &Node{move: mockMove("low"), visits: 3, mean: 0.2}
		high := &Node{move: mockMove("high"), visits: 3, mean: 0.8}
		node := &Node{player: game.Min, children: []*Node{low, high}}
		s.visited[low] = struct{}{}
		s.visited[high] = struct{}{}

		child, _, err := s.Select(node)

		require.NoError(t, err)
		require.Same(t, low, child, "Min should maximize 1 - mean")
	})

	t.Run("exploration favours the less visited child", func(t *testing.T) {
		s := NewSession(&mockOracle{})
		busy := &Node{move: mockMove("busy"), visits: 50, mean: 0.5}
		quiet := &Node{move: mockMove("quiet"), visits: 2, mean: 0.5}
		node := &Node{player: game.Max, children: []*Node{busy, quiet}}
		s.visited[busy] = struct{}{}
		s.visited[quiet] = struct{}{}

		child, _, err := s.Select(node)

		require.NoError(t, err)
		require.Same(t, quiet, child)
	})

	t.Run("ties go to the first child", func(t *testing.T) {
		s := NewSession(&mockOracle{})
		a := &Node{move: mockMove("a"), visits: 2, mean: 0.5}
		b := &Node{move: mockMove("b"), visits: 2, mean: 0.5}
		node := &Node{player: game.Max, children: []*Node{a, b}}
		s.visited[a] = struct{}{}
		s.visited[b] = struct{}{}

		child, _, err := s.Select(node)

		require.NoError(t, err)
		require.Same(t, a, child)
	})
}

func TestSimulateTerminalValue(t *testing.T) {
	tests := []struct {
		name   string
		player game.Player
		score  map[game.Player]int
		want   float64
	}{
		{"max ahead as max", game.Max, map[game.Player]int{game.Max: 9, game.Min: 7}, WIN},
		{"max ahead as min", game.Min, map[game.Player]int{game.Max: 9, game.Min: 7}, LOSS},
		{"min ahead as min", game.Min, map[game.Player]int{game.Max: 2, game.Min: 7}, WIN},
		{"level scores", game.Max, map[game.Player]int{game.Max: 8, game.Min: 8}, LOSS},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := &mockOracle{scores: map[string]map[game.Player]int{"root": tt.score}}
			s := NewSession(oracle)
			root := NewNode(&mockBoard{id: "root"}, tt.player, nil)

			got, err := s.Simulate(root)

			require.NoError(t, err)
			require.Equal(t, tt.want, got.Value, "Value should be 1 iff the terminal mover strictly leads")
			require.Equal(t, 1, root.visits)
			require.Equal(t, tt.want, root.mean)
			require.Zero(t, got.Depth)
		})
	}
}

func TestSimulateForcedLine(t *testing.T) {
	oracle := chainOracle()
	s := NewSession(oracle)
	root := NewNode(&mockBoard{id: "root"}, game.Max, nil)

	got, err := s.Simulate(root)

	require.NoError(t, err)
	require.True(t, game.Leads(oracle, &mockBoard{id: "root/a/b/c"}, game.Min))
	require.Equal(t, WIN, got.Value, "Value should be a win for the terminal mover")
	require.Equal(t, mockMove("c"), got.Move, "Rollout should report the terminal node's move")
	require.Equal(t, 3, got.Depth)

	node := root
	for _, want := range []string{"a", "b", "c"} {
		move, err := BestMove(node)
		require.NoError(t, err)
		require.Equal(t, mockMove(want), move)
		require.Equal(t, 1, node.visits)
		require.Equal(t, WIN, node.mean, "Every frame should back up the same value")
		node = node.children[0]
	}
	require.Equal(t, 1, node.visits, "Terminal node should be backed up")
	_, err = BestMove(node)
	require.ErrorIs(t, err, ErrTerminalQuery)
}

func TestSimulateTwoWayConvergence(t *testing.T) {
	s := NewSession(twoWayOracle(), WithChooser(first))
	root := NewNode(&mockBoard{id: "root"}, game.Max, nil)

	for i := 0; i < 2; i++ {
		_, err := s.Simulate(root)
		require.NoError(t, err)
	}
	win, lose := root.children[0], root.children[1]
	require.Equal(t, 1, win.visits, "Warm-up should visit each child once")
	require.Equal(t, 1, lose.visits, "Warm-up should visit each child once")
	require.Equal(t, WIN, win.mean)
	require.Equal(t, LOSS, lose.mean)

	child, move, err := s.Select(root)
	require.NoError(t, err)
	require.Same(t, win, child, "Max root should exploit the child with value 1 history")
	require.Equal(t, mockMove("win"), move)

	for i := 0; i < 30; i++ {
		_, err := s.Simulate(root)
		require.NoError(t, err)
	}
	best, err := BestMove(root)
	require.NoError(t, err)
	require.Equal(t, mockMove("win"), best)
	require.Greater(t, win.visits, lose.visits)
	require.Equal(t, 32, root.visits)
}

func TestSimulateMinRootPrefersComplement(t *testing.T) {
	oracle := &mockOracle{
		moves: map[string][]string{"root": {"good", "bad"}},
		scores: map[string]map[game.Player]int{
			// Children are Max to move; value 0 there is what Min wants
			"root/good": {game.Max: 0, game.Min: 1},
			"root/bad":  {game.Max: 1, game.Min: 0},
		},
	}
	s := NewSession(oracle, WithChooser(first))
	root := NewNode(&mockBoard{id: "root"}, game.Min, nil)

	for i := 0; i < 20; i++ {
		_, err := s.Simulate(root)
		require.NoError(t, err)
	}

	best, err := BestMove(root)
	require.NoError(t, err)
	require.Equal(t, mockMove("good"), best)
}

func TestSimulateWarmUp(t *testing.T) {
	oracle := &mockOracle{
		moves: map[string][]string{"root": {"a", "b", "c", "d"}},
		scores: map[string]map[game.Player]int{
			"root/a": {game.Min: 1},
			"root/c": {game.Min: 1},
		},
	}
	s := NewSession(oracle, WithSeed(7))
	root := NewNode(&mockBoard{id: "root"}, game.Max, nil)

	seen := map[*Node]bool{}
	for i := 0; i < 4; i++ {
		before := map[*Node]int{}
		for _, child := range root.children {
			before[child] = child.visits
		}

		_, err := s.Simulate(root)
		require.NoError(t, err)

		var picked *Node
		for _, child := range root.children {
			if child.visits != before[child] {
				require.Nil(t, picked, "Exactly one child should be visited per pass")
				picked = child
			}
		}
		require.NotNil(t, picked)
		require.False(t, seen[picked], "Pass %d should pick a child not visited before", i+1)
		seen[picked] = true
	}

	for _, child := range root.children {
		require.Equal(t, 1, child.visits)
	}
}

func TestSimulateErrors(t *testing.T) {
	t.Run("failed play surfaces and leaves the path untouched", func(t *testing.T) {
		oracle := &mockOracle{moves: map[string][]string{"root": {"a"}, "root/a": {"b"}}, failOn: "b"}
		s := NewSession(oracle)
		root := NewNode(&mockBoard{id: "root"}, game.Max, nil)

		_, err := s.Simulate(root)

		require.ErrorIs(t, err, ErrOracleInconsistency)
		require.Zero(t, root.visits, "No partial backpropagation on error")
		require.Zero(t, root.children[0].visits)
		require.NotContains(t, s.visited, root)
	})

	t.Run("legal moves vanishing during expansion", func(t *testing.T) {
		oracle := &mockOracle{moves: map[string][]string{"root": {"a"}}, vanish: map[string]bool{"root": true}}
		s := NewSession(oracle)
		root := NewNode(&mockBoard{id: "root"}, game.Max, nil)

		_, err := s.Simulate(root)

		require.ErrorIs(t, err, ErrOracleInconsistency)
		require.Zero(t, root.visits)
	})

	t.Run("expanded node later reported terminal", func(t *testing.T) {
		s := NewSession(&mockOracle{})
		root := NewNode(&mockBoard{id: "root"}, game.Max, nil)
		root.children = []*Node{NewNode(&mockBoard{id: "root/a"}, game.Min, mockMove("a"))}

		_, err := s.Simulate(root)

		require.ErrorIs(t, err, ErrOracleInconsistency)
		require.Zero(t, root.visits)
	})
}

type snapshot struct {
	Move     string
	Visits   int
	Mean     float64
	Children []snapshot
}

func snap(n *Node) snapshot {
	s := snapshot{Move: moveName(n.move), Visits: n.visits, Mean: n.mean}
	for _, child := range n.children {
		s.Children = append(s.Children, snap(child))
	}
	return s
}

func TestSimulateDeterministic(t *testing.T) {
	run := func() snapshot {
		s := NewSession(reversi.NewRules(), WithChooser(first))
		root := NewNode(reversi.NewBoard(4), game.Max, nil)
		for i := 0; i < 40; i++ {
			_, err := s.Simulate(root)
			require.NoError(t, err)
		}
		return snap(root)
	}

	require.Equal(t, run(), run(), "Fixed warm-up choices should give identical trees")
}

func TestSimulateTreeInvariants(t *testing.T) {
	s := NewSession(reversi.NewRules(), WithSeed(2024))
	root := NewNode(reversi.NewBoard(6), game.Max, nil)

	const passes = 200
	require.NotPanics(t, func() {
		for i := 0; i < passes; i++ {
			_, err := s.Simulate(root)
			require.NoError(t, err)
		}
	}, "Warm-up should keep every UCB1 comparison away from unvisited children")
	require.Equal(t, passes, root.visits)

	var walk func(n *Node)
	walk = func(n *Node) {
		require.GreaterOrEqual(t, n.mean, 0.0)
		require.LessOrEqual(t, n.mean, 1.0)
		if !n.Expanded() {
			return
		}
		sum := 0
		for _, child := range n.children {
			require.NotSame(t, n.board, child.board)
			require.Equal(t, n.player.Opponent(), child.player)
			sum += child.visits
			walk(child)
		}
		require.Equal(t, n.visits, sum, "Every pass through an expanded node continues into one child")
	}
	walk(root)
}
