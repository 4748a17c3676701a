package searcher

import (
	"fmt"
	"reversi/game"
	"reversi/utils"
)

// Node is a position in the search tree. The board, player and move are fixed
// at construction; only the statistics and the lazily expanded children change.
type Node struct {
	board    game.Board
	player   game.Player
	move     game.Move // nil for a root
	mean     float64   // running mean of terminal outcomes, in [0, 1]
	visits   int
	children []*Node
}

// NewNode takes ownership of board; callers pass a copy they no longer mutate.
func NewNode(board game.Board, player game.Player, move game.Move) *Node {
	return &Node{
		board:  board,
		player: player,
		move:   move,
	}
}

func (n *Node) Board() game.Board {
	return n.board
}

func (n *Node) Player() game.Player {
	return n.player
}

func (n *Node) Move() game.Move {
	return n.move
}

func (n *Node) Mean() float64 {
	return n.mean
}

func (n *Node) Visits() int {
	return n.visits
}

// Children returns the expanded children in move generation order. The slice
// must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) Expanded() bool {
	return len(n.children) > 0
}

// backup folds one terminal value into the running mean.
func (n *Node) backup(value float64) {
	n.mean = (n.mean*float64(n.visits) + value) / float64(n.visits+1)
	n.visits++
}

// BestMove returns the move of the most visited child. Ties go to the child
// generated first.
func BestMove(n *Node) (game.Move, error) {
	if len(n.children) == 0 {
		return nil, fmt.Errorf("%w: no children to choose from", ErrTerminalQuery)
	}

	visits := make([]int, len(n.children))
	for i, child := range n.children {
		visits[i] = child.visits
	}
	return n.children[utils.ArgMax(visits)].move, nil
}
