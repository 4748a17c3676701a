package game

import "fmt"

// Player identifies the side to move. The two identities are symmetric:
// Max maximizes the stored reward, Min maximizes its complement.
type Player int

const (
	Max Player = iota
	Min
)

// Draw is reported by the engine when neither side comes out ahead.
const Draw Player = -1

func (p Player) Opponent() Player {
	if p == Max {
		return Min
	}
	return Max
}

func (p Player) String() string {
	switch p {
	case Max:
		return "max"
	case Min:
		return "min"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("player(%d)", int(p))
	}
}

// Move is an opaque action produced by an Oracle.
type Move interface {
	String() string
}

// Board is an opaque snapshot of a game position. Equal compares positions by
// value and is used to decide whether a search tree can be reused.
type Board interface {
	Equal(other Board) bool
	String() string
}

// Oracle supplies the rules of the game. The search never inspects a Board
// itself; every question about the position goes through the Oracle.
type Oracle interface {
	// LegalMoves lists the moves available to player in a deterministic order.
	// An empty list marks a terminal position.
	LegalMoves(board Board, player Player) []Move
	// Play returns the board after player makes move. The returned board must
	// not share mutable state with the input.
	Play(board Board, player Player, move Move) (Board, error)
	// Score tallies each player's score on board.
	Score(board Board) map[Player]int
	// Copy returns an independent deep copy of board.
	Copy(board Board) Board
}

// Leads reports whether player's score strictly exceeds the opponent's score
// on board.
func Leads(oracle Oracle, board Board, player Player) bool {
	score := oracle.Score(board)
	return score[player] > score[player.Opponent()]
}

// Winner returns the player with the strictly higher score, or Draw.
func Winner(oracle Oracle, board Board) Player {
	score := oracle.Score(board)
	switch {
	case score[Max] > score[Min]:
		return Max
	case score[Min] > score[Max]:
		return Min
	default:
		return Draw
	}
}
