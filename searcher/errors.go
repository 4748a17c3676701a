package searcher

import "errors"

var (
	// ErrTerminalQuery is returned when a move is requested from a node that
	// has no children to choose from.
	ErrTerminalQuery = errors.New("query on a node without children")
	// ErrOracleInconsistency is returned when the rules oracle contradicts
	// itself during a simulation.
	ErrOracleInconsistency = errors.New("rules oracle is inconsistent")
	// ErrNilBoard is returned when a move is requested for a nil board.
	ErrNilBoard = errors.New("nil board")
)
