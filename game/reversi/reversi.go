// Package reversi implements the Reversi rules as a game.Oracle.
//
// A side without a legal placement ends the game; there is no passing.
package reversi

import (
	"errors"
	"fmt"
	"reversi/game"
	"strconv"
	"strings"
)

const (
	Empty byte = '.'
	Black byte = 'X' // played by game.Max
	White byte = 'O' // played by game.Min
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrBoardType   = errors.New("unexpected board type")
	ErrMoveType    = errors.New("unexpected move type")
	ErrBoardFormat = errors.New("malformed board")
)

var directions = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Tile returns the disc colour placed by player.
func Tile(player game.Player) byte {
	if player == game.Max {
		return Black
	}
	return White
}

// Move places a disc at (Row, Col), both zero based.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String formats the move as column letter plus row number, e.g. "d3".
func (m Move) String() string {
	return fmt.Sprintf("%c%d", 'a'+m.Col, m.Row+1)
}

// ParseMove reads a move in the format produced by Move.String.
func ParseMove(s string) (Move, error) {
	if len(s) < 2 || s[0] < 'a' || s[0] > 'z' {
		return Move{}, fmt.Errorf("failed to parse move %q: want a column letter then a row number", s)
	}
	row, err := strconv.Atoi(s[1:])
	if err != nil {
		return Move{}, fmt.Errorf("failed to parse move %q: %w", s, err)
	}
	if row < 1 || s[1] == '+' {
		return Move{}, fmt.Errorf("failed to parse move %q: row out of range", s)
	}
	return Move{Row: row - 1, Col: int(s[0] - 'a')}, nil
}

// Board is a square grid of discs stored row by row.
type Board struct {
	size  int
	cells []byte
}

// NewBoard returns the standard opening position on a size x size board.
func NewBoard(size int) *Board {
	if size < 4 || size%2 != 0 {
		panic(fmt.Sprintf("board size must be even and at least 4, got %d", size))
	}
	b := &Board{size: size, cells: make([]byte, size*size)}
	for i := range b.cells {
		b.cells[i] = Empty
	}
	h := size / 2
	b.set(h-1, h-1, White)
	b.set(h, h, White)
	b.set(h-1, h, Black)
	b.set(h, h-1, Black)
	return b
}

// ParseBoard builds a board from rows of 'X', 'O' and '.' characters.
func ParseBoard(rows []string) (*Board, error) {
	size := len(rows)
	if size == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrBoardFormat)
	}
	b := &Board{size: size, cells: make([]byte, 0, size*size)}
	for r, row := range rows {
		if len(row) != size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrBoardFormat, r, len(row), size)
		}
		for c := 0; c < size; c++ {
			switch row[c] {
			case Empty, Black, White:
				b.cells = append(b.cells, row[c])
			default:
				return nil, fmt.Errorf("%w: unexpected cell %q at %d,%d", ErrBoardFormat, row[c], r, c)
			}
		}
	}
	return b, nil
}

func (b *Board) Size() int {
	return b.size
}

// At returns the disc at (row, col).
func (b *Board) At(row, col int) byte {
	return b.cells[row*b.size+col]
}

func (b *Board) set(row, col int, tile byte) {
	b.cells[row*b.size+col] = tile
}

func (b *Board) onBoard(row, col int) bool {
	return row >= 0 && row < b.size && col >= 0 && col < b.size
}

// Rows formats the board as one string per row.
func (b *Board) Rows() []string {
	rows := make([]string, b.size)
	for r := range rows {
		rows[r] = string(b.cells[r*b.size : (r+1)*b.size])
	}
	return rows
}

func (b *Board) String() string {
	return strings.Join(b.Rows(), "\n")
}

func (b *Board) Equal(other game.Board) bool {
	o, ok := other.(*Board)
	if !ok || o == nil || b == nil {
		return false
	}
	return b.size == o.size && string(b.cells) == string(o.cells)
}

func (b *Board) clone() *Board {
	cells := make([]byte, len(b.cells))
	copy(cells, b.cells)
	return &Board{size: b.size, cells: cells}
}

// flips lists the discs turned over if tile is placed at (row, col).
// An empty result means the placement is illegal.
func (b *Board) flips(row, col int, tile byte) [][2]int {
	if !b.onBoard(row, col) || b.At(row, col) != Empty {
		return nil
	}
	other := White
	if tile == White {
		other = Black
	}

	var flipped [][2]int
	for _, d := range directions {
		r, c := row+d[0], col+d[1]
		var line [][2]int
		for b.onBoard(r, c) && b.At(r, c) == other {
			line = append(line, [2]int{r, c})
			r, c = r+d[0], c+d[1]
		}
		if len(line) > 0 && b.onBoard(r, c) && b.At(r, c) == tile {
			flipped = append(flipped, line...)
		}
	}
	return flipped
}

// Rules is the Reversi game.Oracle.
type Rules struct{}

func NewRules() Rules {
	return Rules{}
}

func (Rules) LegalMoves(board game.Board, player game.Player) []game.Move {
	b, ok := board.(*Board)
	if !ok {
		return nil
	}
	tile := Tile(player)
	var moves []game.Move
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			if len(b.flips(r, c, tile)) > 0 {
				moves = append(moves, Move{Row: r, Col: c})
			}
		}
	}
	return moves
}

func (Rules) Play(board game.Board, player game.Player, move game.Move) (game.Board, error) {
	b, ok := board.(*Board)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrBoardType, board)
	}
	m, ok := move.(Move)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrMoveType, move)
	}

	tile := Tile(player)
	flipped := b.flips(m.Row, m.Col, tile)
	if len(flipped) == 0 {
		return nil, fmt.Errorf("%w: %s for %s", ErrIllegalMove, m, player)
	}

	next := b.clone()
	next.set(m.Row, m.Col, tile)
	for _, p := range flipped {
		next.set(p[0], p[1], tile)
	}
	return next, nil
}

func (Rules) Score(board game.Board) map[game.Player]int {
	score := map[game.Player]int{game.Max: 0, game.Min: 0}
	b, ok := board.(*Board)
	if !ok {
		return score
	}
	for _, cell := range b.cells {
		switch cell {
		case Black:
			score[game.Max]++
		case White:
			score[game.Min]++
		}
	}
	return score
}

func (Rules) Copy(board game.Board) game.Board {
	b, ok := board.(*Board)
	if !ok {
		return board
	}
	return b.clone()
}

// ParsePlayer accepts a disc colour ("X", "O") or a player name ("max", "min").
func ParsePlayer(s string) (game.Player, error) {
	switch strings.ToLower(s) {
	case "x", "max":
		return game.Max, nil
	case "o", "min":
		return game.Min, nil
	default:
		return 0, fmt.Errorf("unknown player %q", s)
	}
}
