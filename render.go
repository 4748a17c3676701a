package main

import (
	"fmt"
	"io"
	"reversi/game"
	"reversi/game/reversi"
	"strings"

	"github.com/muesli/termenv"
)

type renderer struct {
	w      io.Writer
	output *termenv.Output
}

func newRenderer(w io.Writer) *renderer {
	return &renderer{w: w, output: termenv.NewOutput(w)}
}

func (r *renderer) tile(tile byte, last bool) string {
	s := r.output.String(string(tile))
	switch tile {
	case reversi.Black:
		s = s.Foreground(termenv.ANSIBrightWhite).Bold()
	case reversi.White:
		s = s.Foreground(termenv.ANSIRed).Bold()
	default:
		s = s.Faint()
	}
	if last {
		s = s.Underline()
	}
	return s.String()
}

// board prints the grid with column letters and row numbers, underlining the
// square of the last move.
func (r *renderer) board(b *reversi.Board, last game.Move) {
	var sb strings.Builder
	sb.WriteString("   ")
	for c := 0; c < b.Size(); c++ {
		sb.WriteString(fmt.Sprintf("%c ", 'a'+c))
	}
	sb.WriteString("\n")
	for row := 0; row < b.Size(); row++ {
		sb.WriteString(fmt.Sprintf("%2d ", row+1))
		for col := 0; col < b.Size(); col++ {
			sb.WriteString(r.tile(b.At(row, col), last == reversi.Move{Row: row, Col: col}))
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}
	fmt.Fprintln(r.w, sb.String())
}

func (r *renderer) move(step int, player game.Player, move game.Move) {
	fmt.Fprintf(r.w, "%d. %s plays %s\n", step, r.tile(reversi.Tile(player), false), move)
}

func (r *renderer) result(winner game.Player, score map[game.Player]int) {
	line := fmt.Sprintf("X %d : %d O, winner: %s", score[game.Max], score[game.Min], winner)
	fmt.Fprintln(r.w, r.output.String(line).Bold().String())
}
