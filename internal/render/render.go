// Package render draws a board as a text grid with 1-based row and column
// labels.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

func rule(b *strings.Builder, size int) {
	b.WriteString("   +")
	for range size {
		b.WriteString("---+")
	}
	b.WriteString("\n")
}

func square(t mines.Tile) string {
	switch {
	case t == mines.TileHidden:
		return "   |"
	case 0 <= t && t <= 8:
		return fmt.Sprintf(" %2d|", int(t))
	default:
		return "  " + t.String() + "|"
	}
}

func Board(board mines.Board) string {
	var b strings.Builder

	b.WriteString("\n    ")
	for col := range board.Size {
		fmt.Fprintf(&b, " %2d ", col+1)
	}
	b.WriteString("\n")
	rule(&b, board.Size)

	for row := range board.Size {
		fmt.Fprintf(&b, "%2d |", row+1)
		for col := range board.Size {
			b.WriteString(square(board.At(mines.Point{Row: row, Col: col})))
		}
		b.WriteString("\n")
		rule(&b, board.Size)
	}
	return b.String()
}

func Fprint(w io.Writer, board mines.Board) error {
	_, err := io.WriteString(w, Board(board))
	return err
}
