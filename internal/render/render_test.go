package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

func TestBoard(t *testing.T) {
	h, f := mines.TileHidden, mines.TileFlagged
	board := mines.Board{
		Size: 4,
		Tiles: []mines.Tile{
			0, 1, h, h,
			0, 2, f, h,
			0, 1, mines.TileMine, mines.TileExploded,
			0, 1, 2, 8,
		},
	}

	want := "\n" +
		"      1   2   3   4 \n" +
		"   +---+---+---+---+\n" +
		" 1 |  0|  1|   |   |\n" +
		"   +---+---+---+---+\n" +
		" 2 |  0|  2|  F|   |\n" +
		"   +---+---+---+---+\n" +
		" 3 |  0|  1|  *|  X|\n" +
		"   +---+---+---+---+\n" +
		" 4 |  0|  1|  2|  8|\n" +
		"   +---+---+---+---+\n"

	assert.Equal(t, want, Board(board))

	var buf bytes.Buffer
	require.NoError(t, Fprint(&buf, board))
	assert.Equal(t, want, buf.String())
}

func TestBoardTwoDigitLabels(t *testing.T) {
	tiles := make([]mines.Tile, 12*12)
	for i := range tiles {
		tiles[i] = mines.TileHidden
	}
	out := Board(mines.Board{Size: 12, Tiles: tiles})
	assert.Contains(t, out, "  10  11  12 \n")
	assert.Contains(t, out, "12 |   |")
}
