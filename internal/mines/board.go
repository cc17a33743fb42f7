package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// Tile is what a player sees on a square:
//
//   - 0 to 8 mean the square is open and has that many neighbouring mines.
//   - -1 means the square is flagged.
//   - -2 means the square is still covered.
//   - 64 means a mine shown after the round was lost.
//   - 65 means the mine the player opened.
type Tile int8

const (
	TileFlagged  Tile = -1
	TileHidden   Tile = -2
	TileMine     Tile = 64
	TileExploded Tile = 65
)

func (t Tile) String() string {
	switch {
	case t == TileHidden:
		return " "
	case t == TileFlagged:
		return "F"
	case t == TileMine:
		return "*"
	case t == TileExploded:
		return "X"
	case 0 <= t && t <= 8:
		return strconv.Itoa(int(t))
	default:
		return "!"
	}
}

func (t Tile) Covered() bool {
	return t == TileHidden || t == TileFlagged
}

func tileOf(c Cell) Tile {
	switch c.State {
	case Hidden:
		return TileHidden
	case Flagged:
		return TileFlagged
	}
	if c.Mine {
		return TileMine
	}
	return Tile(c.Adjacent)
}

// Board is a read-only snapshot of a round as the player sees it.
type Board struct {
	Size  int    `json:"size"`
	Tiles []Tile `json:"tiles"`
}

func (b Board) At(p Point) Tile {
	return b.Tiles[p.Row*b.Size+p.Col]
}

func (b Board) ToString() string {
	var sb strings.Builder
	for row := range b.Size {
		for col := range b.Size {
			fmt.Fprint(&sb, b.At(Point{row, col}).String()+" ")
		}
		fmt.Fprint(&sb, "\n")
	}
	return sb.String()
}

func (s *Round) Board() Board {
	tiles := make([]Tile, len(s.grid.cells))
	for i, c := range s.grid.cells {
		tiles[i] = tileOf(c)
	}
	if s.exploded != nil {
		tiles[s.exploded.Row*s.grid.size+s.exploded.Col] = TileExploded
	}
	return Board{Size: s.grid.size, Tiles: tiles}
}
