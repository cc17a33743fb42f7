package mines

import (
	"fmt"
	"iter"
)

const (
	MinSize = 4
	MaxSize = 12
)

type CellState int8

const (
	Hidden CellState = iota
	Flagged
	Revealed
)

func (s CellState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Flagged:
		return "flagged"
	case Revealed:
		return "revealed"
	default:
		return fmt.Sprintf("CellState(%d)", int8(s))
	}
}

type Point struct {
	Row, Col int
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

// Cell holds both what the square is (Mine, Adjacent) and what the player
// knows about it (State).
type Cell struct {
	Mine     bool
	Adjacent int8
	State    CellState
}

// Grid is a square board stored row-major. Mines are laid at most once per
// grid; until then every cell reads as an empty square.
type Grid struct {
	size      int
	mineCount int
	laid      bool
	cells     []Cell
}

func NewGrid(size, mineCount int) (*Grid, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf(
			"%w: size %d is outside [%d, %d]",
			ErrInvalidConfiguration, size, MinSize, MaxSize,
		)
	}
	if mineCount < 0 || mineCount >= size*size {
		return nil, fmt.Errorf(
			"%w: %d mines do not fit a %dx%d grid",
			ErrInvalidConfiguration, mineCount, size, size,
		)
	}
	g := &Grid{
		size:      size,
		mineCount: mineCount,
		cells:     make([]Cell, size*size),
	}
	return g, nil
}

func (g *Grid) Size() int      { return g.size }
func (g *Grid) MineCount() int { return g.mineCount }

// Laid reports whether mines have been placed on the grid.
func (g *Grid) Laid() bool { return g.laid }

func (g *Grid) InBounds(p Point) bool {
	return 0 <= p.Row && p.Row < g.size && 0 <= p.Col && p.Col < g.size
}

func (g *Grid) check(p Point) error {
	if !g.InBounds(p) {
		return fmt.Errorf(
			"%w: %v on a %dx%d grid", ErrOutOfBounds, p, g.size, g.size,
		)
	}
	return nil
}

func (g *Grid) Cell(p Point) (Cell, error) {
	if err := g.check(p); err != nil {
		return Cell{}, err
	}
	return *g.at(p), nil
}

// at skips the bounds check; callers validate p first.
func (g *Grid) at(p Point) *Cell {
	return &g.cells[p.Row*g.size+p.Col]
}

func (g *Grid) point(i int) Point {
	return Point{Row: i / g.size, Col: i % g.size}
}

// Points yields every cell position in row-major order.
func (g *Grid) Points() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for i := range g.cells {
			if !yield(g.point(i)) {
				return
			}
		}
	}
}

// neighbours yields the up to eight in-bounds squares around p.
func (g *Grid) neighbours(p Point) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				q := Point{Row: p.Row + dr, Col: p.Col + dc}
				if !g.InBounds(q) {
					continue
				}
				if !yield(q) {
					return
				}
			}
		}
	}
}

// revealMines exposes every mine for the end-of-round display.
func (g *Grid) revealMines() {
	for i := range g.cells {
		if g.cells[i].Mine {
			g.cells[i].State = Revealed
		}
	}
}
