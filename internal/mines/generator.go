package mines

import (
	"fmt"
	"math/rand/v2"
)

// PlaceMines lays the grid's mines uniformly at random over every square
// except exclude. Mines can only be laid once.
func (g *Grid) PlaceMines(r *rand.Rand, exclude Point) error {
	if err := g.check(exclude); err != nil {
		return err
	}
	if g.laid {
		return fmt.Errorf("%w: mines are already laid", ErrIllegalAction)
	}

	skip := exclude.Row*g.size + exclude.Col
	candidates := make([]int, 0, len(g.cells)-1)
	for i := range g.cells {
		if i != skip {
			candidates = append(candidates, i)
		}
	}
	if g.mineCount > len(candidates) {
		return fmt.Errorf(
			"%w: %d mines leave no safe square on a %dx%d grid",
			ErrInvalidConfiguration, g.mineCount, g.size, g.size,
		)
	}

	/*
	 * Pick mineCount squares off the candidate list, swapping the last
	 * remaining candidate into each picked slot.
	 */
	k := len(candidates)
	for range g.mineCount {
		i := r.IntN(k)
		g.cells[candidates[i]].Mine = true
		k--
		candidates[i] = candidates[k]
	}

	g.laid = true
	return nil
}

// PlaceMinesAt lays mines on exactly the given squares. The number of points
// must match the grid's mine count.
func (g *Grid) PlaceMinesAt(points ...Point) error {
	if g.laid {
		return fmt.Errorf("%w: mines are already laid", ErrIllegalAction)
	}
	if len(points) != g.mineCount {
		return fmt.Errorf(
			"%w: got %d mine positions, want %d",
			ErrInvalidConfiguration, len(points), g.mineCount,
		)
	}
	seen := make(map[Point]bool, len(points))
	for _, p := range points {
		if err := g.check(p); err != nil {
			return err
		}
		if seen[p] {
			return fmt.Errorf(
				"%w: mine position %v given twice", ErrInvalidConfiguration, p,
			)
		}
		seen[p] = true
	}
	for _, p := range points {
		g.at(p).Mine = true
	}
	g.laid = true
	return nil
}

// ComputeAdjacency stores, for every safe square, the number of mines among
// its neighbours.
func (g *Grid) ComputeAdjacency() {
	for i := range g.cells {
		c := &g.cells[i]
		c.Adjacent = 0
		if c.Mine {
			continue
		}
		for q := range g.neighbours(g.point(i)) {
			if g.at(q).Mine {
				c.Adjacent++
			}
		}
	}
}
