package mines

// Reveal opens p and, when p has no neighbouring mines, keeps opening hidden
// neighbours until the empty region and its numbered border are exposed. It
// returns the number of squares opened. Squares that are not hidden are left
// alone, so revealing twice is a no-op.
//
// Reveal does not check for mines; callers decide what opening a mine means.
func (g *Grid) Reveal(p Point) (int, error) {
	if err := g.check(p); err != nil {
		return 0, err
	}
	if g.at(p).State != Hidden {
		return 0, nil
	}

	opened := 0
	todo := []Point{p}
	for len(todo) > 0 {
		q := todo[len(todo)-1]
		todo = todo[:len(todo)-1]

		c := g.at(q)
		if c.State != Hidden {
			continue
		}
		c.State = Revealed
		opened++

		if c.Mine || c.Adjacent != 0 {
			continue
		}
		for n := range g.neighbours(q) {
			if g.at(n).State == Hidden {
				todo = append(todo, n)
			}
		}
	}
	return opened, nil
}

// CheckWin reports whether the covered squares, hidden or flagged, are
// exactly the mines.
func (g *Grid) CheckWin() bool {
	covered := 0
	for _, c := range g.cells {
		if c.State == Revealed {
			continue
		}
		if !c.Mine {
			return false
		}
		covered++
	}
	return covered == g.mineCount
}
