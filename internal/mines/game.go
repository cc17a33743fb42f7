package mines

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

type Status int8

const (
	InProgress Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("Status(%d)", int8(s))
	}
}

// [Status] implements [encoding.TextMarshaler]
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s Status) Over() bool {
	return s != InProgress
}

// Round is one game on one grid. It is not safe for concurrent use.
type Round struct {
	GameParams
	grid     *Grid
	rnd      *rand.Rand
	status   Status
	exploded *Point
}

func NewRound(params GameParams, r *rand.Rand) (*Round, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	grid, err := NewGrid(params.Size, params.MineCount)
	if err != nil {
		return nil, err
	}
	round := &Round{
		GameParams: params,
		grid:       grid,
		rnd:        r,
	}
	return round, nil
}

func (s *Round) Status() Status { return s.status }

// Clone returns an independent copy of the round sharing its random source.
func (s *Round) Clone() *Round {
	c := *s
	grid := *s.grid
	grid.cells = slices.Clone(s.grid.cells)
	c.grid = &grid
	if s.exploded != nil {
		p := *s.exploded
		c.exploded = &p
	}
	return &c
}

// Started reports whether the first square has been opened.
func (s *Round) Started() bool { return s.grid.Laid() }

func (s *Round) Cell(p Point) (Cell, error) { return s.grid.Cell(p) }

func (s *Round) CheckWin() bool { return s.grid.CheckWin() }

func (s *Round) playable(p Point) error {
	if err := s.grid.check(p); err != nil {
		return err
	}
	if s.status.Over() {
		return fmt.Errorf("%w: round is %v", ErrIllegalAction, s.status)
	}
	return nil
}

// ToggleFlag flips a hidden square to flagged and back. Opened squares are
// left as they are.
func (s *Round) ToggleFlag(p Point) error {
	if err := s.playable(p); err != nil {
		return err
	}
	c := s.grid.at(p)
	switch c.State {
	case Hidden:
		c.State = Flagged
	case Flagged:
		c.State = Hidden
	}
	return nil
}

// RevealFirst lays the mines around p, so that p is safe, and opens it.
func (s *Round) RevealFirst(p Point) (int, error) {
	if err := s.playable(p); err != nil {
		return 0, err
	}
	if s.grid.Laid() {
		return 0, fmt.Errorf("%w: first square already opened", ErrIllegalAction)
	}
	if s.grid.at(p).State == Flagged {
		return 0, fmt.Errorf("%w: %v is flagged", ErrIllegalAction, p)
	}
	if err := s.grid.PlaceMines(s.rnd, p); err != nil {
		return 0, err
	}
	s.grid.ComputeAdjacency()
	return s.reveal(p)
}

// Reveal opens a safe square of a started round. Mines must be handled by
// the caller; use [Round.Open] for a full player move.
func (s *Round) Reveal(p Point) (int, error) {
	if err := s.playable(p); err != nil {
		return 0, err
	}
	if !s.grid.Laid() {
		return 0, fmt.Errorf("%w: first square must be opened with RevealFirst", ErrIllegalAction)
	}
	c := s.grid.at(p)
	if c.State == Flagged {
		return 0, fmt.Errorf("%w: %v is flagged", ErrIllegalAction, p)
	}
	if c.Mine && c.State == Hidden {
		return 0, fmt.Errorf("%w: %v is a mine", ErrIllegalAction, p)
	}
	return s.reveal(p)
}

func (s *Round) reveal(p Point) (int, error) {
	opened, err := s.grid.Reveal(p)
	if err != nil {
		return opened, err
	}
	if s.grid.CheckWin() {
		s.status = Won
	}
	return opened, nil
}

// Open is a player's attempt to uncover p. The first open of a round lays
// the mines; opening a mine ends the round and exposes every mine.
func (s *Round) Open(p Point) (int, error) {
	if err := s.playable(p); err != nil {
		return 0, err
	}
	c := s.grid.at(p)
	if c.State == Flagged {
		return 0, fmt.Errorf("%w: %v is flagged, unflag it first", ErrIllegalAction, p)
	}
	if !s.grid.Laid() {
		return s.RevealFirst(p)
	}
	if c.Mine {
		s.explode(p)
		return 0, nil
	}
	return s.reveal(p)
}

// Forfeit ends a round in progress as lost.
func (s *Round) Forfeit() {
	if s.status.Over() {
		return
	}
	s.status = Lost
	s.grid.revealMines()
}

func (s *Round) explode(p Point) {
	s.status = Lost
	s.exploded = &p
	s.grid.revealMines()
}
