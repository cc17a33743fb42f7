package mines

import "errors"

var (
	// ErrInvalidConfiguration is returned for an unsupported board size or a
	// mine count the board cannot hold.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrOutOfBounds is returned for coordinates outside the grid.
	ErrOutOfBounds = errors.New("out of bounds")
	// ErrIllegalAction is returned for a move the round does not allow in its
	// current state.
	ErrIllegalAction = errors.New("illegal action")
)
