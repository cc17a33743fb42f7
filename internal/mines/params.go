package mines

import (
	"fmt"
	"strings"
)

// SizePresets are the board sizes offered by the terminal menu.
var SizePresets = []int{4, 8, 12}

type Difficulty int8

const (
	Easy Difficulty = iota + 1
	Medium
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("Difficulty(%d)", int8(d))
	}
}

// MineCount is the number of mines a board of the given size carries at
// this difficulty: a sixth, a quarter or a third of its squares.
func (d Difficulty) MineCount(size int) int {
	area := size * size
	switch d {
	case Easy:
		return area / 6
	case Medium:
		return area / 4
	case Hard:
		return area / 3
	default:
		return 0
	}
}

// ParseDifficulty accepts a name ("easy") or a menu number ("1").
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "1":
		return Easy, nil
	case "medium", "2":
		return Medium, nil
	case "hard", "3":
		return Hard, nil
	}
	return 0, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfiguration, s)
}

// [Difficulty] implements [encoding.TextUnmarshaler]
func (d *Difficulty) UnmarshalText(text []byte) error {
	v, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// [Difficulty] implements [encoding.TextMarshaler]
func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type GameParams struct {
	Size, MineCount int
}

func NewGameParams(size int, d Difficulty) (GameParams, error) {
	if d < Easy || d > Hard {
		return GameParams{}, fmt.Errorf(
			"%w: unknown difficulty %v", ErrInvalidConfiguration, d,
		)
	}
	p := GameParams{Size: size, MineCount: d.MineCount(size)}
	return p, p.Validate()
}

func (p GameParams) Validate() error {
	if p.Size < MinSize || p.Size > MaxSize {
		return fmt.Errorf(
			"%w: size %d is outside [%d, %d]",
			ErrInvalidConfiguration, p.Size, MinSize, MaxSize,
		)
	}
	if p.MineCount < 0 || p.MineCount >= p.Size*p.Size {
		return fmt.Errorf(
			"%w: %d mines do not fit a %dx%d grid",
			ErrInvalidConfiguration, p.MineCount, p.Size, p.Size,
		)
	}
	return nil
}

func (p GameParams) PointInBounds(pt Point) bool {
	return 0 <= pt.Row && pt.Row < p.Size && 0 <= pt.Col && pt.Col < p.Size
}
