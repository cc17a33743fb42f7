package mines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDifficultyMineCount(t *testing.T) {
	tests := []struct {
		size int
		d    Difficulty
		want int
	}{
		{4, Easy, 2},
		{4, Medium, 4},
		{4, Hard, 5},
		{8, Easy, 10},
		{8, Medium, 16},
		{8, Hard, 21},
		{12, Easy, 24},
		{12, Medium, 36},
		{12, Hard, 48},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, test.d.MineCount(test.size), "%d %v", test.size, test.d)

		params, err := NewGameParams(test.size, test.d)
		require.NoError(t, err)
		assert.Equal(t, GameParams{Size: test.size, MineCount: test.want}, params)
	}
}

func TestNewGameParamsInvalid(t *testing.T) {
	_, err := NewGameParams(3, Easy)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	_, err = NewGameParams(8, Difficulty(7))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestParseDifficulty(t *testing.T) {
	for in, want := range map[string]Difficulty{
		"easy": Easy, "1": Easy, " Medium ": Medium, "2": Medium, "HARD": Hard, "3": Hard,
	} {
		d, err := ParseDifficulty(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, d, in)
	}

	_, err := ParseDifficulty("4")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	var d Difficulty
	require.NoError(t, d.UnmarshalText([]byte("medium")))
	assert.Equal(t, Medium, d)
	b, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "medium", string(b))
}

func TestGridBounds(t *testing.T) {
	g, err := NewGrid(4, 2)
	require.NoError(t, err)

	assert.True(t, g.InBounds(Point{0, 0}))
	assert.True(t, g.InBounds(Point{3, 3}))
	assert.False(t, g.InBounds(Point{4, 0}))
	assert.False(t, g.InBounds(Point{0, -1}))

	_, err = g.Cell(Point{2, 4})
	assert.ErrorIs(t, err, ErrOutOfBounds)

	c, err := g.Cell(Point{2, 2})
	require.NoError(t, err)
	assert.Equal(t, Cell{}, c)

	count := func(p Point) (n int) {
		for range g.neighbours(p) {
			n++
		}
		return
	}
	assert.Equal(t, 3, count(Point{0, 0}))
	assert.Equal(t, 5, count(Point{0, 2}))
	assert.Equal(t, 8, count(Point{1, 1}))
	assert.Equal(t, 3, count(Point{3, 3}))
}

func TestTileString(t *testing.T) {
	assert.Equal(t, " ", TileHidden.String())
	assert.Equal(t, "F", TileFlagged.String())
	assert.Equal(t, "*", TileMine.String())
	assert.Equal(t, "X", TileExploded.String())
	assert.Equal(t, "0", Tile(0).String())
	assert.Equal(t, "8", Tile(8).String())
	assert.True(t, TileFlagged.Covered())
	assert.False(t, Tile(3).Covered())
}
