package game

import (
	"math/rand"
	"testing"

	"github.com/charlie572/Blind-Maze-Game/game/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGame(t *testing.T, width, height int, generate bool) *Game {
	t.Helper()
	m, err := maze.New(width, height, maze.WithRandSource(rand.New(rand.NewSource(3))))
	require.NoError(t, err)
	if generate {
		m.Generate()
	}

	g, err := New(Config{Maze: m, Rng: rand.New(rand.NewSource(3))})
	require.NoError(t, err)
	return g
}

func TestNew(t *testing.T) {
	t.Run("requires a maze", func(t *testing.T) {
		_, err := New(Config{})
		assert.ErrorIs(t, err, ErrNilMaze)
	})

	t.Run("spawns the player inside a cell", func(t *testing.T) {
		g := newGame(t, 5, 5, true)
		p := g.Player()

		assert.Equal(t, 0.5, p.Width)
		assert.Equal(t, 0.5, p.Height)
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.GreaterOrEqual(t, p.Y, 0.0)
		assert.Less(t, p.X+p.Width, 5.0)
		assert.Less(t, p.Y+p.Height, 5.0)

		_, err := g.CurrentCell()
		assert.NoError(t, err)
	})
}

func TestSetMoveDirection(t *testing.T) {
	g := newGame(t, 3, 3, true)

	g.SetMoveDirection(1, -1)
	vx, vy := g.Player().Velocity()
	assert.Equal(t, defaultMoveSpeed, vx)
	assert.Equal(t, -defaultMoveSpeed, vy)

	g.SetMoveDirection(0, 0)
	vx, vy = g.Player().Velocity()
	assert.Zero(t, vx)
	assert.Zero(t, vy)
}

func TestUpdate(t *testing.T) {
	t.Run("a sealed cell contains the player for any velocity and dt", func(t *testing.T) {
		cases := []struct {
			name   string
			vx, vy float64
			dt     float64
		}{
			{"slow right", 1, 0, 0.016},
			{"slow diagonal", 1, 1, 0.016},
			{"fast left", -100, 0, 1.0},
			{"fast up", 0, -100, 1.0},
			{"fast diagonal", 75, 75, 2.0},
			{"negative diagonal", -75, -75, 2.0},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				g := newGame(t, 1, 1, false) // ungenerated: all four walls
				p := g.Player()
				p.SetVelocity(tc.vx, tc.vy)

				require.NoError(t, g.Update(tc.dt))

				assert.GreaterOrEqual(t, p.X, 0.0)
				assert.GreaterOrEqual(t, p.Y, 0.0)
				assert.LessOrEqual(t, p.X+p.Width, 1.0)
				assert.LessOrEqual(t, p.Y+p.Height, 1.0)
			})
		}
	})

	t.Run("moves freely through an open wall", func(t *testing.T) {
		g := newGame(t, 2, 1, true) // the single interior wall must open
		p := g.Player()
		p.X, p.Y = 0.25, 0.25
		p.SetVelocity(2, 0)

		for i := 0; i < 30; i++ {
			require.NoError(t, g.Update(0.05))
		}

		cell, err := g.CurrentCell()
		require.NoError(t, err)
		assert.Equal(t, 1, cell.X)
	})

	t.Run("clamps against a closed interior wall", func(t *testing.T) {
		g := newGame(t, 2, 1, false) // wall between the two cells
		p := g.Player()
		p.X, p.Y = 0.25, 0.25
		p.SetVelocity(10, 0)

		require.NoError(t, g.Update(1.0))

		assert.Equal(t, 0.5, p.X) // flush against the wall at x=1
		cell, err := g.CurrentCell()
		require.NoError(t, err)
		assert.Equal(t, 0, cell.X)
	})

	t.Run("does not zero velocity on collision", func(t *testing.T) {
		g := newGame(t, 1, 1, false)
		p := g.Player()
		p.SetVelocity(5, 0)

		require.NoError(t, g.Update(1.0))
		vx, _ := p.Velocity()
		assert.Equal(t, 5.0, vx)
	})

	t.Run("fails when the player center leaves the maze", func(t *testing.T) {
		g := newGame(t, 1, 1, false)
		g.Player().X = 5 // forced out of bounds

		assert.ErrorIs(t, g.Update(0.1), maze.ErrOutOfBounds)
	})
}
