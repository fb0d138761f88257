package raycast

import (
	"math"
	"math/rand"
	"testing"

	"github.com/charlie572/Blind-Maze-Game/game/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMaze(t *testing.T, width, height int) *maze.Maze {
	t.Helper()
	m, err := maze.New(width, height, maze.WithRandSource(rand.New(rand.NewSource(7))))
	require.NoError(t, err)
	return m
}

func TestCast(t *testing.T) {
	t.Run("rejects a zero direction", func(t *testing.T) {
		m := newMaze(t, 3, 3)
		_, err := Cast(1.5, 1.5, 0, 0, m)
		assert.ErrorIs(t, err, ErrZeroDirection)
	})

	t.Run("axis rays in a sealed cell hit the adjacent grid lines", func(t *testing.T) {
		m := newMaze(t, 1, 1) // ungenerated: all walls present

		cases := []struct {
			name   string
			dx, dy float64
			want   Point
		}{
			{"right", 1, 0, Point{1.0, 0.5}},
			{"left", -1, 0, Point{0.0, 0.5}},
			{"up", 0, -1, Point{0.5, 0.0}},
			{"down", 0, 1, Point{0.5, 1.0}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				hit, err := Cast(0.5, 0.5, tc.dx, tc.dy, m)
				require.NoError(t, err)
				assert.InDelta(t, tc.want.X, hit.X, 1e-12)
				assert.InDelta(t, tc.want.Y, hit.Y, 1e-12)
			})
		}
	})

	t.Run("travels through open walls", func(t *testing.T) {
		m := newMaze(t, 2, 1)
		m.Generate() // the single interior wall must open

		hit, err := Cast(0.5, 0.5, 1, 0, m)
		require.NoError(t, err)
		assert.InDelta(t, 2.0, hit.X, 1e-12)
		assert.InDelta(t, 0.5, hit.Y, 1e-12)
	})

	t.Run("diagonal rays land on grid lines", func(t *testing.T) {
		m := newMaze(t, 5, 5)
		m.Generate()

		angles := []float64{0.3, 1.1, 2.0, 2.9, 3.7, 4.6, 5.5}
		for _, angle := range angles {
			hit, err := Cast(2.25, 2.75, math.Sin(angle), math.Cos(angle), m)
			require.NoError(t, err)

			onVertical := hit.X == math.Trunc(hit.X)
			onHorizontal := hit.Y == math.Trunc(hit.Y)
			assert.True(t, onVertical || onHorizontal,
				"hit (%v, %v) is not on a grid line", hit.X, hit.Y)
		}
	})

	t.Run("unnormalized directions hit the same point", func(t *testing.T) {
		m := newMaze(t, 4, 4)
		m.Generate()

		a, err := Cast(1.5, 2.5, 0.25, 0.75, m)
		require.NoError(t, err)
		b, err := Cast(1.5, 2.5, 1.0, 3.0, m)
		require.NoError(t, err)

		assert.Equal(t, a, b)
	})

	t.Run("terminates on the far boundary of a non-square maze", func(t *testing.T) {
		// 2x4: a downward ray must be able to reach y=4 without an
		// out-of-range query even though the maze is taller than wide.
		m := newMaze(t, 2, 4)
		hit, err := Cast(0.5, 3.5, 0, 1, m)
		require.NoError(t, err)
		assert.InDelta(t, 4.0, hit.Y, 1e-12)
	})

	t.Run("stays within the maze extent", func(t *testing.T) {
		m := newMaze(t, 6, 3)
		m.Generate()

		for _, dir := range [][2]float64{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}, {3, -0.2}} {
			hit, err := Cast(2.5, 1.5, dir[0], dir[1], m)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, hit.X, 0.0)
			assert.GreaterOrEqual(t, hit.Y, 0.0)
			assert.LessOrEqual(t, hit.X, 6.0)
			assert.LessOrEqual(t, hit.Y, 3.0)
		}
	})
}

func TestFan(t *testing.T) {
	m := newMaze(t, 3, 3)
	m.Generate()

	t.Run("yields one hit per ray", func(t *testing.T) {
		count := 0
		for range Fan(1.5, 1.5, m, 64) {
			count++
		}
		assert.Equal(t, 64, count)
	})

	t.Run("ray zero points along positive y", func(t *testing.T) {
		var first Point
		for hit := range Fan(1.5, 1.5, m, 4) {
			first = hit
			break
		}

		straightDown, err := Cast(1.5, 1.5, 0, 1, m)
		require.NoError(t, err)
		assert.Equal(t, straightDown, first)
	})

	t.Run("is restartable", func(t *testing.T) {
		seq := Fan(1.5, 1.5, m, 8)

		var a, b []Point
		for hit := range seq {
			a = append(a, hit)
		}
		for hit := range seq {
			b = append(b, hit)
		}
		assert.Equal(t, a, b)
	})

	t.Run("yields nothing for a non-positive ray count", func(t *testing.T) {
		for range Fan(1.5, 1.5, m, 0) {
			t.Fatal("unexpected ray")
		}
	})
}
