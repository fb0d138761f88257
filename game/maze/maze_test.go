package maze

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMaze(t *testing.T, width, height int) *Maze {
	t.Helper()
	m, err := New(width, height, WithRandSource(rand.New(rand.NewSource(42))))
	require.NoError(t, err)
	return m
}

// openPairs counts interior edges with no wall on either side.
func openPairs(t *testing.T, m *Maze) int {
	t.Helper()
	count := 0
	for _, cell := range m.Cells() {
		if cell.X+1 < m.Width() && !cell.Right {
			count++
		}
		if cell.Y+1 < m.Height() && !cell.Bottom {
			count++
		}
	}
	return count
}

// reachable runs a breadth-first traversal from (0, 0) through open walls.
func reachable(t *testing.T, m *Maze) int {
	t.Helper()
	seen := map[[2]int]bool{{0, 0}: true}
	queue := [][2]int{{0, 0}}
	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]
		cell, err := m.CellAt(pos[0], pos[1])
		require.NoError(t, err)

		for _, side := range []Side{Top, Left, Bottom, Right} {
			if cell.Wall(side) {
				continue
			}
			dx, dy := side.Delta()
			next := [2]int{pos[0] + dx, pos[1] + dy}
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return len(seen)
}

func TestNew(t *testing.T) {
	t.Run("rejects non-positive dimensions", func(t *testing.T) {
		for _, dims := range [][2]int{{0, 5}, {5, 0}, {-1, 3}, {0, 0}} {
			_, err := New(dims[0], dims[1])
			assert.ErrorIs(t, err, ErrInvalidDimensions)
		}
	})

	t.Run("rejects oversized dimensions", func(t *testing.T) {
		_, err := New(maxMazeDimension+1, 5)
		assert.ErrorIs(t, err, ErrInvalidDimensions)
	})

	t.Run("starts with all walls present", func(t *testing.T) {
		m := newTestMaze(t, 3, 3)
		for _, cell := range m.Cells() {
			assert.Equal(t, [4]bool{true, true, true, true}, cell.Walls())
		}
	})
}

func TestGenerate(t *testing.T) {
	t.Run("single cell maze keeps all four walls", func(t *testing.T) {
		m := newTestMaze(t, 1, 1)
		m.Generate()

		cell, err := m.CellAt(0, 0)
		require.NoError(t, err)
		assert.True(t, cell.Left)
		assert.True(t, cell.Right)
		assert.True(t, cell.Top)
		assert.True(t, cell.Bottom)
	})

	t.Run("two cell maze opens exactly the shared wall", func(t *testing.T) {
		m := newTestMaze(t, 2, 1)
		m.Generate()

		left, err := m.CellAt(0, 0)
		require.NoError(t, err)
		right, err := m.CellAt(1, 0)
		require.NoError(t, err)

		assert.False(t, left.Right)
		assert.False(t, right.Left)

		assert.True(t, left.Left)
		assert.True(t, left.Top)
		assert.True(t, left.Bottom)
		assert.True(t, right.Right)
		assert.True(t, right.Top)
		assert.True(t, right.Bottom)
	})

	t.Run("produces a spanning tree", func(t *testing.T) {
		for _, dims := range [][2]int{{2, 2}, {5, 5}, {20, 10}, {7, 13}} {
			m := newTestMaze(t, dims[0], dims[1])
			m.Generate()

			cellCount := dims[0] * dims[1]
			assert.Equal(t, cellCount-1, openPairs(t, m))
			assert.Equal(t, cellCount, reachable(t, m))
		}
	})

	t.Run("interior walls are symmetric", func(t *testing.T) {
		m := newTestMaze(t, 8, 6)
		m.Generate()

		for _, cell := range m.Cells() {
			if cell.X+1 < m.Width() {
				neighbor, err := m.CellAt(cell.X+1, cell.Y)
				require.NoError(t, err)
				assert.Equal(t, cell.Right, neighbor.Left)
			}
			if cell.Y+1 < m.Height() {
				neighbor, err := m.CellAt(cell.X, cell.Y+1)
				require.NoError(t, err)
				assert.Equal(t, cell.Bottom, neighbor.Top)
			}
		}
	})

	t.Run("boundary walls stay closed", func(t *testing.T) {
		m := newTestMaze(t, 9, 4)
		m.Generate()

		for _, cell := range m.Cells() {
			if cell.X == 0 {
				assert.True(t, cell.Left)
			}
			if cell.X == m.Width()-1 {
				assert.True(t, cell.Right)
			}
			if cell.Y == 0 {
				assert.True(t, cell.Top)
			}
			if cell.Y == m.Height()-1 {
				assert.True(t, cell.Bottom)
			}
		}
	})

	t.Run("regeneration leaves no stale state", func(t *testing.T) {
		m := newTestMaze(t, 6, 6)
		m.Generate()
		m.Generate()

		// A leaked open wall from the first run would show up as an
		// extra open pair; a leaked visit mark as an unreachable cell.
		assert.Equal(t, 6*6-1, openPairs(t, m))
		assert.Equal(t, 6*6, reachable(t, m))
	})
}

func TestCellAt(t *testing.T) {
	m := newTestMaze(t, 4, 3)

	t.Run("rejects out of range positions", func(t *testing.T) {
		for _, pos := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 3}, {4, 3}} {
			_, err := m.CellAt(pos[0], pos[1])
			assert.ErrorIs(t, err, ErrOutOfBounds)
		}
	})

	t.Run("reports its own coordinates", func(t *testing.T) {
		cell, err := m.CellAt(2, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, cell.X)
		assert.Equal(t, 1, cell.Y)
	})
}

func TestCells(t *testing.T) {
	m := newTestMaze(t, 3, 2)
	cells := m.Cells()

	require.Len(t, cells, 6)
	// Row-major: y advances only after a full row of x.
	expected := [][2]int{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}
	for i, pos := range expected {
		assert.Equal(t, pos[0], cells[i].X)
		assert.Equal(t, pos[1], cells[i].Y)
	}
}

func TestSide(t *testing.T) {
	assert.Equal(t, Bottom, Top.Opposite())
	assert.Equal(t, Right, Left.Opposite())
	assert.Equal(t, Top, Bottom.Opposite())
	assert.Equal(t, Left, Right.Opposite())

	dx, dy := Top.Delta()
	assert.Equal(t, 0, dx)
	assert.Equal(t, -1, dy)
	dx, dy = Right.Delta()
	assert.Equal(t, 1, dx)
	assert.Equal(t, 0, dy)
}
