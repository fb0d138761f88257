/*
Package maze provides tools for creating and querying rectangular mazes.

A Maze owns a grid of wall masks, one per cell. Generate carves the grid
into a perfect maze: a spanning tree over the grid graph, with exactly one
path between any two cells and every outer wall intact. Cell queries decode
the stored masks into immutable Cell values.

The package includes an ASCII visualization of the maze for debugging.
*/
package maze

import (
	"errors"
	"math/rand"
	"strings"
	"time"
)

const maxMazeDimension = 100

var (
	ErrInvalidDimensions = errors.New("invalid maze dimensions")
	ErrOutOfBounds       = errors.New("cell position out of bounds")
)

// Maze is a rectangular grid of cells separated by walls.
//
// Generate must be called before the maze is used; a freshly constructed
// maze has every wall present.
type Maze struct {
	width   int
	height  int
	grid    [][]wallMask // wall masks indexed [y][x]
	visited [][]bool     // visit marks owned by Generate
	rng     *rand.Rand
}

// Option configures a Maze at construction time.
type Option func(*Maze)

// WithRandSource sets the random source used to shuffle neighbor order
// during generation. Useful for deterministic mazes in tests.
func WithRandSource(rng *rand.Rand) Option {
	return func(m *Maze) {
		m.rng = rng
	}
}

// New creates a maze of the given dimensions with all walls present.
func New(width, height int, options ...Option) (*Maze, error) {
	if min(width, height) <= 0 || max(width, height) > maxMazeDimension {
		return nil, ErrInvalidDimensions
	}

	grid := make([][]wallMask, height)
	visited := make([][]bool, height)
	for y := range grid {
		grid[y] = make([]wallMask, width)
		visited[y] = make([]bool, width)
		for x := range grid[y] {
			grid[y][x] = allWalls
		}
	}

	m := &Maze{
		width:   width,
		height:  height,
		grid:    grid,
		visited: visited,
	}

	for _, opt := range options {
		opt(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return m, nil
}

// Width returns the width of the maze in cells.
func (m *Maze) Width() int { return m.width }

// Height returns the height of the maze in cells.
func (m *Maze) Height() int { return m.height }

// frame is one level of the depth-first carve: a cell plus its shuffled
// neighbor order and how far through that order the walk has progressed.
type frame struct {
	x, y  int
	order [4]Side
	next  int
}

// Generate carves the maze with a randomized depth-first backtracker.
//
// All state from a previous generation is discarded first, so Generate may
// be called again to produce a fresh maze in place. The walk starts at
// (0, 0) and visits every cell exactly once; the carved maze is a spanning
// tree of the grid graph.
func (m *Maze) Generate() {
	for y := range m.grid {
		for x := range m.grid[y] {
			m.grid[y][x] = allWalls
			m.visited[y][x] = false
		}
	}

	// Explicit stack instead of recursion so large mazes cannot exhaust
	// the call stack. The visitation order is the same either way.
	stack := []frame{m.newFrame(0, 0)}
	m.visited[0][0] = true

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		advanced := false
		for top.next < len(top.order) {
			side := top.order[top.next]
			top.next++

			dx, dy := side.Delta()
			nx, ny := top.x+dx, top.y+dy
			if nx < 0 || nx >= m.width || ny < 0 || ny >= m.height {
				continue
			}
			if m.visited[ny][nx] {
				continue
			}

			m.openWall(top.x, top.y, side)
			m.visited[ny][nx] = true
			stack = append(stack, m.newFrame(nx, ny))
			advanced = true
			break
		}

		if !advanced {
			stack = stack[:len(stack)-1]
		}
	}
}

// newFrame builds a carve frame for a cell with a freshly shuffled
// neighbor order.
func (m *Maze) newFrame(x, y int) frame {
	f := frame{x: x, y: y, order: [4]Side{Top, Left, Bottom, Right}}
	m.rng.Shuffle(len(f.order), func(i, j int) {
		f.order[i], f.order[j] = f.order[j], f.order[i]
	})
	return f
}

// openWall removes the wall on the given side of (x, y) and the matching
// wall of the neighbor, keeping the two masks complementary.
func (m *Maze) openWall(x, y int, side Side) {
	dx, dy := side.Delta()
	m.grid[y][x] = m.grid[y][x].clear(side)
	m.grid[y+dy][x+dx] = m.grid[y+dy][x+dx].clear(side.Opposite())
}

// CellAt decodes the walls surrounding the cell at (x, y).
// It returns ErrOutOfBounds when the position is outside the grid.
func (m *Maze) CellAt(x, y int) (Cell, error) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return Cell{}, ErrOutOfBounds
	}

	mask := m.grid[y][x]
	return Cell{
		X:      x,
		Y:      y,
		Left:   mask.has(Left),
		Right:  mask.has(Right),
		Top:    mask.has(Top),
		Bottom: mask.has(Bottom),
	}, nil
}

// Cells returns every cell of the maze in row-major order.
func (m *Maze) Cells() []Cell {
	cells := make([]Cell, 0, m.width*m.height)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			cell, _ := m.CellAt(x, y)
			cells = append(cells, cell)
		}
	}
	return cells
}

// String provides a textual representation of the maze.
func (m *Maze) String() string {
	var output strings.Builder

	// Top boundary
	output.WriteString("+" + strings.Repeat("---+", m.width) + "\n")

	for y := 0; y < m.height; y++ {
		// Cell row
		output.WriteString("|")
		for x := 0; x < m.width; x++ {
			output.WriteString("   ")
			if m.grid[y][x].has(Right) {
				output.WriteString("|")
			} else {
				output.WriteString(" ")
			}
		}
		output.WriteString("\n")

		// Wall row
		output.WriteString("+")
		for x := 0; x < m.width; x++ {
			if m.grid[y][x].has(Bottom) {
				output.WriteString("---+")
			} else {
				output.WriteString("   +")
			}
		}
		output.WriteString("\n")
	}

	return output.String()
}
