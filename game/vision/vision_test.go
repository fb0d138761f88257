package vision

import (
	"math/rand"
	"testing"

	"github.com/charlie572/Blind-Maze-Game/game/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubWorld is a minimal World with a directly controllable player.
type stubWorld struct {
	maze *maze.Maze
	x, y float64
}

func (s *stubWorld) CurrentCell() (maze.Cell, error) {
	return s.maze.CellAt(int(s.x), int(s.y))
}

func (s *stubWorld) PlayerPosition() (x, y float64) {
	return s.x, s.y
}

func (s *stubWorld) Maze() *maze.Maze {
	return s.maze
}

func newWorld(t *testing.T, width, height int, generate bool) *stubWorld {
	t.Helper()
	m, err := maze.New(width, height, maze.WithRandSource(rand.New(rand.NewSource(11))))
	require.NoError(t, err)
	if generate {
		m.Generate()
	}
	return &stubWorld{maze: m, x: 0.25, y: 0.25}
}

func kinds(cues []Cue) []CueKind {
	out := make([]CueKind, 0, len(cues))
	for _, cue := range cues {
		out = append(out, cue.Kind)
	}
	return out
}

func TestSurroundCheck(t *testing.T) {
	t.Run("sealed cell reports four walls in order", func(t *testing.T) {
		w := newWorld(t, 1, 1, false)
		cues, err := SurroundCheck(w)
		require.NoError(t, err)

		require.Len(t, cues, 4)
		assert.Equal(t, []CueKind{CueWall, CueWall, CueWall, CueWall}, kinds(cues))
		assert.Equal(t, maze.Left, cues[0].Side)
		assert.Equal(t, maze.Top, cues[1].Side)
		assert.Equal(t, maze.Right, cues[2].Side)
		assert.Equal(t, maze.Bottom, cues[3].Side)
	})

	t.Run("open walls report openings", func(t *testing.T) {
		w := newWorld(t, 2, 1, true) // corridor: the interior wall is open
		cues, err := SurroundCheck(w)
		require.NoError(t, err)

		assert.Equal(t, []CueKind{CueWall, CueWall, CueOpening, CueWall}, kinds(cues))
	})
}

func TestHallwayProbe(t *testing.T) {
	t.Run("walks a corridor and stops at its end", func(t *testing.T) {
		w := newWorld(t, 3, 1, true) // straight corridor of three cells
		probe, err := NewHallwayProbe(w, maze.Right, 2.0)
		require.NoError(t, err)

		// 2 cells/s with dt 0.5 enters one cell per call.
		cues, done := probe.Advance(0.5)
		assert.False(t, done)
		assert.Equal(t, []CueKind{CueCorridor}, kinds(cues))

		cues, done = probe.Advance(0.5)
		assert.True(t, done)
		assert.Equal(t, []CueKind{CueCorridor, CueProbeStopped}, kinds(cues))

		cues, done = probe.Advance(0.5)
		assert.True(t, done)
		assert.Empty(t, cues)
	})

	t.Run("stops immediately against a wall", func(t *testing.T) {
		w := newWorld(t, 3, 1, true)
		probe, err := NewHallwayProbe(w, maze.Top, 2.0)
		require.NoError(t, err)

		cues, done := probe.Advance(0.1)
		assert.True(t, done)
		assert.Equal(t, []CueKind{CueProbeStopped}, kinds(cues))
	})

	t.Run("reports side openings", func(t *testing.T) {
		// A 2x2 spanning tree keeps exactly one interior wall closed, so
		// whichever way the probe can travel, some cell it enters has an
		// opening to one hand.
		w := newWorld(t, 2, 2, true)

		sawOpening := false
		for _, side := range []maze.Side{maze.Top, maze.Left, maze.Bottom, maze.Right} {
			probe, err := NewHallwayProbe(w, side, 2.0)
			require.NoError(t, err)
			for i := 0; i < 4; i++ {
				cues, done := probe.Advance(0.5)
				for _, cue := range cues {
					if cue.Kind == CueOpeningCCW || cue.Kind == CueOpeningCW {
						sawOpening = true
					}
				}
				if done {
					break
				}
			}
		}
		assert.True(t, sawOpening)
	})
}

func TestBreadcrumbSet(t *testing.T) {
	w := newWorld(t, 3, 1, true)
	crumbs, err := NewBreadcrumbSet(w)
	require.NoError(t, err)

	t.Run("numbers new markers from zero", func(t *testing.T) {
		cue, err := crumbs.Drop()
		require.NoError(t, err)
		assert.Equal(t, CueBreadcrumb, cue.Kind)
		assert.Equal(t, 0, cue.Number)
	})

	t.Run("dropping again repeats the number", func(t *testing.T) {
		cue, err := crumbs.Drop()
		require.NoError(t, err)
		assert.Equal(t, 0, cue.Number)
	})

	t.Run("next cell gets the next number", func(t *testing.T) {
		w.x = 1.25
		_, err := crumbs.Update() // register the cell change
		require.NoError(t, err)

		cue, err := crumbs.Drop()
		require.NoError(t, err)
		assert.Equal(t, 1, cue.Number)
	})

	t.Run("returning to a marker announces it", func(t *testing.T) {
		w.x = 0.25
		cues, err := crumbs.Update()
		require.NoError(t, err)
		require.Len(t, cues, 1)
		assert.Equal(t, CueBreadcrumb, cues[0].Kind)
		assert.Equal(t, 0, cues[0].Number)
	})

	t.Run("staying put stays silent", func(t *testing.T) {
		cues, err := crumbs.Update()
		require.NoError(t, err)
		assert.Empty(t, cues)
	})
}

func TestCellChangeMonitor(t *testing.T) {
	w := newWorld(t, 3, 3, true)
	monitor, err := NewCellChangeMonitor(w)
	require.NoError(t, err)

	t.Run("horizontal move", func(t *testing.T) {
		w.x = 1.25
		cues, err := monitor.Update()
		require.NoError(t, err)
		assert.Equal(t, []CueKind{CueCellChangedX}, kinds(cues))
	})

	t.Run("vertical move", func(t *testing.T) {
		w.y = 1.25
		cues, err := monitor.Update()
		require.NoError(t, err)
		assert.Equal(t, []CueKind{CueCellChangedY}, kinds(cues))
	})

	t.Run("diagonal move reports both axes", func(t *testing.T) {
		w.x, w.y = 2.25, 2.25
		cues, err := monitor.Update()
		require.NoError(t, err)
		assert.Equal(t, []CueKind{CueCellChangedX, CueCellChangedY}, kinds(cues))
	})

	t.Run("no move, no cue", func(t *testing.T) {
		cues, err := monitor.Update()
		require.NoError(t, err)
		assert.Empty(t, cues)
	})
}

func TestFootstepMonitor(t *testing.T) {
	w := newWorld(t, 2, 1, true)
	monitor := NewFootstepMonitor(w)

	t.Run("starting to move emits one started cue", func(t *testing.T) {
		w.x += 0.1
		assert.Equal(t, []CueKind{CueFootstepsStarted}, kinds(monitor.Update()))

		w.x += 0.1
		assert.Empty(t, monitor.Update()) // still moving, no new edge
	})

	t.Run("stopping emits one stopped cue", func(t *testing.T) {
		assert.Equal(t, []CueKind{CueFootstepsStopped}, kinds(monitor.Update()))
		assert.Empty(t, monitor.Update())
	})
}
