package vision

import (
	"errors"

	"github.com/charlie572/Blind-Maze-Game/game/maze"
)

const defaultProbeSpeed = 2.0 // cells per second

var ErrProbeOutsideMaze = errors.New("hallway probe started outside the maze")

// probeCycle orders the sides counterclockwise, so that neighbors in the
// cycle are the sides to either hand of a direction of travel.
var probeCycle = [4]maze.Side{maze.Left, maze.Top, maze.Right, maze.Bottom}

// HallwayProbe sends an invisible drone down a corridor from the player's
// cell. Each time the drone enters a new cell it reports the openings to
// either side of its travel direction, or a corridor cue when both sides
// are walled; it stops when it reaches the wall at the end.
//
// The probe is an explicit state machine: call Advance with the elapsed
// time each tick until it reports done.
type HallwayProbe struct {
	world     World
	direction maze.Side
	x, y      float64
	vx, vy    float64
	current   maze.Cell
	done      bool
}

// NewHallwayProbe starts a probe at the player's cell traveling toward
// the given side. A non-positive speed falls back to the default.
func NewHallwayProbe(w World, direction maze.Side, cellsPerSecond float64) (*HallwayProbe, error) {
	if cellsPerSecond <= 0 {
		cellsPerSecond = defaultProbeSpeed
	}

	px, py := w.PlayerPosition()
	x, y := float64(int(px)), float64(int(py))

	current, err := w.Maze().CellAt(int(x), int(y))
	if err != nil {
		return nil, ErrProbeOutsideMaze
	}

	dx, dy := direction.Delta()
	return &HallwayProbe{
		world:     w,
		direction: direction,
		x:         x,
		y:         y,
		vx:        float64(dx) * cellsPerSecond,
		vy:        float64(dy) * cellsPerSecond,
		current:   current,
	}, nil
}

// Advance moves the probe by dt seconds and returns any cues produced,
// plus whether the probe has finished. A finished probe keeps returning
// (nil, true).
func (p *HallwayProbe) Advance(dt float64) ([]Cue, bool) {
	if p.done {
		return nil, true
	}

	if p.current.Wall(p.direction) {
		p.done = true
		return []Cue{{Kind: CueProbeStopped}}, true
	}

	p.x += p.vx * dt
	p.y += p.vy * dt

	next, err := p.world.Maze().CellAt(int(p.x), int(p.y))
	if err != nil {
		p.done = true
		return []Cue{{Kind: CueProbeStopped}}, true
	}
	if next == p.current {
		return nil, false
	}
	p.current = next

	ccwWall := next.Wall(p.sideToHand(3))
	cwWall := next.Wall(p.sideToHand(1))

	var cues []Cue
	if !ccwWall {
		cues = append(cues, Cue{Kind: CueOpeningCCW})
	}
	if !cwWall {
		cues = append(cues, Cue{Kind: CueOpeningCW})
	}
	if ccwWall && cwWall {
		cues = append(cues, Cue{Kind: CueCorridor})
	}

	if p.current.Wall(p.direction) {
		cues = append(cues, Cue{Kind: CueProbeStopped})
		p.done = true
	}
	return cues, p.done
}

// sideToHand returns the side offset steps around the counterclockwise
// cycle from the travel direction.
func (p *HallwayProbe) sideToHand(offset int) maze.Side {
	for i, side := range probeCycle {
		if side == p.direction {
			return probeCycle[(i+offset)%len(probeCycle)]
		}
	}
	return p.direction
}
