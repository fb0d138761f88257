/*
Package raycast finds the first wall hit by a ray traveling through a maze.

Maze walls only exist on grid lines, so a cast marches from grid-line
crossing to grid-line crossing instead of searching for generic
line-segment intersections. Hit points are exact: they always lie on a
grid line, never mid-cell.
*/
package raycast

import (
	"errors"
	"iter"
	"math"

	"github.com/charlie572/Blind-Maze-Game/game/maze"
)

// ErrZeroDirection is returned when a ray has no direction to travel in.
var ErrZeroDirection = errors.New("ray direction cannot be the zero vector")

// Point is a position in cell-space coordinates.
type Point struct {
	X float64
	Y float64
}

// Cast traces a ray from (x, y) along (dx, dy) and returns the point where
// it first crosses a wall. The direction need not be normalized but must
// not be zero. Rays that reach the edge of the maze terminate on the
// boundary.
func Cast(x, y, dx, dy float64, m *maze.Maze) (Point, error) {
	if dx == 0 && dy == 0 {
		return Point{}, ErrZeroDirection
	}

	xSign, ySign := 1.0, 1.0
	if dx <= 0 {
		xSign = -1.0
	}
	if dy <= 0 {
		ySign = -1.0
	}

	// Step per grid line crossed on the other axis. An axis-aligned ray
	// never crosses grid lines on its zero axis, so the increment becomes
	// infinite and the crossings below are pushed out of reach.
	xInc, yInc := math.Inf(1), math.Inf(1)
	if dy != 0 {
		xInc = dx / math.Abs(dy)
	}
	if dx != 0 {
		yInc = dy / math.Abs(dx)
	}

	// First crossings of a horizontal and a vertical grid line, offset by
	// the fractional position of the start point within its cell.
	var hx, hy, vx, vy float64
	if ySign > 0 {
		hx, hy = x+xInc*(1-fract(y)), math.Ceil(y)
	} else {
		hx, hy = x+xInc*fract(y), math.Floor(y)
	}
	if xSign > 0 {
		vx, vy = math.Ceil(x), y+yInc*(1-fract(x))
	} else {
		vx, vy = math.Floor(x), y+yInc*fract(x)
	}

	if !finite(hx) || !finite(hy) {
		hx, hy = xSign*math.Inf(1), ySign*math.Inf(1)
	}
	if !finite(vx) || !finite(vy) {
		vx, vy = xSign*math.Inf(1), ySign*math.Inf(1)
	}

	for {
		// Pick whichever crossing comes first along the direction of
		// travel. Ties go to the horizontal crossing.
		var hit Point
		var blocked bool
		if xSign*hx <= xSign*vx && ySign*hy <= ySign*vy {
			hit = Point{X: hx, Y: hy}
			if hit.X >= float64(m.Width()) || hit.Y >= float64(m.Height()) {
				return hit, nil
			}

			cell, err := m.CellAt(int(math.Floor(hit.X)), int(math.Round(hit.Y)))
			if err != nil {
				return hit, nil
			}
			blocked = cell.Top
			hx, hy = hit.X+xInc, hit.Y+ySign
		} else {
			hit = Point{X: vx, Y: vy}
			if hit.X >= float64(m.Width()) || hit.Y >= float64(m.Height()) {
				return hit, nil
			}

			cell, err := m.CellAt(int(math.Round(hit.X)), int(math.Floor(hit.Y)))
			if err != nil {
				return hit, nil
			}
			blocked = cell.Left
			vx, vy = hit.X+xSign, hit.Y+yInc
		}

		if blocked {
			return hit, nil
		}
	}
}

// Fan returns a lazy sequence of numRays casts from (x, y), evenly spaced
// around the full circle. Ray i travels at angle 2πi/numRays, with angle 0
// pointing along the positive y axis. The sequence can be ranged over more
// than once.
func Fan(x, y float64, m *maze.Maze, numRays int) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for i := 0; i < numRays; i++ {
			angle := 2 * math.Pi / float64(numRays) * float64(i)
			hit, err := Cast(x, y, math.Sin(angle), math.Cos(angle), m)
			if err != nil {
				return
			}
			if !yield(hit) {
				return
			}
		}
	}
}

// fract returns the fractional part of f in [0, 1), counting from the
// grid line below f.
func fract(f float64) float64 {
	return f - math.Floor(f)
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
