package vision

import "github.com/charlie572/Blind-Maze-Game/game/maze"

// surroundOrder is the reporting order of SurroundCheck.
var surroundOrder = [4]maze.Side{maze.Left, maze.Top, maze.Right, maze.Bottom}

// SurroundCheck reports the immediate surroundings of the player: one cue
// per side of the current cell, in left, top, right, bottom order.
func SurroundCheck(w World) ([]Cue, error) {
	cell, err := w.CurrentCell()
	if err != nil {
		return nil, err
	}

	cues := make([]Cue, 0, len(surroundOrder))
	for _, side := range surroundOrder {
		kind := CueOpening
		if cell.Wall(side) {
			kind = CueWall
		}
		cues = append(cues, Cue{Kind: kind, Side: side})
	}
	return cues, nil
}

// BreadcrumbSet lets the player number cells as they pass through and
// recognizes them on return. Dropping a marker on a fresh cell assigns it
// the next number; dropping on a marked cell, or walking back onto one,
// reports the number it already has.
type BreadcrumbSet struct {
	world World
	marks map[maze.Cell]int
	last  maze.Cell
}

// NewBreadcrumbSet creates an empty breadcrumb set for the player.
func NewBreadcrumbSet(w World) (*BreadcrumbSet, error) {
	last, err := w.CurrentCell()
	if err != nil {
		return nil, err
	}

	return &BreadcrumbSet{
		world: w,
		marks: make(map[maze.Cell]int),
		last:  last,
	}, nil
}

// Drop marks the player's current cell and returns the marker cue.
func (b *BreadcrumbSet) Drop() (Cue, error) {
	cell, err := b.world.CurrentCell()
	if err != nil {
		return Cue{}, err
	}

	number, ok := b.marks[cell]
	if !ok {
		number = len(b.marks)
		b.marks[cell] = number
	}
	return Cue{Kind: CueBreadcrumb, Number: number}, nil
}

// Update checks whether the player has entered a marked cell and returns
// its cue if so.
func (b *BreadcrumbSet) Update() ([]Cue, error) {
	next, err := b.world.CurrentCell()
	if err != nil {
		return nil, err
	}
	if next == b.last {
		return nil, nil
	}
	b.last = next

	if number, ok := b.marks[next]; ok {
		return []Cue{{Kind: CueBreadcrumb, Number: number}}, nil
	}
	return nil, nil
}

// CellChangeMonitor emits a cue whenever the player crosses into a new
// cell, with separate cues for horizontal and vertical transitions. When
// moving diagonally along a wall, the distinct cues tell the player which
// axis is actually advancing.
type CellChangeMonitor struct {
	world World
	last  maze.Cell
}

// NewCellChangeMonitor creates a monitor anchored at the player's cell.
func NewCellChangeMonitor(w World) (*CellChangeMonitor, error) {
	last, err := w.CurrentCell()
	if err != nil {
		return nil, err
	}
	return &CellChangeMonitor{world: w, last: last}, nil
}

// Update reports cell transitions since the previous call.
func (c *CellChangeMonitor) Update() ([]Cue, error) {
	next, err := c.world.CurrentCell()
	if err != nil {
		return nil, err
	}
	if next == c.last {
		return nil, nil
	}

	var cues []Cue
	if c.last.X != next.X {
		cues = append(cues, Cue{Kind: CueCellChangedX})
	}
	if c.last.Y != next.Y {
		cues = append(cues, Cue{Kind: CueCellChangedY})
	}
	c.last = next
	return cues, nil
}

// FootstepMonitor emits edge cues when the player starts or stops moving.
type FootstepMonitor struct {
	world  World
	lastX  float64
	lastY  float64
	moving bool
}

// NewFootstepMonitor creates a monitor anchored at the player's position.
func NewFootstepMonitor(w World) *FootstepMonitor {
	x, y := w.PlayerPosition()
	return &FootstepMonitor{world: w, lastX: x, lastY: y}
}

// Update reports a started or stopped cue when the player's motion state
// flips.
func (f *FootstepMonitor) Update() []Cue {
	x, y := f.world.PlayerPosition()
	moving := x != f.lastX || y != f.lastY
	f.lastX, f.lastY = x, y

	if moving == f.moving {
		return nil
	}
	f.moving = moving

	if moving {
		return []Cue{{Kind: CueFootstepsStarted}}
	}
	return []Cue{{Kind: CueFootstepsStopped}}
}
