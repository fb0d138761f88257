package maze

// Side identifies one of the four sides of a cell.
type Side int

const (
	Top Side = iota
	Left
	Bottom
	Right
)

// sideNames, sideOpposites, sideDeltas and sideBits are pure lookup tables
// so that the rest of the package never does direction arithmetic inline.
var (
	sideNames = [4]string{"top", "left", "bottom", "right"}

	sideOpposites = [4]Side{
		Top:    Bottom,
		Left:   Right,
		Bottom: Top,
		Right:  Left,
	}

	// Grid offset of the neighboring cell on each side.
	sideDeltas = [4]struct{ DX, DY int }{
		Top:    {0, -1},
		Left:   {-1, 0},
		Bottom: {0, 1},
		Right:  {1, 0},
	}

	sideBits = [4]wallMask{
		Top:    1 << Top,
		Left:   1 << Left,
		Bottom: 1 << Bottom,
		Right:  1 << Right,
	}
)

// String returns the lowercase name of the side.
func (s Side) String() string {
	return sideNames[s]
}

// Opposite returns the side facing s across a shared edge.
func (s Side) Opposite() Side {
	return sideOpposites[s]
}

// Delta returns the grid offset of the neighboring cell on side s.
func (s Side) Delta() (dx, dy int) {
	d := sideDeltas[s]
	return d.DX, d.DY
}

// wallMask stores the walls of one cell, one bit per side.
type wallMask uint8

const allWalls wallMask = 1<<Top | 1<<Left | 1<<Bottom | 1<<Right

func (m wallMask) has(s Side) bool {
	return m&sideBits[s] != 0
}

func (m wallMask) clear(s Side) wallMask {
	return m &^ sideBits[s]
}

// Cell describes the walls around one grid position. It is a value derived
// from the maze on demand; two cells are equal when they have the same
// coordinates and wall configuration.
type Cell struct {
	X, Y   int
	Left   bool
	Right  bool
	Top    bool
	Bottom bool
}

// Wall reports whether the cell has a wall on the given side.
func (c Cell) Wall(s Side) bool {
	switch s {
	case Top:
		return c.Top
	case Left:
		return c.Left
	case Bottom:
		return c.Bottom
	default:
		return c.Right
	}
}

// Walls returns the wall flags in left, top, right, bottom order.
func (c Cell) Walls() [4]bool {
	return [4]bool{c.Left, c.Top, c.Right, c.Bottom}
}
