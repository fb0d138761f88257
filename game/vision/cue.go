/*
Package vision turns the state of a blind-maze game into navigation cues.

The tools here answer the questions a player who cannot see the maze keeps
asking: what is around me right now, where does this hallway lead, have I
been here before. Each tool emits Cue values; turning cues into sound is
the client's concern, not this package's.
*/
package vision

import "github.com/charlie572/Blind-Maze-Game/game/maze"

// World is the view of a game that vision tools need. *game.Game
// implements it.
type World interface {
	// CurrentCell returns the cell under the player's center.
	CurrentCell() (maze.Cell, error)

	// PlayerPosition returns the top-left corner of the player rectangle.
	PlayerPosition() (x, y float64)

	// Maze returns the maze being played.
	Maze() *maze.Maze
}

// CueKind identifies what a cue is telling the player.
type CueKind byte

const (
	// CueWall and CueOpening report one side of the player's cell.
	CueWall CueKind = iota + 1
	CueOpening

	// Hallway probe cues. Counterclockwise and clockwise are relative to
	// the probe's direction of travel.
	CueOpeningCCW
	CueOpeningCW
	CueCorridor
	CueProbeStopped

	// Cell transition cues, one per axis.
	CueCellChangedX
	CueCellChangedY

	// CueBreadcrumb carries the number of a marker the player dropped or
	// walked back onto.
	CueBreadcrumb

	// Footstep edge cues.
	CueFootstepsStarted
	CueFootstepsStopped
)

var cueKindNames = map[CueKind]string{
	CueWall:             "wall",
	CueOpening:          "opening",
	CueOpeningCCW:       "opening-ccw",
	CueOpeningCW:        "opening-cw",
	CueCorridor:         "corridor",
	CueProbeStopped:     "probe-stopped",
	CueCellChangedX:     "cell-changed-x",
	CueCellChangedY:     "cell-changed-y",
	CueBreadcrumb:       "breadcrumb",
	CueFootstepsStarted: "footsteps-started",
	CueFootstepsStopped: "footsteps-stopped",
}

// String returns the wire name of the cue kind.
func (k CueKind) String() string {
	if name, ok := cueKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Cue is one navigation hint. Side is set for CueWall and CueOpening;
// Number is set for CueBreadcrumb.
type Cue struct {
	Kind   CueKind
	Side   maze.Side
	Number int
}
