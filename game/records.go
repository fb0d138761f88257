package game

import (
	"github.com/charlie572/Blind-Maze-Game/game/maze"
	"github.com/charlie572/Blind-Maze-Game/game/vision"
)

// Action types accepted by a Run, sent as the first byte of an action
// record.
const (
	MoveActionType byte = 1 << iota // set the player's move direction
	SurroundActionType
	ProbeActionType
	BreadcrumbActionType
	StateRequestActionType
)

// MoveAction is the payload of a move record. Each component is a
// direction intent of -1, 0, or 1.
type MoveAction struct {
	DX int
	DY int
}

// ProbeAction is the payload of a hallway probe record.
type ProbeAction struct {
	Direction maze.Side
}

// State is a snapshot of a run, broadcast to the client.
type State struct {
	Version          int64
	PlayerX          float64
	PlayerY          float64
	PlayerWidth      float64
	PlayerHeight     float64
	RemainingSeconds float64
	Ended            bool
}

// Encoder serializes run records for the wire.
type Encoder interface {
	MarshalState(State) ([]byte, error)
	UnmarshalState([]byte) (State, error)
	MarshalCues([]vision.Cue) ([]byte, error)
	UnmarshalCues([]byte) ([]vision.Cue, error)
	MarshalMove(MoveAction) ([]byte, error)
	UnmarshalMove([]byte) (MoveAction, error)
	MarshalProbe(ProbeAction) ([]byte, error)
	UnmarshalProbe([]byte) (ProbeAction, error)
}
