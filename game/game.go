/*
Package game simulates a player walking through a maze.

The Game owns the player and resolves wall collisions against the maze;
the Run type drives a complete timed session over channels. All positions
use the coordinate system of the maze, in units of cells.
*/
package game

import (
	"errors"
	"math/rand"
	"time"

	"github.com/charlie572/Blind-Maze-Game/game/maze"
)

const (
	defaultMoveSpeed  = 5.0
	playerSize        = 0.5
	playerSpawnOffset = 0.25
)

var ErrNilMaze = errors.New("game requires a maze")

// Game contains a player and a maze, and allows the player to walk around
// without crossing walls.
type Game struct {
	maze      *maze.Maze
	player    *Player
	moveSpeed float64
}

// Config holds the parameters for creating a Game.
type Config struct {
	Maze      *maze.Maze // required, already generated
	MoveSpeed float64    // cells per second; defaults to 5
	Rng       *rand.Rand // used for the spawn cell; defaults to a time-seeded source
}

// New creates a game with the player spawned in a random cell of the maze.
func New(c Config) (*Game, error) {
	if c.Maze == nil {
		return nil, ErrNilMaze
	}
	if c.MoveSpeed <= 0 {
		c.MoveSpeed = defaultMoveSpeed
	}
	if c.Rng == nil {
		c.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	spawnX := float64(c.Rng.Intn(c.Maze.Width())) + playerSpawnOffset
	spawnY := float64(c.Rng.Intn(c.Maze.Height())) + playerSpawnOffset

	return &Game{
		maze:      c.Maze,
		player:    NewPlayer(spawnX, spawnY, playerSize, playerSize),
		moveSpeed: c.MoveSpeed,
	}, nil
}

// Maze returns the maze being played.
func (g *Game) Maze() *maze.Maze {
	return g.maze
}

// Player returns the player rectangle.
func (g *Game) Player() *Player {
	return g.player
}

// PlayerPosition returns the top-left corner of the player rectangle.
func (g *Game) PlayerPosition() (x, y float64) {
	return g.player.Position()
}

// CurrentCell returns the cell under the player's center.
func (g *Game) CurrentCell() (maze.Cell, error) {
	cx, cy := g.player.Center()
	return g.maze.CellAt(int(cx), int(cy))
}

// SetMoveDirection sets the player's velocity from a direction intent.
// Each component must be -1, 0, or 1.
func (g *Game) SetMoveDirection(dx, dy int) {
	g.player.SetVelocity(float64(dx)*g.moveSpeed, float64(dy)*g.moveSpeed)
}

// Update advances the player by one tick and resolves wall collisions.
//
// Collisions are resolved against the walls of the cell the player's
// center occupied before the move: if an edge of the rectangle crossed a
// closed wall of that cell, the position is clamped back to the wall on
// that axis. The two axes clamp independently and velocity is left
// untouched, so a player pushing diagonally into a corner simply stops
// there. A player larger than a cell, or moving more than a cell per
// tick, can escape this check; callers keep dt and sizes small enough
// that it cannot happen.
func (g *Game) Update(dt float64) error {
	lastCell, err := g.CurrentCell()
	if err != nil {
		return err
	}

	g.player.Update(dt)

	if lastCell.Left && g.player.X < float64(lastCell.X) {
		g.player.X = float64(lastCell.X)
	} else if lastCell.Right && g.player.X+g.player.Width >= float64(lastCell.X+1) {
		g.player.X = float64(lastCell.X+1) - g.player.Width
	}
	if lastCell.Top && g.player.Y < float64(lastCell.Y) {
		g.player.Y = float64(lastCell.Y)
	} else if lastCell.Bottom && g.player.Y+g.player.Height >= float64(lastCell.Y+1) {
		g.player.Y = float64(lastCell.Y+1) - g.player.Height
	}

	return nil
}
