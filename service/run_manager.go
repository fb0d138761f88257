package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charlie572/Blind-Maze-Game/game"
	"github.com/charlie572/Blind-Maze-Game/game/maze"
	"github.com/charlie572/Blind-Maze-Game/service/i"
	"github.com/google/uuid"
)

const (
	defaultMazeWidth   = 20
	defaultMazeHeight  = 20
	defaultRunDuration = time.Minute

	runStateRecordType = 10
	runCueRecordType   = 11
	runEndedRecordType = 12
)

var (
	ErrRunInProgress  = errors.New("player already has a run in progress")
	ErrRunNotFinished = errors.New("run has not finished yet")
	ErrNoRun          = errors.New("player has no run")
)

var _ i.RunManager = &RunManager{}

// runSession tracks one player's run from start until their guess is
// scored.
type runSession struct {
	run       *game.Run
	finalCell maze.Cell
	ended     bool
}

// RunManager owns the active blind-maze runs. It starts a run per
// player, relays their socket actions into the run, fans the run's state
// and cue records back out over the socket, and scores the player's
// guess once the clock runs out.
type RunManager struct {
	socket      i.ServerSocketManager
	runs        map[uuid.UUID]*runSession
	mazeFactory func(width, height int) (*maze.Maze, error)
	encoder     game.Encoder
	userRepo    i.UserRepo
	leaderboard i.Leaderboard
	mazeWidth   int
	mazeHeight  int
	runDuration time.Duration
	moveSpeed   float64
	tickRate    int
	logger      i.Logger
	sync.RWMutex
}

// RunManagerConfig holds the dependencies and tuning for a RunManager.
type RunManagerConfig struct {
	Socket      i.ServerSocketManager
	MazeFactory func(width, height int) (*maze.Maze, error)
	Encoder     game.Encoder
	UserRepo    i.UserRepo
	Leaderboard i.Leaderboard
	MazeWidth   int
	MazeHeight  int
	RunDuration time.Duration
	MoveSpeed   float64 // player speed in cells per second; 0 keeps the game default
	TickRate    int     // simulation ticks per second; 0 keeps the run default
	Logger      i.Logger
}

// NewRunManager creates a RunManager and registers it on the socket as
// both the request handler and the client authenticator.
func NewRunManager(c *RunManagerConfig) (*RunManager, error) {
	if c.MazeWidth <= 0 {
		c.MazeWidth = defaultMazeWidth
	}
	if c.MazeHeight <= 0 {
		c.MazeHeight = defaultMazeHeight
	}
	if c.RunDuration <= 0 {
		c.RunDuration = defaultRunDuration
	}

	rm := &RunManager{
		socket:      c.Socket,
		runs:        make(map[uuid.UUID]*runSession),
		mazeFactory: c.MazeFactory,
		encoder:     c.Encoder,
		userRepo:    c.UserRepo,
		leaderboard: c.Leaderboard,
		mazeWidth:   c.MazeWidth,
		mazeHeight:  c.MazeHeight,
		runDuration: c.RunDuration,
		moveSpeed:   c.MoveSpeed,
		tickRate:    c.TickRate,
		logger:      c.Logger,
	}

	c.Socket.SetClientRequestHandler(rm.writePlayerAction)
	c.Socket.SetClientAuthenticator(rm)
	return rm, nil
}

// NewRun starts a timed run for the player. A player with a run already
// going, or with a finished run waiting for its guess, must resolve it
// first.
func (rm *RunManager) NewRun(playerID uuid.UUID) error {
	rm.Lock()
	defer rm.Unlock()

	if _, ok := rm.runs[playerID]; ok {
		return ErrRunInProgress
	}

	m, err := rm.mazeFactory(rm.mazeWidth, rm.mazeHeight)
	if err != nil {
		rm.logger.Error(fmt.Sprintf("creating maze for a new run: %s", err))
		return err
	}

	g, err := game.New(game.Config{Maze: m, MoveSpeed: rm.moveSpeed})
	if err != nil {
		rm.logger.Error(fmt.Sprintf("creating game for a new run: %s", err))
		return err
	}

	run, err := game.NewRun(game.RunConfig{Game: g, Encoder: rm.encoder, TickRate: rm.tickRate})
	if err != nil {
		rm.logger.Error(fmt.Sprintf("creating run server: %s", err))
		return err
	}

	rm.runs[playerID] = &runSession{run: run}
	go run.Start(rm.runDuration)
	go rm.listenRunChans(playerID)
	rm.logger.Info(fmt.Sprintf("started new run for player: %s", playerID))
	return nil
}

// SessionInfo returns the socket public key and address for a player
// with an active run.
func (rm *RunManager) SessionInfo(_ context.Context, playerID uuid.UUID) ([]byte, string, error) {
	rm.RLock()
	defer rm.RUnlock()
	if _, ok := rm.runs[playerID]; !ok {
		return nil, "", ErrNoRun
	}
	return rm.socket.GetPublicKey(), rm.socket.GetAddr(), nil
}

// Guess scores where the player thinks their run ended. The score is
// highest for the exact cell and falls off with the city-block distance
// to it; it is pushed to the leaderboard and, when it beats the player's
// best, saved on their user record.
func (rm *RunManager) Guess(ctx context.Context, playerID uuid.UUID, cellX, cellY int) (int, error) {
	rm.Lock()
	session, ok := rm.runs[playerID]
	if !ok {
		rm.Unlock()
		return 0, ErrNoRun
	}
	if !session.ended {
		rm.Unlock()
		return 0, ErrRunNotFinished
	}
	delete(rm.runs, playerID)
	rm.Unlock()

	score := rm.scoreGuess(session.finalCell, cellX, cellY)

	user, err := rm.userRepo.ByID(playerID)
	if err != nil {
		rm.logger.Error(fmt.Sprintf("loading user for guess: %s", err))
		return 0, err
	}

	if err := rm.leaderboard.Submit(ctx, user.Username, score); err != nil {
		rm.logger.Error(fmt.Sprintf("submitting score to leaderboard: %s", err))
	}

	if score > user.BestScore {
		user.BestScore = score
		if err := rm.userRepo.Save(user); err != nil {
			rm.logger.Error(fmt.Sprintf("saving user best score: %s", err))
		}
	}

	rm.logger.Info(fmt.Sprintf("scored guess for player %s: %d", playerID, score))
	return score, nil
}

// Authenticate resolves a socket token to a player with an active run.
func (rm *RunManager) Authenticate(token []byte) (uuid.UUID, error) {
	rm.RLock()
	defer rm.RUnlock()
	id, err := uuid.FromBytes(token)
	if err != nil {
		rm.logger.Error("invalid token provided")
		return uuid.Nil, errors.New("invalid token")
	}

	if _, ok := rm.runs[id]; !ok {
		rm.logger.Error("player does not have a run")
		return uuid.Nil, ErrNoRun
	}

	rm.logger.Info(fmt.Sprintf("authenticated player: %s", id))
	return id, nil
}

// StopAll stops every run still going.
func (rm *RunManager) StopAll() {
	rm.Lock()
	defer rm.Unlock()

	for _, session := range rm.runs {
		if !session.ended {
			session.run.Stop()
		}
	}
}

// scoreGuess converts the city-block distance between the guess and the
// final cell into a score: exact guesses earn width+height-2 points and
// each cell of distance costs one, down to zero.
func (rm *RunManager) scoreGuess(final maze.Cell, cellX, cellY int) int {
	dist := abs(final.X-cellX) + abs(final.Y-cellY)
	score := rm.mazeWidth + rm.mazeHeight - 2 - dist
	return max(score, 0)
}

// listenRunChans fans one run's outgoing records to the player's socket
// until the run publishes its final state.
func (rm *RunManager) listenRunChans(playerID uuid.UUID) {
	rm.RLock()
	session := rm.runs[playerID]
	rm.RUnlock()

	run := session.run
	stateChan, cueChan := run.StateChan, run.CueChan
	for {
		select {
		case val, ok := <-stateChan:
			if !ok {
				stateChan = nil
				continue
			}
			rm.socket.BroadcastToClients([]uuid.UUID{playerID}, runStateRecordType, val)
		case val, ok := <-cueChan:
			if !ok {
				cueChan = nil
				continue
			}
			rm.socket.BroadcastToClients([]uuid.UUID{playerID}, runCueRecordType, val)
		case val, ok := <-run.EndChan:
			if !ok {
				continue
			}
			rm.socket.BroadcastToClients([]uuid.UUID{playerID}, runEndedRecordType, val)
			rm.finishRun(playerID, session)
			return
		}
	}
}

// finishRun records the final cell so the player's guess can be scored.
func (rm *RunManager) finishRun(playerID uuid.UUID, session *runSession) {
	finalCell, err := session.run.FinalCell()
	if err != nil {
		rm.logger.Error(fmt.Sprintf("reading final cell: %s", err))
	}

	rm.Lock()
	session.finalCell = finalCell
	session.ended = true
	rm.Unlock()
	rm.logger.Info(fmt.Sprintf("run ended for player: %s", playerID))
}

// writePlayerAction forwards an authenticated socket request into the
// player's run. The run's loop can exit between the session lookup and
// the send, so the send races its Done channel; a record that loses the
// race is dropped.
func (rm *RunManager) writePlayerAction(playerID uuid.UUID, actionType byte, payload []byte) {
	rm.RLock()
	defer rm.RUnlock()
	session, ok := rm.runs[playerID]
	if !ok || session.ended {
		rm.logger.Error("received action for player without an active run")
		return
	}

	select {
	case session.run.ActionChan <- append([]byte{actionType}, payload...):
	case <-session.run.Done():
		rm.logger.Warning(fmt.Sprintf("dropped action for an ended run: %s", playerID))
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
