package game

import (
	"errors"
	"sync"
	"time"

	"github.com/charlie572/Blind-Maze-Game/game/maze"
	"github.com/charlie572/Blind-Maze-Game/game/vision"
)

var _ vision.World = (*Game)(nil)

// Run-related errors.
var (
	ErrNilGame    = errors.New("run requires a game")
	ErrNilEncoder = errors.New("run requires an encoder")
)

const (
	defaultTickRate   = 30  // simulation ticks per second
	defaultProbeSpeed = 2.0 // hallway probe speed in cells per second
)

// Run drives one timed blind-maze session. It owns the game, the vision
// tools, and the channels that connect them to a transport: action
// records arrive on ActionChan, cue and state records leave on CueChan
// and StateChan, and the final state is published on EndChan when the
// clock runs out. All outgoing records are sent from the loop goroutine,
// so cue batches arrive in the order they were produced.
type Run struct {
	game        *Game
	encoder     Encoder
	tickRate    int
	version     int64
	deadline    time.Time
	probe       *vision.HallwayProbe
	breadcrumbs *vision.BreadcrumbSet
	cellChanges *vision.CellChangeMonitor
	footsteps   *vision.FootstepMonitor
	stop        chan bool
	stopOnce    sync.Once
	done        chan struct{}
	StateChan   chan []byte // snapshots of the run state
	CueChan     chan []byte // batches of navigation cues
	ActionChan  chan []byte // incoming action records, type byte first
	EndChan     chan []byte // final state when the run ends
	sync.RWMutex
}

// RunConfig holds the parameters for creating a Run.
type RunConfig struct {
	Game     *Game
	Encoder  Encoder
	TickRate int // ticks per second; defaults to 30
}

// NewRun prepares a run around an existing game.
func NewRun(c RunConfig) (*Run, error) {
	if c.Game == nil {
		return nil, ErrNilGame
	}
	if c.Encoder == nil {
		return nil, ErrNilEncoder
	}
	if c.TickRate <= 0 {
		c.TickRate = defaultTickRate
	}

	breadcrumbs, err := vision.NewBreadcrumbSet(c.Game)
	if err != nil {
		return nil, err
	}
	cellChanges, err := vision.NewCellChangeMonitor(c.Game)
	if err != nil {
		return nil, err
	}

	return &Run{
		game:        c.Game,
		encoder:     c.Encoder,
		tickRate:    c.TickRate,
		breadcrumbs: breadcrumbs,
		cellChanges: cellChanges,
		footsteps:   vision.NewFootstepMonitor(c.Game),
		stop:        make(chan bool, 1),
		done:        make(chan struct{}),
		StateChan:   make(chan []byte),
		CueChan:     make(chan []byte),
		ActionChan:  make(chan []byte),
		EndChan:     make(chan []byte),
	}, nil
}

// Game returns the game being run.
func (r *Run) Game() *Game {
	return r.game
}

// Done is closed once the run loop has exited. Writers to ActionChan
// select against it so actions for an ended run are dropped instead of
// blocking or panicking.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// FinalCell returns the cell the player ended in. Meaningful once the run
// has stopped.
func (r *Run) FinalCell() (maze.Cell, error) {
	r.RLock()
	defer r.RUnlock()
	return r.game.CurrentCell()
}

// Start runs the session loop until the duration elapses or Stop is
// called. It blocks; callers run it in a goroutine.
func (r *Run) Start(duration time.Duration) {
	r.Lock()
	r.deadline = time.Now().Add(duration)
	r.Unlock()
	time.AfterFunc(duration, r.Stop)

	dt := 1.0 / float64(r.tickRate)
	ticker := time.NewTicker(time.Second / time.Duration(r.tickRate))
	defer ticker.Stop()
	defer close(r.done)

	for {
		select {
		case <-r.stop:
			return
		case action := <-r.ActionChan:
			if len(action) < 1 {
				continue
			}
			r.handleAction(action[0], action[1:])
		case <-ticker.C:
			r.tick(dt)
		}
	}
}

// Stop ends the run, waits for the loop goroutine to exit, then closes
// the outgoing channels and publishes the final state. ActionChan stays
// open; writers must select against Done instead. Safe to call more than
// once; only the first call does anything.
func (r *Run) Stop() {
	r.stopOnce.Do(func() {
		r.stop <- true
		<-r.done
		close(r.StateChan)
		close(r.CueChan)
		r.broadcastState(true)
		close(r.EndChan)
	})
}

// tick advances the simulation by one fixed step and flushes any cues the
// movement produced.
func (r *Run) tick(dt float64) {
	r.Lock()

	var cues []vision.Cue
	if err := r.game.Update(dt); err == nil {
		cues = append(cues, r.footsteps.Update()...)
		if changed, err := r.cellChanges.Update(); err == nil {
			cues = append(cues, changed...)
		}
		if marked, err := r.breadcrumbs.Update(); err == nil {
			cues = append(cues, marked...)
		}
	}

	if r.probe != nil {
		probeCues, done := r.probe.Advance(dt)
		cues = append(cues, probeCues...)
		if done {
			r.probe = nil
		}
	}
	r.version++
	r.Unlock()

	if len(cues) > 0 {
		r.broadcastCues(cues)
	}
}

// handleAction processes one incoming action record.
func (r *Run) handleAction(t byte, payload []byte) {
	switch t {
	case MoveActionType:
		move, err := r.encoder.UnmarshalMove(payload)
		if err != nil {
			return
		}
		r.Lock()
		r.game.SetMoveDirection(clampDirection(move.DX), clampDirection(move.DY))
		r.Unlock()
	case SurroundActionType:
		r.Lock()
		cues, err := vision.SurroundCheck(r.game)
		r.Unlock()
		if err != nil {
			return
		}
		r.broadcastCues(cues)
	case ProbeActionType:
		probeAction, err := r.encoder.UnmarshalProbe(payload)
		if err != nil {
			return
		}
		probe, err := vision.NewHallwayProbe(r.game, probeAction.Direction, defaultProbeSpeed)
		if err != nil {
			return
		}
		r.Lock()
		r.probe = probe // an in-flight probe is abandoned, like the original tools
		r.Unlock()
	case BreadcrumbActionType:
		r.Lock()
		cue, err := r.breadcrumbs.Drop()
		r.Unlock()
		if err != nil {
			return
		}
		r.broadcastCues([]vision.Cue{cue})
	case StateRequestActionType:
		r.broadcastState(false)
	}
}

// broadcastCues marshals a cue batch onto CueChan.
func (r *Run) broadcastCues(cues []vision.Cue) {
	payload, err := r.encoder.MarshalCues(cues)
	if err != nil {
		return
	}
	r.CueChan <- payload
}

// broadcastState marshals a snapshot onto StateChan, or EndChan for the
// final state.
func (r *Run) broadcastState(ended bool) {
	payload, err := r.encoder.MarshalState(r.snapshot(ended))
	if err != nil {
		return
	}

	if ended {
		r.EndChan <- payload
	} else {
		r.StateChan <- payload
	}
}

// snapshot captures the current run state.
func (r *Run) snapshot(ended bool) State {
	r.RLock()
	defer r.RUnlock()

	remaining := time.Until(r.deadline).Seconds()
	if remaining < 0 || ended {
		remaining = 0
	}

	player := r.game.Player()
	return State{
		Version:          r.version,
		PlayerX:          player.X,
		PlayerY:          player.Y,
		PlayerWidth:      player.Width,
		PlayerHeight:     player.Height,
		RemainingSeconds: remaining,
		Ended:            ended,
	}
}

func clampDirection(d int) int {
	return min(max(d, -1), 1)
}
