package i

import (
	"context"

	"github.com/google/uuid"
)

// RunManager manages blind-maze runs and scores their final guesses.
type RunManager interface {
	// NewRun starts a fresh timed run for the player.
	NewRun(playerID uuid.UUID) error

	// SessionInfo returns the socket public key and address for a player
	// with an active run.
	SessionInfo(context.Context, uuid.UUID) ([]byte, string, error)

	// Guess scores the player's guess of where their run ended and
	// returns the score. It fails while the run is still going or when
	// the player has no finished run waiting for a guess.
	Guess(ctx context.Context, playerID uuid.UUID, cellX, cellY int) (int, error)

	// StopAll stops every active run.
	StopAll()
}
