package i

import "context"

// RankedEntry is one leaderboard row.
type RankedEntry struct {
	Username string
	Score    int
}

// Leaderboard keeps the best score posted by each user, highest first.
type Leaderboard interface {
	// Submit records a score for the user. A score lower than the user's
	// current best is ignored.
	Submit(ctx context.Context, username string, score int) error

	// Top returns up to n entries ordered from best to worst.
	Top(ctx context.Context, n int64) ([]RankedEntry, error)
}
