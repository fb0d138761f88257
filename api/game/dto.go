// Package gameapi provides structures and utilities for managing run requests and responses.
package gameapi

// RunInfoResponse carries what a client needs to join its run socket.
type RunInfoResponse struct {
	SocketPubKey []byte `json:"socket_pubkey"`
	SocketAddr   string `json:"socket_addr"`
}

// GuessRequest is the player's guess of the cell their run ended in.
type GuessRequest struct {
	CellX *int `json:"cell_x" binding:"required"`
	CellY *int `json:"cell_y" binding:"required"`
}

// GuessResponse carries the score earned by a guess.
type GuessResponse struct {
	Score int `json:"score"`
}

// LeaderboardEntry is one row of the leaderboard response.
type LeaderboardEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}
