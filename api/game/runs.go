// Package gameapi handles run creation, guessing, and the leaderboard.
package gameapi

import (
	"context"
	"net/http"
	"time"

	"github.com/charlie572/Blind-Maze-Game/api/identity"
	"github.com/charlie572/Blind-Maze-Game/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const leaderboardSize = 10

// RunController manages blind-maze run operations.
type RunController struct {
	runManager  i.RunManager
	leaderboard i.Leaderboard
}

// NewRunController initializes a RunController.
func NewRunController(rm i.RunManager, lb i.Leaderboard) (*RunController, error) {
	return &RunController{
		runManager:  rm,
		leaderboard: lb,
	}, nil
}

// RegisterPublic registers public routes.
func (rc *RunController) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/leaderboard", rc.topScores)
}

// RegisterProtected registers protected routes.
func (rc *RunController) RegisterProtected(route *gin.RouterGroup) {
	runs := route.Group("/runs")
	{
		runs.POST("/", rc.startRun)
		runs.GET("/session", rc.runInfo)
		runs.POST("/guess", rc.guess)
	}
}

// startRun starts a new timed run for the authenticated player.
func (rc *RunController) startRun(ctx *gin.Context) {
	playerID, ok := playerIDFromClaims(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	if err := rc.runManager.NewRun(playerID); err != nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	pubKey, socketAddr, err := rc.runManager.SessionInfo(ctx, playerID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, &RunInfoResponse{
		SocketPubKey: pubKey,
		SocketAddr:   socketAddr,
	})
}

// runInfo returns the socket credentials for the player's active run.
func (rc *RunController) runInfo(ctx *gin.Context) {
	playerID, ok := playerIDFromClaims(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	pubKey, socketAddr, err := rc.runManager.SessionInfo(timeoutCtx, playerID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no run"})
		return
	}

	response := &RunInfoResponse{
		SocketPubKey: pubKey,
		SocketAddr:   socketAddr,
	}

	ctx.JSON(http.StatusOK, response)
}

// guess scores the player's guess of their final cell.
func (rc *RunController) guess(ctx *gin.Context) {
	playerID, ok := playerIDFromClaims(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	var request GuessRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	score, err := rc.runManager.Guess(ctx, playerID, *request.CellX, *request.CellY)
	if err != nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, &GuessResponse{Score: score})
}

// topScores returns the best scores, highest first.
func (rc *RunController) topScores(ctx *gin.Context) {
	entries, err := rc.leaderboard.Top(ctx, leaderboardSize)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while reading leaderboard"})
		return
	}

	response := make([]LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		response = append(response, LeaderboardEntry{Username: e.Username, Score: e.Score})
	}

	ctx.JSON(http.StatusOK, response)
}

// playerIDFromClaims pulls the authenticated player's ID out of the JWT
// claims the authorization middleware attached.
func playerIDFromClaims(ctx *gin.Context) (uuid.UUID, bool) {
	raw, ok := ctx.Get(identity.ContextUserClaims)
	if !ok {
		return uuid.Nil, false
	}

	claims, ok := raw.(map[string]interface{})
	if !ok {
		return uuid.Nil, false
	}

	idString, ok := claims["userID"].(string)
	if !ok {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idString)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
