// Package sortedstorage keeps ranked score data in Redis sorted sets.
package sortedstorage

import (
	"context"

	"github.com/charlie572/Blind-Maze-Game/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// RedisLeaderboard stores each user's best score in a Redis sorted set.
type RedisLeaderboard struct {
	client *redis.Client
	locker *redsync.Redsync
	key    string
}

// NewRedisLeaderboard initializes a RedisLeaderboard on the given sorted set key.
func NewRedisLeaderboard(client *redis.Client, key string) (i.Leaderboard, error) {
	board := &RedisLeaderboard{
		client: client,
		key:    key,
	}
	pool := goredis.NewPool(client)
	board.locker = redsync.New(pool)
	return board, nil
}

// Submit records the score for the user if it beats their stored best.
// The check-then-set runs under a distributed lock so concurrent
// submissions from several instances cannot lower a stored score.
func (rl *RedisLeaderboard) Submit(ctx context.Context, username string, score int) error {
	mutex := rl.locker.NewMutex(rl.key + ":submit_lock")
	if err := mutex.Lock(); err != nil {
		return err
	}
	defer func() {
		_, _ = mutex.Unlock()
	}()

	current, err := rl.client.ZScore(ctx, rl.key, username).Result()
	if err == nil && current >= float64(score) {
		return nil
	}
	if err != nil && err != redis.Nil {
		return err
	}

	return rl.client.ZAdd(ctx, rl.key, redis.Z{Score: float64(score), Member: username}).Err()
}

// Top returns up to n entries ordered from the highest score down.
func (rl *RedisLeaderboard) Top(ctx context.Context, n int64) ([]i.RankedEntry, error) {
	if n <= 0 {
		return nil, nil
	}

	members, err := rl.client.ZRevRangeWithScores(ctx, rl.key, 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]i.RankedEntry, 0, len(members))
	for _, m := range members {
		username, ok := m.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, i.RankedEntry{
			Username: username,
			Score:    int(m.Score),
		})
	}
	return entries, nil
}
