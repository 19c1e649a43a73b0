package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Voted markers live for the election day.
const votedTTL = 24 * time.Hour

// Guard keeps short-lived voted markers so a voter cannot be put through the
// verification flow twice on the same day.
type Guard struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, addr, password string) (*Guard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}
	return &Guard{client: client}, nil
}

// MarkVoted records that the voter was processed at the given terminal.
func (g *Guard) MarkVoted(ctx context.Context, voterID, terminalID string) error {
	if err := g.client.Set(ctx, votedKey(voterID), terminalID, votedTTL).Err(); err != nil {
		return fmt.Errorf("mark voter %s voted: %w", voterID, err)
	}
	return nil
}

// HasVoted reports whether a voted marker exists for the voter.
func (g *Guard) HasVoted(ctx context.Context, voterID string) (bool, error) {
	n, err := g.client.Exists(ctx, votedKey(voterID)).Result()
	if err != nil {
		return false, fmt.Errorf("check voted marker for %s: %w", voterID, err)
	}
	return n > 0, nil
}

// Close releases the underlying connection pool.
func (g *Guard) Close() error {
	return g.client.Close()
}

func votedKey(voterID string) string {
	return "voted:" + voterID
}
