package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/embedplay/bridge/internal/repository/position"
)

type Repo struct {
	rc  *redis.Client
	exp time.Duration
}

func NewRepo(rc *redis.Client, exp time.Duration) *Repo {
	return &Repo{
		rc:  rc,
		exp: exp,
	}
}

type positionModel struct {
	PositionMs int64 `redis:"position_ms"`
	UpdatedAt  int64 `redis:"updated_at"`
}

func positionKey(videoID string) string {
	return "video" + ":" + videoID + ":position"
}

func (r Repo) SavePosition(ctx context.Context, params *position.SavePositionParams) error {
	pos := positionModel{
		PositionMs: params.Position.Milliseconds(),
		UpdatedAt:  params.UpdatedAt,
	}

	key := positionKey(params.VideoID)
	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, key, pos)
	pipe.Expire(ctx, key, r.exp)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save position: %w", err)
	}

	return nil
}

func (r Repo) GetPosition(ctx context.Context, videoID string) (time.Duration, error) {
	var pos positionModel
	if err := r.rc.HGetAll(ctx, positionKey(videoID)).Scan(&pos); err != nil {
		return 0, fmt.Errorf("failed to get position: %w", err)
	}

	// HGetAll returns an empty map for a missing key
	if pos.UpdatedAt == 0 {
		return 0, position.ErrNotFound
	}

	return time.Duration(pos.PositionMs) * time.Millisecond, nil
}

func (r Repo) RemovePosition(ctx context.Context, videoID string) error {
	res, err := r.rc.Del(ctx, positionKey(videoID)).Result()
	if err != nil {
		return fmt.Errorf("failed to remove position: %w", err)
	}
	if res == 0 {
		return position.ErrNotFound
	}

	return nil
}
