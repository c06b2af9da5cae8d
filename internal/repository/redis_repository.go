package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vpaura/backend/internal/model"
)

// CheckpointStore keeps per-session workflow state between turns.
type CheckpointStore interface {
	Save(ctx context.Context, cp *model.Checkpoint) error
	Load(ctx context.Context, sessionID int64) (*model.Checkpoint, error)
	History(ctx context.Context, sessionID int64) ([]*model.Checkpoint, error)
	Clear(ctx context.Context, sessionID int64) error
}

const (
	checkpointTTL        = 30 * 24 * time.Hour
	checkpointHistoryLen = 50
)

type redisCheckpointStore struct {
	rdb *redis.Client
}

func NewRedisCheckpointStore(rdb *redis.Client) CheckpointStore {
	return &redisCheckpointStore{rdb: rdb}
}

// Key Generation Helpers
func (r *redisCheckpointStore) latestKey(sessionID int64) string {
	return fmt.Sprintf("session:%d:checkpoint", sessionID)
}
func (r *redisCheckpointStore) writesKey(sessionID int64) string {
	return fmt.Sprintf("session:%d:checkpoint:writes", sessionID)
}

func (r *redisCheckpointStore) Save(ctx context.Context, cp *model.Checkpoint) error {
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("could not encode checkpoint: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, r.latestKey(cp.SessionID), data, checkpointTTL)
	pipe.RPush(ctx, r.writesKey(cp.SessionID), data)
	pipe.LTrim(ctx, r.writesKey(cp.SessionID), -checkpointHistoryLen, -1)
	pipe.Expire(ctx, r.writesKey(cp.SessionID), checkpointTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisCheckpointStore) Load(ctx context.Context, sessionID int64) (*model.Checkpoint, error) {
	data, err := r.rdb.Get(ctx, r.latestKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var cp model.Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("could not decode checkpoint: %w", err)
	}
	return &cp, nil
}

// History returns the retained checkpoints for a session, oldest first.
func (r *redisCheckpointStore) History(ctx context.Context, sessionID int64) ([]*model.Checkpoint, error) {
	raw, err := r.rdb.LRange(ctx, r.writesKey(sessionID), 0, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []*model.Checkpoint{}, nil
		}
		return nil, err
	}
	out := make([]*model.Checkpoint, 0, len(raw))
	for _, item := range raw {
		var cp model.Checkpoint
		if err := json.Unmarshal([]byte(item), &cp); err != nil {
			continue
		}
		out = append(out, &cp)
	}
	return out, nil
}

func (r *redisCheckpointStore) Clear(ctx context.Context, sessionID int64) error {
	return r.rdb.Del(ctx, r.latestKey(sessionID), r.writesKey(sessionID)).Err()
}
