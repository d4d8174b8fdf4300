package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xela07ax/secret-approval-bot/internal/domain"
	"github.com/xela07ax/secret-approval-bot/internal/infra"
)

// Redis — реестр поверх Redis: переживает рестарт процесса и делится между инстансами.
// Атомарность consume обеспечивает GETDEL, уникальность create — SETNX.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl}
}

func (r *Redis) Create(ctx context.Context, req *domain.PendingRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("registry: marshal request: %w", err)
	}

	id := NewID()
	ok, err := r.rdb.SetNX(ctx, infra.RequestKey(id), data, r.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("registry: store request: %w", err)
	}
	if !ok {
		return "", domain.ErrIDCollision
	}
	return id, nil
}

func (r *Redis) Get(ctx context.Context, id string) (*domain.PendingRequest, error) {
	data, err := r.rdb.Get(ctx, infra.RequestKey(id)).Bytes()
	return decodeRequest(data, err)
}

func (r *Redis) Consume(ctx context.Context, id string) (*domain.PendingRequest, error) {
	// GETDEL: чтение и удаление одной командой, двойной consume невозможен
	data, err := r.rdb.GetDel(ctx, infra.RequestKey(id)).Bytes()
	return decodeRequest(data, err)
}

func (r *Redis) Size(ctx context.Context) (int64, error) {
	var n int64
	iter := r.rdb.Scan(ctx, 0, infra.RequestKeyPattern, 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("registry: scan requests: %w", err)
	}
	return n, nil
}

func decodeRequest(data []byte, err error) (*domain.PendingRequest, error) {
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("registry: fetch request: %w", err)
	}

	var req domain.PendingRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("registry: unmarshal request: %w", err)
	}
	return &req, nil
}
