package session

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"hsbot/internal/config"
)

// RedisStore keeps each conversation in one hash, fsm:<chat id>, with one
// hash field per bag key.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a store backed by the Redis server in cfg. It does
// not connect; call Ping to probe reachability.
func NewRedisStore(cfg config.Storage) *RedisStore {
	return &RedisStore{rdb: NewRedisClient(cfg)}
}

// NewRedisClient returns a client for the Redis server in cfg, shared with
// the statistics projection.
func NewRedisClient(cfg config.Storage) *redis.Client {
	// redis/go-redis/v9: NewClient creates a pooled client; connections are
	// dialled lazily on first command.
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func redisKey(chatID int64) string {
	return "fsm:" + strconv.FormatInt(chatID, 10)
}

func (s *RedisStore) Get(ctx context.Context, chatID int64) (Bag, error) {
	// redis/go-redis/v9: HGetAll returns an empty map for a missing key, never redis.Nil.
	fields, err := s.rdb.HGetAll(ctx, redisKey(chatID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get session %d: %w", chatID, err)
	}
	bag := make(Bag, len(fields))
	for k, v := range fields {
		bag[k] = []byte(v)
	}
	return bag, nil
}

func (s *RedisStore) Update(ctx context.Context, chatID int64, patch Bag) error {
	if len(patch) == 0 {
		return nil
	}
	key := redisKey(chatID)

	var (
		set []any
		del []string
	)
	for k, v := range patch {
		if isNull(v) {
			del = append(del, k)
			continue
		}
		set = append(set, k, string(v))
	}

	// redis/go-redis/v9: TxPipelined wraps HSET and HDEL in MULTI/EXEC so a
	// reader never observes half of an update.
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if len(set) > 0 {
			p.HSet(ctx, key, set...)
		}
		if len(del) > 0 {
			p.HDel(ctx, key, del...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis update session %d: %w", chatID, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, chatID int64) error {
	if err := s.rdb.Del(ctx, redisKey(chatID)).Err(); err != nil {
		return fmt.Errorf("redis clear session %d: %w", chatID, err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) Name() string { return "redis" }
