package metadata

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/mtlprog/algofolio/internal/domain"
)

const (
	fieldName     = "name"
	fieldDecimals = "decimals"
	fieldCreator  = "creator"
)

// RedisStore shares the metadata cache between machines. Each asset is a hash
// at "algofolio:asset:{id}" with fields name, decimals and creator.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to addr and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func assetKey(id domain.AssetID) string {
	return "algofolio:asset:" + id.String()
}

func (s *RedisStore) Entry(ctx context.Context, id domain.AssetID) (Entry, error) {
	vals, err := s.rdb.HGetAll(ctx, assetKey(id)).Result()
	if err != nil {
		return Entry{}, fmt.Errorf("redis: get asset %d: %w", id, err)
	}
	return entryFromHash(vals)
}

func (s *RedisStore) Put(ctx context.Context, id domain.AssetID, e Entry) error {
	fields := hashFromEntry(e)
	if len(fields) == 0 {
		return nil
	}
	if err := s.rdb.HSet(ctx, assetKey(id), fields).Err(); err != nil {
		return fmt.Errorf("redis: set asset %d: %w", id, err)
	}
	return nil
}

// Flush is a no-op: every Put is already durable.
func (s *RedisStore) Flush(context.Context) error {
	return nil
}

func entryFromHash(vals map[string]string) (Entry, error) {
	var e Entry
	if v, ok := vals[fieldName]; ok {
		e.Name = &v
	}
	if v, ok := vals[fieldCreator]; ok {
		e.Creator = &v
	}
	if v, ok := vals[fieldDecimals]; ok {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return Entry{}, fmt.Errorf("redis: parse decimals %q: %w", v, err)
		}
		d := uint32(n)
		e.Decimals = &d
	}
	return e, nil
}

func hashFromEntry(e Entry) map[string]any {
	fields := make(map[string]any, 3)
	if e.Name != nil {
		fields[fieldName] = *e.Name
	}
	if e.Decimals != nil {
		fields[fieldDecimals] = strconv.FormatUint(uint64(*e.Decimals), 10)
	}
	if e.Creator != nil {
		fields[fieldCreator] = *e.Creator
	}
	return fields
}
