package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the key the state blob is stored under.
const DefaultRedisKey = "setlist:state"

const (
	pingAttempts = 5
	pingBackoff  = 200 * time.Millisecond
)

// RedisStore keeps AppState as one JSON blob in Redis.
type RedisStore struct {
	client *redislib.Client
	key    string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore wraps an existing client. An empty key uses DefaultRedisKey.
func NewRedisStore(client *redislib.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

// OpenRedis connects to the server at url (redis://...) and waits for it to
// answer a ping.
func OpenRedis(ctx context.Context, url, key string) (*RedisStore, error) {
	opts, err := redislib.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redislib.NewClient(opts)

	backoff := pingBackoff
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err = client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return NewRedisStore(client, key), nil
		}
		if attempt < pingAttempts {
			select {
			case <-ctx.Done():
				_ = client.Close()
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	_ = client.Close()
	return nil, fmt.Errorf("connect redis: %w", err)
}

func (r *RedisStore) ensureClient() error {
	if r.client == nil {
		return errors.New("redis client is nil")
	}
	return nil
}

func (r *RedisStore) metaKey() string {
	return r.key + ":meta"
}

// Load reads the saved state.
func (r *RedisStore) Load(ctx context.Context) (*AppState, error) {
	if err := r.ensureClient(); err != nil {
		return nil, err
	}
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redislib.Nil) {
		return nil, nil //nolint:nilnil // nothing saved yet
	}
	if err != nil {
		return nil, err
	}
	return Import(data)
}

// Save replaces the saved state with a.
func (r *RedisStore) Save(ctx context.Context, a AppState) error {
	if err := r.ensureClient(); err != nil {
		return err
	}
	data, err := Export(a)
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(p redislib.Pipeliner) error {
		p.Set(ctx, r.key, data, 0)
		p.HSet(ctx, r.metaKey(), "saved_at", time.Now().Unix(), "songs", len(a.Songs))
		return nil
	})
	return err
}

func (r *RedisStore) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
