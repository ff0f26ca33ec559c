package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps a session history in a redis list so a conversation
// survives restarts of the console.
type RedisStore struct {
	client          *redis.Client
	key             string
	ttl             time.Duration
	maxMessages     int
	maxToolResponse int
}

// RedisStoreConfig configures a RedisStore.
type RedisStoreConfig struct {
	Client          *redis.Client
	SessionID       string
	TTL             time.Duration // zero keeps the list forever
	MaxMessages     int
	MaxToolResponse int
}

// NewRedisStore creates a store for one session.
func NewRedisStore(cfg RedisStoreConfig) (*RedisStore, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if cfg.SessionID == "" {
		return nil, fmt.Errorf("session id must be provided")
	}
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = DefaultMaxMessages
	}
	if cfg.MaxToolResponse <= 0 {
		cfg.MaxToolResponse = DefaultMaxToolResponse
	}
	return &RedisStore{
		client:          cfg.Client,
		key:             "bookwise:session:" + cfg.SessionID,
		ttl:             cfg.TTL,
		maxMessages:     cfg.MaxMessages,
		maxToolResponse: cfg.MaxToolResponse,
	}, nil
}

// Key returns the redis list holding the history.
func (s *RedisStore) Key() string { return s.key }

func (s *RedisStore) Add(ctx context.Context, msg adk.Message) error {
	if msg == nil {
		return nil
	}
	if msg.Role == schema.Tool {
		msg = compressToolResponse(msg, s.maxToolResponse)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, s.key, data)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return s.trim(ctx)
}

// trim applies the same window as MemoryStore.
func (s *RedisStore) trim(ctx context.Context) error {
	msgs, err := s.List(ctx)
	if err != nil {
		return err
	}
	start := windowStart(msgs, s.maxMessages)
	if start == 0 {
		return nil
	}
	if err := s.client.LTrim(ctx, s.key, int64(start), -1).Err(); err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]adk.Message, error) {
	raw, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	out := make([]adk.Message, 0, len(raw))
	for _, item := range raw {
		var msg schema.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		out = append(out, &msg)
	}
	return out, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
