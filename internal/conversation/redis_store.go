package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const conversationTTL = 7 * 24 * time.Hour

// RedisStore persists histories and profiles in redis so conversations
// survive process restarts. It implements HistoryStore and ProfileStore
// with the same bounded-log semantics as MemoryStore.
type RedisStore struct {
	redis  *redis.Client
	limit  int
	tracer trace.Tracer
}

// NewRedisStore wraps an existing redis client. limit bounds the per-user
// message log (DefaultHistoryLimit when <= 0).
func NewRedisStore(client *redis.Client, limit int, tracer trace.Tracer) *RedisStore {
	if client == nil {
		panic("conversation: redis client cannot be nil")
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if tracer == nil {
		tracer = otel.Tracer("insurance.internal.conversation.store")
	}
	return &RedisStore{
		redis:  client,
		limit:  limit,
		tracer: tracer,
	}
}

func conversationKey(userID string) string {
	return fmt.Sprintf("conversation:%s", userID)
}

func profileKey(userID string) string {
	return fmt.Sprintf("profile:%s", userID)
}

// Append adds one message to the user's log.
func (s *RedisStore) Append(ctx context.Context, userID string, msg ChatMessage) error {
	return s.appendMessages(ctx, userID, msg)
}

// AppendPair adds a user turn and its assistant turn in one write.
func (s *RedisStore) AppendPair(ctx context.Context, userID string, userMsg, assistantMsg ChatMessage) error {
	return s.appendMessages(ctx, userID, userMsg, assistantMsg)
}

func (s *RedisStore) appendMessages(ctx context.Context, userID string, msgs ...ChatMessage) error {
	ctx, span := s.tracer.Start(ctx, "conversation.append_history")
	defer span.End()

	history, err := s.load(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	history = append(history, msgs...)
	if len(history) > s.limit {
		history = history[len(history)-s.limit:]
	}

	data, err := json.Marshal(history)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to marshal history: %w", err)
	}
	if err := s.redis.Set(ctx, conversationKey(userID), data, conversationTTL).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to persist history: %w", err)
	}
	return nil
}

// History returns the user's message log in insertion order. Unknown users
// get an empty history, not an error.
func (s *RedisStore) History(ctx context.Context, userID string) ([]ChatMessage, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.load_history")
	defer span.End()

	history, err := s.load(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return history, nil
}

func (s *RedisStore) load(ctx context.Context, userID string) ([]ChatMessage, error) {
	data, err := s.redis.Get(ctx, conversationKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("conversation: failed to load history: %w", err)
	}
	var history []ChatMessage
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("conversation: failed to decode history: %w", err)
	}
	return history, nil
}

// MergeProfile folds incoming fields into the stored profile.
func (s *RedisStore) MergeProfile(ctx context.Context, userID string, in Profile) error {
	ctx, span := s.tracer.Start(ctx, "conversation.merge_profile")
	defer span.End()

	current, err := s.Profile(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	merged := current.merge(in)

	data, err := json.Marshal(merged)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to marshal profile: %w", err)
	}
	if err := s.redis.Set(ctx, profileKey(userID), data, conversationTTL).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to persist profile: %w", err)
	}
	return nil
}

// Profile returns the accumulated profile (zero value when unknown).
func (s *RedisStore) Profile(ctx context.Context, userID string) (Profile, error) {
	data, err := s.redis.Get(ctx, profileKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Profile{}, nil
		}
		return Profile{}, fmt.Errorf("conversation: failed to load profile: %w", err)
	}
	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return Profile{}, fmt.Errorf("conversation: failed to decode profile: %w", err)
	}
	return profile, nil
}
