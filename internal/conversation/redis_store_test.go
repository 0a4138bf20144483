package conversation

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T, limit int) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, limit, nil)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newRedisStore(t, 20)
	ctx := context.Background()

	err := store.AppendPair(ctx, "u1",
		ChatMessage{Role: ChatRoleUser, Content: "hello"},
		ChatMessage{Role: ChatRoleAssistant, Content: "hi there"},
	)
	if err != nil {
		t.Fatalf("AppendPair: %v", err)
	}

	history, err := store.History(ctx, "u1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Content != "hello" || history[1].Content != "hi there" {
		t.Errorf("unexpected contents: %q, %q", history[0].Content, history[1].Content)
	}
}

func TestRedisStoreUnknownUserEmptyHistory(t *testing.T) {
	store := newRedisStore(t, 20)

	history, err := store.History(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("history length = %d, want 0", len(history))
	}
}

func TestRedisStoreBoundsHistory(t *testing.T) {
	store := newRedisStore(t, 20)
	ctx := context.Background()

	for i := 0; i < 13; i++ {
		store.AppendPair(ctx, "u1",
			ChatMessage{Role: ChatRoleUser, Content: fmt.Sprintf("q-%d", i)},
			ChatMessage{Role: ChatRoleAssistant, Content: fmt.Sprintf("a-%d", i)},
		)
	}

	history, _ := store.History(ctx, "u1")
	if len(history) != 20 {
		t.Fatalf("history length = %d, want 20", len(history))
	}
	if history[0].Content != "q-3" {
		t.Errorf("oldest surviving message = %q, want q-3", history[0].Content)
	}
}

func TestRedisStoreProfileMerge(t *testing.T) {
	store := newRedisStore(t, 20)
	ctx := context.Background()

	if err := store.MergeProfile(ctx, "u1", Profile{Age: 42, Interests: []string{"life"}}); err != nil {
		t.Fatalf("MergeProfile: %v", err)
	}
	if err := store.MergeProfile(ctx, "u1", Profile{Location: "tema"}); err != nil {
		t.Fatalf("MergeProfile: %v", err)
	}

	profile, err := store.Profile(ctx, "u1")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if profile.Age != 42 || profile.Location != "tema" {
		t.Errorf("profile = %+v", profile)
	}
	if len(profile.Interests) != 1 || profile.Interests[0] != "life" {
		t.Errorf("Interests = %v, want [life]", profile.Interests)
	}
}

func TestRedisStorePanicsWithoutClient(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on nil client")
		}
	}()
	NewRedisStore(nil, 20, nil)
}
