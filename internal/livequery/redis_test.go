package livequery

import (
	"bytes"
	"context"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestRedisNotifierRoundTrip(t *testing.T) {
	addr := os.Getenv("QUIZ_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("QUIZ_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	notifier := NewRedisNotifier(client, "quizbank:test:"+t.Name(), nil)
	ch, unsubscribe := notifier.Subscribe("question_banks")
	defer unsubscribe()

	// Subscribe returns once Redis confirmed it, so one publish is enough.
	if err := notifier.Publish(context.Background(), "question_banks"); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	select {
	case table := <-ch:
		if table != "question_banks" {
			t.Fatalf("table = %q, want question_banks", table)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no notification received through redis")
	}
}

func TestRedisNotifierSubscribeLogsUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	var logs bytes.Buffer
	notifier := NewRedisNotifier(client, "", log.New(&logs, "", 0))

	start := time.Now()
	_, unsubscribe := notifier.Subscribe("questions")
	if elapsed := time.Since(start); elapsed > subscribeTimeout+time.Second {
		t.Fatalf("Subscribe blocked for %v", elapsed)
	}
	unsubscribe()

	if !strings.Contains(logs.String(), "confirm redis subscription") {
		t.Fatalf("expected subscription failure to be logged, got %q", logs.String())
	}
}
