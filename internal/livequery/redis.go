package livequery

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisChannel = "quizbank:changes"

const subscribeTimeout = 5 * time.Second

// RedisNotifier fans change notifications out through Redis pub/sub so that
// several processes sharing one database observe each other's writes.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	logger  *log.Logger

	mu     sync.Mutex
	local  *Broker
	pubsub *redis.PubSub
	refs   int
}

func NewRedisNotifier(client *redis.Client, channel string, logger *log.Logger) *RedisNotifier {
	if strings.TrimSpace(channel) == "" {
		channel = DefaultRedisChannel
	}
	if logger == nil {
		logger = log.Default()
	}
	return &RedisNotifier{
		client:  client,
		channel: channel,
		logger:  logger,
		local:   NewBroker(),
	}
}

func (n *RedisNotifier) Publish(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	return n.client.Publish(ctx, n.channel, strings.Join(tables, ",")).Err()
}

func (n *RedisNotifier) Subscribe(tables ...string) (<-chan string, func()) {
	ch, unsubscribe := n.local.Subscribe(tables...)

	n.mu.Lock()
	if n.refs == 0 {
		n.pubsub = n.subscribe()
		go n.relay(n.pubsub)
	}
	n.refs++
	n.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			unsubscribe()

			n.mu.Lock()
			defer n.mu.Unlock()
			n.refs--
			if n.refs == 0 && n.pubsub != nil {
				if err := n.pubsub.Close(); err != nil {
					n.logger.Printf("livequery: close redis subscription: %v", err)
				}
				n.pubsub = nil
			}
		})
	}
}

// subscribe opens the Redis subscription and waits for the server to confirm
// it, so a Watch that queries right after Subscribe cannot miss a publish.
func (n *RedisNotifier) subscribe() *redis.PubSub {
	ctx, cancel := context.WithTimeout(context.Background(), subscribeTimeout)
	defer cancel()

	pubsub := n.client.Subscribe(ctx, n.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		n.logger.Printf("livequery: confirm redis subscription to %s: %v", n.channel, err)
	}
	return pubsub
}

// relay forwards messages from one Redis subscription into the local broker
// until the subscription is closed.
func (n *RedisNotifier) relay(pubsub *redis.PubSub) {
	for msg := range pubsub.Channel() {
		tables := strings.Split(msg.Payload, ",")
		_ = n.local.Publish(context.Background(), tables...)
	}
}
