package events

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "cdc:"

// RedisBus distributes events over Redis pub/sub so every instance sees
// mutations made by any other. One channel per table.
type RedisBus struct {
	client *redis.Client

	mu       sync.RWMutex
	handlers []Handler

	cancel context.CancelFunc
}

func NewRedisBus(addr string) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &RedisBus{client: client, cancel: cancel}

	sub := client.PSubscribe(ctx, channelPrefix+"*")
	go b.receive(ctx, sub)

	return b, nil
}

func (b *RedisBus) receive(ctx context.Context, sub *redis.PubSub) {
	defer sub.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("events: dropping malformed payload on %s: %v", msg.Channel, err)
				continue
			}
			b.mu.RLock()
			handlers := make([]Handler, len(b.handlers))
			copy(handlers, b.handlers)
			b.mu.RUnlock()
			for _, h := range handlers {
				h(ev)
			}
		}
	}
}

func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channelPrefix+ev.Table, payload).Err()
}

func (b *RedisBus) Subscribe(h Handler) {
	b.mu.Lock()
	b.handlers = append(b.handlers, h)
	b.mu.Unlock()
}

func (b *RedisBus) Close() error {
	b.cancel()
	return b.client.Close()
}
