// Package notify fans cache invalidations out to other replicas over a
// Redis pub/sub channel. Each process publishes the project name after
// a successful save or delete and invalidates its local cache when a
// foreign replica does the same.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultChannel = "projects:invalidations"

// Invalidator is the slice of the record cache the listen loop needs.
type Invalidator interface {
	Invalidate(name string)
}

type event struct {
	Origin string `json:"origin"`
	Name   string `json:"name"`
}

// Notifier publishes and consumes invalidation events. Events carry an
// origin ID so a replica ignores its own messages.
type Notifier struct {
	client  *redis.Client
	channel string
	origin  string
	cache   Invalidator
}

// New creates a notifier bound to the given cache. An empty channel
// uses the default.
func New(client *redis.Client, channel string, cache Invalidator) *Notifier {
	if channel == "" {
		channel = defaultChannel
	}
	return &Notifier{
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
		cache:   cache,
	}
}

// Client exposes the underlying redis client.
func (n *Notifier) Client() *redis.Client { return n.client }

// PublishInvalidation broadcasts that the record under name changed.
func (n *Notifier) PublishInvalidation(ctx context.Context, name string) error {
	payload, err := json.Marshal(event{Origin: n.origin, Name: name})
	if err != nil {
		return fmt.Errorf("marshal invalidation event: %w", err)
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish invalidation: %w", err)
	}
	return nil
}

// Listen consumes invalidation events until ctx is cancelled,
// invalidating the local cache for every foreign-origin event.
func (n *Notifier) Listen(ctx context.Context) error {
	sub := n.client.Subscribe(ctx, n.channel)
	defer sub.Close()

	// Wait for the subscription before callers start publishing.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", n.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("notify: bad invalidation payload %q: %v", msg.Payload, err)
				continue
			}
			if ev.Origin == n.origin || ev.Name == "" {
				continue
			}
			n.cache.Invalidate(ev.Name)
		}
	}
}
