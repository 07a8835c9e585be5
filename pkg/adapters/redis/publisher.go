// Package redis fans tracker mutations out over Redis Pub/Sub.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/trackable/pkg/domain"
	jsoniter "github.com/json-iterator/go"
	backend "github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Publisher is a listener that publishes every mutation as JSON on a Redis channel.
type Publisher struct {
	client  *backend.Client
	channel string
	timeout time.Duration
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithTimeout bounds each PUBLISH call (default: 5s). Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		p.timeout = d
	}
}

// NewPublisher creates a publisher for the given channel.
func NewPublisher(client *backend.Client, channel string, opts ...Option) *Publisher {
	p := &Publisher{
		client:  client,
		channel: channel,
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OnMutation encodes m and publishes it. Listeners run synchronously, so the
// publish blocks the mutating call for at most the configured timeout.
func (p *Publisher) OnMutation(m domain.Mutation) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode mutation: %w", err)
	}

	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}
	return nil
}

// Subscriber reads mutations published by a Publisher.
type Subscriber struct {
	pubsub *backend.PubSub
}

// Subscribe listens on channel and waits for the server to confirm the subscription,
// so nothing published after it returns is missed.
func Subscribe(ctx context.Context, client *backend.Client, channel string) (*Subscriber, error) {
	ps := client.Subscribe(ctx, channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", channel, err)
	}
	return &Subscriber{pubsub: ps}, nil
}

// Receive blocks until the next mutation arrives. Decoded numbers are float64.
func (s *Subscriber) Receive(ctx context.Context) (domain.Mutation, error) {
	msg, err := s.pubsub.ReceiveMessage(ctx)
	if err != nil {
		return domain.Mutation{}, err
	}

	var m domain.Mutation
	if err := json.UnmarshalFromString(msg.Payload, &m); err != nil {
		return domain.Mutation{}, fmt.Errorf("decode mutation: %w", err)
	}
	return m, nil
}

// Close unsubscribes.
func (s *Subscriber) Close() error {
	return s.pubsub.Close()
}
