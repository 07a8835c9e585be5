package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/trackable"
	"github.com/aretw0/trackable/pkg/adapters/redis"
	"github.com/aretw0/trackable/pkg/domain"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *backend.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestPublisher_RoundTrip(t *testing.T) {
	client := setup(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub, err := redis.Subscribe(ctx, client, "mutations")
	require.NoError(t, err)
	defer sub.Close()

	tr, err := trackable.New(map[string]any{
		"foo":   map[string]any{"bar": 1},
		"items": []any{1, 2},
	})
	require.NoError(t, err)
	require.NoError(t, tr.AddListener(redis.NewPublisher(client, "mutations", redis.WithTimeout(time.Second)), false))

	root := tr.Proxy()
	require.NoError(t, root.Get("foo").(*trackable.Node).Set("bar", "x"))
	_, err = root.Get("items").(*trackable.Node).Push(3)
	require.NoError(t, err)
	require.NoError(t, root.Delete("foo"))

	m, err := sub.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Mutation{Type: domain.MutationSet, Path: []string{"foo", "bar"}, Value: "x"}, m)

	m, err = sub.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.MutationArray, m.Type)
	assert.Equal(t, []string{"items"}, m.Path)
	assert.Equal(t, []any{"push", float64(3)}, m.Value)

	m, err = sub.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Mutation{Type: domain.MutationDelete, Path: []string{"foo"}}, m)
}

func TestPublisher_ReportsFailure(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	p := redis.NewPublisher(client, "mutations", redis.WithTimeout(200*time.Millisecond))
	err = p.OnMutation(domain.Mutation{Type: domain.MutationSet, Path: []string{"a"}, Value: 1})
	assert.Error(t, err)
}
