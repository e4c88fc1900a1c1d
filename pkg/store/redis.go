package store

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/mhalter/nodeloom/pkg/document"
)

// redisKeyPrefix namespaces document keys in a shared Redis instance.
const redisKeyPrefix = "nodeloom:doc:"

// Redis stores serialized documents as Redis string values.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed store from a connection URL such as
// redis://localhost:6379/0 and verifies the connection.
func NewRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &Redis{client: client}, nil
}

// Load returns the document stored under name.
func (r *Redis) Load(ctx context.Context, name string) (*document.Document, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return document.UnmarshalDocument(data)
}

// Save stores the document under name.
func (r *Redis) Save(ctx context.Context, name string, d *document.Document) error {
	data, err := document.MarshalDocument(d)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisKeyPrefix+name, data, 0).Err()
}

// Delete removes the document under name.
func (r *Redis) Delete(ctx context.Context, name string) error {
	return r.client.Del(ctx, redisKeyPrefix+name).Err()
}

// List returns the stored names in lexicographic order, scanning the key
// namespace incrementally.
func (r *Redis) List(ctx context.Context) ([]string, error) {
	var names []string
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), redisKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}

// Close closes the underlying client.
func (r *Redis) Close() error { return r.client.Close() }

var _ Store = (*Redis)(nil)
