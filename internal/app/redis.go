package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"carpool/internal/config"
	"carpool/internal/middleware"
	internalRedis "carpool/internal/redis"
)

// keyFamilies are the key namespaces the service writes. Datastore segments
// are reported per family so cache, lock and idempotency traffic stay apart.
var keyFamilies = []string{
	internalRedis.ProfileKeyPrefix,
	internalRedis.PhoneLockKeyPrefix,
	middleware.IdempotencyKeyPrefix,
}

const (
	collectionOther = "other"
	collectionMixed = "mixed"
)

// NewRedisClient connects to Redis and verifies the connection.
// With nrApp set every command and pipeline is reported as a datastore segment.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, nrApp *newrelic.Application) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if nrApp != nil {
		client.AddHook(datastoreHook{})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}

	return client, nil
}

// keyCollection returns the key family touched by cmd, or "other" for
// keyless commands and foreign keys.
func keyCollection(cmd redis.Cmder) string {
	args := cmd.Args()
	if len(args) < 2 {
		return collectionOther
	}
	key, ok := args[1].(string)
	if !ok {
		return collectionOther
	}
	for _, family := range keyFamilies {
		if strings.HasPrefix(key, family) {
			return strings.TrimSuffix(family, ":")
		}
	}
	return collectionOther
}

// pipelineCollection returns the shared family of cmds, or "mixed".
func pipelineCollection(cmds []redis.Cmder) string {
	if len(cmds) == 0 {
		return collectionOther
	}
	collection := keyCollection(cmds[0])
	for _, cmd := range cmds[1:] {
		if keyCollection(cmd) != collection {
			return collectionMixed
		}
	}
	return collection
}

// datastoreHook reports Redis calls to the New Relic transaction in the context.
type datastoreHook struct{}

func (datastoreHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (datastoreHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if txn := newrelic.FromContext(ctx); txn != nil {
			defer startSegment(txn, cmd.Name(), keyCollection(cmd)).End()
		}
		return next(ctx, cmd)
	}
}

func (datastoreHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if txn := newrelic.FromContext(ctx); txn != nil {
			op := "pipeline"
			if len(cmds) > 0 {
				op = "pipeline:" + cmds[0].Name()
			}
			defer startSegment(txn, op, pipelineCollection(cmds)).End()
		}
		return next(ctx, cmds)
	}
}

func startSegment(txn *newrelic.Transaction, op, collection string) *newrelic.DatastoreSegment {
	return &newrelic.DatastoreSegment{
		StartTime:  txn.StartSegmentNow(),
		Product:    newrelic.DatastoreRedis,
		Operation:  op,
		Collection: collection,
	}
}
