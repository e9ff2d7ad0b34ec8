package app

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestKeyCollection(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		cmd  redis.Cmder
		want string
	}{
		{"profile cache", redis.NewStringCmd(ctx, "get", "cache:profile:42"), "cache:profile"},
		{"phone lock", redis.NewBoolCmd(ctx, "set", "lock:phone:555", "1", "nx"), "lock:phone"},
		{"idempotency", redis.NewStringCmd(ctx, "get", "idempotency:POST:/routes:k1"), "idempotency"},
		{"foreign key", redis.NewStringCmd(ctx, "get", "session:1"), "other"},
		{"keyless", redis.NewStatusCmd(ctx, "ping"), "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keyCollection(tt.cmd))
		})
	}
}

func TestPipelineCollection(t *testing.T) {
	ctx := context.Background()

	same := []redis.Cmder{
		redis.NewStringCmd(ctx, "get", "cache:profile:1"),
		redis.NewStringCmd(ctx, "get", "cache:profile:2"),
	}
	assert.Equal(t, "cache:profile", pipelineCollection(same))

	mixed := []redis.Cmder{
		redis.NewStringCmd(ctx, "get", "cache:profile:1"),
		redis.NewIntCmd(ctx, "del", "lock:phone:555"),
	}
	assert.Equal(t, "mixed", pipelineCollection(mixed))

	assert.Equal(t, "other", pipelineCollection(nil))
}
