package redis_test

import (
	"context"
	"os"
	"testing"

	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/docstore/pkg/adapters/adaptertest"
	"github.com/aretw0/docstore/pkg/adapters/redis"
	"github.com/aretw0/docstore/pkg/codec"
	"github.com/aretw0/docstore/pkg/core"
)

func factory(t *testing.T) core.Adapter {
	return factoryWithCodec(t, nil)
}

// factoryWithCodec connects to DOCSTORE_TEST_REDIS (e.g. redis://localhost:6379/0)
// under a throwaway prefix and removes its keys afterwards.
func factoryWithCodec(t *testing.T, c codec.Codec) core.Adapter {
	t.Helper()
	url := os.Getenv("DOCSTORE_TEST_REDIS")
	if url == "" {
		t.Skip("DOCSTORE_TEST_REDIS not set")
	}

	ctx := context.Background()
	prefix := "docstore-test-" + uuid.NewString()
	a, err := redis.Open(ctx, redis.Config{URL: url, Prefix: prefix, Codec: c})
	require.NoError(t, err)

	t.Cleanup(func() {
		opts, err := goredis.ParseURL(url)
		if err == nil {
			client := goredis.NewClient(opts)
			iter := client.Scan(ctx, 0, prefix+":*", 100).Iterator()
			for iter.Next(ctx) {
				client.Del(ctx, iter.Val())
			}
			client.Close()
		}
		a.Close()
	})
	return a
}

func TestAdapter(t *testing.T) {
	adaptertest.Run(t, "Redis", factory)
}

func TestSynchronizer(t *testing.T) {
	adaptertest.RunSynchronizer(t, "Redis", factory)
}

func TestDecodeFailures(t *testing.T) {
	adaptertest.RunDecodeFailures(t, "Redis", factoryWithCodec)
}

func TestOpenRejectsBadURL(t *testing.T) {
	_, err := redis.Open(context.Background(), redis.Config{URL: "not a url"})
	require.Error(t, err)
}
