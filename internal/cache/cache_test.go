// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bumodocs/internal/locale"
	"bumodocs/internal/models"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testPageCache returns a page cache on Valkey DB 15, skipping the test
// when Valkey is unreachable. Cached pages are flushed afterwards.
func testPageCache(t *testing.T) *PageCache {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(envOr("VALKEY_HOST", "localhost"), envOr("VALKEY_PORT", "6379")),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	pc := NewPageCache(client, time.Minute)
	t.Cleanup(func() {
		pc.InvalidateAll(ctx)
		client.Close()
	})
	return pc
}

func TestConnectValkey(t *testing.T) {
	client, err := ConnectValkey(context.Background(), envOr("VALKEY_HOST", "localhost"), envOr("VALKEY_PORT", "6379"), os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	require.NoError(t, err)
	assert.Equal(t, "PONG", pong)
}

func TestConnectValkeyUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := ConnectValkey(ctx, "127.0.0.1", "1", "")
	assert.Error(t, err)
}

func TestPageCacheRoundTrip(t *testing.T) {
	pc := testPageCache(t)
	ctx := context.Background()
	key := DocKey(locale.English, "introduction_to_bumo")

	data, ok := pc.Get(ctx, key)
	assert.False(t, ok)
	assert.Nil(t, data)

	body := []byte(`{"html":"<p>BUMO</p>"}`)
	pc.Set(ctx, key, body)

	data, ok = pc.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, body, data)

	ttl, err := pc.client.TTL(ctx, pageKeyPrefix+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestPageCacheInvalidateDocs(t *testing.T) {
	pc := testPageCache(t)
	ctx := context.Background()

	en := DocKey(locale.English, "atp_10")
	cn := DocKey(locale.Chinese, "atp_10")
	other := DocKey(locale.English, "atp_20")
	for _, k := range []string{en, cn, other} {
		pc.Set(ctx, k, []byte(k))
	}

	pc.InvalidateDocs(ctx, []models.Doc{
		{Locale: locale.English, Slug: "atp_10"},
		{Locale: locale.Chinese, Slug: "atp_10"},
	})

	_, ok := pc.Get(ctx, en)
	assert.False(t, ok, "english page dropped")
	_, ok = pc.Get(ctx, cn)
	assert.False(t, ok, "chinese page dropped")
	_, ok = pc.Get(ctx, other)
	assert.True(t, ok, "unrelated doc stays cached")

	pc.InvalidateDocs(ctx, nil)
}

func TestPageCacheInvalidateAll(t *testing.T) {
	pc := testPageCache(t)
	ctx := context.Background()

	slugs := []string{"api_http", "api_ws", "sdk_go"}
	for _, s := range slugs {
		pc.Set(ctx, DocKey(locale.English, s), []byte(s))
	}
	// Keys outside the page prefix survive.
	require.NoError(t, pc.client.Set(ctx, "session:keep", "1", time.Minute).Err())
	t.Cleanup(func() { pc.client.Del(ctx, "session:keep") })

	pc.InvalidateAll(ctx)

	for _, s := range slugs {
		_, ok := pc.Get(ctx, DocKey(locale.English, s))
		assert.False(t, ok, s)
	}
	n, err := pc.client.Exists(ctx, "session:keep").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestPageCacheOfflineIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	pc := NewPageCache(client, 0)
	assert.Equal(t, DefaultPageTTL, pc.ttl)

	ctx := context.Background()
	pc.Set(ctx, "k", []byte("v"))
	_, ok := pc.Get(ctx, "k")
	assert.False(t, ok)
}

func TestDocKey(t *testing.T) {
	assert.Equal(t, "doc:cn/sdk_go", DocKey(locale.Chinese, "sdk_go"))
	assert.Equal(t, "doc:en/sdk_go", DocKey(locale.English, "sdk_go"))
}
