package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Title string `json:"title"`
}

func withMiniredis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClientForTesting(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClientForTesting(nil) })
}

func TestGetSetJSONRoundTrip(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	found, err := GetJSON(ctx, "k", &payload{})
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "k", payload{Title: "hello"}, time.Minute))

	var got payload
	found, err = GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hello", got.Title)
}

func TestAsideFetchesOnceThenServesCached(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			calls++
			dest.Title = "fetched"
			return nil
		}
	}

	var first payload
	require.NoError(t, Aside(ctx, "p", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "fetched", first.Title)

	var second payload
	require.NoError(t, Aside(ctx, "p", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, calls, "second lookup must hit the cache")
	assert.Equal(t, "fetched", second.Title)
}

func TestNilClientDegradesGracefully(t *testing.T) {
	SetClientForTesting(nil)
	ctx := context.Background()

	found, err := GetJSON(ctx, "k", &payload{})
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetJSON(ctx, "k", payload{}, time.Minute))

	var dest payload
	err = Aside(ctx, "k", &dest, time.Minute, func() error {
		dest.Title = "direct"
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "direct", dest.Title)
}

func TestPreviewKeyIsStableAndOpaque(t *testing.T) {
	a := PreviewKey("https://example.com/a")
	b := PreviewKey("https://example.com/b")
	assert.Equal(t, a, PreviewKey("https://example.com/a"))
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "example.com")
}
