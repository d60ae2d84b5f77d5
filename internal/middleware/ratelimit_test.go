package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blogicum/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, env string) {
	t.Helper()
	prev := cfg
	InitMiddleware(&config.Config{Env: env})
	t.Cleanup(func() { cfg = prev })
}

func TestAllowWrite_EnvironmentBypass(t *testing.T) {
	for _, env := range []string{"test", "development", "stress"} {
		t.Run(env, func(t *testing.T) {
			setEnv(t, env)
			allowed, err := allowWrite(context.Background(), nil, LimitPostCreate, "user:1", 1, time.Minute)
			assert.NoError(t, err)
			assert.True(t, allowed)
		})
	}
}

func TestAllowWrite_NilStore(t *testing.T) {
	setEnv(t, "production")
	allowed, err := allowWrite(context.Background(), nil, LimitPostCreate, "user:1", 1, time.Minute)
	assert.Error(t, err)
	assert.False(t, allowed)
}

func TestAllowWrite_Counting(t *testing.T) {
	setEnv(t, "production")

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		allowed, err := allowWrite(ctx, rdb, LimitCommentCreate, "user:1", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "write %d should be allowed", i+1)
	}

	allowed, err := allowWrite(ctx, rdb, LimitCommentCreate, "user:1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed, "third write should be throttled")

	// Another author keeps their own counter.
	allowed, err = allowWrite(ctx, rdb, LimitCommentCreate, "user:2", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	// The window expiring resets the counter.
	mr.FastForward(2 * time.Minute)
	allowed, err = allowWrite(ctx, rdb, LimitCommentCreate, "user:1", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("bypass in test environment", func(t *testing.T) {
		setEnv(t, "test")
		app := fiber.New()
		app.Post("/posts", RateLimit(nil, 1, time.Minute, LimitPostCreate), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusCreated)
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/posts", nil))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("fail open without a store", func(t *testing.T) {
		setEnv(t, "production")
		app := fiber.New()
		app.Post("/posts", RateLimit(nil, 1, time.Minute, LimitPostCreate), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusCreated)
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/posts", nil))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("fail closed without a store", func(t *testing.T) {
		setEnv(t, "production")
		app := fiber.New()
		app.Post("/posts", RateLimitWithPolicy(nil, 1, time.Minute, FailClosed, LimitPostCreate), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusCreated)
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/posts", nil))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("exceeding the limit returns 429", func(t *testing.T) {
		setEnv(t, "production")

		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer rdb.Close()

		app := fiber.New()
		app.Post("/posts", RateLimit(rdb, 1, time.Minute, LimitPostCreate), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusCreated)
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/posts", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()

		resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/posts", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("authenticated writes are keyed per user", func(t *testing.T) {
		setEnv(t, "production")

		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer rdb.Close()

		app := fiber.New()
		var userID uint
		app.Post("/comments", func(c *fiber.Ctx) error {
			c.Locals("userID", userID)
			return c.Next()
		}, RateLimit(rdb, 1, time.Minute, LimitCommentCreate), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusCreated)
		})

		userID = 1
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/comments", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()

		resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/comments", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		_ = resp.Body.Close()

		// Same IP, different user: not throttled.
		userID = 2
		resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/comments", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()
	})
}
