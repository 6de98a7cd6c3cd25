package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryLimiter_Burst(t *testing.T) {
	l := NewMemoryLimiter(1, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		assert.NoError(t, err)
		assert.True(t, ok, "request %d within burst", i)
	}
	ok, _ := l.Allow(ctx, "10.0.0.1")
	assert.False(t, ok)

	// buckets are per key
	ok, _ = l.Allow(ctx, "10.0.0.2")
	assert.True(t, ok)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis: connection refused")
}

func newLimitedRouter(l Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(l, zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestRateLimit_Rejects(t *testing.T) {
	r := newLimitedRouter(NewMemoryLimiter(1, 2))

	codes := []int{}
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.Equal(t, "1", w.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	r := newLimitedRouter(failingLimiter{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

// scriptedRedis answers every command in-process through a client hook, so no
// server is dialed. reply is the script result; err, when set, fails the call.
type scriptedRedis struct {
	mu    sync.Mutex
	reply int64
	err   error
	calls [][]interface{}
}

func (s *scriptedRedis) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (s *scriptedRedis) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.calls = append(s.calls, cmd.Args())
		if s.err != nil {
			cmd.SetErr(s.err)
			return s.err
		}
		if c, ok := cmd.(*redis.Cmd); ok {
			c.SetVal(s.reply)
		}
		return nil
	}
}

func (s *scriptedRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func newScriptedClient(t *testing.T, s *scriptedRedis) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(s)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisLimiter_Allow(t *testing.T) {
	errDown := errors.New("connection refused")

	tests := []struct {
		name    string
		reply   int64
		err     error
		allowed bool
	}{
		{"token available", 1, nil, true},
		{"bucket empty", 0, nil, false},
		{"store unavailable", 0, errDown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &scriptedRedis{reply: tt.reply, err: tt.err}
			l := NewRedisLimiter(newScriptedClient(t, fake), 5, 10)

			allowed, err := l.Allow(context.Background(), "10.0.0.1")
			if tt.err != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.err)
				assert.Contains(t, err.Error(), "redis limiter error")
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.allowed, allowed)

			require.NotEmpty(t, fake.calls)
			// evalsha <sha> <numkeys> <key> <rate> <capacity> <now>
			args := fake.calls[0]
			require.Len(t, args, 7)
			assert.Equal(t, "evalsha", args[0])
			assert.Equal(t, "ratelimit:10.0.0.1", args[3])
			assert.Equal(t, float64(5), args[4])
			assert.Equal(t, 10, args[5])
		})
	}
}

func TestRedisLimiter_ZeroRateFallsBackToOne(t *testing.T) {
	fake := &scriptedRedis{reply: 1}
	l := NewRedisLimiter(newScriptedClient(t, fake), 0, 1)

	_, err := l.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, float64(1), fake.calls[0][4])
}

func TestRateLimit_RedisLimiter(t *testing.T) {
	fake := &scriptedRedis{reply: 0}
	r := newLimitedRouter(NewRedisLimiter(newScriptedClient(t, fake), 1, 1))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Redis 장애 시에는 요청을 통과시킨다
	fake.mu.Lock()
	fake.err = errors.New("i/o timeout")
	fake.mu.Unlock()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
