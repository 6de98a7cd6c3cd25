package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository/memory"
	"github.com/cloud-wave-best-zizon/storefront-service/pkg/config"
	"github.com/cloud-wave-best-zizon/storefront-service/pkg/middleware"
)

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "bogus"} {
		logger, err := newLogger(level)
		require.NoError(t, err, level)
		assert.NotNil(t, logger)
	}
}

func TestNewLimiter(t *testing.T) {
	logger := zap.NewNop()

	assert.Nil(t, newLimiter(&config.Config{RateLimitRPS: 0}, logger))

	_, ok := newLimiter(&config.Config{RateLimitRPS: 5, RateLimitBurst: 10}, logger).(*middleware.MemoryLimiter)
	assert.True(t, ok)

	_, ok = newLimiter(&config.Config{RateLimitRPS: 5, RateLimitBurst: 10, RedisAddr: "127.0.0.1:6379"}, logger).(*middleware.RedisLimiter)
	assert.True(t, ok)
}

func TestNewStores_LocalMode(t *testing.T) {
	s, err := newStores(context.Background(), &config.Config{LocalMode: true}, zap.NewNop())
	require.NoError(t, err)

	_, ok := s.products.(*memory.ProductRepository)
	assert.True(t, ok)
	_, ok = s.orders.(*memory.OrderRepository)
	assert.True(t, ok)
}
