//go:build integration

package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"trade_tracker/internal/domain"
	"trade_tracker/testdata/utils"
)

type RedisIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcredis.RedisContainer
	client    *redis.Client
}

func (s *RedisIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tcredis.Run(s.ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.container = container

	uri, err := container.ConnectionString(s.ctx)
	s.Require().NoError(err)

	opts, err := redis.ParseURL(uri)
	s.Require().NoError(err)
	s.client = redis.NewClient(opts)
}

func (s *RedisIntegrationSuite) TearDownSuite() {
	if s.client != nil {
		s.client.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *RedisIntegrationSuite) SetupTest() {
	s.Require().NoError(s.client.FlushDB(s.ctx).Err())
}

func TestRedisIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RedisIntegrationSuite))
}

func (s *RedisIntegrationSuite) TestCache_RoundTrip() {
	cache := NewRedisCache(s.client)
	at := time.Date(2025, 7, 12, 21, 0, 0, 123, time.UTC)

	_, ok, err := cache.Get(s.ctx, "missing")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(cache.Set(s.ctx, "k", at, time.Minute))

	got, ok, err := cache.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.True(ok)
	s.True(at.Equal(got))

	ttl, err := s.client.TTL(s.ctx, redisKeyPrefix+"k").Result()
	s.Require().NoError(err)
	s.InDelta(time.Minute.Seconds(), ttl.Seconds(), 2)
}

func (s *RedisIntegrationSuite) TestSuppressor_SurvivesNewInstance() {
	now := time.Now().UTC()
	target := domain.TrackingTarget{
		TargetKey:         domain.TargetKey{GuildID: "g1", ChannelID: "c1", UserID: "u1", ItemID: "42"},
		TrackingStartedAt: now.Add(-time.Hour),
	}
	ad := &domain.TradeAd{PosterName: "alice", ParsedAt: utils.Ptr(now), Fingerprint: "abc"}
	cfg := Config{UserItemWindow: time.Hour, ContentWindow: 30 * time.Minute, PostedTTL: time.Hour}

	first := NewSuppressor(NewRedisCache(s.client), cfg)
	s.Require().NoError(first.Record(s.ctx, ad, target, now))

	second := NewSuppressor(NewRedisCache(s.client), cfg)
	v, err := second.Check(s.ctx, ad, target, now.Add(time.Second))
	s.Require().NoError(err)
	s.Equal(SeenPosted, v)
}
