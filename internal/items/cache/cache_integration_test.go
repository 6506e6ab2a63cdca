//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"reclaim/internal/items/cache"
	"reclaim/internal/items/models"
	"reclaim/pkg/testutil/containers"
)

type ListingCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestListingCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ListingCacheSuite))
}

func (s *ListingCacheSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
}

func (s *ListingCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *ListingCacheSuite) items() []models.FoundItem {
	return []models.FoundItem{
		{ID: 1, Category: "Electronics", ItemType: "Phone", FoundLocation: "Terminal 2", Status: models.ItemStatusPublished},
		{ID: 2, Category: "Bags", ItemType: "Backpack", FoundLocation: "Library", Status: models.ItemStatusPublished},
	}
}

func (s *ListingCacheSuite) TestSetGetRoundTrip() {
	ctx := context.Background()
	c := cache.New(s.redis.Client)

	_, ok := c.GetPublished(ctx)
	s.False(ok, "cold cache should miss")

	c.SetPublished(ctx, s.items())

	cached, ok := c.GetPublished(ctx)
	s.Require().True(ok)
	s.Require().Len(cached, 2)
	s.Equal("Electronics", cached[0].Category)
}

func (s *ListingCacheSuite) TestInvalidate() {
	ctx := context.Background()
	c := cache.New(s.redis.Client)

	c.SetPublished(ctx, s.items())
	c.Invalidate(ctx)

	_, ok := c.GetPublished(ctx)
	s.False(ok)
}

func (s *ListingCacheSuite) TestTTLExpiry() {
	ctx := context.Background()
	c := cache.New(s.redis.Client, cache.WithTTL(time.Second))

	c.SetPublished(ctx, s.items())
	time.Sleep(1500 * time.Millisecond)

	_, ok := c.GetPublished(ctx)
	s.False(ok, "entry should expire after the TTL")
}

func (s *ListingCacheSuite) TestNilCacheIsInert() {
	ctx := context.Background()
	var c *cache.ListingCache

	c.SetPublished(ctx, s.items())
	c.Invalidate(ctx)
	_, ok := c.GetPublished(ctx)
	s.False(ok)
}

func (s *ListingCacheSuite) TestEmptyListingIsCached() {
	ctx := context.Background()
	c := cache.New(s.redis.Client)

	c.SetPublished(ctx, []models.FoundItem{})

	cached, ok := c.GetPublished(ctx)
	s.True(ok)
	s.Empty(cached)
}
