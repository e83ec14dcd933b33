package cache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"freight/internal/adapters/out/cache"
	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RulebookCacheIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	client    *redis.Client
	cache     *cache.RedisRulebookCache
}

func (suite *RulebookCacheIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	host, err := container.Host(ctx)
	suite.Require().NoError(err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	suite.Require().NoError(err)

	suite.client = redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	suite.cache = cache.NewRedisRulebookCache(suite.client, "test", time.Minute)
}

func (suite *RulebookCacheIntegrationTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.Require().NoError(suite.client.Close())
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *RulebookCacheIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.client.FlushDB(context.Background()).Err())
}

func (suite *RulebookCacheIntegrationTestSuite) TestGet_Miss() {
	entry, err := suite.cache.Get(context.Background(), kernel.NewUUID(), carrier.EventLoaded)

	suite.Require().NoError(err)
	suite.False(entry.Found)
	suite.Nil(entry.StatusID)
	suite.Zero(entry.Generation)
}

func (suite *RulebookCacheIntegrationTestSuite) TestSetGet_Binding() {
	ctx := context.Background()
	carrierID, statusID := kernel.NewUUID(), kernel.NewUUID()

	miss, err := suite.cache.Get(ctx, carrierID, carrier.EventLoaded)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.cache.Set(ctx, carrierID, miss.Generation, carrier.EventLoaded, &statusID))

	entry, err := suite.cache.Get(ctx, carrierID, carrier.EventLoaded)
	suite.Require().NoError(err)
	suite.True(entry.Found)
	suite.Require().NotNil(entry.StatusID)
	suite.True(statusID.IsEqual(*entry.StatusID))
}

func (suite *RulebookCacheIntegrationTestSuite) TestSetGet_NoRule() {
	ctx := context.Background()
	carrierID := kernel.NewUUID()

	suite.Require().NoError(suite.cache.Set(ctx, carrierID, 0, carrier.EventClaimed, nil))

	entry, err := suite.cache.Get(ctx, carrierID, carrier.EventClaimed)
	suite.Require().NoError(err)
	suite.True(entry.Found)
	suite.Nil(entry.StatusID)
}

func (suite *RulebookCacheIntegrationTestSuite) TestInvalidate_DropsAllEventsOfCarrier() {
	ctx := context.Background()
	carrierID, otherID, statusID := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()

	for _, event := range carrier.Events() {
		suite.Require().NoError(suite.cache.Set(ctx, carrierID, 0, event, &statusID))
	}
	suite.Require().NoError(suite.cache.Set(ctx, otherID, 0, carrier.EventLoaded, &statusID))

	suite.Require().NoError(suite.cache.Invalidate(ctx, carrierID))

	for _, event := range carrier.Events() {
		entry, err := suite.cache.Get(ctx, carrierID, event)
		suite.Require().NoError(err)
		suite.False(entry.Found, "event %s", event)
		suite.Equal(int64(1), entry.Generation)
	}
	entry, err := suite.cache.Get(ctx, otherID, carrier.EventLoaded)
	suite.Require().NoError(err)
	suite.True(entry.Found)
}

func (suite *RulebookCacheIntegrationTestSuite) TestSet_FillRacingInvalidateIsNeverServed() {
	ctx := context.Background()
	carrierID, before, after := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()

	// A reader misses and loads the old binding from the database while the
	// rule is rebound and the cache invalidated.
	miss, err := suite.cache.Get(ctx, carrierID, carrier.EventLoaded)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.cache.Invalidate(ctx, carrierID))
	suite.Require().NoError(suite.cache.Set(ctx, carrierID, miss.Generation, carrier.EventLoaded, &before))

	entry, err := suite.cache.Get(ctx, carrierID, carrier.EventLoaded)
	suite.Require().NoError(err)
	suite.False(entry.Found)

	suite.Require().NoError(suite.cache.Set(ctx, carrierID, entry.Generation, carrier.EventLoaded, &after))
	entry, err = suite.cache.Get(ctx, carrierID, carrier.EventLoaded)
	suite.Require().NoError(err)
	suite.True(entry.Found)
	suite.True(after.IsEqual(*entry.StatusID))
}

func TestRulebookCacheIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RulebookCacheIntegrationTestSuite))
}
