package balance

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wenlng/go-service-balance/balance/instance"
	"github.com/wenlng/go-service-balance/balance/serverlist"
	"github.com/wenlng/go-service-balance/balance/strategy"
	"github.com/wenlng/go-service-balance/clientconfig"
)

func TestFactory(t *testing.T) {
	t.Run("CachesPerService", func(t *testing.T) {
		registry := clientconfig.NewRegistry()
		registry.Register("user-service", staticClientConfig("localhost:8081"))
		factory := NewFactory(registry)
		defer factory.Close()

		first, err := factory.LoadBalancer("user-service")
		require.NoError(t, err)
		second, err := factory.LoadBalancer("user-service")
		require.NoError(t, err)
		assert.Same(t, first, second)
	})

	t.Run("SeparateStacksPerService", func(t *testing.T) {
		registry := clientconfig.NewRegistry()
		registry.Register("user-service", staticClientConfig("localhost:8081"))
		registry.Register("order-service", staticClientConfig("localhost:9081"))
		factory := NewFactory(registry)
		defer factory.Close()

		userLb, err := factory.LoadBalancer("user-service")
		require.NoError(t, err)
		orderLb, err := factory.LoadBalancer("order-service")
		require.NoError(t, err)
		assert.NotSame(t, userLb, orderLb)
		assert.Equal(t, "user-service", userLb.ServiceName())
		assert.Equal(t, "order-service", orderLb.ServiceName())
	})

	t.Run("ResolvesConfigOnFirstUse", func(t *testing.T) {
		registry := clientconfig.NewRegistry()
		registry.Register("default.app", &clientconfig.ClientConfig{FailureThreshold: 7})
		registry.Register("user-service", staticClientConfig("localhost:8081"))
		factory := NewFactory(registry)
		defer factory.Close()

		config, err := factory.ClientConfig("user-service")
		require.NoError(t, err)
		assert.Equal(t, strategy.StrategyType(strategy.StrategyTypeRoundRobin), config.Strategy)
		assert.Equal(t, 7, config.FailureThreshold)
		assert.Equal(t, serverlist.SourceType(serverlist.SourceTypeStatic), config.ServerList.Type)
	})

	t.Run("InvalidStrategy", func(t *testing.T) {
		registry := clientconfig.NewRegistry()
		config := staticClientConfig("localhost:8081")
		config.Strategy = "bogus"
		registry.Register("user-service", config)
		factory := NewFactory(registry)
		defer factory.Close()

		_, err := factory.LoadBalancer("user-service")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create strategy for service user-service")
	})

	t.Run("InvalidSourceType", func(t *testing.T) {
		registry := clientconfig.NewRegistry()
		registry.Register("user-service", &clientconfig.ClientConfig{
			ServerList: &serverlist.Config{Type: "bogus"},
		})
		factory := NewFactory(registry)
		defer factory.Close()

		_, err := factory.LoadBalancer("user-service")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create server list source for service user-service")
	})

	t.Run("SnapshotsAreOrdered", func(t *testing.T) {
		registry := clientconfig.NewRegistry()
		registry.Register("user-service", staticClientConfig("localhost:8081"))
		registry.Register("order-service", staticClientConfig("localhost:9081"))
		client := NewClient(registry)
		defer client.Close()

		for _, serviceName := range []string{"user-service", "order-service"} {
			_, err := Execute(context.Background(), client, serviceName, func(ctx context.Context, target *instance.ServiceInstance) (string, error) {
				return "ok", nil
			})
			require.NoError(t, err)
		}

		snapshots := client.Factory().Snapshots()
		require.Len(t, snapshots, 2)
		assert.Equal(t, "order-service", snapshots[0].ServiceName)
		assert.Equal(t, "user-service", snapshots[1].ServiceName)
		require.Len(t, snapshots[1].Servers, 1)
		assert.Equal(t, int64(1), snapshots[1].Servers[0].TotalRequests)
	})

	t.Run("ForwardsLogCallback", func(t *testing.T) {
		registry := clientconfig.NewRegistry()
		registry.Register("user-service", staticClientConfig("localhost:8081"))
		factory := NewFactory(registry)
		defer factory.Close()

		var mutex sync.Mutex
		var messages []string
		factory.SetOutputLogCallback(func(logType OutputLogType, message string) {
			mutex.Lock()
			defer mutex.Unlock()
			messages = append(messages, message)
		})

		_, err := factory.LoadBalancer("user-service")
		require.NoError(t, err)

		assert.Eventually(t, func() bool {
			mutex.Lock()
			defer mutex.Unlock()
			for _, message := range messages {
				if strings.Contains(message, "[LoadBalancer] Server list updated") {
					return true
				}
			}
			return false
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("CloseResetsEntries", func(t *testing.T) {
		registry := clientconfig.NewRegistry()
		registry.Register("user-service", staticClientConfig("localhost:8081"))
		factory := NewFactory(registry)

		first, err := factory.LoadBalancer("user-service")
		require.NoError(t, err)
		require.NoError(t, factory.Close())

		second, err := factory.LoadBalancer("user-service")
		require.NoError(t, err)
		assert.NotSame(t, first, second)
		require.NoError(t, factory.Close())
	})
}
