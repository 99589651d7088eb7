package balance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wenlng/go-service-balance/balance/instance"
	"github.com/wenlng/go-service-balance/balance/serverlist"
	"github.com/wenlng/go-service-balance/balance/strategy"
	"github.com/wenlng/go-service-balance/clientconfig"
)

// staticClientConfig .
func staticClientConfig(addrs string) *clientconfig.ClientConfig {
	return &clientconfig.ClientConfig{
		ServerList: &serverlist.Config{Type: serverlist.SourceTypeStatic, Addrs: addrs},
	}
}

// newTestClient .
func newTestClient(t *testing.T, serviceName string, config *clientconfig.ClientConfig) *Client {
	t.Helper()

	registry := clientconfig.NewRegistry()
	if config != nil {
		registry.Register(serviceName, config)
	}
	client := NewClient(registry)
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

// staticIntrospector .
type staticIntrospector struct {
	secure   bool
	metadata map[string]string
}

func (si *staticIntrospector) IsSecure(target *instance.ServiceInstance) bool {
	return si.secure
}

func (si *staticIntrospector) Metadata(target *instance.ServiceInstance) map[string]string {
	return si.metadata
}

func TestChoose(t *testing.T) {
	t.Run("ReturnsDecoratedInstance", func(t *testing.T) {
		client := newTestClient(t, "user-service", staticClientConfig("localhost:8081,localhost:8082"))

		target, err := client.Choose("user-service")
		require.NoError(t, err)
		require.NotNil(t, target)
		assert.Equal(t, "user-service", target.ServiceID)
		assert.Contains(t, []string{"localhost:8081", "localhost:8082"}, target.Addr())
		assert.False(t, target.Secure)
	})

	t.Run("NilWithoutServers", func(t *testing.T) {
		client := newTestClient(t, "user-service", nil)

		target, err := client.Choose("user-service")
		assert.NoError(t, err)
		assert.Nil(t, target)
	})

	t.Run("RoundRobinByDefault", func(t *testing.T) {
		client := newTestClient(t, "user-service", staticClientConfig("localhost:8081,localhost:8082"))

		for i, expected := range []string{"localhost:8081", "localhost:8082", "localhost:8081", "localhost:8082"} {
			target, err := client.Choose("user-service")
			require.NoError(t, err)
			require.NotNil(t, target)
			assert.Equal(t, expected, target.Addr(), "round robin should select in order at iteration %d", i)
		}
	})

	t.Run("HintSticksWithConsistentHash", func(t *testing.T) {
		config := staticClientConfig("localhost:8081,localhost:8082,localhost:8083")
		config.Strategy = strategy.StrategyTypeConsistentHash
		client := newTestClient(t, "user-service", config)

		var lastAddr string
		for i := 0; i < 10; i++ {
			target, err := client.ChooseWithHint("user-service", "alpha")
			require.NoError(t, err)
			require.NotNil(t, target)
			if i == 0 {
				lastAddr = target.Addr()
			} else {
				assert.Equal(t, lastAddr, target.Addr(), "the same hint should stick to one server")
			}
		}
	})

	t.Run("SecureByConfiguredOverride", func(t *testing.T) {
		config := staticClientConfig("localhost:8081")
		config.Secure = clientconfig.Bool(true)
		client := newTestClient(t, "user-service", config)

		target, err := client.Choose("user-service")
		require.NoError(t, err)
		require.NotNil(t, target)
		assert.True(t, target.Secure)
	})

	t.Run("SecureByWellKnownPort", func(t *testing.T) {
		client := newTestClient(t, "user-service", staticClientConfig("localhost:8443"))

		target, err := client.Choose("user-service")
		require.NoError(t, err)
		require.NotNil(t, target)
		assert.True(t, target.Secure)
	})

	t.Run("SecureByCustomIntrospector", func(t *testing.T) {
		client := newTestClient(t, "user-service", staticClientConfig("localhost:8081"))
		client.Factory().SetServerIntrospector("user-service", &staticIntrospector{
			secure:   true,
			metadata: map[string]string{"zone": "b"},
		})

		target, err := client.Choose("user-service")
		require.NoError(t, err)
		require.NotNil(t, target)
		assert.True(t, target.Secure)
		assert.Equal(t, "b", target.Metadata["zone"])
	})
}

func TestExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsValueAndRecordsSuccess", func(t *testing.T) {
		client := newTestClient(t, "user-service", staticClientConfig("localhost:8081"))

		value, err := Execute(ctx, client, "user-service", func(ctx context.Context, target *instance.ServiceInstance) (string, error) {
			return "hello from " + target.Addr(), nil
		})
		require.NoError(t, err)
		assert.Equal(t, "hello from localhost:8081", value)

		serviceStats, err := client.Factory().Stats("user-service")
		require.NoError(t, err)
		server := serviceStats.Server(&instance.ServiceInstance{Host: "localhost", Port: 8081})
		assert.Equal(t, int64(1), server.TotalRequests())
		assert.Equal(t, int64(0), server.TotalFailures())
		assert.Equal(t, int64(0), server.ActiveRequests())
	})

	t.Run("PropagatesErrorUnchanged", func(t *testing.T) {
		client := newTestClient(t, "user-service", staticClientConfig("localhost:8081"))

		sentinel := errors.New("connection refused")
		value, err := Execute(ctx, client, "user-service", func(ctx context.Context, target *instance.ServiceInstance) (string, error) {
			return "", sentinel
		})
		assert.Equal(t, "", value)
		require.Error(t, err)
		assert.Same(t, sentinel, err)
		assert.EqualError(t, err, "connection refused")

		serviceStats, err := client.Factory().Stats("user-service")
		require.NoError(t, err)
		server := serviceStats.Server(&instance.ServiceInstance{Host: "localhost", Port: 8081})
		assert.Equal(t, int64(1), server.TotalRequests())
		assert.Equal(t, int64(1), server.TotalFailures())
		assert.Equal(t, int64(0), server.ActiveRequests())
	})

	t.Run("NoInstancesError", func(t *testing.T) {
		client := newTestClient(t, "user-service", nil)

		invoked := false
		_, err := Execute(ctx, client, "user-service", func(ctx context.Context, target *instance.ServiceInstance) (string, error) {
			invoked = true
			return "", nil
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoAvailableInstance)
		assert.Contains(t, err.Error(), "no instances available for service: user-service")
		assert.False(t, invoked, "the request must not run without a server")
	})

	t.Run("PanicRecordsFailure", func(t *testing.T) {
		client := newTestClient(t, "user-service", staticClientConfig("localhost:8081"))

		assert.Panics(t, func() {
			_, _ = Execute(ctx, client, "user-service", func(ctx context.Context, target *instance.ServiceInstance) (string, error) {
				panic("boom")
			})
		})

		serviceStats, err := client.Factory().Stats("user-service")
		require.NoError(t, err)
		server := serviceStats.Server(&instance.ServiceInstance{Host: "localhost", Port: 8081})
		assert.Equal(t, int64(1), server.TotalFailures())
		assert.Equal(t, int64(0), server.ActiveRequests())
	})
}

func TestExecuteWithHint(t *testing.T) {
	ctx := context.Background()

	config := staticClientConfig("localhost:8081,localhost:8082,localhost:8083")
	config.Strategy = strategy.StrategyTypeConsistentHash
	client := newTestClient(t, "user-service", config)

	var addrs []string
	for i := 0; i < 5; i++ {
		addr, err := ExecuteWithHint(ctx, client, "user-service", "alpha", func(ctx context.Context, target *instance.ServiceInstance) (string, error) {
			return target.Addr(), nil
		})
		require.NoError(t, err)
		addrs = append(addrs, addr)
	}
	for _, addr := range addrs[1:] {
		assert.Equal(t, addrs[0], addr, "the same hint should stick to one server")
	}
}

func TestExecuteOn(t *testing.T) {
	ctx := context.Background()

	t.Run("RecordsAgainstGivenTarget", func(t *testing.T) {
		client := newTestClient(t, "user-service", staticClientConfig("localhost:8081"))

		target := &instance.ServiceInstance{ServiceID: "user-service", Host: "localhost", Port: 9090}
		value, err := ExecuteOn(ctx, client, "user-service", target, func(ctx context.Context, target *instance.ServiceInstance) (int, error) {
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, value)

		serviceStats, err := client.Factory().Stats("user-service")
		require.NoError(t, err)
		assert.Equal(t, int64(1), serviceStats.Server(target).TotalRequests())
	})

	t.Run("NilTarget", func(t *testing.T) {
		client := newTestClient(t, "user-service", staticClientConfig("localhost:8081"))

		invoked := false
		_, err := ExecuteOn(ctx, client, "user-service", nil, func(ctx context.Context, target *instance.ServiceInstance) (string, error) {
			invoked = true
			return "", nil
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoAvailableInstance)
		assert.False(t, invoked)
	})

	t.Run("UnresolvedTarget", func(t *testing.T) {
		client := newTestClient(t, "user-service", staticClientConfig("localhost:8081"))

		_, err := ExecuteOn(ctx, client, "user-service", &instance.ServiceInstance{ServiceID: "user-service"}, func(ctx context.Context, target *instance.ServiceInstance) (string, error) {
			return "", nil
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoAvailableInstance)
	})
}

func TestTrippedServers(t *testing.T) {
	ctx := context.Background()

	failTimes := func(t *testing.T, client *Client, target *instance.ServiceInstance, times int) {
		t.Helper()
		for i := 0; i < times; i++ {
			_, err := ExecuteOn(ctx, client, "user-service", target, func(ctx context.Context, target *instance.ServiceInstance) (string, error) {
				return "", errors.New("connection refused")
			})
			require.Error(t, err)
		}
	}

	t.Run("TrippedServerIsSkipped", func(t *testing.T) {
		client := newTestClient(t, "user-service", staticClientConfig("localhost:8081,localhost:8082"))

		bad := &instance.ServiceInstance{ServiceID: "user-service", Host: "localhost", Port: 8081}
		failTimes(t, client, bad, 3)

		for i := 0; i < 10; i++ {
			target, err := client.Choose("user-service")
			require.NoError(t, err)
			require.NotNil(t, target)
			assert.Equal(t, "localhost:8082", target.Addr(), "a tripped server should be skipped")
		}
	})

	t.Run("AllTrippedStillServes", func(t *testing.T) {
		client := newTestClient(t, "user-service", staticClientConfig("localhost:8081"))

		bad := &instance.ServiceInstance{ServiceID: "user-service", Host: "localhost", Port: 8081}
		failTimes(t, client, bad, 3)

		target, err := client.Choose("user-service")
		require.NoError(t, err)
		require.NotNil(t, target)
		assert.Equal(t, "localhost:8081", target.Addr(), "the full list should serve when every server is tripped")
	})
}
