package clientconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wenlng/go-service-balance/balance/strategy"
)

func TestRegisterManifest(t *testing.T) {
	t.Run("RegistersEveryDeclaration", func(t *testing.T) {
		registry := NewRegistry()
		err := RegisterManifest(registry, &Manifest{
			Clients: []ClientDeclaration{
				{Value: "user-service", Config: &ClientConfig{Strategy: strategy.StrategyTypeRandom}},
				{Name: "order-service"},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"user-service", "order-service"}, registry.Names())

		config, ok := registry.Lookup("user-service")
		require.True(t, ok)
		assert.Equal(t, strategy.StrategyType(strategy.StrategyTypeRandom), config.Strategy)
	})

	t.Run("ValuePreferredOverName", func(t *testing.T) {
		registry := NewRegistry()
		err := RegisterManifest(registry, &Manifest{
			Client: &ClientDeclaration{Value: "payment-service", Name: "ignored-name"},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"payment-service"}, registry.Names())
	})

	t.Run("UnnamedDeclarationFails", func(t *testing.T) {
		registry := NewRegistry()
		err := RegisterManifest(registry, &Manifest{
			Clients: []ClientDeclaration{
				{Value: "user-service"},
				{},
			},
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "either 'name' or 'value' must be provided")
		assert.Empty(t, registry.Names(), "a failed manifest should register nothing")
	})

	t.Run("DefaultConfigUsesEnclosing", func(t *testing.T) {
		registry := NewRegistry()
		err := RegisterManifest(registry, &Manifest{
			DefaultConfig: &ClientConfig{FailureThreshold: 5},
			Owner:         "app",
			Enclosing:     "app.clients",
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"default.app.clients"}, registry.Names())
	})

	t.Run("DefaultConfigFallsBackToOwner", func(t *testing.T) {
		registry := NewRegistry()
		err := RegisterManifest(registry, &Manifest{
			DefaultConfig: &ClientConfig{FailureThreshold: 5},
			Owner:         "app",
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"default.app"}, registry.Names())

		config := registry.ResolveFor("any-service")
		assert.Equal(t, 5, config.FailureThreshold)
	})

	t.Run("DefaultConfigWithoutOwnerFails", func(t *testing.T) {
		registry := NewRegistry()
		err := RegisterManifest(registry, &Manifest{
			DefaultConfig: &ClientConfig{FailureThreshold: 5},
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "an owner is required")
		assert.Empty(t, registry.Names())
	})

	t.Run("RegistrationOrder", func(t *testing.T) {
		registry := NewRegistry()
		err := RegisterManifest(registry, &Manifest{
			Clients: []ClientDeclaration{
				{Value: "user-service"},
			},
			Client:        &ClientDeclaration{Value: "payment-service"},
			DefaultConfig: &ClientConfig{},
			Owner:         "app",
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"user-service", "default.app", "payment-service"}, registry.Names())
	})

	t.Run("NilManifest", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, RegisterManifest(registry, nil))
		assert.Empty(t, registry.Names())
	})
}
