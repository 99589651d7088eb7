package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wenlng/go-service-balance/balance/instance"
)

func TestStrategies(t *testing.T) {
	instances := []instance.ServiceInstance{
		{Host: "localhost", Port: 8081},
		{Host: "localhost", Port: 8082},
		{Host: "localhost", Port: 8083},
	}

	t.Run("RandomStrategy", func(t *testing.T) {
		s := NewRandomStrategy()
		counts := make(map[string]int)
		for i := 0; i < 1000; i++ {
			inst, err := s.Select(instances, "")
			assert.NoError(t, err)
			counts[inst.Addr()]++
		}
		for _, addr := range []string{"localhost:8081", "localhost:8082", "localhost:8083"} {
			assert.Greater(t, counts[addr], 200, "Random strategy should distribute requests")
		}
	})

	t.Run("RoundRobinStrategy", func(t *testing.T) {
		s := NewRoundRobinStrategy()
		for i, expected := range []string{"localhost:8081", "localhost:8082", "localhost:8083", "localhost:8081"} {
			inst, err := s.Select(instances, "")
			assert.NoError(t, err)
			assert.Equal(t, expected, inst.Addr(), "Round robin strategy should select in order at iteration %d", i)
		}
	})

	t.Run("ConsistentHashStrategy", func(t *testing.T) {
		s := NewConsistentHashStrategy()
		key := "test-key"
		var lastAddr string
		for i := 0; i < 10; i++ {
			inst, err := s.Select(instances, key)
			assert.NoError(t, err)
			if i == 0 {
				lastAddr = inst.Addr()
			} else {
				assert.Equal(t, lastAddr, inst.Addr(), "Consistent hash strategy should select same instance for same key")
			}
		}
	})

	t.Run("WeightedRandomStrategy", func(t *testing.T) {
		weighted := []instance.ServiceInstance{
			{Host: "localhost", Port: 8081, Metadata: map[string]string{"weight": "8"}},
			{Host: "localhost", Port: 8082, Metadata: map[string]string{"weight": "1"}},
		}
		s := NewWeightedRandomStrategy()
		counts := make(map[string]int)
		for i := 0; i < 1000; i++ {
			inst, err := s.Select(weighted, "")
			assert.NoError(t, err)
			counts[inst.Addr()]++
		}
		assert.Greater(t, counts["localhost:8081"], counts["localhost:8082"],
			"Weighted random strategy should prefer heavier instances")
	})

	t.Run("EmptyInstances", func(t *testing.T) {
		strategies := []Strategy{
			NewRandomStrategy(),
			NewRoundRobinStrategy(),
			NewConsistentHashStrategy(),
			NewWeightedRandomStrategy(),
		}
		for _, s := range strategies {
			_, err := s.Select([]instance.ServiceInstance{}, "")
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "no instances available")
		}
	})
}

func TestNewStrategy(t *testing.T) {
	for _, strategyType := range []StrategyType{
		StrategyTypeRandom,
		StrategyTypeRoundRobin,
		StrategyTypeConsistentHash,
		StrategyTypeWeightedRandom,
	} {
		s, err := New(strategyType)
		assert.NoError(t, err)
		assert.NotNil(t, s)
	}

	_, err := New("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported load balancing strategy type")
}
