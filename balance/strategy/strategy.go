/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package strategy

import (
	"fmt"

	"github.com/wenlng/go-service-balance/balance/instance"
)

type StrategyType string

// StrategyType .
const (
	StrategyTypeRandom         StrategyType = "random"
	StrategyTypeRoundRobin                  = "round_robin"
	StrategyTypeConsistentHash              = "consistent_hash"
	StrategyTypeWeightedRandom              = "weighted_random"
)

// Strategy selects one instance for a request
type Strategy interface {
	Select(instances []instance.ServiceInstance, key string) (instance.ServiceInstance, error)
}

// New .
func New(t StrategyType) (Strategy, error) {
	switch t {
	case StrategyTypeRandom:
		return NewRandomStrategy(), nil
	case StrategyTypeRoundRobin:
		return NewRoundRobinStrategy(), nil
	case StrategyTypeConsistentHash:
		return NewConsistentHashStrategy(), nil
	case StrategyTypeWeightedRandom:
		return NewWeightedRandomStrategy(), nil
	}
	return nil, fmt.Errorf("unsupported load balancing strategy type: %s", t)
}
