/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package strategy

import (
	"fmt"
	"sync/atomic"

	"github.com/wenlng/go-service-balance/balance/instance"
)

// RoundRobinStrategy implements round-robin selection
type RoundRobinStrategy struct {
	counter uint64
}

// NewRoundRobinStrategy .
func NewRoundRobinStrategy() Strategy {
	return &RoundRobinStrategy{}
}

// Select .
func (s *RoundRobinStrategy) Select(instances []instance.ServiceInstance, key string) (instance.ServiceInstance, error) {
	if len(instances) == 0 {
		return instance.ServiceInstance{}, fmt.Errorf("no instances available")
	}
	index := (atomic.AddUint64(&s.counter, 1) - 1) % uint64(len(instances))
	return instances[index], nil
}
