/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package strategy

import (
	"fmt"
	"math/rand"

	"github.com/wenlng/go-service-balance/balance/instance"
)

// RandomStrategy implements random selection
type RandomStrategy struct{}

func NewRandomStrategy() Strategy {
	return &RandomStrategy{}
}

// Select .
func (s *RandomStrategy) Select(instances []instance.ServiceInstance, key string) (instance.ServiceInstance, error) {
	if len(instances) == 0 {
		return instance.ServiceInstance{}, fmt.Errorf("no instances available")
	}
	return instances[rand.Intn(len(instances))], nil
}
