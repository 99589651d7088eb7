/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package strategy

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/wenlng/go-service-balance/balance/instance"
)

// WeightedRandomStrategy picks instances randomly, biased by the "weight"
// metadata entry. An instance without a weight counts as 1.
type WeightedRandomStrategy struct{}

// NewWeightedRandomStrategy .
func NewWeightedRandomStrategy() Strategy {
	return &WeightedRandomStrategy{}
}

// Select .
func (s *WeightedRandomStrategy) Select(instances []instance.ServiceInstance, key string) (instance.ServiceInstance, error) {
	if len(instances) == 0 {
		return instance.ServiceInstance{}, fmt.Errorf("no instances available")
	}

	total := 0
	weights := make([]int, len(instances))
	for i, inst := range instances {
		weights[i] = instanceWeight(inst)
		total += weights[i]
	}

	point := rand.Intn(total)
	for i, w := range weights {
		point -= w
		if point < 0 {
			return instances[i], nil
		}
	}
	return instances[len(instances)-1], nil
}

// instanceWeight .
func instanceWeight(inst instance.ServiceInstance) int {
	if v, ok := inst.Metadata["weight"]; ok {
		if w, err := strconv.Atoi(v); err == nil && w > 0 {
			return w
		}
	}
	return 1
}
