/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package strategy

import (
	"fmt"
	"hash/crc32"
	"sort"
	"sync"

	"github.com/wenlng/go-service-balance/balance/instance"
)

// ConsistentHashStrategy keeps a request key pinned to the same instance
type ConsistentHashStrategy struct {
	hashRing []uint32
	nodes    map[uint32]instance.ServiceInstance
	mu       sync.Mutex
}

// NewConsistentHashStrategy .
func NewConsistentHashStrategy() Strategy {
	return &ConsistentHashStrategy{
		nodes: make(map[uint32]instance.ServiceInstance),
	}
}

// Select .
func (s *ConsistentHashStrategy) Select(instances []instance.ServiceInstance, key string) (instance.ServiceInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(instances) == 0 {
		return instance.ServiceInstance{}, fmt.Errorf("no instances available")
	}

	if len(s.hashRing) != len(instances)*10 {
		s.hashRing = nil
		s.nodes = make(map[uint32]instance.ServiceInstance)
		for _, inst := range instances {
			for i := 0; i < 10; i++ {
				hash := crc32.ChecksumIEEE([]byte(fmt.Sprintf("%s:%d", inst.Addr(), i)))
				s.hashRing = append(s.hashRing, hash)
				s.nodes[hash] = inst
			}
		}
		sort.Slice(s.hashRing, func(i, j int) bool {
			return s.hashRing[i] < s.hashRing[j]
		})
	}

	hash := crc32.ChecksumIEEE([]byte(key))
	for _, h := range s.hashRing {
		if h >= hash {
			return s.nodes[h], nil
		}
	}
	return s.nodes[s.hashRing[0]], nil
}
