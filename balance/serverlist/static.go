/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package serverlist

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/wenlng/go-service-balance/balance/instance"
	"github.com/wenlng/go-service-balance/foundation/helper"
)

// staticWatcher .
type staticWatcher struct {
	serviceName string
	ch          chan []instance.ServiceInstance
}

// StaticSource serves a fixed, configuration-declared server list. The same
// list answers every service name, one source being built per service.
type StaticSource struct {
	outputLogCallback OutputLogCallback

	mutex    sync.RWMutex
	servers  []instance.ServiceInstance
	watchers map[int]staticWatcher
	nextID   int
}

// NewStaticSource builds a source from "host:port" entries
func NewStaticSource(addrs []string) (*StaticSource, error) {
	var servers []instance.ServiceInstance
	for _, addr := range addrs {
		if addr == "" {
			continue
		}
		host, port, err := helper.SplitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse server address: %v", err)
		}
		servers = append(servers, instance.ServiceInstance{
			InstanceID: uuid.New().String(),
			Host:       host,
			Port:       port,
		})
	}

	return &StaticSource{
		servers:  servers,
		watchers: make(map[int]staticWatcher),
	}, nil
}

// SetOutputLogCallback .
func (s *StaticSource) SetOutputLogCallback(outputLogCallback OutputLogCallback) {
	s.outputLogCallback = outputLogCallback
}

// outLog
func (s *StaticSource) outLog(logType OutputLogType, message string) {
	if s.outputLogCallback != nil {
		s.outputLogCallback(logType, message)
	}
}

// Update replaces the declared server list and notifies watchers
func (s *StaticSource) Update(servers []instance.ServiceInstance) {
	for i := range servers {
		if servers[i].InstanceID == "" {
			servers[i].InstanceID = uuid.New().String()
		}
	}

	s.mutex.Lock()
	s.servers = servers
	for _, w := range s.watchers {
		instances := make([]instance.ServiceInstance, len(servers))
		for i, server := range servers {
			server.ServiceID = w.serviceName
			instances[i] = server
		}
		select {
		case w.ch <- instances:
		default:
			// @Pass
		}
	}
	s.mutex.Unlock()

	s.outLog(OutputLogTypeInfo, fmt.Sprintf("[StaticSource] Server list updated, count: %d", len(servers)))
}

// GetInstances .
func (s *StaticSource) GetInstances(serviceName string) ([]instance.ServiceInstance, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	instances := make([]instance.ServiceInstance, len(s.servers))
	for i, server := range s.servers {
		server.ServiceID = serviceName
		instances[i] = server
	}
	return instances, nil
}

// Watch .
func (s *StaticSource) Watch(ctx context.Context, serviceName string) (chan []instance.ServiceInstance, error) {
	ch := make(chan []instance.ServiceInstance, 1)

	instances, err := s.GetInstances(serviceName)
	if err != nil {
		return nil, err
	}
	if len(instances) > 0 {
		ch <- instances
	}

	s.mutex.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = staticWatcher{serviceName: serviceName, ch: ch}
	s.mutex.Unlock()

	go func() {
		<-ctx.Done()
		s.mutex.Lock()
		delete(s.watchers, id)
		close(ch)
		s.mutex.Unlock()
	}()

	return ch, nil
}

// Close .
func (s *StaticSource) Close() error {
	return nil
}
