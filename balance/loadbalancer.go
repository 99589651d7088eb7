/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package balance

import (
	"context"
	"fmt"
	"sync"

	"github.com/wenlng/go-service-balance/balance/instance"
	"github.com/wenlng/go-service-balance/balance/serverlist"
	"github.com/wenlng/go-service-balance/balance/stats"
	"github.com/wenlng/go-service-balance/balance/strategy"
)

// defaultSelectionKey is used when the caller supplies no hint
const defaultSelectionKey = "default"

// LoadBalancer picks servers of one service. It keeps a local copy of
// the server list, refreshed in the background by the source's watch
// channel, and skips servers whose statistics mark them as tripped.
type LoadBalancer struct {
	serviceName       string
	source            serverlist.Source
	strategy          strategy.Strategy
	stats             *stats.ServiceStats
	cancel            context.CancelFunc
	outputLogCallback OutputLogCallback

	insMutex  sync.RWMutex
	instances []instance.ServiceInstance
	fetched   bool
}

// newLoadBalancer .
func newLoadBalancer(
	serviceName string,
	source serverlist.Source,
	selectionStrategy strategy.Strategy,
	serviceStats *stats.ServiceStats,
	outputLogCallback OutputLogCallback,
) *LoadBalancer {
	ctx, cancel := context.WithCancel(context.Background())

	lb := &LoadBalancer{
		serviceName:       serviceName,
		source:            source,
		strategy:          selectionStrategy,
		stats:             serviceStats,
		cancel:            cancel,
		outputLogCallback: outputLogCallback,
	}
	if outputLogCallback != nil {
		source.SetOutputLogCallback(outputLogCallback)
	}

	go lb.watch(ctx)

	return lb
}

// SetOutputLogCallback .
func (lb *LoadBalancer) SetOutputLogCallback(outputLogCallback OutputLogCallback) {
	lb.outputLogCallback = outputLogCallback
	lb.source.SetOutputLogCallback(outputLogCallback)
}

// outLog .
func (lb *LoadBalancer) outLog(logType OutputLogType, message string) {
	if lb.outputLogCallback != nil {
		lb.outputLogCallback(logType, message)
	}
}

// ServiceName .
func (lb *LoadBalancer) ServiceName() string {
	return lb.serviceName
}

// Stats .
func (lb *LoadBalancer) Stats() *stats.ServiceStats {
	return lb.stats
}

// ChooseServer picks one server for the given selection key. An empty
// key falls back to the default key. It returns nil when the service
// has no servers.
func (lb *LoadBalancer) ChooseServer(hint string) *instance.ServiceInstance {
	if hint == "" {
		hint = defaultSelectionKey
	}

	servers := lb.Servers()
	if len(servers) == 0 {
		return nil
	}

	selected, err := lb.strategy.Select(lb.available(servers), hint)
	if err != nil {
		lb.outLog(OutputLogTypeWarn,
			fmt.Sprintf("[LoadBalancer] Failed to select server, service: %s, err: %v", lb.serviceName, err))
		return nil
	}
	return &selected
}

// Servers returns the current server list of the service, fetching it
// from the source when no list has been cached yet.
func (lb *LoadBalancer) Servers() []instance.ServiceInstance {
	lb.insMutex.RLock()
	if lb.fetched {
		servers := make([]instance.ServiceInstance, len(lb.instances))
		copy(servers, lb.instances)
		lb.insMutex.RUnlock()
		return servers
	}
	lb.insMutex.RUnlock()

	instances, err := lb.source.GetInstances(lb.serviceName)
	if err != nil {
		lb.outLog(OutputLogTypeWarn,
			fmt.Sprintf("[LoadBalancer] Failed to fetch server list, service: %s, err: %v", lb.serviceName, err))
		return nil
	}

	lb.insMutex.Lock()
	lb.instances = instances
	lb.fetched = true
	lb.insMutex.Unlock()

	servers := make([]instance.ServiceInstance, len(instances))
	copy(servers, instances)
	return servers
}

// available filters out tripped servers, falling back to the full list
// when every server is tripped
func (lb *LoadBalancer) available(servers []instance.ServiceInstance) []instance.ServiceInstance {
	available := make([]instance.ServiceInstance, 0, len(servers))
	for i := range servers {
		if !lb.stats.IsTripped(&servers[i]) {
			available = append(available, servers[i])
		}
	}
	if len(available) == 0 {
		return servers
	}
	return available
}

// watch keeps the cached server list in sync with the source
func (lb *LoadBalancer) watch(ctx context.Context) {
	ch, err := lb.source.Watch(ctx, lb.serviceName)
	if err != nil {
		lb.outLog(OutputLogTypeWarn,
			fmt.Sprintf("[LoadBalancer] Failed to watch server list, service: %s, err: %v", lb.serviceName, err))
		return
	}

	for instances := range ch {
		lb.insMutex.Lock()
		lb.instances = instances
		lb.fetched = true
		lb.insMutex.Unlock()

		lb.outLog(OutputLogTypeDebug,
			fmt.Sprintf("[LoadBalancer] Server list updated, service: %s, count: %d", lb.serviceName, len(instances)))
	}
}

// Close stops the background watch and releases the source
func (lb *LoadBalancer) Close() error {
	lb.cancel()
	return lb.source.Close()
}
