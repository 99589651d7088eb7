/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package balance

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/wenlng/go-service-balance/balance/serverlist"
	"github.com/wenlng/go-service-balance/balance/stats"
	"github.com/wenlng/go-service-balance/balance/strategy"
	"github.com/wenlng/go-service-balance/clientconfig"
)

// serviceEntry bundles the balancing stack of one service
type serviceEntry struct {
	config       *clientconfig.ClientConfig
	lb           *LoadBalancer
	context      *Context
	introspector ServerIntrospector
	stats        *stats.ServiceStats
}

// Factory lazily creates and caches one balancing stack per service,
// resolving each service's configuration from the registry on first use.
// It is safe for concurrent use.
type Factory struct {
	registry *clientconfig.Registry
	clock    clockwork.Clock

	mutex             sync.RWMutex
	entries           map[string]*serviceEntry
	introspectors     map[string]ServerIntrospector
	outputLogCallback OutputLogCallback
}

// NewFactory .
func NewFactory(registry *clientconfig.Registry) *Factory {
	if registry == nil {
		registry = clientconfig.NewRegistry()
	}

	return &Factory{
		registry:      registry,
		clock:         clockwork.NewRealClock(),
		entries:       make(map[string]*serviceEntry),
		introspectors: make(map[string]ServerIntrospector),
	}
}

// Registry .
func (f *Factory) Registry() *clientconfig.Registry {
	return f.registry
}

// SetOutputLogCallback .
func (f *Factory) SetOutputLogCallback(outputLogCallback OutputLogCallback) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.outputLogCallback = outputLogCallback
	for _, entry := range f.entries {
		entry.lb.SetOutputLogCallback(outputLogCallback)
	}
}

// SetServerIntrospector installs a custom introspector for the service,
// it must be called before the service is first used
func (f *Factory) SetServerIntrospector(serviceName string, introspector ServerIntrospector) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.introspectors[serviceName] = introspector
}

// LoadBalancer returns the service's load balancer, creating the
// balancing stack on first use.
func (f *Factory) LoadBalancer(serviceName string) (*LoadBalancer, error) {
	entry, err := f.entry(serviceName)
	if err != nil {
		return nil, err
	}
	return entry.lb, nil
}

// ClientConfig returns the resolved configuration of the service.
func (f *Factory) ClientConfig(serviceName string) (*clientconfig.ClientConfig, error) {
	entry, err := f.entry(serviceName)
	if err != nil {
		return nil, err
	}
	return entry.config, nil
}

// Context returns the per-service context used for URI reconstruction
// and statistics access.
func (f *Factory) Context(serviceName string) (*Context, error) {
	entry, err := f.entry(serviceName)
	if err != nil {
		return nil, err
	}
	return entry.context, nil
}

// Introspector returns the introspector used for the service's servers.
func (f *Factory) Introspector(serviceName string) (ServerIntrospector, error) {
	entry, err := f.entry(serviceName)
	if err != nil {
		return nil, err
	}
	return entry.introspector, nil
}

// Stats returns the statistics of the service.
func (f *Factory) Stats(serviceName string) (*stats.ServiceStats, error) {
	entry, err := f.entry(serviceName)
	if err != nil {
		return nil, err
	}
	return entry.stats, nil
}

// Snapshots returns a point-in-time view of the statistics of every
// service the factory has created, ordered by service name.
func (f *Factory) Snapshots() []stats.ServiceSnapshot {
	f.mutex.RLock()
	entries := make([]*serviceEntry, 0, len(f.entries))
	for _, entry := range f.entries {
		entries = append(entries, entry)
	}
	f.mutex.RUnlock()

	snapshots := make([]stats.ServiceSnapshot, 0, len(entries))
	for _, entry := range entries {
		snapshots = append(snapshots, entry.stats.Snapshot())
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].ServiceName < snapshots[j].ServiceName
	})
	return snapshots
}

// Close shuts down every balancing stack the factory has created
func (f *Factory) Close() error {
	f.mutex.Lock()
	entries := f.entries
	f.entries = make(map[string]*serviceEntry)
	f.mutex.Unlock()

	var firstErr error
	for _, entry := range entries {
		if err := entry.lb.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// entry returns the service's balancing stack, creating it on first use
func (f *Factory) entry(serviceName string) (*serviceEntry, error) {
	f.mutex.RLock()
	entry, ok := f.entries[serviceName]
	f.mutex.RUnlock()
	if ok {
		return entry, nil
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	if entry, ok = f.entries[serviceName]; ok {
		return entry, nil
	}

	config := f.registry.ResolveFor(serviceName)

	source, err := serverlist.NewSource(*config.ServerList)
	if err != nil {
		return nil, fmt.Errorf("failed to create server list source for service %s: %v", serviceName, err)
	}

	selectionStrategy, err := strategy.New(config.Strategy)
	if err != nil {
		_ = source.Close()
		return nil, fmt.Errorf("failed to create strategy for service %s: %v", serviceName, err)
	}

	serviceStats := stats.NewServiceStats(serviceName, stats.Config{
		FailureThreshold: config.FailureThreshold,
		TripBaseDelay:    config.TripBaseDelay,
		TripMaxDelay:     config.TripMaxDelay,
		Clock:            f.clock,
	})

	lb := newLoadBalancer(serviceName, source, selectionStrategy, serviceStats, f.outputLogCallback)

	introspector, ok := f.introspectors[serviceName]
	if !ok {
		introspector = NewDefaultServerIntrospector(config.SecurePorts)
	}

	entry = &serviceEntry{
		config:       config,
		lb:           lb,
		context:      newContext(serviceName, serviceStats),
		introspector: introspector,
		stats:        serviceStats,
	}
	f.entries[serviceName] = entry
	return entry, nil
}
