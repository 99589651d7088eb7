/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package clientconfig

import (
	"strings"
	"sync"
	"time"

	"github.com/wenlng/go-service-balance/balance/serverlist"
	"github.com/wenlng/go-service-balance/balance/strategy"
)

// DefaultRecordPrefix marks records that apply to every service
const DefaultRecordPrefix = "default."

// Record .
type Record struct {
	Name   string
	Config *ClientConfig
}

// Registry stores named client configuration records for the lifetime of
// the process. Records are written at startup and read on every call.
type Registry struct {
	mutex   sync.RWMutex
	names   []string
	records map[string]*Record
}

// NewRegistry .
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[string]*Record),
	}
}

// Register adds a record under the name. Registering a name again replaces
// the earlier record in place.
func (r *Registry) Register(name string, config *ClientConfig) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.records[name]; !ok {
		r.names = append(r.names, name)
	}
	r.records[name] = &Record{Name: name, Config: config.Clone()}
}

// Lookup .
func (r *Registry) Lookup(name string) (*ClientConfig, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	record, ok := r.records[name]
	if !ok {
		return nil, false
	}
	return record.Config.Clone(), true
}

// Names returns the record names in registration order
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return append([]string(nil), r.names...)
}

// ResolveFor builds the effective configuration of a service: built-in
// defaults, then every "default." record in registration order, then the
// record named after the service.
func (r *Registry) ResolveFor(serviceName string) *ClientConfig {
	config := builtinClientConfig()

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, name := range r.names {
		if strings.HasPrefix(name, DefaultRecordPrefix) {
			config.overlay(r.records[name].Config)
		}
	}
	if record, ok := r.records[serviceName]; ok {
		config.overlay(record.Config)
	}
	return config
}

// builtinClientConfig .
func builtinClientConfig() *ClientConfig {
	return &ClientConfig{
		ServerList:       &serverlist.Config{Type: serverlist.SourceTypeNone},
		Strategy:         strategy.StrategyTypeRoundRobin,
		SecurePorts:      []int{443, 8443},
		FailureThreshold: 3,
		TripBaseDelay:    10 * time.Second,
		TripMaxDelay:     30 * time.Second,
	}
}
