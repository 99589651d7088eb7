/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package stats

import (
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/wenlng/go-service-balance/balance/instance"
	"github.com/wenlng/go-service-balance/foundation/helper"
)

// Config .
type Config struct {
	FailureThreshold int           // Successive failures before the server trips
	TripBaseDelay    time.Duration // Trip window for the first trip
	TripMaxDelay     time.Duration // Upper bound of the trip window
	Clock            clockwork.Clock
}

// ServerStats tracks the call history of one server of a service
type ServerStats struct {
	addr  string
	clock clockwork.Clock

	failureThreshold int
	tripBaseDelay    time.Duration
	tripMaxDelay     time.Duration

	mutex              sync.Mutex
	totalRequests      int64
	activeRequests     int64
	totalFailures      int64
	successiveFailures int64
	responseTimeTotal  time.Duration
	responseTimeMin    time.Duration
	responseTimeMax    time.Duration
	lastAccessTime     time.Time
	lastFailureTime    time.Time
}

// Addr .
func (s *ServerStats) Addr() string {
	return s.addr
}

// requestStarted .
func (s *ServerStats) requestStarted() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.totalRequests++
	s.activeRequests++
	s.lastAccessTime = s.clock.Now()
}

// recordSuccess .
func (s *ServerStats) recordSuccess(elapsed time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.activeRequests--
	s.successiveFailures = 0
	s.recordResponseTime(elapsed)
}

// recordFailure .
func (s *ServerStats) recordFailure(elapsed time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.activeRequests--
	s.totalFailures++
	s.successiveFailures++
	s.lastFailureTime = s.clock.Now()
	s.recordResponseTime(elapsed)
}

// recordResponseTime must be called with the mutex held
func (s *ServerStats) recordResponseTime(elapsed time.Duration) {
	s.responseTimeTotal += elapsed
	if s.responseTimeMin == 0 || elapsed < s.responseTimeMin {
		s.responseTimeMin = elapsed
	}
	if elapsed > s.responseTimeMax {
		s.responseTimeMax = elapsed
	}
}

// tripWindow must be called with the mutex held. The window doubles with
// every successive failure past the threshold, up to the configured cap.
func (s *ServerStats) tripWindow() time.Duration {
	if s.successiveFailures < int64(s.failureThreshold) {
		return 0
	}
	exp := s.successiveFailures - int64(s.failureThreshold)
	if exp > 16 {
		exp = 16
	}
	window := s.tripBaseDelay << uint(exp)
	if window > s.tripMaxDelay {
		window = s.tripMaxDelay
	}
	return window
}

// IsTripped reports whether the server is inside its trip window
func (s *ServerStats) IsTripped() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	window := s.tripWindow()
	if window <= 0 {
		return false
	}
	return s.clock.Now().Before(s.lastFailureTime.Add(window))
}

// ActiveRequests .
func (s *ServerStats) ActiveRequests() int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.activeRequests
}

// TotalRequests .
func (s *ServerStats) TotalRequests() int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.totalRequests
}

// TotalFailures .
func (s *ServerStats) TotalFailures() int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.totalFailures
}

// SuccessiveFailures .
func (s *ServerStats) SuccessiveFailures() int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.successiveFailures
}

// MeanResponseTime .
func (s *ServerStats) MeanResponseTime() time.Duration {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	completed := s.totalRequests - s.activeRequests
	if completed <= 0 {
		return 0
	}
	return s.responseTimeTotal / time.Duration(completed)
}

// Snapshot .
func (s *ServerStats) Snapshot() ServerSnapshot {
	tripped := s.IsTripped()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	snapshot := ServerSnapshot{
		Addr:               s.addr,
		TotalRequests:      s.totalRequests,
		ActiveRequests:     s.activeRequests,
		TotalFailures:      s.totalFailures,
		SuccessiveFailures: s.successiveFailures,
		ResponseTimeTotal:  s.responseTimeTotal,
		ResponseTimeMin:    s.responseTimeMin,
		ResponseTimeMax:    s.responseTimeMax,
		LastAccessTime:     s.lastAccessTime,
		LastFailureTime:    s.lastFailureTime,
		Tripped:            tripped,
	}
	if completed := s.totalRequests - s.activeRequests; completed > 0 {
		snapshot.MeanResponseTime = s.responseTimeTotal / time.Duration(completed)
	}
	return snapshot
}

// ServerSnapshot .
type ServerSnapshot struct {
	Addr               string
	TotalRequests      int64
	ActiveRequests     int64
	TotalFailures      int64
	SuccessiveFailures int64
	ResponseTimeTotal  time.Duration
	ResponseTimeMin    time.Duration
	ResponseTimeMax    time.Duration
	MeanResponseTime   time.Duration
	LastAccessTime     time.Time
	LastFailureTime    time.Time
	Tripped            bool
}

// ServiceSnapshot .
type ServiceSnapshot struct {
	ServiceName string
	Servers     []ServerSnapshot
}

// ServiceStats tracks every server of one service, keyed by address
type ServiceStats struct {
	serviceName string
	config      Config

	mutex   sync.RWMutex
	servers map[string]*ServerStats
}

// NewServiceStats .
func NewServiceStats(serviceName string, config Config) *ServiceStats {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 3
	}
	if !helper.IsDurationSet(config.TripBaseDelay) {
		config.TripBaseDelay = 10 * time.Second
	}
	if !helper.IsDurationSet(config.TripMaxDelay) {
		config.TripMaxDelay = 30 * time.Second
	}
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}

	return &ServiceStats{
		serviceName: serviceName,
		config:      config,
		servers:     make(map[string]*ServerStats),
	}
}

// ServiceName .
func (ss *ServiceStats) ServiceName() string {
	return ss.serviceName
}

// Server returns the stats of the target, creating them on first use
func (ss *ServiceStats) Server(target *instance.ServiceInstance) *ServerStats {
	addr := target.Addr()

	ss.mutex.RLock()
	server, ok := ss.servers[addr]
	ss.mutex.RUnlock()
	if ok {
		return server
	}

	ss.mutex.Lock()
	defer ss.mutex.Unlock()
	if server, ok = ss.servers[addr]; ok {
		return server
	}
	server = &ServerStats{
		addr:             addr,
		clock:            ss.config.Clock,
		failureThreshold: ss.config.FailureThreshold,
		tripBaseDelay:    ss.config.TripBaseDelay,
		tripMaxDelay:     ss.config.TripMaxDelay,
	}
	ss.servers[addr] = server
	return server
}

// IsTripped reports whether the target is inside its trip window. A server
// without recorded calls is never tripped.
func (ss *ServiceStats) IsTripped(target *instance.ServiceInstance) bool {
	ss.mutex.RLock()
	server, ok := ss.servers[target.Addr()]
	ss.mutex.RUnlock()
	if !ok {
		return false
	}
	return server.IsTripped()
}

// Snapshot .
func (ss *ServiceStats) Snapshot() ServiceSnapshot {
	ss.mutex.RLock()
	servers := make([]*ServerStats, 0, len(ss.servers))
	for _, server := range ss.servers {
		servers = append(servers, server)
	}
	ss.mutex.RUnlock()

	snapshot := ServiceSnapshot{ServiceName: ss.serviceName}
	for _, server := range servers {
		snapshot.Servers = append(snapshot.Servers, server.Snapshot())
	}
	sort.Slice(snapshot.Servers, func(i, j int) bool {
		return snapshot.Servers[i].Addr < snapshot.Servers[j].Addr
	})
	return snapshot
}
