/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package stats

import (
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/wenlng/go-service-balance/balance/instance"
)

// Recorder times one request against one server. Creating the recorder
// marks the request in flight; exactly one of RecordSuccess or
// RecordFailure completes it, later calls are ignored.
type Recorder struct {
	stats    *ServerStats
	clock    clockwork.Clock
	start    time.Time
	recorded int32
}

// NewRecorder .
func (ss *ServiceStats) NewRecorder(target *instance.ServiceInstance) *Recorder {
	server := ss.Server(target)
	server.requestStarted()
	return &Recorder{
		stats: server,
		clock: server.clock,
		start: server.clock.Now(),
	}
}

// RecordSuccess .
func (r *Recorder) RecordSuccess() {
	if !atomic.CompareAndSwapInt32(&r.recorded, 0, 1) {
		return
	}
	r.stats.recordSuccess(r.clock.Since(r.start))
}

// RecordFailure .
func (r *Recorder) RecordFailure(err error) {
	if !atomic.CompareAndSwapInt32(&r.recorded, 0, 1) {
		return
	}
	r.stats.recordFailure(r.clock.Since(r.start))
}
