/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SnapshotFunc supplies the current stats of every tracked service
type SnapshotFunc func() []ServiceSnapshot

// Collector exposes call statistics as Prometheus metrics
type Collector struct {
	snapshot SnapshotFunc

	requestsDesc *prometheus.Desc
	failuresDesc *prometheus.Desc
	activeDesc   *prometheus.Desc
	meanDesc     *prometheus.Desc
	trippedDesc  *prometheus.Desc
}

// NewCollector .
func NewCollector(snapshot SnapshotFunc) *Collector {
	labels := []string{"service", "server"}
	return &Collector{
		snapshot: snapshot,
		requestsDesc: prometheus.NewDesc(
			"balance_server_requests_total",
			"Total requests executed against the server.",
			labels, nil,
		),
		failuresDesc: prometheus.NewDesc(
			"balance_server_failures_total",
			"Total failed requests against the server.",
			labels, nil,
		),
		activeDesc: prometheus.NewDesc(
			"balance_server_active_requests",
			"Requests currently in flight against the server.",
			labels, nil,
		),
		meanDesc: prometheus.NewDesc(
			"balance_server_response_time_mean_seconds",
			"Mean response time of completed requests against the server.",
			labels, nil,
		),
		trippedDesc: prometheus.NewDesc(
			"balance_server_tripped",
			"Whether the server is currently tripped (1) or accepting requests (0).",
			labels, nil,
		),
	}
}

// Describe .
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.requestsDesc
	ch <- c.failuresDesc
	ch <- c.activeDesc
	ch <- c.meanDesc
	ch <- c.trippedDesc
}

// Collect .
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, svc := range c.snapshot() {
		for _, server := range svc.Servers {
			tripped := 0.0
			if server.Tripped {
				tripped = 1.0
			}

			ch <- prometheus.MustNewConstMetric(c.requestsDesc, prometheus.CounterValue,
				float64(server.TotalRequests), svc.ServiceName, server.Addr)
			ch <- prometheus.MustNewConstMetric(c.failuresDesc, prometheus.CounterValue,
				float64(server.TotalFailures), svc.ServiceName, server.Addr)
			ch <- prometheus.MustNewConstMetric(c.activeDesc, prometheus.GaugeValue,
				float64(server.ActiveRequests), svc.ServiceName, server.Addr)
			ch <- prometheus.MustNewConstMetric(c.meanDesc, prometheus.GaugeValue,
				server.MeanResponseTime.Seconds(), svc.ServiceName, server.Addr)
			ch <- prometheus.MustNewConstMetric(c.trippedDesc, prometheus.GaugeValue,
				tripped, svc.ServiceName, server.Addr)
		}
	}
}
