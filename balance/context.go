/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package balance

import (
	"fmt"
	"net/url"

	"github.com/wenlng/go-service-balance/balance/instance"
	"github.com/wenlng/go-service-balance/balance/stats"
)

// secureSchemes maps plain schemes to their secure counterparts
var secureSchemes = map[string]string{
	"http": "https",
	"ws":   "wss",
}

// Context gives access to the per-service pieces that outlive a single
// request, the service statistics and URI reconstruction.
type Context struct {
	serviceName string
	stats       *stats.ServiceStats
}

// newContext .
func newContext(serviceName string, serviceStats *stats.ServiceStats) *Context {
	return &Context{
		serviceName: serviceName,
		stats:       serviceStats,
	}
}

// ServiceName .
func (c *Context) ServiceName() string {
	return c.serviceName
}

// ServerStats returns the statistics of one server of the service.
func (c *Context) ServerStats(target *instance.ServiceInstance) *stats.ServerStats {
	return c.stats.Server(target)
}

// ReconstructURIWithServer rewrites the original URI so its authority
// points at the target server. The path, query, fragment and user info
// are preserved. When the target requires secure transport, http is
// upgraded to https and ws to wss.
func (c *Context) ReconstructURIWithServer(target *instance.ServiceInstance, original *url.URL) (*url.URL, error) {
	if !target.IsResolved() {
		return nil, fmt.Errorf("a resolved target instance is required to reconstruct the uri")
	}
	if original == nil {
		return nil, fmt.Errorf("an original uri is required to reconstruct the uri")
	}

	scheme := original.Scheme
	if scheme == "" {
		scheme = "http"
	}
	if target.Secure {
		if upgraded, ok := secureSchemes[scheme]; ok {
			scheme = upgraded
		}
	}

	reconstructed := *original
	reconstructed.Scheme = scheme
	reconstructed.Host = target.Addr()
	return &reconstructed, nil
}
