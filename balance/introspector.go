/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package balance

import (
	"github.com/wenlng/go-service-balance/balance/instance"
)

// ServerIntrospector answers questions a server list source can not,
// whether a server expects secure transport and what metadata it
// carries.
type ServerIntrospector interface {
	// IsSecure reports whether the server expects secure transport
	IsSecure(target *instance.ServiceInstance) bool
	// Metadata returns the metadata of the server
	Metadata(target *instance.ServiceInstance) map[string]string
}

// DefaultServerIntrospector treats a server as secure when it listens
// on a well-known secure port or marks itself secure in its metadata.
type DefaultServerIntrospector struct {
	securePorts []int
}

// NewDefaultServerIntrospector .
func NewDefaultServerIntrospector(securePorts []int) *DefaultServerIntrospector {
	if len(securePorts) == 0 {
		securePorts = []int{443, 8443}
	}
	return &DefaultServerIntrospector{securePorts: securePorts}
}

// IsSecure .
func (si *DefaultServerIntrospector) IsSecure(target *instance.ServiceInstance) bool {
	if target == nil {
		return false
	}
	for _, port := range si.securePorts {
		if target.Port == port {
			return true
		}
	}
	return target.Metadata["secure"] == "true"
}

// Metadata .
func (si *DefaultServerIntrospector) Metadata(target *instance.ServiceInstance) map[string]string {
	if target == nil {
		return nil
	}
	return target.Metadata
}
