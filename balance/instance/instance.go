package instance

import "fmt"

// ServiceInstance represents one concrete server of a logical service
type ServiceInstance struct {
	ServiceID  string
	InstanceID string
	Host       string
	Port       int
	Secure     bool
	Metadata   map[string]string
}

// Addr .
func (si *ServiceInstance) Addr() string {
	return fmt.Sprintf("%s:%d", si.Host, si.Port)
}

// Scheme .
func (si *ServiceInstance) Scheme() string {
	if si.Secure {
		return "https"
	}
	return "http"
}

// URI .
func (si *ServiceInstance) URI() string {
	return fmt.Sprintf("%s://%s", si.Scheme(), si.Addr())
}

// IsResolved reports whether the instance points at a reachable server
func (si *ServiceInstance) IsResolved() bool {
	return si != nil && si.Host != "" && si.Port > 0
}
