/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package serverlist

import (
	"context"

	"github.com/wenlng/go-service-balance/balance/instance"
)

// NoopSource never has servers
type NoopSource struct{}

// SetOutputLogCallback .
func (n *NoopSource) SetOutputLogCallback(outputLogCallback OutputLogCallback) {
}

// Watch .
func (n *NoopSource) Watch(ctx context.Context, serviceName string) (chan []instance.ServiceInstance, error) {
	ch := make(chan []instance.ServiceInstance)
	close(ch)
	return ch, nil
}

// GetInstances .
func (n *NoopSource) GetInstances(serviceName string) ([]instance.ServiceInstance, error) {
	return []instance.ServiceInstance{}, nil
}

// Close .
func (n *NoopSource) Close() error {
	return nil
}
