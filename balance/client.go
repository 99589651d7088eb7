/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package balance

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/wenlng/go-service-balance/balance/instance"
	"github.com/wenlng/go-service-balance/clientconfig"
	"github.com/wenlng/go-service-balance/foundation/helper"
)

// OutputLogType ..
type OutputLogType = helper.OutputLogType

const (
	OutputLogTypeWarn  = helper.OutputLogTypeWarn
	OutputLogTypeInfo  = helper.OutputLogTypeInfo
	OutputLogTypeError = helper.OutputLogTypeError
	OutputLogTypeDebug = helper.OutputLogTypeDebug
)

// OutputLogCallback ..
type OutputLogCallback = helper.OutputLogCallback

// ErrNoAvailableInstance reports that a service currently has no servers.
// Errors returned for that state wrap it and name the service.
var ErrNoAvailableInstance = errors.New("no instances available")

// noInstanceError .
func noInstanceError(serviceName string) error {
	return fmt.Errorf("%w for service: %s", ErrNoAvailableInstance, serviceName)
}

// Client picks servers of named services and executes requests against
// them. Per-service behavior comes from the configuration registry the
// client was built with.
type Client struct {
	factory *Factory
}

// NewClient .
func NewClient(registry *clientconfig.Registry) *Client {
	return &Client{factory: NewFactory(registry)}
}

// NewClientWithFactory .
func NewClientWithFactory(factory *Factory) *Client {
	return &Client{factory: factory}
}

// Factory .
func (c *Client) Factory() *Factory {
	return c.factory
}

// SetOutputLogCallback .
func (c *Client) SetOutputLogCallback(outputLogCallback OutputLogCallback) {
	c.factory.SetOutputLogCallback(outputLogCallback)
}

// Choose picks a server of the service for one request. It returns nil
// without an error when the service has no servers.
func (c *Client) Choose(serviceName string) (*instance.ServiceInstance, error) {
	return c.ChooseWithHint(serviceName, "")
}

// ChooseWithHint picks a server using the hint as the selection key, so
// hint-aware strategies can keep a caller pinned to one server.
func (c *Client) ChooseWithHint(serviceName, hint string) (*instance.ServiceInstance, error) {
	entry, err := c.factory.entry(serviceName)
	if err != nil {
		return nil, err
	}

	server := entry.lb.ChooseServer(hint)
	if server == nil {
		return nil, nil
	}

	target := *server
	target.ServiceID = serviceName
	target.Metadata = entry.introspector.Metadata(server)
	target.Secure = isSecure(entry.config, entry.introspector, server)
	return &target, nil
}

// ReconstructURI rewrites the original URI so it points at the target
// server, upgrading the scheme when the target requires secure transport
func (c *Client) ReconstructURI(target *instance.ServiceInstance, original *url.URL) (*url.URL, error) {
	if target == nil {
		return nil, fmt.Errorf("a target instance is required to reconstruct the uri")
	}
	lbContext, err := c.factory.Context(target.ServiceID)
	if err != nil {
		return nil, err
	}
	return lbContext.ReconstructURIWithServer(target, original)
}

// Close .
func (c *Client) Close() error {
	return c.factory.Close()
}

// isSecure combines the configured override with the introspector
// heuristic; the transport is secure when either one says so
func isSecure(config *clientconfig.ClientConfig, introspector ServerIntrospector, target *instance.ServiceInstance) bool {
	if config != nil && config.Secure != nil && *config.Secure {
		return true
	}
	return introspector.IsSecure(target)
}
