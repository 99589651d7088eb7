/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package serverlist

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/consul/api"
	"github.com/wenlng/go-service-balance/balance/instance"
	"github.com/wenlng/go-service-balance/foundation/clientpool"
	"github.com/wenlng/go-service-balance/foundation/common"
	"github.com/wenlng/go-service-balance/foundation/extraconfig"
	"github.com/wenlng/go-service-balance/foundation/helper"
)

// ConsulSource reads the healthy servers of a service from Consul
type ConsulSource struct {
	pool              *clientpool.ConsulPool
	outputLogCallback OutputLogCallback
	config            ConsulSourceConfig
}

// ConsulSourceConfig .
type ConsulSourceConfig struct {
	extraconfig.ConsulExtraConfig

	address        []string
	poolSize       int
	maxRetries     int
	baseRetryDelay time.Duration
	tlsConfig      *common.TLSConfig
	username       string
	password       string
}

// NewConsulSource .
func NewConsulSource(config ConsulSourceConfig) (*ConsulSource, error) {
	if config.poolSize <= 0 {
		config.poolSize = 5
	}

	if config.maxRetries <= 0 {
		config.maxRetries = 3
	}

	if !helper.IsDurationSet(config.baseRetryDelay) {
		config.baseRetryDelay = 500 * time.Millisecond
	}

	config.ConsulExtraConfig.Username = config.username
	config.ConsulExtraConfig.Password = config.password
	config.ConsulExtraConfig.SetTLSConfig(config.tlsConfig)

	pool, err := clientpool.NewConsulPool(config.poolSize, config.address, &config.ConsulExtraConfig)
	if err != nil {
		return nil, err
	}

	return &ConsulSource{
		config: config,
		pool:   pool,
	}, nil
}

// SetOutputLogCallback Set the log out hook function
func (s *ConsulSource) SetOutputLogCallback(outputLogCallback OutputLogCallback) {
	s.outputLogCallback = outputLogCallback
}

// outLog
func (s *ConsulSource) outLog(logType OutputLogType, message string) {
	if s.outputLogCallback != nil {
		s.outputLogCallback(logType, message)
	}
}

// Watch .
func (s *ConsulSource) Watch(ctx context.Context, serviceName string) (chan []instance.ServiceInstance, error) {
	ch := make(chan []instance.ServiceInstance, 1)
	go func() {
		defer close(ch)
		lastIndex := uint64(0)
		for {
			cli := s.pool.Get()
			var services []*api.ServiceEntry
			var meta *api.QueryMeta

			operation := func() error {
				var queryErr error
				services, meta, queryErr = cli.Health().Service(serviceName, "", true, &api.QueryOptions{WaitIndex: lastIndex})
				return queryErr
			}
			if err := helper.WithRetry(ctx, operation); err != nil {
				d := s.config.baseRetryDelay
				s.outLog(OutputLogTypeWarn, fmt.Sprintf("[ConsulSource] Failed to query services: %v", err))
				s.pool.Put(cli)

				select {
				case <-time.After(d):
				case <-ctx.Done():
					return
				}
				continue
			}

			lastIndex = meta.LastIndex
			instances := s.servicesToInstances(serviceName, services)

			s.pool.Put(cli)

			select {
			case ch <- instances:
			case <-ctx.Done():
				return
			}

			time.Sleep(time.Second)
		}
	}()
	return ch, nil
}

// GetInstances .
func (s *ConsulSource) GetInstances(serviceName string) ([]instance.ServiceInstance, error) {
	cli := s.pool.Get()
	defer s.pool.Put(cli)

	var services []*api.ServiceEntry
	operation := func() error {
		var queryErr error
		services, _, queryErr = cli.Health().Service(serviceName, "", true, nil)
		return queryErr
	}
	if err := helper.WithRetry(context.Background(), operation); err != nil {
		return nil, fmt.Errorf("failed to get instances: %v", err)
	}

	return s.servicesToInstances(serviceName, services), nil
}

// servicesToInstances .
func (s *ConsulSource) servicesToInstances(serviceName string, services []*api.ServiceEntry) []instance.ServiceInstance {
	var instances []instance.ServiceInstance
	for _, svc := range services {
		instances = append(instances, instance.ServiceInstance{
			ServiceID:  serviceName,
			InstanceID: svc.Service.ID,
			Host:       svc.Service.Address,
			Port:       svc.Service.Port,
			Metadata:   svc.Service.Meta,
		})
	}
	return instances
}

// Close .
func (s *ConsulSource) Close() error {
	s.pool.Close()
	return nil
}
