/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package serverlist

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/nacos-group/nacos-sdk-go/v2/model"
	"github.com/nacos-group/nacos-sdk-go/v2/vo"
	"github.com/wenlng/go-service-balance/balance/instance"
	"github.com/wenlng/go-service-balance/foundation/clientpool"
	"github.com/wenlng/go-service-balance/foundation/common"
	"github.com/wenlng/go-service-balance/foundation/extraconfig"
	"github.com/wenlng/go-service-balance/foundation/helper"
)

// NacosSource reads the servers of a service from Nacos
type NacosSource struct {
	outputLogCallback OutputLogCallback
	pool              *clientpool.NacosNamingPool
	config            NacosSourceConfig
}

// NacosSourceConfig .
type NacosSourceConfig struct {
	extraconfig.NacosExtraConfig

	address        []string
	poolSize       int
	maxRetries     int
	baseRetryDelay time.Duration
	tlsConfig      *common.TLSConfig
	username       string
	password       string
}

// NewNacosSource .
func NewNacosSource(config NacosSourceConfig) (*NacosSource, error) {
	if config.poolSize <= 0 {
		config.poolSize = 5
	}

	if config.maxRetries <= 0 {
		config.maxRetries = 3
	}

	if !helper.IsDurationSet(config.baseRetryDelay) {
		config.baseRetryDelay = 500 * time.Millisecond
	}

	config.NacosExtraConfig.Username = config.username
	config.NacosExtraConfig.Password = config.password
	config.NacosExtraConfig.SetTLSConfig(config.tlsConfig)

	pool, err := clientpool.NewNacosNamingPool(config.poolSize, config.address, &config.NacosExtraConfig)
	if err != nil {
		return nil, err
	}

	return &NacosSource{
		config: config,
		pool:   pool,
	}, nil
}

// SetOutputLogCallback .
func (s *NacosSource) SetOutputLogCallback(outputLogCallback OutputLogCallback) {
	s.outputLogCallback = outputLogCallback
}

// outLog
func (s *NacosSource) outLog(logType OutputLogType, message string) {
	if s.outputLogCallback != nil {
		s.outputLogCallback(logType, message)
	}
}

// Watch .
func (s *NacosSource) Watch(ctx context.Context, serviceName string) (chan []instance.ServiceInstance, error) {
	ch := make(chan []instance.ServiceInstance, 1)
	go func() {
		defer close(ch)

		subscribeParam := &vo.SubscribeParam{
			ServiceName: serviceName,
			SubscribeCallback: func(services []model.Instance, err error) {
				if err != nil {
					s.outLog(OutputLogTypeError, fmt.Sprintf("[NacosSource] Subscribe callback error: %v", err))
					go s.recoverSubscribe(ctx, serviceName, ch)
					return
				}

				select {
				case ch <- s.hostsToInstances(serviceName, services):
				case <-ctx.Done():
					return
				}
			},
		}

		cli := s.pool.Get()
		operation := func() error {
			subscribeErr := cli.Subscribe(subscribeParam)
			return subscribeErr
		}
		if err := helper.WithRetry(context.Background(), operation); err != nil {
			s.outLog(OutputLogTypeError, fmt.Sprintf("[NacosSource] Failed to subscribe: %v", err))
			s.pool.Put(cli)
			return
		}
		s.pool.Put(cli)

		<-ctx.Done()
		_ = cli.Unsubscribe(subscribeParam)
	}()
	return ch, nil
}

// recoverSubscribe try to restore the subscription
func (s *NacosSource) recoverSubscribe(ctx context.Context, serviceName string, ch chan []instance.ServiceInstance) {
	cli := s.pool.Get()
	defer s.pool.Put(cli)

	subscribeParam := &vo.SubscribeParam{
		ServiceName: serviceName,
		SubscribeCallback: func(services []model.Instance, err error) {
			if err != nil {
				s.outLog(OutputLogTypeError, fmt.Sprintf("[NacosSource] Subscribe callback error: %v", err))
				return
			}

			select {
			case ch <- s.hostsToInstances(serviceName, services):
			case <-ctx.Done():
				return
			}
		},
	}

	operation := func() error {
		subscribeErr := cli.Subscribe(subscribeParam)
		return subscribeErr
	}
	if err := helper.WithRetry(context.Background(), operation); err != nil {
		s.outLog(OutputLogTypeWarn, fmt.Sprintf("[NacosSource] The subscription cannot be restored: %v", err))
		return
	}

	s.outLog(OutputLogTypeInfo, "[NacosSource] Successfully restored the subscription")
}

// GetInstances .
func (s *NacosSource) GetInstances(serviceName string) ([]instance.ServiceInstance, error) {
	cli := s.pool.Get()
	defer s.pool.Put(cli)

	var service model.Service

	operation := func() error {
		var getErr error
		service, getErr = cli.GetService(vo.GetServiceParam{
			ServiceName: serviceName,
		})
		return getErr
	}
	if err := helper.WithRetry(context.Background(), operation); err != nil {
		return nil, fmt.Errorf("failed to get instances: %v", err)
	}

	return s.hostsToInstances(serviceName, service.Hosts), nil
}

// hostsToInstances .
func (s *NacosSource) hostsToInstances(serviceName string, hosts []model.Instance) []instance.ServiceInstance {
	instances := make([]instance.ServiceInstance, len(hosts))
	for i, host := range hosts {
		metadata := host.Metadata
		if metadata == nil {
			metadata = make(map[string]string)
		}
		// Surface the registry weight so weight-aware strategies can use it
		if _, ok := metadata["weight"]; !ok && host.Weight > 0 {
			metadata["weight"] = strconv.Itoa(int(host.Weight))
		}

		instanceID := host.InstanceId
		if instanceID == "" {
			instanceID = metadata["instance_id"]
		}

		instances[i] = instance.ServiceInstance{
			ServiceID:  serviceName,
			InstanceID: instanceID,
			Host:       host.Ip,
			Port:       int(host.Port),
			Metadata:   metadata,
		}
	}
	return instances
}

// Close .
func (s *NacosSource) Close() error {
	s.pool.Close()
	return nil
}
