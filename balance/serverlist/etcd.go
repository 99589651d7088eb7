/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package serverlist

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/wenlng/go-service-balance/balance/instance"
	"github.com/wenlng/go-service-balance/foundation/clientpool"
	"github.com/wenlng/go-service-balance/foundation/common"
	"github.com/wenlng/go-service-balance/foundation/extraconfig"
	"github.com/wenlng/go-service-balance/foundation/helper"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// EtcdSource reads the servers of a service from etcd under /services/<name>/
type EtcdSource struct {
	pool              *clientpool.EtcdPool
	outputLogCallback OutputLogCallback
	config            EtcdSourceConfig
}

// EtcdSourceConfig .
type EtcdSourceConfig struct {
	extraconfig.EtcdExtraConfig

	address        []string
	poolSize       int
	maxRetries     int
	baseRetryDelay time.Duration
	tlsConfig      *common.TLSConfig
	username       string
	password       string
}

// etcdServiceRecord is the JSON value stored per instance. Older records
// carry the port as a string in HTTPPort.
type etcdServiceRecord struct {
	InstanceID string
	Host       string
	Port       int
	HTTPPort   string
	Metadata   map[string]string
}

// NewEtcdSource .
func NewEtcdSource(config EtcdSourceConfig) (*EtcdSource, error) {
	if config.poolSize <= 0 {
		config.poolSize = 5
	}

	if config.maxRetries <= 0 {
		config.maxRetries = 3
	}

	if !helper.IsDurationSet(config.baseRetryDelay) {
		config.baseRetryDelay = 500 * time.Millisecond
	}

	config.EtcdExtraConfig.Username = config.username
	config.EtcdExtraConfig.Password = config.password
	config.EtcdExtraConfig.SetTLSConfig(config.tlsConfig)

	pool, err := clientpool.NewEtcdPool(config.poolSize, config.address, &config.EtcdExtraConfig)
	if err != nil {
		return nil, err
	}

	return &EtcdSource{
		config: config,
		pool:   pool,
	}, nil
}

// SetOutputLogCallback .
func (s *EtcdSource) SetOutputLogCallback(outputLogCallback OutputLogCallback) {
	s.outputLogCallback = outputLogCallback
}

// outLog
func (s *EtcdSource) outLog(logType OutputLogType, message string) {
	if s.outputLogCallback != nil {
		s.outputLogCallback(logType, message)
	}
}

// Watch .
func (s *EtcdSource) Watch(ctx context.Context, serviceName string) (chan []instance.ServiceInstance, error) {
	cli := s.pool.Get()
	defer s.pool.Put(cli)

	prefix := path.Join("/services", serviceName)
	ch := make(chan []instance.ServiceInstance, 1)
	rch := cli.Watch(ctx, prefix, clientv3.WithPrefix())
	go func() {
		defer close(ch)
		for resp := range rch {
			if resp.Err() != nil {
				s.outLog(OutputLogTypeWarn, fmt.Sprintf("[EtcdSource] Watch event error: %v", resp.Err()))
				go s.recoverWatch(ctx, serviceName, ch)
				return
			}
			instances, err := s.GetInstances(serviceName)
			if err != nil {
				s.outLog(OutputLogTypeWarn, fmt.Sprintf("[EtcdSource] Failed to refresh instances: %v", err))
				continue
			}

			select {
			case ch <- instances:
			case <-ctx.Done():
				return
			}
		}
	}()
	instances, err := s.GetInstances(serviceName)
	if err != nil {
		return nil, err
	}
	if len(instances) > 0 {
		ch <- instances
	}
	return ch, nil
}

// recoverWatch attempt to restore surveillance
func (s *EtcdSource) recoverWatch(ctx context.Context, serviceName string, ch chan []instance.ServiceInstance) {
	cli := s.pool.Get()
	defer s.pool.Put(cli)

	prefix := path.Join("/services", serviceName)
	rch := cli.Watch(ctx, prefix, clientv3.WithPrefix())

	go func() {
		for resp := range rch {
			if resp.Err() != nil {
				s.outLog(OutputLogTypeWarn, fmt.Sprintf("[EtcdSource] Watch event error: %v", resp.Err()))
				continue
			}
			instances, err := s.GetInstances(serviceName)
			if err != nil {
				s.outLog(OutputLogTypeWarn, fmt.Sprintf("[EtcdSource] Failed to refresh instances: %v", err))
				continue
			}

			select {
			case ch <- instances:
			case <-ctx.Done():
				return
			}
		}
	}()

	s.outLog(OutputLogTypeInfo, "[EtcdSource] The watch was successfully restored")
}

// GetInstances .
func (s *EtcdSource) GetInstances(serviceName string) ([]instance.ServiceInstance, error) {
	cli := s.pool.Get()
	defer s.pool.Put(cli)

	prefix := path.Join("/services", serviceName)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(time.Second*10))
	defer cancel()

	var resp *clientv3.GetResponse
	operation := func() error {
		var getErr error
		resp, getErr = cli.Get(ctx, prefix, clientv3.WithPrefix())
		return getErr
	}
	if err := helper.WithRetry(context.Background(), operation); err != nil {
		return nil, fmt.Errorf("failed to get instances: %v", err)
	}

	var instances []instance.ServiceInstance
	for _, kv := range resp.Kvs {
		var record etcdServiceRecord
		if err := json.Unmarshal(kv.Value, &record); err != nil {
			s.outLog(OutputLogTypeWarn, fmt.Sprintf("[EtcdSource] Failed to unmarshal instance: %v", err))
			continue
		}

		port := record.Port
		if port == 0 && record.HTTPPort != "" {
			port, _ = strconv.Atoi(record.HTTPPort)
		}
		instanceID := record.InstanceID
		if instanceID == "" {
			instanceID = path.Base(string(kv.Key))
		}

		instances = append(instances, instance.ServiceInstance{
			ServiceID:  serviceName,
			InstanceID: instanceID,
			Host:       record.Host,
			Port:       port,
			Metadata:   record.Metadata,
		})
	}
	return instances, nil
}

// Close .
func (s *EtcdSource) Close() error {
	s.pool.Close()
	return nil
}
