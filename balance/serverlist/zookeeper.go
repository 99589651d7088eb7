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
)

// ZooKeeperSource reads the servers of a service from ZooKeeper znodes
// under /services/<name>
type ZooKeeperSource struct {
	pool              *clientpool.ZooKeeperPool
	outputLogCallback OutputLogCallback
	config            ZooKeeperSourceConfig
}

// ZooKeeperSourceConfig .
type ZooKeeperSourceConfig struct {
	extraconfig.ZooKeeperExtraConfig

	address        []string
	poolSize       int
	maxRetries     int
	baseRetryDelay time.Duration
	tlsConfig      *common.TLSConfig
	username       string
	password       string
}

// zkServiceRecord is the JSON value stored per znode. Older records carry
// the port as a string in HTTPPort.
type zkServiceRecord struct {
	InstanceID string
	Host       string
	Port       int
	HTTPPort   string
	Metadata   map[string]string
}

// NewZooKeeperSource .
func NewZooKeeperSource(config ZooKeeperSourceConfig) (*ZooKeeperSource, error) {
	if config.poolSize <= 0 {
		config.poolSize = 5
	}

	if config.maxRetries <= 0 {
		config.maxRetries = 3
	}

	if !helper.IsDurationSet(config.baseRetryDelay) {
		config.baseRetryDelay = 500 * time.Millisecond
	}

	config.ZooKeeperExtraConfig.Username = config.username
	config.ZooKeeperExtraConfig.Password = config.password
	config.ZooKeeperExtraConfig.SetTLSConfig(config.tlsConfig)

	pool, err := clientpool.NewZooKeeperPool(config.poolSize, config.address, &config.ZooKeeperExtraConfig)
	if err != nil {
		return nil, err
	}

	return &ZooKeeperSource{
		config: config,
		pool:   pool,
	}, nil
}

// SetOutputLogCallback .
func (s *ZooKeeperSource) SetOutputLogCallback(outputLogCallback OutputLogCallback) {
	s.outputLogCallback = outputLogCallback
}

// outLog
func (s *ZooKeeperSource) outLog(logType OutputLogType, message string) {
	if s.outputLogCallback != nil {
		s.outputLogCallback(logType, message)
	}
}

// Watch .
func (s *ZooKeeperSource) Watch(ctx context.Context, serviceName string) (chan []instance.ServiceInstance, error) {
	prefix := path.Join("/services", serviceName)
	ch := make(chan []instance.ServiceInstance, 1)
	go func() {
		defer close(ch)
		for {
			instances, err := s.GetInstances(serviceName)
			if err != nil {
				s.outLog(OutputLogTypeError, fmt.Sprintf("[ZooKeeperSource] Failed to get instances: %v", err))
				select {
				case <-time.After(time.Second):
				case <-ctx.Done():
					return
				}
				continue
			}
			select {
			case ch <- instances:
			case <-ctx.Done():
				return
			}
			cli := s.pool.Get()
			_, _, wch, err := cli.ChildrenW(prefix)
			s.pool.Put(cli)
			if err != nil {
				s.outLog(OutputLogTypeError, fmt.Sprintf("[ZooKeeperSource] Failed to watch children: %v", err))
				select {
				case <-time.After(time.Second):
				case <-ctx.Done():
					return
				}
				continue
			}
			select {
			case <-wch:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// GetInstances .
func (s *ZooKeeperSource) GetInstances(serviceName string) ([]instance.ServiceInstance, error) {
	cli := s.pool.Get()
	defer s.pool.Put(cli)

	prefix := path.Join("/services", serviceName)

	var children []string
	operation := func() error {
		var getErr error
		children, _, getErr = cli.Children(prefix)
		return getErr
	}
	if err := helper.WithRetry(context.Background(), operation); err != nil {
		return nil, fmt.Errorf("failed to get instances: %v", err)
	}

	var instances []instance.ServiceInstance
	for _, child := range children {
		data, _, err := cli.Get(path.Join(prefix, child))
		if err != nil {
			s.outLog(OutputLogTypeWarn, fmt.Sprintf("[ZooKeeperSource] Failed to get instance data: %v", err))
			continue
		}
		var record zkServiceRecord
		if err = json.Unmarshal(data, &record); err != nil {
			s.outLog(OutputLogTypeWarn, fmt.Sprintf("[ZooKeeperSource] Failed to unmarshal instance: %v", err))
			continue
		}

		port := record.Port
		if port == 0 && record.HTTPPort != "" {
			port, _ = strconv.Atoi(record.HTTPPort)
		}
		if port == 0 && record.Metadata != nil {
			port, _ = strconv.Atoi(record.Metadata["http_port"])
		}
		instanceID := record.InstanceID
		if instanceID == "" {
			instanceID = child
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
func (s *ZooKeeperSource) Close() error {
	s.pool.Close()
	return nil
}
