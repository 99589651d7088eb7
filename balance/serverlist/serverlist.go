/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package serverlist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wenlng/go-service-balance/balance/instance"
	"github.com/wenlng/go-service-balance/foundation/common"
	"github.com/wenlng/go-service-balance/foundation/helper"
)

// SourceType .
type SourceType string

const (
	SourceTypeConsul    SourceType = "consul"
	SourceTypeEtcd                 = "etcd"
	SourceTypeNacos                = "nacos"
	SourceTypeZookeeper            = "zookeeper"
	SourceTypeStatic               = "static"
	SourceTypeNone                 = "none"
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

// Source supplies the live server list of a logical service
type Source interface {
	GetInstances(serviceName string) ([]instance.ServiceInstance, error)
	Watch(ctx context.Context, serviceName string) (chan []instance.ServiceInstance, error)
	SetOutputLogCallback(outputLogCallback OutputLogCallback)
	Close() error
}

// Config .
type Config struct {
	Type SourceType // consul, etcd, nacos, zookeeper, static, none

	// CommonBase
	Addrs          string // 127.0.0.1:8080,192.168.0.1:8080
	PoolSize       int
	MaxRetries     int
	BaseRetryDelay time.Duration
	TlsConfig      *common.TLSConfig
	Username       string
	Password       string

	// Extra Config
	ConsulSourceConfig
	EtcdSourceConfig
	NacosSourceConfig
	ZooKeeperSourceConfig
}

// NewSource .
func NewSource(config Config) (Source, error) {
	var source Source
	var err error
	switch config.Type {
	case SourceTypeConsul:
		cnf := config.ConsulSourceConfig

		cnf.tlsConfig = config.TlsConfig
		cnf.poolSize = config.PoolSize
		cnf.address = strings.Split(config.Addrs, ",")
		cnf.maxRetries = config.MaxRetries
		cnf.baseRetryDelay = config.BaseRetryDelay
		cnf.username = config.Username
		cnf.password = config.Password

		source, err = NewConsulSource(cnf)
	case SourceTypeEtcd:
		cnf := config.EtcdSourceConfig

		cnf.tlsConfig = config.TlsConfig
		cnf.poolSize = config.PoolSize
		cnf.address = strings.Split(config.Addrs, ",")
		cnf.maxRetries = config.MaxRetries
		cnf.baseRetryDelay = config.BaseRetryDelay
		cnf.username = config.Username
		cnf.password = config.Password

		source, err = NewEtcdSource(cnf)
	case SourceTypeNacos:
		cnf := config.NacosSourceConfig

		cnf.tlsConfig = config.TlsConfig
		cnf.poolSize = config.PoolSize
		cnf.address = strings.Split(config.Addrs, ",")
		cnf.maxRetries = config.MaxRetries
		cnf.baseRetryDelay = config.BaseRetryDelay
		cnf.username = config.Username
		cnf.password = config.Password

		source, err = NewNacosSource(cnf)
	case SourceTypeZookeeper:
		cnf := config.ZooKeeperSourceConfig

		cnf.tlsConfig = config.TlsConfig
		cnf.poolSize = config.PoolSize
		cnf.address = strings.Split(config.Addrs, ",")
		cnf.maxRetries = config.MaxRetries
		cnf.baseRetryDelay = config.BaseRetryDelay
		cnf.username = config.Username
		cnf.password = config.Password

		source, err = NewZooKeeperSource(cnf)
	case SourceTypeStatic:
		source, err = NewStaticSource(strings.Split(config.Addrs, ","))
	case SourceTypeNone:
		source = &NoopSource{}
	default:
		return nil, fmt.Errorf("unsupported server list source type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	return source, nil
}
