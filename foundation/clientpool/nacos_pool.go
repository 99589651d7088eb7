/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package clientpool

import (
	"fmt"

	"github.com/nacos-group/nacos-sdk-go/v2/clients"
	"github.com/nacos-group/nacos-sdk-go/v2/clients/naming_client"
	"github.com/nacos-group/nacos-sdk-go/v2/common/constant"
	"github.com/nacos-group/nacos-sdk-go/v2/vo"
	"github.com/wenlng/go-service-balance/foundation/extraconfig"
	"github.com/wenlng/go-service-balance/foundation/helper"
)

// NacosNamingPool manage the Nacos connection pool
type NacosNamingPool struct {
	clientChans chan naming_client.INamingClient
	config      *extraconfig.NacosExtraConfig
}

// NewNacosNamingPool ..
func NewNacosNamingPool(poolSize int, serverAddrs []string, config *extraconfig.NacosExtraConfig) (*NacosNamingPool, error) {
	clientChans := make(chan naming_client.INamingClient, poolSize)

	var sCfg = make([]constant.ServerConfig, len(serverAddrs))
	for index, addr := range serverAddrs {
		addrs := addr
		host, port, err := helper.SplitHostPort(addrs)
		if err != nil {
			return nil, fmt.Errorf("failed to create nacos client: %v", err)
		}

		sCfg[index] = *constant.NewServerConfig(host, uint64(port))
	}

	cCfg := *constant.NewClientConfig(
		constant.WithTimeoutMs(5000),
		constant.WithNotLoadCacheAtStart(true),
	)

	err := config.MergeTo(&cCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set nacos config: %v", err)
	}

	for i := 0; i < poolSize; i++ {
		client, err := clients.NewNamingClient(vo.NacosClientParam{
			ClientConfig:  &cCfg,
			ServerConfigs: sCfg,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create nacos client: %v", err)
		}
		clientChans <- client
	}
	return &NacosNamingPool{clientChans: clientChans, config: config}, nil
}

// Get ..
func (p *NacosNamingPool) Get() naming_client.INamingClient {
	return <-p.clientChans
}

// Put ..
func (p *NacosNamingPool) Put(client naming_client.INamingClient) {
	select {
	case p.clientChans <- client:
	default:
		// @Pass
	}
}

// Close ..
func (p *NacosNamingPool) Close() {
	for len(p.clientChans) > 0 {
		<-p.clientChans
	}
}
