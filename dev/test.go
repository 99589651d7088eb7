package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nacos-group/nacos-sdk-go/v2/clients"
	"github.com/nacos-group/nacos-sdk-go/v2/common/constant"
	"github.com/nacos-group/nacos-sdk-go/v2/model"
	"github.com/nacos-group/nacos-sdk-go/v2/vo"
)

func main() {
	client, err := clients.NewNamingClient(vo.NacosClientParam{
		ClientConfig: &constant.ClientConfig{
			NamespaceId: "",
			Username:    "nacos",
			Password:    "nacos",
		},
		ServerConfigs: []constant.ServerConfig{
			{IpAddr: "localhost", Port: 8848},
		},
	})
	if err != nil {
		fmt.Printf("Failed to create client: %v\n", err)
		return
	}

	instances, err := client.SelectInstances(vo.SelectInstancesParam{
		ServiceName: "hello-app",
		HealthyOnly: true,
	})
	fmt.Printf("SelectInstances: count=%v, err=%v\n", len(instances), err)
	for _, inst := range instances {
		fmt.Printf("instance >>>>>>>>>>> %s:%d weight=%v metadata=%v\n", inst.Ip, inst.Port, inst.Weight, inst.Metadata)
	}

	subscribeParam := &vo.SubscribeParam{
		ServiceName: "hello-app",
		SubscribeCallback: func(services []model.Instance, err error) {
			fmt.Println("services >>>>>>>>>>>", services)
		},
	}

	err = client.Subscribe(subscribeParam)
	if err != nil {
		fmt.Println("sub err >>>>>>>>>>>", err)
	}

	defer func() {
		_ = client.Unsubscribe(subscribeParam)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println("Press Ctrl+C to exit...")
	<-sigCh

	fmt.Println("\nReceived shutdown signal. Exiting...")
	os.Exit(0)
}
