package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/wenlng/go-service-balance/balance"
	"github.com/wenlng/go-service-balance/balance/instance"
	"github.com/wenlng/go-service-balance/balance/serverlist"
	"github.com/wenlng/go-service-balance/balance/strategy"
	"github.com/wenlng/go-service-balance/clientconfig"
)

var client *balance.Client

// setupClient .
func setupClient(serviceName string) error {
	registry := clientconfig.NewRegistry()

	err := clientconfig.RegisterManifest(registry, &clientconfig.Manifest{
		Clients: []clientconfig.ClientDeclaration{
			{
				Value: serviceName,
				Config: &clientconfig.ClientConfig{
					ServerList: &serverlist.Config{
						//Type:  serverlist.SourceTypeEtcd,
						//Addrs: "localhost:2379",

						//Type:  serverlist.SourceTypeConsul,
						//Addrs: "localhost:8500",

						//Type:  serverlist.SourceTypeZooKeeper,
						//Addrs: "localhost:2181",

						//Type:     serverlist.SourceTypeNacos,
						//Addrs:    "localhost:8848",
						//Username: "nacos",
						//Password: "nacos",

						Type:  serverlist.SourceTypeStatic,
						Addrs: "localhost:8081,localhost:8082,localhost:8083",
					},
					Strategy: strategy.StrategyTypeRoundRobin,
				},
			},
		},
		DefaultConfig: &clientconfig.ClientConfig{
			FailureThreshold: 3,
			TripBaseDelay:    10 * time.Second,
			TripMaxDelay:     30 * time.Second,
		},
		Owner: "hello",
	})
	if err != nil {
		return err
	}

	client = balance.NewClient(registry)

	client.SetOutputLogCallback(func(logType balance.OutputLogType, message string) {
		if logType == balance.OutputLogTypeError {
			fmt.Fprintf(os.Stderr, "ERROR - "+message+"\n")
		} else if logType == balance.OutputLogTypeWarn {
			fmt.Fprintf(os.Stdout, "WARN - "+message+"\n")
		} else if logType == balance.OutputLogTypeDebug {
			fmt.Fprintf(os.Stdout, "DEBUG - "+message+"\n")
		} else {
			fmt.Fprintf(os.Stdout, "INFO - "+message+"\n")
		}
	})

	return nil
}

// selectUrl .
func selectUrl(serviceName string) string {
	target, err := client.Choose(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to choose instance: %v\n", err)
		return ""
	}
	if target == nil {
		fmt.Fprintf(os.Stderr, "no instance available for service: %s\n", serviceName)
		return ""
	}

	original, _ := url.Parse(fmt.Sprintf("http://%s/hello", serviceName))
	reconstructed, err := client.ReconstructURI(target, original)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to reconstruct uri: %v\n", err)
		return ""
	}
	return reconstructed.String()
}

// callRequests .
func callRequests(serviceName string, numWorkers, requestsPerWorker int) {
	wg := sync.WaitGroup{}
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for j := 0; j < requestsPerWorker; j++ {
				result, err := balance.Execute(context.Background(), client, serviceName,
					func(ctx context.Context, target *instance.ServiceInstance) (string, error) {
						return fmt.Sprintf("GET %s/hello", target.URI()), nil
					})
				if err != nil {
					fmt.Fprintf(os.Stderr, "worker: %d, request: %d failed: %v\n", workerID, j, err)
				} else {
					fmt.Fprintf(os.Stdout, "worker: %d, request: %d result: %v\n", workerID, j, result)
				}
				time.Sleep(10 * time.Millisecond)
			}
		}(i)
	}

	wg.Wait()
}

func main() {
	numWorkers := flag.Int("worker", 5, "Number of concurrent workers")
	requestsPerWorker := flag.Int("request", 10, "Requests per worker")
	flag.Parse()

	serviceName := "hello-app"
	err := setupClient(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize balance client: %v\n", err)
		return
	}

	// Close
	defer func() {
		if err = client.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Balance client close error: %v\n", err)
		} else {
			fmt.Fprintf(os.Stdout, "Balance client closed successfully\n")
		}
	}()

	fmt.Fprintf(os.Stdout, "Reconstructed url: %v\n", selectUrl(serviceName))

	fmt.Println(">>>>>>> string call request ...")
	go func() {
		for {
			callRequests(serviceName, *numWorkers, *requestsPerWorker)
			time.Sleep(1 * time.Second)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println("Press Ctrl+C to exit...")
	<-sigCh

	fmt.Println("\nReceived shutdown signal. Exiting...")
	os.Exit(0)
}
