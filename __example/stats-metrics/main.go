package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wenlng/go-service-balance/balance"
	"github.com/wenlng/go-service-balance/balance/instance"
	"github.com/wenlng/go-service-balance/balance/serverlist"
	"github.com/wenlng/go-service-balance/balance/stats"
	"github.com/wenlng/go-service-balance/clientconfig"
)

func main() {
	metricsPort := flag.Int("port", 9100, "Port for the metrics HTTP server")
	flag.Parse()

	registry := clientconfig.NewRegistry()
	registry.Register("hello-app", &clientconfig.ClientConfig{
		ServerList: &serverlist.Config{
			Type:  serverlist.SourceTypeStatic,
			Addrs: "localhost:8081,localhost:8082",
		},
	})

	client := balance.NewClient(registry)

	// Close
	defer func() {
		if err := client.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Balance client close error: %v\n", err)
		}
	}()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(stats.NewCollector(client.Factory().Snapshots))

	go func() {
		http.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
		addr := fmt.Sprintf(":%d", *metricsPort)
		fmt.Fprintf(os.Stdout, "Metrics available at http://localhost%s/metrics\n", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			fmt.Fprintf(os.Stderr, "Metrics server error: %v\n", err)
		}
	}()

	go func() {
		for {
			_, err := balance.Execute(context.Background(), client, "hello-app",
				func(ctx context.Context, target *instance.ServiceInstance) (string, error) {
					if rand.Intn(10) == 0 {
						return "", errors.New("simulated failure")
					}
					return "ok", nil
				})
			if err != nil {
				fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
			}
			time.Sleep(200 * time.Millisecond)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println("Press Ctrl+C to exit...")
	<-sigCh

	fmt.Println("\nReceived shutdown signal. Exiting...")
}
