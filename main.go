package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/adimaman22/Network-Speed-Test/client"
	"github.com/adimaman22/Network-Speed-Test/config"
	"github.com/adimaman22/Network-Speed-Test/discovery"
	"github.com/adimaman22/Network-Speed-Test/log"
	"github.com/adimaman22/Network-Speed-Test/metrics"
	"github.com/adimaman22/Network-Speed-Test/server"
	"github.com/adimaman22/Network-Speed-Test/speedtest"
	"github.com/adimaman22/Network-Speed-Test/stats"
	"github.com/adimaman22/Network-Speed-Test/ui"
	serverUi "github.com/adimaman22/Network-Speed-Test/ui/server"
)

func main() {
	//
	// Set GOMAXPROCS to 1024 as running large number of goroutines that send
	// data in a tight loop over network is resulting in unfair time allocation
	// across goroutines causing starvation of many TCP connections. Using a
	// higher number of threads via GOMAXPROCS solves this problem.
	//
	runtime.GOMAXPROCS(1024)

	err := config.Init()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		fmt.Printf("Please use \"speedtest -h\" for complete list of command line arguments.\n")
		os.Exit(1)
	}

	// The TUI owns the terminal; console logging would paint over it.
	logger, err := log.New(config.Debug, config.ShowUI, config.OutputFile)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("Shutting down...")
		cancel()
	}()

	if config.IsServer {
		err = runServer(ctx, logger)
	} else {
		err = runClient(logger)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func runServer(ctx context.Context, logger speedtest.Logger) error {
	var m *metrics.Metrics
	if config.MetricsAddr != "" {
		m = metrics.New()
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		go func() {
			if err := http.ListenAndServe(config.MetricsAddr, mux); err != nil {
				logger.Error("metrics listener failed: %v", err)
			}
		}()
	}

	srv, err := server.Start(server.Config{
		IPVersion:      config.IPVersion,
		DiscoveryPort:  config.DiscoveryPort,
		TCPPort:        config.TCPPort,
		UDPPort:        config.UDPPort,
		MulticastGroup: config.MulticastGroup,
	}, logger, m)
	if err != nil {
		return err
	}

	term := serverUi.NewUI(config.ShowUI, srv.Registry())
	term.Display(ctx)

	<-ctx.Done()
	srv.Stop()
	return nil
}

func runClient(logger speedtest.Logger) error {
	c := client.Client{
		IPVersion:     config.IPVersion,
		DiscoveryPort: config.DiscoveryPort,
		Policy:        config.DiscoveryPolicy,
		Logger:        logger,
	}
	if config.MulticastGroup != "" {
		c.DiscoveryTarget = net.ParseIP(config.MulticastGroup)
	}

	var srvAddr discovery.ServerAddress
	var err error
	if config.ClientDest != "" {
		srvAddr, err = resolveDest(config.ClientDest)
		if err != nil {
			return err
		}
		fmt.Printf("Using server %s\n", srvAddr)
	} else {
		fmt.Printf("Looking for a server (timeout %v)...\n", config.DiscoveryTimeout)
		srvAddr, err = c.Discover(config.DiscoveryTimeout)
		if err != nil {
			return err
		}
		fmt.Printf("Found server %s\n", srvAddr)
	}

	report, err := c.RunAll(srvAddr, config.TCPTestConfig(), config.UDPTestConfig(),
		config.Connections, config.Connections)
	for _, r := range report.TCP {
		printResult(r)
	}
	for _, r := range report.UDP {
		printResult(r)
	}
	if config.Connections > 1 {
		fmt.Printf("[SUM]  TCP  %sbits/s\n", ui.BpsToString(client.TotalBitsPerSecond(report.TCP)))
		fmt.Printf("[SUM]  UDP  %sbits/s\n", ui.BpsToString(client.TotalBitsPerSecond(report.UDP)))
	}
	return err
}

func printResult(r stats.Result) {
	line := fmt.Sprintf("%-4s %-21s ", r.Protocol, r.RemoteAddr)
	switch r.Protocol {
	case speedtest.TCP:
		line += fmt.Sprintf("sent %s in %s  %sbits/s",
			ui.BytesToString(r.BytesSent), ui.DurationToString(r.Elapsed), ui.BpsToString(r.BitsPerSecond))
	case speedtest.UDP:
		line += fmt.Sprintf("recv %s in %s  %sbits/s  success %s",
			ui.BytesToString(r.BytesReceived), ui.DurationToString(r.Elapsed),
			ui.BpsToString(r.BitsPerSecond), ui.RateToString(r.SuccessRate))
	}
	if r.Partial {
		line += "  (incomplete)"
	}
	fmt.Println(line)
}

// resolveDest turns a "-c" argument into a server address on the
// configured test ports. A host:port form is accepted for convenience;
// the port part is dropped since -tport/-uport name the test ports.
func resolveDest(dest string) (discovery.ServerAddress, error) {
	host := dest
	if h, _, err := net.SplitHostPort(dest); err == nil {
		host = h
	}
	ips, err := net.LookupIP(host)
	if err != nil {
		return discovery.ServerAddress{}, fmt.Errorf("cannot resolve %q: %w", dest, err)
	}
	if len(ips) == 0 {
		return discovery.ServerAddress{}, fmt.Errorf("cannot resolve %q: no addresses", dest)
	}
	ip := ips[0]
	for _, candidate := range ips {
		v4 := candidate.To4() != nil
		if (config.IPVersion == speedtest.IPv4 && v4) || (config.IPVersion == speedtest.IPv6 && !v4) {
			ip = candidate
			break
		}
	}
	return discovery.ServerAddress{IP: ip, TCPPort: config.TCPPort, UDPPort: config.UDPPort}, nil
}
