// Package client is the orchestrator-facing surface of the measurement
// engine: discovery plus the two transport testers, runnable one session
// at a time or as a parallel batch.
package client

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/adimaman22/Network-Speed-Test/client/tcp"
	"github.com/adimaman22/Network-Speed-Test/client/udp"
	"github.com/adimaman22/Network-Speed-Test/discovery"
	"github.com/adimaman22/Network-Speed-Test/speedtest"
	"github.com/adimaman22/Network-Speed-Test/stats"
)

type Client struct {
	IPVersion speedtest.IPVersion
	// DiscoveryPort and DiscoveryTarget configure the probe; zero values
	// mean the default port and the IPv4 broadcast address.
	DiscoveryPort   uint16
	DiscoveryTarget net.IP
	Policy          discovery.Policy
	Logger          speedtest.Logger
}

func (c Client) logger() speedtest.Logger {
	if c.Logger == nil {
		return speedtest.NopLogger{}
	}
	return c.Logger
}

// Discover locates a server on the local network. On ErrDiscoveryTimeout
// the caller falls back to a manually supplied address.
func (c Client) Discover(timeout time.Duration) (discovery.ServerAddress, error) {
	dc := discovery.Client{
		IPVersion: c.IPVersion,
		Port:      c.DiscoveryPort,
		Target:    c.DiscoveryTarget,
		Policy:    c.Policy,
		Logger:    c.logger(),
	}
	return dc.Discover(timeout)
}

// RunTCPTest runs one TCP upload session against addr.
func (c Client) RunTCPTest(addr string, cfg speedtest.TestConfig) (stats.Result, error) {
	t := tcp.Tester{IPVersion: c.IPVersion, Logger: c.logger()}
	return t.Run(addr, cfg)
}

// RunUDPTest runs one UDP download session against addr.
func (c Client) RunUDPTest(addr string, cfg speedtest.TestConfig) (stats.Result, error) {
	t := udp.Tester{IPVersion: c.IPVersion, Logger: c.logger()}
	return t.Run(addr, cfg)
}

// Report collects the per-session results of one batch run.
type Report struct {
	TCP []stats.Result
	UDP []stats.Result
}

// TotalBitsPerSecond sums the throughput of the given results.
func TotalBitsPerSecond(results []stats.Result) float64 {
	var total float64
	for _, r := range results {
		total += r.BitsPerSecond
	}
	return total
}

// RunAll runs tcpConns TCP and udpConns UDP sessions concurrently against
// one server. A size-bound transfer is split evenly across the
// connections of each protocol; each session still gets its own
// collector. Failed sessions keep their partial results in the report and
// their errors come back joined.
func (c Client) RunAll(server discovery.ServerAddress, tcpCfg, udpCfg speedtest.TestConfig, tcpConns, udpConns int) (Report, error) {
	if tcpConns < 0 || udpConns < 0 || tcpConns+udpConns == 0 {
		return Report{}, speedtest.ErrInvalidConfig
	}

	report := Report{
		TCP: make([]stats.Result, tcpConns),
		UDP: make([]stats.Result, udpConns),
	}
	errs := make([]error, tcpConns+udpConns)
	var wg sync.WaitGroup

	for i := 0; i < tcpConns; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			report.TCP[i], errs[i] = c.RunTCPTest(server.TCPAddr(), perConnConfig(tcpCfg, tcpConns, i))
		}(i)
	}
	for i := 0; i < udpConns; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			report.UDP[i], errs[tcpConns+i] = c.RunUDPTest(server.UDPAddr(), perConnConfig(udpCfg, udpConns, i))
		}(i)
	}
	wg.Wait()
	return report, errors.Join(errs...)
}

// perConnConfig splits a size bound across conns sessions. The first
// session takes the division remainder so the shares sum to the
// requested total; a share never drops to zero, since a zero byte count
// means duration-bound.
func perConnConfig(cfg speedtest.TestConfig, conns, idx int) speedtest.TestConfig {
	if cfg.ByteCount > 0 && conns > 1 {
		share := cfg.ByteCount / uint64(conns)
		if idx == 0 {
			share += cfg.ByteCount % uint64(conns)
		}
		if share == 0 {
			share = 1
		}
		cfg.ByteCount = share
	}
	return cfg
}
