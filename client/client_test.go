package client

import (
	"net"
	"testing"
	"time"

	"github.com/adimaman22/Network-Speed-Test/discovery"
	"github.com/adimaman22/Network-Speed-Test/server"
	"github.com/adimaman22/Network-Speed-Test/speedtest"
	"github.com/adimaman22/Network-Speed-Test/stats"
)

func discoveredLoopback() discovery.ServerAddress {
	return discovery.ServerAddress{IP: net.IPv4(127, 0, 0, 1), TCPPort: 1, UDPPort: 1}
}

// freePorts reserves n distinct ports by binding and immediately
// releasing them.
func freePorts(t *testing.T, n int) []uint16 {
	t.Helper()
	ports := make([]uint16, n)
	for i := range ports {
		l, err := net.Listen("tcp4", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("Listen: %v", err)
		}
		ports[i] = uint16(l.Addr().(*net.TCPAddr).Port)
		_ = l.Close()
	}
	return ports
}

func TestDiscoverAndRunAll(t *testing.T) {
	ports := freePorts(t, 3)
	srv, err := server.Start(server.Config{
		IPVersion:     speedtest.IPv4,
		DiscoveryPort: ports[0],
		TCPPort:       ports[1],
		UDPPort:       ports[2],
	}, nil, nil)
	if err != nil {
		t.Fatalf("server.Start: %v", err)
	}
	defer srv.Stop()

	c := Client{
		IPVersion:       speedtest.IPv4,
		DiscoveryPort:   ports[0],
		DiscoveryTarget: net.IPv4(127, 0, 0, 1),
	}
	addr, err := c.Discover(3 * time.Second)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if addr.TCPPort != ports[1] || addr.UDPPort != ports[2] {
		t.Fatalf("offered ports %d/%d, want %d/%d", addr.TCPPort, addr.UDPPort, ports[1], ports[2])
	}

	cfg := speedtest.TestConfig{
		ByteCount:  200 * 1000,
		BufferSize: 1000,
		Timeout:    time.Second,
		TCPPort:    ports[1],
		UDPPort:    ports[2],
	}
	report, err := c.RunAll(addr, cfg, cfg, 2, 1)
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	if len(report.TCP) != 2 || len(report.UDP) != 1 {
		t.Fatalf("report has %d TCP / %d UDP results", len(report.TCP), len(report.UDP))
	}

	// The size bound splits across the two TCP sessions.
	var tcpBytes uint64
	for _, r := range report.TCP {
		if r.Partial {
			t.Errorf("TCP session %s tagged Partial", r.ID)
		}
		tcpBytes += r.BytesSent
	}
	if tcpBytes != cfg.ByteCount {
		t.Errorf("TCP sessions sent %d bytes total, want %d", tcpBytes, cfg.ByteCount)
	}

	udp := report.UDP[0]
	if udp.BytesReceived != cfg.ByteCount {
		t.Errorf("UDP session received %d bytes, want %d", udp.BytesReceived, cfg.ByteCount)
	}
	if udp.SuccessRate != 1 {
		t.Errorf("UDP success rate = %v, want 1 on loopback", udp.SuccessRate)
	}
}

func TestRunAllRejectsZeroSessions(t *testing.T) {
	var c Client
	if _, err := c.RunAll(discoveredLoopback(), speedtest.TestConfig{}, speedtest.TestConfig{}, 0, 0); err == nil {
		t.Error("RunAll accepted a zero-session batch")
	}
	if _, err := c.RunAll(discoveredLoopback(), speedtest.TestConfig{}, speedtest.TestConfig{}, -1, 2); err == nil {
		t.Error("RunAll accepted a negative session count")
	}
}

func TestPerConnConfigPreservesTotal(t *testing.T) {
	base := speedtest.TestConfig{ByteCount: 100}
	for _, conns := range []int{1, 2, 3, 7} {
		var total uint64
		for i := 0; i < conns; i++ {
			total += perConnConfig(base, conns, i).ByteCount
		}
		if total != base.ByteCount {
			t.Errorf("%d sessions transfer %d bytes total, want %d", conns, total, base.ByteCount)
		}
	}

	// A duration-bound config is left alone.
	unbounded := speedtest.TestConfig{Duration: time.Second}
	if got := perConnConfig(unbounded, 3, 1).ByteCount; got != 0 {
		t.Errorf("duration-bound split gained a byte count %d", got)
	}
}

func TestTotalBitsPerSecond(t *testing.T) {
	results := []stats.Result{
		{BitsPerSecond: 1000},
		{BitsPerSecond: 2500},
	}
	if got := TotalBitsPerSecond(results); got != 3500 {
		t.Errorf("TotalBitsPerSecond = %v, want 3500", got)
	}
	if got := TotalBitsPerSecond(nil); got != 0 {
		t.Errorf("TotalBitsPerSecond(nil) = %v, want 0", got)
	}
}
