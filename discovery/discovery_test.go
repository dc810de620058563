package discovery

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/adimaman22/Network-Speed-Test/speedtest"
	"github.com/adimaman22/Network-Speed-Test/wire"
)

func startResponder(t *testing.T) (*Responder, uint16) {
	t.Helper()
	r, err := NewResponder(ResponderConfig{
		IPVersion: speedtest.IPv4,
		Port:      0,
		TCPPort:   16000,
		UDPPort:   17000,
	})
	if err != nil {
		t.Fatalf("NewResponder: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	go r.Run()
	return r, uint16(r.Addr().(*net.UDPAddr).Port)
}

func TestDiscoverOverLoopback(t *testing.T) {
	_, port := startResponder(t)

	c := Client{
		IPVersion: speedtest.IPv4,
		Port:      port,
		Target:    net.IPv4(127, 0, 0, 1),
	}
	addr, err := c.Discover(3 * time.Second)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if !addr.IP.Equal(net.IPv4(127, 0, 0, 1)) {
		t.Errorf("server IP = %v, want loopback", addr.IP)
	}
	if addr.TCPPort != 16000 || addr.UDPPort != 17000 {
		t.Errorf("offered ports = %d/%d, want 16000/17000", addr.TCPPort, addr.UDPPort)
	}
	if addr.RTT <= 0 {
		t.Errorf("RTT = %v, want > 0", addr.RTT)
	}
}

func TestDiscoverTimesOutWithoutServer(t *testing.T) {
	c := Client{
		IPVersion:     speedtest.IPv4,
		Port:          1, // nothing listens there
		Target:        net.IPv4(127, 0, 0, 1),
		ProbeInterval: 50 * time.Millisecond,
	}
	start := time.Now()
	_, err := c.Discover(300 * time.Millisecond)
	elapsed := time.Since(start)
	if !errors.Is(err, speedtest.ErrDiscoveryTimeout) {
		t.Fatalf("err = %v, want ErrDiscoveryTimeout", err)
	}
	if elapsed < 250*time.Millisecond {
		t.Errorf("gave up after %v, before the window elapsed", elapsed)
	}
}

func TestResponderIgnoresGarbage(t *testing.T) {
	r, port := startResponder(t)
	_ = r

	conn, err := net.DialUDP("udp4", nil, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: int(port)})
	if err != nil {
		t.Fatalf("DialUDP: %v", err)
	}
	defer conn.Close()

	badVersion := wire.EncodeProbe(wire.ServiceThroughput)
	badVersion[4] = 0x7f
	badService := wire.EncodeProbe(0x42)
	for _, b := range [][]byte{{1, 2, 3}, badVersion, badService} {
		if _, err := conn.Write(b); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	buf := make([]byte, 64)
	if n, err := conn.Read(buf); err == nil {
		t.Errorf("responder answered a bad probe with %d bytes", n)
	}

	// A valid probe on the same socket still gets an offer.
	if _, err := conn.Write(wire.EncodeProbe(wire.ServiceThroughput)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("no offer for a valid probe: %v", err)
	}
	msg, err := wire.Decode(buf[:n])
	if err != nil || msg.Type != wire.Offer {
		t.Fatalf("answer decoded to %+v, %v", msg, err)
	}
}

func TestDiscoverAllDeduplicatesResponders(t *testing.T) {
	_, port := startResponder(t)

	c := Client{
		IPVersion:     speedtest.IPv4,
		Port:          port,
		Target:        net.IPv4(127, 0, 0, 1),
		ProbeInterval: 100 * time.Millisecond,
	}
	// Three probe rounds hit the same responder; it must count once.
	found, err := c.DiscoverAll(350 * time.Millisecond)
	if err != nil {
		t.Fatalf("DiscoverAll: %v", err)
	}
	if len(found) != 1 {
		t.Errorf("found %d servers, want 1", len(found))
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy("first"); err != nil || p != FirstReply {
		t.Errorf("ParsePolicy(first) = %v, %v", p, err)
	}
	if p, err := ParsePolicy("fastest"); err != nil || p != LowestRTT {
		t.Errorf("ParsePolicy(fastest) = %v, %v", p, err)
	}
	if p, err := ParsePolicy(""); err != nil || p != FirstReply {
		t.Errorf("ParsePolicy(\"\") = %v, %v", p, err)
	}
	if _, err := ParsePolicy("quorum"); err == nil {
		t.Error("ParsePolicy accepted an unknown policy")
	}
}
