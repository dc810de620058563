package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"golang.org/x/net/ipv4"

	"github.com/adimaman22/Network-Speed-Test/nettools"
	"github.com/adimaman22/Network-Speed-Test/speedtest"
	"github.com/adimaman22/Network-Speed-Test/wire"
)

// Policy selects among multiple servers answering one probe round.
type Policy int

const (
	// FirstReply accepts the first valid offer and stops listening.
	FirstReply Policy = iota
	// LowestRTT listens for the full window and picks the server whose
	// offer came back fastest.
	LowestRTT
)

func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "first":
		return FirstReply, nil
	case "fastest":
		return LowestRTT, nil
	}
	return FirstReply, fmt.Errorf("%w: unknown discovery policy %q", speedtest.ErrInvalidConfig, s)
}

// ServerAddress is a discovered server: where it lives and which ports
// its testers listen on.
type ServerAddress struct {
	IP      net.IP
	TCPPort uint16
	UDPPort uint16
	// RTT is the probe-to-offer round trip observed during discovery.
	RTT time.Duration
}

func (a ServerAddress) TCPAddr() string {
	return net.JoinHostPort(a.IP.String(), strconv.Itoa(int(a.TCPPort)))
}

func (a ServerAddress) UDPAddr() string {
	return net.JoinHostPort(a.IP.String(), strconv.Itoa(int(a.UDPPort)))
}

func (a ServerAddress) String() string {
	return fmt.Sprintf("%s (tcp:%d udp:%d rtt:%v)", a.IP, a.TCPPort, a.UDPPort, a.RTT)
}

// Client emits probes and collects offers. The zero value probes the IPv4
// broadcast address on the default discovery port with first-wins
// selection.
type Client struct {
	IPVersion speedtest.IPVersion
	// Port is the discovery port probed on the target address.
	Port uint16
	// Target overrides the probe destination, e.g. a multicast group or,
	// in tests, a loopback responder. Nil means 255.255.255.255.
	Target net.IP
	Policy Policy
	// ProbeInterval is how often the probe is re-sent while waiting.
	// Zero means once a second.
	ProbeInterval time.Duration
	Logger        speedtest.Logger
}

// Discover probes until one server is selected per the configured policy
// or timeout elapses. On timeout it returns ErrDiscoveryTimeout; the
// caller is expected to fall back to a manually supplied address.
func (c Client) Discover(timeout time.Duration) (ServerAddress, error) {
	found, err := c.probe(timeout, c.Policy == FirstReply)
	if err != nil {
		return ServerAddress{}, err
	}
	best := found[0]
	for _, a := range found[1:] {
		if a.RTT < best.RTT {
			best = a
		}
	}
	return best, nil
}

// DiscoverAll collects every distinct server heard within the window.
func (c Client) DiscoverAll(window time.Duration) ([]ServerAddress, error) {
	return c.probe(window, false)
}

func (c Client) probe(window time.Duration, stopAtFirst bool) ([]ServerAddress, error) {
	log := c.Logger
	if log == nil {
		log = speedtest.NopLogger{}
	}
	port := c.Port
	if port == 0 {
		port = speedtest.DefaultDiscoveryPort
	}
	target := c.Target
	if target == nil {
		target = net.IPv4bcast
	}
	interval := c.ProbeInterval
	if interval <= 0 {
		interval = time.Second
	}

	conn, err := nettools.ListenUDP(c.IPVersion, ":0", false, true)
	if err != nil {
		return nil, speedtest.Classify(err)
	}
	defer conn.Close()
	if target.IsMulticast() {
		p := ipv4.NewPacketConn(conn)
		_ = p.SetMulticastTTL(8)
		_ = p.SetMulticastLoopback(true)
	}

	dst := &net.UDPAddr{IP: target, Port: int(port)}
	probe := wire.EncodeProbe(wire.ServiceThroughput)
	deadline := time.Now().Add(window)
	seen := make(map[string]struct{})
	var found []ServerAddress
	var lastProbe time.Time
	buf := make([]byte, 2048)

	for {
		now := time.Now()
		if !now.Before(deadline) {
			break
		}
		if lastProbe.IsZero() || now.Sub(lastProbe) >= interval {
			if _, err := conn.WriteToUDP(probe, dst); err != nil {
				return nil, speedtest.Classify(err)
			}
			lastProbe = time.Now()
			log.Debug("discovery probe sent to %s", dst)
		}
		next := lastProbe.Add(interval)
		if next.After(deadline) {
			next = deadline
		}
		_ = conn.SetReadDeadline(next)
		n, raddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if speedtest.IsTimeout(err) {
				continue
			}
			return nil, speedtest.Classify(err)
		}
		msg, derr := wire.Decode(buf[:n])
		if derr != nil || msg.Type != wire.Offer {
			log.Debug("dropping malformed discovery datagram from %s", raddr)
			continue
		}
		if _, dup := seen[raddr.IP.String()]; dup {
			continue
		}
		seen[raddr.IP.String()] = struct{}{}
		addr := ServerAddress{
			IP:      raddr.IP,
			TCPPort: msg.Offer.TCPPort,
			UDPPort: msg.Offer.UDPPort,
			RTT:     time.Since(lastProbe),
		}
		log.Debug("discovery offer from %s", addr)
		found = append(found, addr)
		if stopAtFirst {
			return found, nil
		}
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w (%v)", speedtest.ErrDiscoveryTimeout, window)
	}
	return found, nil
}
