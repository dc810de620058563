// Package discovery lets a client find a running server on the local
// network without prior address configuration. The client broadcasts a
// probe on a well-known port; every server answers the probe's source
// address directly with an offer naming its test ports. The layer is
// best-effort: anything malformed is dropped, never escalated.
package discovery

import (
	"errors"
	"fmt"
	"net"

	"golang.org/x/net/ipv4"

	"github.com/adimaman22/Network-Speed-Test/nettools"
	"github.com/adimaman22/Network-Speed-Test/speedtest"
	"github.com/adimaman22/Network-Speed-Test/wire"
)

type ResponderConfig struct {
	IPVersion speedtest.IPVersion
	// Port is the well-known discovery port the responder listens on.
	Port uint16
	// TCPPort and UDPPort are the test ports advertised in offers.
	TCPPort uint16
	UDPPort uint16
	// MulticastGroup, when set, joins the responder to the group so
	// probes reach it on networks that filter broadcast.
	MulticastGroup string
	Logger         speedtest.Logger
}

// Responder owns the discovery socket for the lifetime of the server: it
// is opened by NewResponder and released by Close. Probe handling is
// stateless, so one goroutine running Run serves any number of clients.
type Responder struct {
	cfg  ResponderConfig
	conn *net.UDPConn
	log  speedtest.Logger
}

func NewResponder(cfg ResponderConfig) (*Responder, error) {
	if cfg.Logger == nil {
		cfg.Logger = speedtest.NopLogger{}
	}
	conn, err := nettools.ListenUDP(cfg.IPVersion, fmt.Sprintf(":%d", cfg.Port), true, false)
	if err != nil {
		return nil, fmt.Errorf("discovery responder: %w", err)
	}
	if cfg.MulticastGroup != "" {
		group := net.ParseIP(cfg.MulticastGroup)
		if group == nil || !group.IsMulticast() {
			_ = conn.Close()
			return nil, fmt.Errorf("%w: invalid multicast group %q", speedtest.ErrInvalidConfig, cfg.MulticastGroup)
		}
		p := ipv4.NewPacketConn(conn)
		if err := p.JoinGroup(nil, &net.UDPAddr{IP: group}); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("discovery responder: failed to join %s: %w", group, err)
		}
	}
	return &Responder{cfg: cfg, conn: conn, log: cfg.Logger}, nil
}

func (r *Responder) Addr() net.Addr {
	return r.conn.LocalAddr()
}

// Run answers probes until the socket is closed. Probes with the wrong
// cookie, version or service tag are ignored.
func (r *Responder) Run() {
	offer := wire.EncodeOffer(r.cfg.TCPPort, r.cfg.UDPPort)
	buf := make([]byte, 2048)
	for {
		n, raddr, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			r.log.Debug("discovery responder read error: %v", err)
			continue
		}
		msg, err := wire.Decode(buf[:n])
		if err != nil || msg.Type != wire.Probe {
			r.log.Debug("dropping malformed discovery datagram from %s", raddr)
			continue
		}
		if msg.Probe.Service != wire.ServiceThroughput {
			r.log.Debug("dropping probe for unknown service %d from %s", msg.Probe.Service, raddr)
			continue
		}
		if _, err := r.conn.WriteToUDP(offer, raddr); err != nil {
			r.log.Debug("failed to answer probe from %s: %v", raddr, err)
		}
	}
}

func (r *Responder) Close() error {
	return r.conn.Close()
}
