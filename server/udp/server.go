// Package udp implements the server side of the UDP throughput test. A
// client sends one request datagram naming size, rate and payload length;
// the server answers with a paced stream of sequence-numbered datagrams
// followed by an end-of-stream marker carrying the total count.
package udp

import (
	"errors"
	"net"

	"github.com/adimaman22/Network-Speed-Test/speedtest"
	"github.com/adimaman22/Network-Speed-Test/wire"
)

// Serve reads request datagrams off the test socket until it is closed,
// streaming each reply from its own goroutine. The socket is shared by
// the senders; WriteToUDP is safe for concurrent use.
func Serve(conn *net.UDPConn, h Handler) error {
	log := h.Logger
	if log == nil {
		log = speedtest.NopLogger{}
	}
	buf := make([]byte, 2048)
	for {
		n, raddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Debug("UDP request read error: %v", err)
			continue
		}
		msg, derr := wire.Decode(buf[:n])
		if derr != nil || msg.Type != wire.Request {
			log.Debug("dropping malformed UDP datagram from %s", raddr)
			continue
		}
		go h.HandleRequest(conn, raddr, *msg.Request)
	}
}
