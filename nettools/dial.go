// Package nettools owns the socket plumbing: dialing with deadlines and
// ToS, listener setup with the socket options the tests need, and the
// reachable local address lookup. Sockets are opened here and handed to
// their owning worker; nothing keeps an ambient global handle.
package nettools

import (
	"fmt"
	"net"
	"syscall"
	"time"

	"github.com/adimaman22/Network-Speed-Test/speedtest"
)

// Dial connects to a test port with a bounded dial timeout, applying the
// configured ToS on the way out. UDP connections come back connected so
// the receiver only accepts datagrams from the server it asked.
func Dial(p speedtest.Protocol, v speedtest.IPVersion, addr string, tos int, timeout time.Duration) (net.Conn, error) {
	var network string
	if p == speedtest.TCP {
		network = speedtest.TCPNetwork(v)
	} else {
		network = speedtest.UDPNetwork(v)
	}

	dialer := &net.Dialer{
		Timeout: timeout,
		Control: func(network, address string, rc syscall.RawConn) error {
			return rc.Control(func(fd uintptr) {
				_ = setTOS(fd, tos, v)
			})
		},
	}
	conn, err := dialer.Dial(network, addr)
	if err != nil {
		return nil, fmt.Errorf("error dialing remote: %w", err)
	}
	if udpConn, ok := conn.(*net.UDPConn); ok {
		// Large buffers so a paced burst does not overflow the socket
		// and skew the loss measurement.
		_ = udpConn.SetReadBuffer(4 * 1024 * 1024)
		_ = udpConn.SetWriteBuffer(4 * 1024 * 1024)
	}
	return conn, nil
}
