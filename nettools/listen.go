package nettools

import (
	"context"
	"fmt"
	"net"
	"syscall"

	"github.com/adimaman22/Network-Speed-Test/speedtest"
)

// ListenUDP opens a datagram socket with the options the discovery and
// test sockets need: SO_REUSEADDR so several processes on one host can
// share the discovery port, SO_BROADCAST for probe emission, and large
// kernel buffers on the data path.
func ListenUDP(v speedtest.IPVersion, addr string, reuseAddr, broadcast bool) (*net.UDPConn, error) {
	lc := net.ListenConfig{
		Control: func(network, address string, rc syscall.RawConn) error {
			var serr error
			err := rc.Control(func(fd uintptr) {
				if reuseAddr {
					serr = setReuseAddr(fd)
				}
				if serr == nil && broadcast {
					serr = setBroadcast(fd)
				}
			})
			if err != nil {
				return err
			}
			return serr
		},
	}
	conn, err := lc.ListenPacket(context.Background(), speedtest.UDPNetwork(v), addr)
	if err != nil {
		return nil, fmt.Errorf("error listening on %s: %w", addr, err)
	}
	udpConn := conn.(*net.UDPConn)
	_ = udpConn.SetReadBuffer(4 * 1024 * 1024)
	_ = udpConn.SetWriteBuffer(4 * 1024 * 1024)
	return udpConn, nil
}

// ListenTCP opens the stream listener for the TCP test port.
func ListenTCP(v speedtest.IPVersion, addr string) (net.Listener, error) {
	lc := net.ListenConfig{
		Control: func(network, address string, rc syscall.RawConn) error {
			var serr error
			err := rc.Control(func(fd uintptr) {
				serr = setReuseAddr(fd)
			})
			if err != nil {
				return err
			}
			return serr
		},
	}
	l, err := lc.Listen(context.Background(), speedtest.TCPNetwork(v), addr)
	if err != nil {
		return nil, fmt.Errorf("error listening on %s: %w", addr, err)
	}
	return l, nil
}
