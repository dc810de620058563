package nettools

import (
	"fmt"
	"net"
)

// ReachableIP reports the local address the host would use to reach the
// wider network, found by opening a connected UDP socket toward a public
// resolver. No traffic is sent; the kernel just picks a source address.
func ReachableIP() (net.IP, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return nil, fmt.Errorf("unable to determine reachable local address: %w", err)
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return nil, fmt.Errorf("unexpected local address type %T", conn.LocalAddr())
	}
	return addr.IP, nil
}
