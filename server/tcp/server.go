// Package tcp implements the server side of the TCP throughput test: an
// accept loop feeding per-connection drain handlers. The client streams,
// the server counts what actually arrived; the receiver-side byte count
// is the authoritative one.
package tcp

import (
	"errors"
	"net"
	"time"
)

// Serve accepts test connections until the listener is closed, handling
// each in its own goroutine. Temporary accept failures back off
// exponentially instead of spinning.
func Serve(l net.Listener, h Handler) error {
	var tempDelay time.Duration
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			if ne, ok := err.(net.Error); ok && ne.Temporary() {
				if tempDelay == 0 {
					tempDelay = 5 * time.Millisecond
				} else {
					tempDelay *= 2
				}
				if max := time.Second; tempDelay > max {
					tempDelay = max
				}
				time.Sleep(tempDelay)
				continue
			}
			return err
		}
		tempDelay = 0
		go h.HandleConn(conn)
	}
}
