package speedtest

import (
	"fmt"
	"time"
)

const (
	DefaultDiscoveryPort uint16 = 15000
	DefaultTCPPort       uint16 = 16000
	DefaultUDPPort       uint16 = 17000

	// MaxDatagramLen bounds the UDP payload so a framed data message
	// always fits in a single datagram: the 65507-byte UDP payload limit
	// minus the 14-byte data message header. It also keeps the length
	// representable in the request's 16-bit wire field.
	MaxDatagramLen = 65507 - 14
)

// TestConfig carries everything a single throughput session needs. It is
// built once by the caller and read-only from the moment a test starts.
type TestConfig struct {
	// ByteCount bounds the transfer by size. Zero means the transfer is
	// bounded by Duration instead.
	ByteCount uint64
	// Duration bounds the transfer by time when ByteCount is zero.
	Duration time.Duration
	// BufferSize is the TCP write size or the UDP datagram payload length.
	BufferSize uint32
	// Rate caps the send rate in bytes per second. Zero means unpaced.
	Rate uint64
	// Timeout bounds every blocking socket operation. For the UDP receiver
	// it doubles as the inactivity window that ends a session whose
	// end-of-stream marker was lost.
	Timeout time.Duration

	TCPPort uint16
	UDPPort uint16
	ToS     int
}

func (c TestConfig) Validate() error {
	if c.ByteCount == 0 && c.Duration <= 0 {
		return fmt.Errorf("%w: either byte count or duration must be positive", ErrInvalidConfig)
	}
	if c.BufferSize == 0 {
		return fmt.Errorf("%w: buffer size must be positive", ErrInvalidConfig)
	}
	if c.BufferSize > MaxDatagramLen {
		return fmt.Errorf("%w: buffer size %d exceeds maximum %d", ErrInvalidConfig, c.BufferSize, MaxDatagramLen)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if c.TCPPort == 0 || c.UDPPort == 0 {
		return fmt.Errorf("%w: test ports must be non-zero", ErrInvalidConfig)
	}
	return nil
}
