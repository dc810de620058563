package speedtest

import (
	"errors"
	"fmt"
	"net"
	"syscall"
)

var (
	ErrDiscoveryTimeout  = errors.New("no server discovered within timeout")
	ErrConnectionRefused = errors.New("connection refused")
	ErrConnectionReset   = errors.New("connection reset")
	ErrSocket            = errors.New("socket error")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// Classify maps a raw transport error to one of the module's error kinds,
// preserving the original error in the chain. Deadline expiry is not an
// error kind: callers treat it as end-of-test and never pass it here.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("%w: %v", ErrConnectionRefused, err)
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.EPIPE):
		return fmt.Errorf("%w: %v", ErrConnectionReset, err)
	default:
		return fmt.Errorf("%w: %v", ErrSocket, err)
	}
}

// IsTimeout reports whether err is a deadline expiry on a socket operation.
func IsTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
