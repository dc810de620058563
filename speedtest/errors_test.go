package speedtest

import (
	"errors"
	"fmt"
	"math"
	"net"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/adimaman22/Network-Speed-Test/wire"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		in   error
		want error
	}{
		{&net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}, ErrConnectionRefused},
		{&net.OpError{Op: "write", Err: os.NewSyscallError("write", syscall.ECONNRESET)}, ErrConnectionReset},
		{&net.OpError{Op: "write", Err: os.NewSyscallError("write", syscall.EPIPE)}, ErrConnectionReset},
		{fmt.Errorf("something else"), ErrSocket},
	}
	for _, c := range cases {
		got := Classify(c.in)
		if !errors.Is(got, c.want) {
			t.Errorf("Classify(%v) = %v, want %v", c.in, got, c.want)
		}
		// The raw error text is preserved for operators.
		if got.Error() == c.want.Error() {
			t.Errorf("Classify(%v) dropped the original error text", c.in)
		}
	}
	if Classify(nil) != nil {
		t.Error("Classify(nil) != nil")
	}
}

func TestIsTimeout(t *testing.T) {
	l, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket: %v", err)
	}
	defer l.Close()
	_ = l.SetReadDeadline(time.Now().Add(time.Millisecond))
	buf := make([]byte, 16)
	_, _, err = l.ReadFrom(buf)
	if !IsTimeout(err) {
		t.Errorf("IsTimeout(%v) = false for an expired deadline", err)
	}
	if IsTimeout(errors.New("plain")) {
		t.Error("IsTimeout(plain error) = true")
	}
	if IsTimeout(nil) {
		t.Error("IsTimeout(nil) = true")
	}
}

func TestTestConfigValidate(t *testing.T) {
	valid := TestConfig{
		ByteCount:  1000,
		BufferSize: 1000,
		Timeout:    time.Second,
		TCPPort:    DefaultTCPPort,
		UDPPort:    DefaultUDPPort,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	mutations := map[string]func(*TestConfig){
		"no bound":           func(c *TestConfig) { c.ByteCount = 0; c.Duration = 0 },
		"zero buffer":        func(c *TestConfig) { c.BufferSize = 0 },
		"oversized datagram": func(c *TestConfig) { c.BufferSize = MaxDatagramLen + 1 },
		"zero timeout":       func(c *TestConfig) { c.Timeout = 0 },
		"zero tcp port":      func(c *TestConfig) { c.TCPPort = 0 },
		"zero udp port":      func(c *TestConfig) { c.UDPPort = 0 },
	}
	for name, mutate := range mutations {
		c := valid
		mutate(&c)
		if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: err = %v, want ErrInvalidConfig", name, err)
		}
	}

	durationBound := valid
	durationBound.ByteCount = 0
	durationBound.Duration = time.Second
	if err := durationBound.Validate(); err != nil {
		t.Errorf("duration-bound config rejected: %v", err)
	}

	boundary := valid
	boundary.BufferSize = MaxDatagramLen
	if err := boundary.Validate(); err != nil {
		t.Errorf("maximum datagram length rejected: %v", err)
	}
}

// Every buffer size Validate accepts must survive the 16-bit wire field
// and fit a framed data message inside one UDP datagram.
func TestMaxDatagramLenIsSendable(t *testing.T) {
	if MaxDatagramLen > math.MaxUint16 {
		t.Errorf("MaxDatagramLen %d does not fit the request's uint16 length field", MaxDatagramLen)
	}
	const maxUDPPayload = 65507
	if MaxDatagramLen+wire.DataHeaderSize > maxUDPPayload {
		t.Errorf("framed data message at MaxDatagramLen is %d bytes, exceeds the %d-byte UDP payload limit",
			MaxDatagramLen+wire.DataHeaderSize, maxUDPPayload)
	}
}
