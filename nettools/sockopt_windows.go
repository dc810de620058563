//go:build windows

package nettools

import (
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/adimaman22/Network-Speed-Test/speedtest"
)

func setSockOptInt(fd uintptr, level, opt, val int) error {
	err := windows.SetsockoptInt(windows.Handle(fd), level, opt, val)
	if err != nil {
		return fmt.Errorf("failed to set socket option (%v) to value (%v): %w", opt, val, err)
	}
	return nil
}

func setReuseAddr(fd uintptr) error {
	return setSockOptInt(fd, windows.SOL_SOCKET, windows.SO_REUSEADDR, 1)
}

func setBroadcast(fd uintptr) error {
	return setSockOptInt(fd, windows.SOL_SOCKET, windows.SO_BROADCAST, 1)
}

func setTOS(fd uintptr, tos int, v speedtest.IPVersion) error {
	if tos == 0 || v == speedtest.IPv6 {
		// No IPV6_TCLASS equivalent exposed on Windows.
		return nil
	}
	return setSockOptInt(fd, windows.IPPROTO_IP, windows.IP_TOS, tos)
}
