//go:build linux || darwin

package nettools

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/adimaman22/Network-Speed-Test/speedtest"
)

func setSockOptInt(fd uintptr, level, opt, val int) error {
	err := unix.SetsockoptInt(int(fd), level, opt, val)
	if err != nil {
		return fmt.Errorf("failed to set socket option (%v) to value (%v): %w", opt, val, err)
	}
	return nil
}

func setReuseAddr(fd uintptr) error {
	return setSockOptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
}

func setBroadcast(fd uintptr) error {
	return setSockOptInt(fd, unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
}

func setTOS(fd uintptr, tos int, v speedtest.IPVersion) error {
	if tos == 0 {
		return nil
	}
	if v == speedtest.IPv6 {
		return setSockOptInt(fd, unix.IPPROTO_IPV6, unix.IPV6_TCLASS, tos)
	}
	return setSockOptInt(fd, unix.IPPROTO_IP, unix.IP_TOS, tos)
}
