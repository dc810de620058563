package server

import "github.com/adimaman22/Network-Speed-Test/speedtest"

// Config is everything a running server needs: the three ports it owns
// and the optional multicast discovery group.
type Config struct {
	IPVersion      speedtest.IPVersion
	DiscoveryPort  uint16
	TCPPort        uint16
	UDPPort        uint16
	MulticastGroup string
}

func (c Config) Validate() error {
	if c.DiscoveryPort == 0 || c.TCPPort == 0 || c.UDPPort == 0 {
		return speedtest.ErrInvalidConfig
	}
	return nil
}
