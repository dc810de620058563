package speedtest

type Protocol uint32

const (
	TCP Protocol = iota
	UDP
)

func (p Protocol) String() string {
	switch p {
	case TCP:
		return "TCP"
	case UDP:
		return "UDP"
	}
	return "UNKNOWN"
}

type IPVersion int

const (
	IPAny IPVersion = -1
	IPv4  IPVersion = 4
	IPv6  IPVersion = 6
)

func TCPNetwork(v IPVersion) string {
	if v == IPv4 {
		return "tcp4"
	} else if v == IPv6 {
		return "tcp6"
	}
	return "tcp"
}

func UDPNetwork(v IPVersion) string {
	if v == IPv4 {
		return "udp4"
	} else if v == IPv6 {
		return "udp6"
	}
	return "udp"
}
