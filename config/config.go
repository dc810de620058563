// Package config owns the process-wide configuration surface: flags,
// environment overrides (including a .env file) and an optional YAML
// file. Precedence, highest first: explicit flags, environment, YAML
// file, built-in defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/adimaman22/Network-Speed-Test/discovery"
	"github.com/adimaman22/Network-Speed-Test/speedtest"
	"github.com/adimaman22/Network-Speed-Test/ui"
)

var (
	NoOutput   bool
	OutputFile string
	Debug      bool
	UseIPv4    bool
	UseIPv6    bool
	IPVersion  speedtest.IPVersion
	IsServer   bool

	DiscoveryPort    uint16
	TCPPort          uint16
	UDPPort          uint16
	DiscoveryTimeout time.Duration
	DiscoveryPolicy  discovery.Policy
	MulticastGroup   string

	// Server only.
	ShowUI      bool
	MetricsAddr string

	// Client only.
	ClientDest    string
	Duration      time.Duration
	ByteCount     uint64
	BandwidthRate uint64 // bytes per second
	TCPBufferSize uint64
	UDPPayloadLen uint64
	Connections   int
	TOS           int
)

const (
	defaultTCPBufferStr  = "16KB"
	defaultUDPPayloadStr = "1000B"
)

func Init() error {
	// Ports can come from the environment; a .env file feeds the same
	// surface for containerized deployments.
	_ = godotenv.Load()

	flag.Usage = func() { Usage() }
	flag.BoolVar(&NoOutput, "no", false, "")
	flag.StringVar(&OutputFile, "o", "", "")
	flag.BoolVar(&Debug, "debug", false, "")
	flag.BoolVar(&UseIPv4, "4", false, "")
	flag.BoolVar(&UseIPv6, "6", false, "")
	flag.BoolVar(&IsServer, "s", false, "")
	flag.BoolVar(&ShowUI, "ui", false, "")
	flag.StringVar(&MetricsAddr, "metrics", "", "")
	flag.StringVar(&ClientDest, "c", "", "")
	flag.DurationVar(&Duration, "d", 10*time.Second, "")
	size := flag.String("size", "", "")
	bw := flag.String("b", "", "")
	bufferLen := flag.String("l", "", "")
	flag.IntVar(&Connections, "n", 1, "")
	dport := flag.Int("dport", int(envPort("SERVER_DISCOVERY_PORT", speedtest.DefaultDiscoveryPort)), "")
	tport := flag.Int("tport", int(envPort("SERVER_TCP_PORT", speedtest.DefaultTCPPort)), "")
	uport := flag.Int("uport", int(envPort("SERVER_UDP_PORT", speedtest.DefaultUDPPort)), "")
	flag.DurationVar(&DiscoveryTimeout, "dt", 10*time.Second, "")
	policy := flag.String("dpolicy", "first", "")
	flag.StringVar(&MulticastGroup, "mcast", "", "")
	flag.IntVar(&TOS, "tos", 0, "")
	configFile := flag.String("f", "", "")

	flag.Parse()

	if *configFile != "" {
		if err := applyFile(*configFile, dport, tport, uport, size, bw, bufferLen, policy); err != nil {
			return err
		}
	}

	if (!UseIPv4 && !UseIPv6) || (UseIPv4 && UseIPv6) {
		IPVersion = speedtest.IPAny
	} else if UseIPv6 {
		IPVersion = speedtest.IPv6
	} else {
		IPVersion = speedtest.IPv4
	}

	if OutputFile == "" {
		if IsServer {
			OutputFile = "speedtests.log"
		} else {
			OutputFile = "speedtestc.log"
		}
	}
	if NoOutput {
		OutputFile = ""
	}

	for name, v := range map[string]int{"-dport": *dport, "-tport": *tport, "-uport": *uport} {
		if v <= 0 || v > 65535 {
			return fmt.Errorf("%w: %s must be in 1..65535, got %d", speedtest.ErrInvalidConfig, name, v)
		}
	}
	DiscoveryPort = uint16(*dport)
	TCPPort = uint16(*tport)
	UDPPort = uint16(*uport)

	var err error
	DiscoveryPolicy, err = discovery.ParsePolicy(*policy)
	if err != nil {
		return err
	}

	if *size != "" {
		ByteCount = ui.UnitToNumber(*size)
		if ByteCount == 0 {
			return fmt.Errorf("%w: invalid transfer size %q", speedtest.ErrInvalidConfig, *size)
		}
	}
	if *bw != "" {
		// The rate flag reads in bits per second, like every other
		// bandwidth tool; senders pace in bytes.
		BandwidthRate = ui.UnitToNumber(*bw) / 8
		if BandwidthRate == 0 {
			return fmt.Errorf("%w: invalid bandwidth rate %q", speedtest.ErrInvalidConfig, *bw)
		}
	}
	TCPBufferSize = ui.UnitToNumber(defaultTCPBufferStr)
	UDPPayloadLen = ui.UnitToNumber(defaultUDPPayloadStr)
	if *bufferLen != "" {
		n := ui.UnitToNumber(*bufferLen)
		if n == 0 || n > speedtest.MaxDatagramLen {
			return fmt.Errorf("%w: invalid buffer length %q", speedtest.ErrInvalidConfig, *bufferLen)
		}
		TCPBufferSize = n
		UDPPayloadLen = n
	}

	if IsServer {
		return validateServerArgs()
	}
	return validateClientArgs()
}

// TCPTestConfig assembles the client-side configuration for one TCP run.
func TCPTestConfig() speedtest.TestConfig {
	return speedtest.TestConfig{
		ByteCount:  ByteCount,
		Duration:   Duration,
		BufferSize: uint32(TCPBufferSize),
		Rate:       BandwidthRate,
		Timeout:    5 * time.Second,
		TCPPort:    TCPPort,
		UDPPort:    UDPPort,
		ToS:        TOS,
	}
}

// UDPTestConfig assembles the client-side configuration for one UDP run.
// The one-second timeout doubles as the receiver's inactivity window
// when the end-of-stream marker is lost.
func UDPTestConfig() speedtest.TestConfig {
	cfg := TCPTestConfig()
	cfg.BufferSize = uint32(UDPPayloadLen)
	cfg.Timeout = time.Second
	return cfg
}

func validateServerArgs() error {
	invalidFlags := make([]string, 0)
	if ClientDest != "" {
		invalidFlags = append(invalidFlags, "-c")
	}
	if ByteCount != 0 {
		invalidFlags = append(invalidFlags, "-size")
	}
	if BandwidthRate != 0 {
		invalidFlags = append(invalidFlags, "-b")
	}
	if TOS != 0 {
		invalidFlags = append(invalidFlags, "-tos")
	}
	if len(invalidFlags) > 0 {
		return fmt.Errorf("%w: %v can only be used in client mode", speedtest.ErrInvalidConfig, invalidFlags)
	}
	return nil
}

func validateClientArgs() error {
	if ShowUI {
		return fmt.Errorf("%w: -ui can only be used in server (\"-s\") mode", speedtest.ErrInvalidConfig)
	}
	if MetricsAddr != "" {
		return fmt.Errorf("%w: -metrics can only be used in server (\"-s\") mode", speedtest.ErrInvalidConfig)
	}
	if Connections <= 0 {
		return fmt.Errorf("%w: -n must be positive", speedtest.ErrInvalidConfig)
	}
	if ByteCount == 0 && Duration <= 0 {
		return fmt.Errorf("%w: either -size or -d must be positive", speedtest.ErrInvalidConfig)
	}
	if DiscoveryTimeout <= 0 {
		return fmt.Errorf("%w: -dt must be positive", speedtest.ErrInvalidConfig)
	}
	return nil
}

func envPort(name string, fallback uint16) uint16 {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || n > 65535 {
		return fallback
	}
	return uint16(n)
}
