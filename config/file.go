package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/adimaman22/Network-Speed-Test/speedtest"
)

// FileConfig is the optional YAML configuration file. Every field is
// optional; only values whose flags were not set explicitly are applied.
type FileConfig struct {
	Ports struct {
		Discovery int `yaml:"discovery"`
		TCP       int `yaml:"tcp"`
		UDP       int `yaml:"udp"`
	} `yaml:"ports"`
	Discovery struct {
		Timeout   string `yaml:"timeout"`
		Policy    string `yaml:"policy"`
		Multicast string `yaml:"multicast_group"`
	} `yaml:"discovery"`
	Test struct {
		Duration    string `yaml:"duration"`
		Size        string `yaml:"size"`
		Rate        string `yaml:"rate"`
		BufferLen   string `yaml:"buffer_length"`
		Connections int    `yaml:"connections"`
	} `yaml:"test"`
}

func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("unable to read config file (%s): %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: bad config file %s: %v", speedtest.ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

func applyFile(path string, dport, tport, uport *int, size, bw, bufferLen, policy *string) error {
	cfg, err := LoadFile(path)
	if err != nil {
		return err
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if cfg.Ports.Discovery > 0 && !set["dport"] {
		*dport = cfg.Ports.Discovery
	}
	if cfg.Ports.TCP > 0 && !set["tport"] {
		*tport = cfg.Ports.TCP
	}
	if cfg.Ports.UDP > 0 && !set["uport"] {
		*uport = cfg.Ports.UDP
	}
	if cfg.Discovery.Policy != "" && !set["dpolicy"] {
		*policy = cfg.Discovery.Policy
	}
	if cfg.Discovery.Multicast != "" && !set["mcast"] {
		MulticastGroup = cfg.Discovery.Multicast
	}
	if cfg.Discovery.Timeout != "" && !set["dt"] {
		d, err := time.ParseDuration(cfg.Discovery.Timeout)
		if err != nil {
			return fmt.Errorf("%w: bad discovery timeout in %s: %v", speedtest.ErrInvalidConfig, path, err)
		}
		DiscoveryTimeout = d
	}
	if cfg.Test.Duration != "" && !set["d"] {
		d, err := time.ParseDuration(cfg.Test.Duration)
		if err != nil {
			return fmt.Errorf("%w: bad test duration in %s: %v", speedtest.ErrInvalidConfig, path, err)
		}
		Duration = d
	}
	if cfg.Test.Size != "" && !set["size"] {
		*size = cfg.Test.Size
	}
	if cfg.Test.Rate != "" && !set["b"] {
		*bw = cfg.Test.Rate
	}
	if cfg.Test.BufferLen != "" && !set["l"] {
		*bufferLen = cfg.Test.BufferLen
	}
	if cfg.Test.Connections > 0 && !set["n"] {
		Connections = cfg.Test.Connections
	}
	return nil
}
