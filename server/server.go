// Package server runs the three listeners a test server needs: the
// discovery responder, the TCP drain listener and the UDP stream
// listener. All sockets are acquired on Start and released on Stop;
// discovery keeps answering probes while transfers are mid-flight.
package server

import (
	"fmt"
	"net"
	"sync"

	"github.com/adimaman22/Network-Speed-Test/discovery"
	"github.com/adimaman22/Network-Speed-Test/metrics"
	"github.com/adimaman22/Network-Speed-Test/nettools"
	"github.com/adimaman22/Network-Speed-Test/server/tcp"
	"github.com/adimaman22/Network-Speed-Test/server/udp"
	"github.com/adimaman22/Network-Speed-Test/session"
	"github.com/adimaman22/Network-Speed-Test/speedtest"
)

// Server is the running handle returned by Start.
type Server struct {
	registry  *session.Registry
	responder *discovery.Responder
	tcpL      net.Listener
	udpConn   *net.UDPConn
	wg        sync.WaitGroup
}

// Start opens the discovery, TCP and UDP sockets and launches their
// workers. On any failure every already-acquired socket is released.
func Start(cfg Config, logger speedtest.Logger, m *metrics.Metrics) (*Server, error) {
	if logger == nil {
		logger = speedtest.NopLogger{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry := session.NewRegistry()
	responder, err := discovery.NewResponder(discovery.ResponderConfig{
		IPVersion:      cfg.IPVersion,
		Port:           cfg.DiscoveryPort,
		TCPPort:        cfg.TCPPort,
		UDPPort:        cfg.UDPPort,
		MulticastGroup: cfg.MulticastGroup,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}
	tcpL, err := nettools.ListenTCP(cfg.IPVersion, fmt.Sprintf(":%d", cfg.TCPPort))
	if err != nil {
		_ = responder.Close()
		return nil, err
	}
	udpConn, err := nettools.ListenUDP(cfg.IPVersion, fmt.Sprintf(":%d", cfg.UDPPort), true, false)
	if err != nil {
		_ = responder.Close()
		_ = tcpL.Close()
		return nil, err
	}

	s := &Server{
		registry:  registry,
		responder: responder,
		tcpL:      tcpL,
		udpConn:   udpConn,
	}
	s.wg.Add(3)
	go func() {
		defer s.wg.Done()
		responder.Run()
	}()
	go func() {
		defer s.wg.Done()
		h := tcp.Handler{Logger: logger, Registry: registry, Metrics: m}
		if err := tcp.Serve(tcpL, h); err != nil {
			logger.Error("TCP listener stopped: %v", err)
		}
	}()
	go func() {
		defer s.wg.Done()
		h := udp.Handler{Logger: logger, Registry: registry, Metrics: m}
		if err := udp.Serve(udpConn, h); err != nil {
			logger.Error("UDP listener stopped: %v", err)
		}
	}()

	if ip, err := nettools.ReachableIP(); err == nil {
		logger.Info("server started, listening on %s (discovery:%d tcp:%d udp:%d)",
			ip, cfg.DiscoveryPort, cfg.TCPPort, cfg.UDPPort)
	} else {
		logger.Info("server started (discovery:%d tcp:%d udp:%d)",
			cfg.DiscoveryPort, cfg.TCPPort, cfg.UDPPort)
	}
	return s, nil
}

// Registry exposes the live sessions for the TUI.
func (s *Server) Registry() *session.Registry {
	return s.registry
}

// TCPAddr returns the bound TCP listener address.
func (s *Server) TCPAddr() net.Addr {
	return s.tcpL.Addr()
}

// UDPAddr returns the bound UDP socket address.
func (s *Server) UDPAddr() net.Addr {
	return s.udpConn.LocalAddr()
}

// Stop closes all three sockets and waits for the workers to drain.
func (s *Server) Stop() {
	_ = s.responder.Close()
	_ = s.tcpL.Close()
	_ = s.udpConn.Close()
	s.wg.Wait()
}
