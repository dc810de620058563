// Package session models one run of one protocol's throughput test as an
// explicit state machine, and tracks the server's live sessions in a
// Registry. Sessions own their stats collector exclusively; nothing is
// shared across sessions.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/adimaman22/Network-Speed-Test/speedtest"
	"github.com/adimaman22/Network-Speed-Test/stats"
)

type State uint32

const (
	// TCP states.
	Connecting State = iota
	Streaming
	Draining
	// UDP states.
	Sending
	Listening
	// Terminal states, shared.
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "Connecting"
	case Streaming:
		return "Streaming"
	case Draining:
		return "Draining"
	case Sending:
		return "Sending"
	case Listening:
		return "Listening"
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	}
	return "Invalid"
}

// transitions lists the legal next states from each state. Terminal
// states have no successors.
var transitions = map[State][]State{
	Connecting: {Streaming, Draining, Failed},
	Streaming:  {Draining, Completed, Failed},
	Draining:   {Completed, Failed},
	Sending:    {Listening, Completed, Failed},
	Listening:  {Completed, Failed},
}

// Session is one transfer between one client and one server. It is
// created when the test starts and its metrics are extracted into a
// stats.Result when it ends.
type Session struct {
	ID         string
	Protocol   speedtest.Protocol
	RemoteAddr string
	Started    time.Time

	mu          sync.Mutex
	state       State
	connectTime time.Duration
	collector   *stats.Collector
}

func New(p speedtest.Protocol, remoteAddr string, initial State) *Session {
	return &Session{
		ID:         xid.New().String(),
		Protocol:   p,
		RemoteAddr: remoteAddr,
		Started:    time.Now(),
		state:      initial,
		collector:  stats.NewCollector(p),
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// To advances the state machine, rejecting transitions the machine does
// not allow.
func (s *Session) To(next State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, allowed := range transitions[s.state] {
		if next == allowed {
			s.state = next
			return nil
		}
	}
	return fmt.Errorf("illegal session transition %s -> %s", s.state, next)
}

// Fail forces the terminal Failed state from anywhere and seals the
// collector so the partial counters stop moving.
func (s *Session) Fail() {
	s.mu.Lock()
	s.state = Failed
	s.mu.Unlock()
	s.collector.MarkEnd()
}

// SetConnectTime records how long the session spent in Connecting.
func (s *Session) SetConnectTime(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connectTime = d
}

func (s *Session) Stats() *stats.Collector {
	return s.collector
}

// Result snapshots the collector and stamps the session identity onto it.
// A session that failed mid-transfer still yields its partial counters,
// tagged Partial.
func (s *Session) Result() stats.Result {
	r := s.collector.Snapshot()
	s.mu.Lock()
	r.ID = s.ID
	r.RemoteAddr = s.RemoteAddr
	r.ConnectTime = s.connectTime
	if s.state == Failed {
		r.Partial = true
	}
	s.mu.Unlock()
	return r
}
