// Package udp implements the client side of the UDP throughput test. The
// client requests a stream and then accounts for every sequence number it
// sees; the delivery success rate comes from the distinct sequence
// numbers received against the total the sender reported in its
// end-of-stream marker. Reordering, duplication and loss of any datagram
// including the marker are all tolerated.
package udp

import (
	"time"

	"github.com/adimaman22/Network-Speed-Test/nettools"
	"github.com/adimaman22/Network-Speed-Test/session"
	"github.com/adimaman22/Network-Speed-Test/speedtest"
	"github.com/adimaman22/Network-Speed-Test/stats"
	"github.com/adimaman22/Network-Speed-Test/wire"
)

const dialTimeout = time.Second

type Tester struct {
	IPVersion speedtest.IPVersion
	Logger    speedtest.Logger
}

// Run executes one download session against addr. A fully lost stream is
// still a valid result with success rate 0, not an error.
func (t Tester) Run(addr string, cfg speedtest.TestConfig) (stats.Result, error) {
	log := t.Logger
	if log == nil {
		log = speedtest.NopLogger{}
	}
	if err := cfg.Validate(); err != nil {
		return stats.Result{}, err
	}

	sess := session.New(speedtest.UDP, addr, session.Sending)
	conn, err := nettools.Dial(speedtest.UDP, t.IPVersion, addr, cfg.ToS, dialTimeout)
	if err != nil {
		sess.Fail()
		return sess.Result(), speedtest.Classify(err)
	}
	defer conn.Close()

	collector := sess.Stats()
	collector.MarkStart()
	req := wire.RequestMsg{
		ByteCount:   cfg.ByteCount,
		Rate:        cfg.Rate,
		DatagramLen: uint16(cfg.BufferSize),
		Duration:    cfg.Duration,
	}
	if _, err := conn.Write(wire.EncodeRequest(req)); err != nil {
		sess.Fail()
		return sess.Result(), speedtest.Classify(err)
	}
	_ = sess.To(session.Listening)
	log.Debug("UDP session %s: listening for stream from %s", sess.ID, addr)

	// The inactivity window ends a session whose end marker was lost. A
	// slow paced stream must not trip it, so it stretches to twice the
	// expected inter-datagram gap.
	inactivity := cfg.Timeout
	if cfg.Rate > 0 {
		gap := time.Duration(float64(cfg.BufferSize) / float64(cfg.Rate) * float64(time.Second))
		if 2*gap > inactivity {
			inactivity = 2 * gap
		}
	}

	seen := make(map[uint64]struct{})
	var maxSeq uint64
	gotMarker := false
	buf := make([]byte, wire.DataHeaderSize+speedtest.MaxDatagramLen)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(inactivity))
		n, err := conn.Read(buf)
		if err != nil {
			if speedtest.IsTimeout(err) {
				log.Debug("UDP session %s: no data for %v, ending", sess.ID, inactivity)
				break
			}
			sess.Fail()
			return sess.Result(), speedtest.Classify(err)
		}
		msg, derr := wire.Decode(buf[:n])
		if derr != nil || msg.Type != wire.Data {
			log.Debug("UDP session %s: dropping malformed datagram", sess.ID)
			continue
		}
		d := msg.Data
		if d.End {
			collector.SetExpected(d.TotalSent)
			gotMarker = true
			break
		}
		if _, dup := seen[d.Seq]; dup {
			// Duplicates count once, toward neither bytes nor packets.
			continue
		}
		seen[d.Seq] = struct{}{}
		if d.Seq > maxSeq {
			maxSeq = d.Seq
		}
		collector.RecordReceived(len(d.Payload))
	}
	if !gotMarker && len(seen) > 0 {
		// Marker lost: the highest sequence seen bounds the denominator
		// from below.
		collector.SetExpected(maxSeq + 1)
	}

	collector.MarkEnd()
	_ = sess.To(session.Completed)
	return sess.Result(), nil
}
