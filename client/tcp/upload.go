// Package tcp implements the client side of the TCP throughput test. The
// client is the sender: it streams payload until the size or duration
// bound is reached and signals the clean end of the test by closing the
// connection. TCP already guarantees delivery and ordering, so there is
// no application framing and no acknowledgment protocol.
package tcp

import (
	"time"

	"github.com/adimaman22/Network-Speed-Test/nettools"
	"github.com/adimaman22/Network-Speed-Test/session"
	"github.com/adimaman22/Network-Speed-Test/speedtest"
	"github.com/adimaman22/Network-Speed-Test/stats"
)

const dialTimeout = time.Second

type Tester struct {
	IPVersion speedtest.IPVersion
	Logger    speedtest.Logger
}

// Run executes one upload session against addr. Transport failures
// surface as a typed error alongside the partial result; retrying is the
// caller's decision.
func (t Tester) Run(addr string, cfg speedtest.TestConfig) (stats.Result, error) {
	log := t.Logger
	if log == nil {
		log = speedtest.NopLogger{}
	}
	if err := cfg.Validate(); err != nil {
		return stats.Result{}, err
	}

	sess := session.New(speedtest.TCP, addr, session.Connecting)
	dialStart := time.Now()
	conn, err := nettools.Dial(speedtest.TCP, t.IPVersion, addr, cfg.ToS, dialTimeout)
	if err != nil {
		sess.Fail()
		return sess.Result(), speedtest.Classify(err)
	}
	defer conn.Close()
	sess.SetConnectTime(time.Since(dialStart))
	_ = sess.To(session.Streaming)
	log.Debug("TCP session %s: streaming to %s", sess.ID, addr)

	buf := make([]byte, cfg.BufferSize)
	for i := range buf {
		buf[i] = byte(i)
	}
	pacer := stats.NewPacer(cfg.Rate)
	collector := sess.Stats()
	collector.MarkStart()

	var deadline time.Time
	if cfg.ByteCount == 0 {
		deadline = time.Now().Add(cfg.Duration)
	}
	var sent uint64
	for {
		chunk := buf
		if cfg.ByteCount > 0 {
			remaining := cfg.ByteCount - sent
			if remaining == 0 {
				break
			}
			if remaining < uint64(len(chunk)) {
				chunk = chunk[:remaining]
			}
		} else if !time.Now().Before(deadline) {
			break
		}

		// A duration-bound write may only block until the test deadline;
		// hitting that is the clean end, not a failure.
		writeDeadline := time.Now().Add(cfg.Timeout)
		atTestEnd := false
		if cfg.ByteCount == 0 && deadline.Before(writeDeadline) {
			writeDeadline = deadline
			atTestEnd = true
		}
		_ = conn.SetWriteDeadline(writeDeadline)
		n, err := conn.Write(chunk)
		if n > 0 {
			collector.RecordSent(n)
			sent += uint64(n)
		}
		if err != nil {
			if atTestEnd && speedtest.IsTimeout(err) {
				break
			}
			sess.Fail()
			log.Debug("TCP session %s: write failed after %d bytes: %v", sess.ID, sent, err)
			return sess.Result(), speedtest.Classify(err)
		}
		pacer.Pace(n)
	}

	collector.MarkEnd()
	_ = sess.To(session.Completed)
	// Closing the connection (deferred) tells the server the test is done.
	return sess.Result(), nil
}
