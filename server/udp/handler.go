package udp

import (
	"net"
	"time"

	"github.com/adimaman22/Network-Speed-Test/metrics"
	"github.com/adimaman22/Network-Speed-Test/session"
	"github.com/adimaman22/Network-Speed-Test/speedtest"
	"github.com/adimaman22/Network-Speed-Test/stats"
	"github.com/adimaman22/Network-Speed-Test/ui"
	"github.com/adimaman22/Network-Speed-Test/wire"
)

const defaultDatagramLen = 1000

// Handler streams one requested transfer back to a client.
type Handler struct {
	Logger   speedtest.Logger
	Registry *session.Registry
	Metrics  *metrics.Metrics
	// Drop makes the sender skip the given sequence number while still
	// counting it as sent. Loss injection for tests; nil in production.
	Drop func(seq uint64) bool
}

func (h Handler) HandleRequest(conn *net.UDPConn, raddr *net.UDPAddr, req wire.RequestMsg) {
	log := h.Logger
	if log == nil {
		log = speedtest.NopLogger{}
	}
	datagramLen := int(req.DatagramLen)
	if datagramLen == 0 {
		datagramLen = defaultDatagramLen
	}
	if datagramLen > speedtest.MaxDatagramLen {
		log.Debug("dropping UDP request from %s: datagram length %d too large", raddr, datagramLen)
		return
	}
	if req.ByteCount == 0 && req.Duration <= 0 {
		log.Debug("dropping unbounded UDP request from %s", raddr)
		return
	}

	sess := session.New(speedtest.UDP, raddr.String(), session.Sending)
	if h.Registry != nil {
		h.Registry.Add(sess)
		defer h.Registry.Remove(sess.ID)
	}
	h.Metrics.SessionStarted(speedtest.UDP)
	log.Debug("UDP session %s: streaming %d bytes to %s at %d B/s",
		sess.ID, req.ByteCount, raddr, req.Rate)

	payload := make([]byte, datagramLen)
	for i := range payload {
		payload[i] = byte(i)
	}
	pacer := stats.NewPacer(req.Rate)
	collector := sess.Stats()
	collector.MarkStart()

	var deadline time.Time
	if req.ByteCount == 0 {
		deadline = time.Now().Add(req.Duration)
	}
	var seq, sentBytes uint64
	for {
		chunk := payload
		if req.ByteCount > 0 {
			remaining := req.ByteCount - sentBytes
			if remaining == 0 {
				break
			}
			if remaining < uint64(len(chunk)) {
				chunk = chunk[:remaining]
			}
		} else if !time.Now().Before(deadline) {
			break
		}

		if h.Drop != nil && h.Drop(seq) {
			h.Metrics.DatagramDropped()
		} else {
			if _, err := conn.WriteToUDP(wire.EncodeData(seq, chunk), raddr); err != nil {
				sess.Fail()
				h.Metrics.SessionFailed(speedtest.UDP)
				log.Error("UDP session %s to %s failed after %d datagrams: %v",
					sess.ID, raddr, seq, err)
				return
			}
			h.Metrics.DatagramSent()
			h.Metrics.AddBytesSent(speedtest.UDP, len(chunk))
		}
		// Injected drops still count as sent: they are part of the
		// loss-rate denominator the end marker reports.
		collector.RecordSent(len(chunk))
		sentBytes += uint64(len(chunk))
		seq++
		pacer.Pace(len(chunk))
	}

	// Best effort; the receiver falls back to its inactivity timeout when
	// the marker is lost.
	if _, err := conn.WriteToUDP(wire.EncodeEndMarker(seq), raddr); err != nil {
		log.Debug("UDP session %s: end marker send failed: %v", sess.ID, err)
	}
	collector.MarkEnd()
	_ = sess.To(session.Completed)
	h.Metrics.SessionCompleted(speedtest.UDP)
	r := sess.Result()
	log.Info("UDP session %s to %s complete: %d datagrams, %s in %s",
		sess.ID, raddr, r.PacketsSent, ui.BytesToString(r.BytesSent),
		ui.DurationToString(r.Elapsed))
}
