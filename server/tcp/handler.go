package tcp

import (
	"io"
	"net"
	"time"

	"github.com/adimaman22/Network-Speed-Test/metrics"
	"github.com/adimaman22/Network-Speed-Test/session"
	"github.com/adimaman22/Network-Speed-Test/speedtest"
	"github.com/adimaman22/Network-Speed-Test/ui"
)

const (
	defaultReadSize    = 16 * 1024
	defaultIdleTimeout = 5 * time.Second
)

// Handler drains one test connection and reports the delivered result.
type Handler struct {
	Logger   speedtest.Logger
	Registry *session.Registry
	Metrics  *metrics.Metrics
	// IdleTimeout bounds each read so a stalled client cannot pin the
	// handler forever; the clean end of a test is the client closing.
	IdleTimeout time.Duration
	ReadSize    int
}

func (h Handler) HandleConn(conn net.Conn) {
	defer conn.Close()
	log := h.Logger
	if log == nil {
		log = speedtest.NopLogger{}
	}
	idle := h.IdleTimeout
	if idle <= 0 {
		idle = defaultIdleTimeout
	}
	size := h.ReadSize
	if size <= 0 {
		size = defaultReadSize
	}

	sess := session.New(speedtest.TCP, conn.RemoteAddr().String(), session.Draining)
	if h.Registry != nil {
		h.Registry.Add(sess)
		defer h.Registry.Remove(sess.ID)
	}
	h.Metrics.SessionStarted(speedtest.TCP)
	log.Debug("TCP session %s: draining from %s", sess.ID, sess.RemoteAddr)

	collector := sess.Stats()
	collector.MarkStart()
	buf := make([]byte, size)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(idle))
		n, err := conn.Read(buf)
		if n > 0 {
			collector.RecordReceived(n)
			h.Metrics.AddBytesReceived(speedtest.TCP, n)
		}
		if err == nil {
			continue
		}
		if err == io.EOF {
			collector.MarkEnd()
			_ = sess.To(session.Completed)
			break
		}
		sess.Fail()
		h.Metrics.SessionFailed(speedtest.TCP)
		r := sess.Result()
		log.Error("TCP session %s from %s failed after %s: %v",
			sess.ID, sess.RemoteAddr, ui.BytesToString(r.BytesReceived), err)
		return
	}

	h.Metrics.SessionCompleted(speedtest.TCP)
	r := sess.Result()
	log.Info("TCP session %s from %s complete: %s in %s (%s)",
		sess.ID, sess.RemoteAddr, ui.BytesToString(r.BytesReceived),
		ui.DurationToString(r.Elapsed), ui.BpsToString(r.BitsPerSecond))
}
