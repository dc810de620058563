// Package stats accumulates per-session transfer counters and derives the
// final throughput figures from them.
package stats

import (
	"sync"
	"time"

	"github.com/adimaman22/Network-Speed-Test/speedtest"
)

// Result is the immutable outcome of one session snapshot.
type Result struct {
	ID         string
	Protocol   speedtest.Protocol
	RemoteAddr string

	BytesSent       uint64
	BytesReceived   uint64
	PacketsSent     uint64
	PacketsReceived uint64
	// ExpectedPackets is the UDP loss-rate denominator reported by the
	// sender's end-of-stream marker; zero for TCP.
	ExpectedPackets uint64

	// Elapsed is the wall-clock span of the session. For UDP receivers the
	// throughput below is computed from the first-to-last receive span
	// instead, since delivered throughput is the metric of interest.
	Elapsed     time.Duration
	ConnectTime time.Duration

	BitsPerSecond float64
	SuccessRate   float64

	// Partial marks an in-progress or failed-mid-transfer reading.
	Partial bool
}

// BitsPerSecond converts a byte count over an elapsed span to bits per
// second. A zero or negative span yields 0 rather than a division fault.
func BitsPerSecond(bytes uint64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return 8 * float64(bytes) / elapsed.Seconds()
}

// SuccessRate is received over sent, clamped to [0,1]. Zero sent yields 0.
func SuccessRate(received, sent uint64) float64 {
	if sent == 0 {
		return 0
	}
	if received > sent {
		return 1
	}
	return float64(received) / float64(sent)
}

// Collector is the thread-safe accumulator backing one session. Counts
// only grow until the session ends; Snapshot may be called at any time and
// repeated snapshots without new traffic are identical.
type Collector struct {
	mu    sync.Mutex
	proto speedtest.Protocol

	start time.Time
	end   time.Time
	// last is the most recent recorded event; before MarkEnd, snapshots
	// measure elapsed time against it so they stay idempotent.
	last      time.Time
	firstRecv time.Time
	lastRecv  time.Time

	bytesSent       uint64
	bytesReceived   uint64
	packetsSent     uint64
	packetsReceived uint64
	expected        uint64
}

func NewCollector(p speedtest.Protocol) *Collector {
	return &Collector{proto: p}
}

func (c *Collector) MarkStart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start = time.Now()
	c.last = c.start
}

func (c *Collector) MarkEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.end.IsZero() {
		c.end = time.Now()
	}
}

func (c *Collector) RecordSent(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bytesSent += uint64(n)
	c.packetsSent++
	c.last = time.Now()
}

func (c *Collector) RecordReceived(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bytesReceived += uint64(n)
	c.packetsReceived++
	c.last = time.Now()
	if c.firstRecv.IsZero() {
		c.firstRecv = c.last
	}
	c.lastRecv = c.last
}

// SetExpected records the loss-rate denominator learned from the UDP
// end-of-stream marker or, when the marker itself was lost, from the
// highest sequence number observed.
func (c *Collector) SetExpected(n uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expected = n
}

// Snapshot derives a Result from the counters recorded so far. Before
// MarkEnd the result is tagged Partial and elapsed time runs only up to
// the last recorded event, so two snapshots with no traffic in between
// are equal.
func (c *Collector) Snapshot() Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := Result{
		Protocol:        c.proto,
		BytesSent:       c.bytesSent,
		BytesReceived:   c.bytesReceived,
		PacketsSent:     c.packetsSent,
		PacketsReceived: c.packetsReceived,
		ExpectedPackets: c.expected,
	}
	if c.start.IsZero() {
		r.Partial = true
		return r
	}
	if c.end.IsZero() {
		r.Partial = true
		r.Elapsed = c.last.Sub(c.start)
	} else {
		r.Elapsed = c.end.Sub(c.start)
	}

	bytes := c.bytesSent
	span := r.Elapsed
	if c.bytesReceived > 0 {
		// The receiving side's count is authoritative: it reflects what
		// was actually delivered.
		bytes = c.bytesReceived
		if c.proto == speedtest.UDP {
			span = c.lastRecv.Sub(c.firstRecv)
		}
	}
	r.BitsPerSecond = BitsPerSecond(bytes, span)
	if c.proto == speedtest.UDP {
		r.SuccessRate = SuccessRate(c.packetsReceived, c.expected)
	}
	return r
}
