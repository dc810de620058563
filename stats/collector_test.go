package stats

import (
	"testing"
	"time"

	"github.com/adimaman22/Network-Speed-Test/speedtest"
)

func TestBitsPerSecond(t *testing.T) {
	cases := []struct {
		bytes   uint64
		elapsed time.Duration
		want    float64
	}{
		{10_000_000, time.Second, 80_000_000},
		{1000, 2 * time.Second, 4000},
		{1000, 0, 0},
		{1000, -time.Second, 0},
		{0, time.Second, 0},
	}
	for _, c := range cases {
		if got := BitsPerSecond(c.bytes, c.elapsed); got != c.want {
			t.Errorf("BitsPerSecond(%d, %v) = %v, want %v", c.bytes, c.elapsed, got, c.want)
		}
	}
}

func TestSuccessRate(t *testing.T) {
	cases := []struct {
		received, sent uint64
		want           float64
	}{
		{90, 100, 0.9},
		{100, 100, 1},
		{0, 100, 0},
		{5, 0, 0},
		{120, 100, 1}, // duplicates never push the rate past 1
	}
	for _, c := range cases {
		if got := SuccessRate(c.received, c.sent); got != c.want {
			t.Errorf("SuccessRate(%d, %d) = %v, want %v", c.received, c.sent, got, c.want)
		}
	}
}

func TestCollectorTCPSnapshot(t *testing.T) {
	c := NewCollector(speedtest.TCP)
	c.MarkStart()
	c.RecordSent(4096)
	c.RecordSent(4096)
	c.MarkEnd()

	r := c.Snapshot()
	if r.Partial {
		t.Error("ended session snapshot tagged Partial")
	}
	if r.BytesSent != 8192 || r.PacketsSent != 2 {
		t.Errorf("sent = %d/%d, want 8192/2", r.BytesSent, r.PacketsSent)
	}
	if r.Elapsed <= 0 {
		t.Errorf("elapsed = %v, want > 0", r.Elapsed)
	}
	if r.BitsPerSecond <= 0 {
		t.Errorf("throughput = %v, want > 0", r.BitsPerSecond)
	}
	if r.SuccessRate != 0 {
		t.Errorf("TCP success rate = %v, want 0", r.SuccessRate)
	}
}

func TestCollectorReceivedIsAuthoritative(t *testing.T) {
	c := NewCollector(speedtest.TCP)
	c.MarkStart()
	c.RecordSent(10000)
	c.RecordReceived(6000)
	c.MarkEnd()

	r := c.Snapshot()
	want := BitsPerSecond(6000, r.Elapsed)
	if r.BitsPerSecond != want {
		t.Errorf("throughput = %v, want %v (from received bytes)", r.BitsPerSecond, want)
	}
}

func TestCollectorSnapshotIdempotentWithoutTraffic(t *testing.T) {
	c := NewCollector(speedtest.UDP)
	c.MarkStart()
	c.RecordReceived(1000)
	c.RecordReceived(1000)

	first := c.Snapshot()
	time.Sleep(10 * time.Millisecond)
	second := c.Snapshot()
	if first != second {
		t.Errorf("snapshots differ without new traffic:\n%+v\n%+v", first, second)
	}
	if !first.Partial {
		t.Error("mid-session snapshot not tagged Partial")
	}
}

func TestCollectorUnstartedSnapshot(t *testing.T) {
	r := NewCollector(speedtest.TCP).Snapshot()
	if !r.Partial {
		t.Error("unstarted snapshot not tagged Partial")
	}
	if r.Elapsed != 0 || r.BitsPerSecond != 0 {
		t.Errorf("unstarted snapshot carries elapsed %v, rate %v", r.Elapsed, r.BitsPerSecond)
	}
}

func TestCollectorUDPSuccessRate(t *testing.T) {
	c := NewCollector(speedtest.UDP)
	c.MarkStart()
	for i := 0; i < 9; i++ {
		c.RecordReceived(1000)
	}
	c.SetExpected(10)
	c.MarkEnd()

	r := c.Snapshot()
	if r.SuccessRate != 0.9 {
		t.Errorf("success rate = %v, want 0.9", r.SuccessRate)
	}
	if r.ExpectedPackets != 10 {
		t.Errorf("expected packets = %d, want 10", r.ExpectedPackets)
	}
}

func TestCollectorUDPThroughputUsesReceiveSpan(t *testing.T) {
	c := NewCollector(speedtest.UDP)
	c.MarkStart()
	// Dead air before the first datagram must not dilute the rate.
	time.Sleep(20 * time.Millisecond)
	c.RecordReceived(1000)
	time.Sleep(5 * time.Millisecond)
	c.RecordReceived(1000)
	c.MarkEnd()

	r := c.Snapshot()
	wholeSessionRate := BitsPerSecond(2000, r.Elapsed)
	if r.BitsPerSecond <= wholeSessionRate {
		t.Errorf("throughput %v not above whole-session rate %v", r.BitsPerSecond, wholeSessionRate)
	}
}

func TestCollectorMarkEndIsSticky(t *testing.T) {
	c := NewCollector(speedtest.TCP)
	c.MarkStart()
	c.RecordSent(100)
	c.MarkEnd()
	first := c.Snapshot()
	time.Sleep(5 * time.Millisecond)
	c.MarkEnd()
	if second := c.Snapshot(); second.Elapsed != first.Elapsed {
		t.Errorf("second MarkEnd moved elapsed from %v to %v", first.Elapsed, second.Elapsed)
	}
}
