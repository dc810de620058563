package stats

import (
	"testing"
	"time"
)

func TestPacerHoldsTargetRate(t *testing.T) {
	// 100KB/s in 10KB chunks: 5 chunks should take roughly 500ms.
	p := NewPacer(100 * 1000)
	start := time.Now()
	for i := 0; i < 5; i++ {
		p.Pace(10 * 1000)
	}
	elapsed := time.Since(start)
	if elapsed < 400*time.Millisecond || elapsed > 900*time.Millisecond {
		t.Errorf("5x10KB at 100KB/s took %v, want ~500ms", elapsed)
	}
}

func TestPacerUnpacedNeverSleeps(t *testing.T) {
	p := NewPacer(0)
	start := time.Now()
	for i := 0; i < 1000; i++ {
		p.Pace(1 << 20)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("unpaced Pace blocked for %v", elapsed)
	}
}
