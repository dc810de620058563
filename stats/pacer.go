package stats

import "time"

// Pacer holds a sender to a target byte rate by sleeping until the bytes
// recorded so far fit inside the elapsed window. It belongs to a single
// sending worker and is not safe for concurrent use.
type Pacer struct {
	rate  uint64 // bytes per second, 0 = unpaced
	start time.Time
	sent  uint64
}

func NewPacer(bytesPerSecond uint64) *Pacer {
	return &Pacer{rate: bytesPerSecond, start: time.Now()}
}

// Pace records n sent bytes and blocks until the cumulative count is back
// under the target rate.
func (p *Pacer) Pace(n int) {
	if p.rate == 0 {
		return
	}
	p.sent += uint64(n)
	due := p.start.Add(time.Duration(float64(p.sent) / float64(p.rate) * float64(time.Second)))
	if wait := time.Until(due); wait > 0 {
		time.Sleep(wait)
	}
}
