package server

import (
	"github.com/adimaman22/Network-Speed-Test/session"
	"github.com/adimaman22/Network-Speed-Test/speedtest"
	"github.com/adimaman22/Network-Speed-Test/ui"
)

// rateTracker turns cumulative per-session byte counts into per-paint
// transfer rates by remembering the totals seen at the previous paint.
type rateTracker struct {
	prev map[string]uint64
}

func newRateTracker() *rateTracker {
	return &rateTracker{prev: make(map[string]uint64)}
}

// rows builds one display row per live session plus a [SUM] row per
// protocol when more than one session is active for it.
func (r *rateTracker) rows(sessions []*session.Session, seconds uint64) [][]string {
	if seconds == 0 {
		seconds = 1
	}

	out := make([][]string, 0, len(sessions)+2)
	counts := make(map[speedtest.Protocol]int)
	sums := make(map[speedtest.Protocol]uint64)
	seen := make(map[string]struct{}, len(sessions))

	for _, s := range sessions {
		snap := s.Stats().Snapshot()
		total := snap.BytesSent + snap.BytesReceived
		delta := total - r.prev[s.ID]
		r.prev[s.ID] = total
		seen[s.ID] = struct{}{}

		bps := float64(delta*8) / float64(seconds)
		counts[s.Protocol]++
		sums[s.Protocol] += delta

		out = append(out, []string{
			ui.TruncateStringFromStart(s.RemoteAddr, 13),
			s.Protocol.String(),
			s.State().String(),
			ui.BpsToString(bps),
			ui.BytesToString(total),
		})
	}

	for _, p := range []speedtest.Protocol{speedtest.TCP, speedtest.UDP} {
		if counts[p] > 1 {
			bps := float64(sums[p]*8) / float64(seconds)
			out = append(out, []string{"[SUM]", p.String(), "", ui.BpsToString(bps), ""})
		}
	}

	for id := range r.prev {
		if _, ok := seen[id]; !ok {
			delete(r.prev, id)
		}
	}
	return out
}

func rowHeader() []string {
	return []string{"RemoteAddress", "Proto", "State", "Bits/s", "Bytes"}
}
