//go:build !tinygo

package hal

import "time"

// hostTime converts wall-clock progress into millisecond ticks.
//
// Runners call step once per frame; the elapsed time since the previous step is
// turned into whole ticks and the remainder carried over.
type hostTime struct {
	ch  chan uint64
	seq uint64

	last time.Time
	acc  time.Duration
	now  func() time.Time
}

func newHostTime() *hostTime {
	return newHostTimeWithClock(time.Now)
}

func newHostTimeWithClock(now func() time.Time) *hostTime {
	return &hostTime{ch: make(chan uint64, 16), now: now}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

func (t *hostTime) step() {
	now := t.now()
	if t.last.IsZero() {
		t.last = now
		t.acc = 0
		t.advance(1)
		return
	}

	t.acc += now.Sub(t.last)
	t.last = now

	const tickDur = time.Millisecond
	ticks := uint64(t.acc / tickDur)
	if ticks == 0 {
		return
	}
	t.acc = t.acc % tickDur
	t.advance(ticks)
}

func (t *hostTime) advance(n uint64) {
	t.seq += n
	publishTick(t.ch, t.seq)
}
