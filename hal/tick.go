package hal

// publishTick delivers seq, evicting the oldest pending tick when ch is full.
//
// Consumers only care about the latest tick, so a slow reader sees time jump
// forward instead of replaying stale ticks.
func publishTick(ch chan uint64, seq uint64) {
	for {
		select {
		case ch <- seq:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// LatestTick drains ch without blocking and returns the newest tick.
//
// ok is false when no tick was pending; last is returned unchanged then.
func LatestTick(ch <-chan uint64, last uint64) (seq uint64, ok bool) {
	seq = last
	for {
		select {
		case v, open := <-ch:
			if !open {
				return seq, ok
			}
			seq = v
			ok = true
		default:
			return seq, ok
		}
	}
}
