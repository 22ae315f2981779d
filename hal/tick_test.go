package hal

import "testing"

func TestPublishTickEvictsOldest(t *testing.T) {
	ch := make(chan uint64, 2)
	for seq := uint64(1); seq <= 5; seq++ {
		publishTick(ch, seq)
	}
	if got := len(ch); got != 2 {
		t.Fatalf("len(ch) = %d, want 2", got)
	}
	if a, b := <-ch, <-ch; a != 4 || b != 5 {
		t.Fatalf("pending = %d, %d; want 4, 5", a, b)
	}
}

func TestLatestTick(t *testing.T) {
	ch := make(chan uint64, 4)
	if seq, ok := LatestTick(ch, 7); seq != 7 || ok {
		t.Fatalf("LatestTick(empty) = %d, %v; want 7, false", seq, ok)
	}

	ch <- 8
	ch <- 9
	ch <- 12
	if seq, ok := LatestTick(ch, 7); seq != 12 || !ok {
		t.Fatalf("LatestTick() = %d, %v; want 12, true", seq, ok)
	}
	if len(ch) != 0 {
		t.Fatalf("LatestTick left %d ticks", len(ch))
	}

	ch <- 13
	close(ch)
	if seq, ok := LatestTick(ch, 12); seq != 13 || !ok {
		t.Fatalf("LatestTick(closed) = %d, %v; want 13, true", seq, ok)
	}
}
