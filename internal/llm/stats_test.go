package llm

import (
	"testing"
	"time"
)

func TestStats_EmptySnapshot(t *testing.T) {
	s := NewStats(time.Hour)
	snap := s.Snapshot()
	if snap.Count != 0 || snap.MinMs != 0 || snap.AvgMs != 0 {
		t.Errorf("expected zero snapshot, got %+v", snap)
	}
}

func TestStats_Aggregates(t *testing.T) {
	s := NewStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400} {
		s.Record(ms)
	}

	snap := s.Snapshot()
	if snap.Count != 4 {
		t.Fatalf("count: got %d, want 4", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 400 {
		t.Errorf("min/max: got %d/%d, want 100/400", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 250 {
		t.Errorf("avg: got %v, want 250", snap.AvgMs)
	}
	if snap.P50Ms != 250 {
		t.Errorf("p50: got %v, want 250", snap.P50Ms)
	}
}

func TestStats_NegativeClampedToZero(t *testing.T) {
	s := NewStats(time.Hour)
	s.Record(-50)
	if snap := s.Snapshot(); snap.MinMs != 0 {
		t.Errorf("expected negative sample clamped to 0, got %d", snap.MinMs)
	}
}

func TestPercentile(t *testing.T) {
	sorted := []int64{10, 20, 30, 40, 50}
	cases := []struct {
		pct  float64
		want float64
	}{
		{0, 10},
		{50, 30},
		{100, 50},
		{25, 20},
	}
	for _, tc := range cases {
		if got := percentile(sorted, tc.pct); got != tc.want {
			t.Errorf("percentile(%v) = %v, want %v", tc.pct, got, tc.want)
		}
	}
	if got := percentile(nil, 50); got != 0 {
		t.Errorf("empty percentile: got %v, want 0", got)
	}
}
