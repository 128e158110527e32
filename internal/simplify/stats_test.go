package simplify

import (
	"math"
	"testing"
	"time"
)

func TestLLMStats_Snapshot(t *testing.T) {
	s := NewLLMStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		s.Record(time.Duration(ms)*time.Millisecond, ms == 500)
	}

	snap := s.Snapshot()
	if snap.Attempts != 5 || snap.Failures != 1 {
		t.Errorf("expected 5 attempts and 1 failure, got %+v", snap)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Errorf("expected min 100 max 500, got %d/%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Errorf("expected avg 300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Errorf("expected p50 300, got %f", snap.P50Ms)
	}
	if math.Abs(snap.P95Ms-480) > 0.001 {
		t.Errorf("expected p95 480, got %f", snap.P95Ms)
	}
}

func TestLLMStats_PrunesOldSamples(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewLLMStats(time.Minute)
	s.now = func() time.Time { return now }

	s.Record(time.Second, false)
	now = now.Add(2 * time.Minute)
	s.Record(2*time.Second, false)

	snap := s.Snapshot()
	if snap.Attempts != 1 || snap.MinMs != 2000 {
		t.Errorf("expected only the recent sample, got %+v", snap)
	}
}

func TestLLMStats_NilIsSafe(t *testing.T) {
	var s *LLMStats
	s.Record(time.Second, true)
	if snap := s.Snapshot(); snap.Attempts != 0 {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
}
