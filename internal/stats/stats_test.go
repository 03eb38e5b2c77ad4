package stats

import (
	"fmt"
	"testing"
	"time"

	"github.com/mbruegger/wallcast/internal/wallpaper"
)

func TestNewHasAllSourcesZeroed(t *testing.T) {
	s := New(time.Now())
	for _, src := range wallpaper.Sources() {
		n, ok := s.SourcesUsed[src]
		if !ok {
			t.Errorf("source %s missing from SourcesUsed", src)
		}
		if n != 0 {
			t.Errorf("source %s not zeroed: %d", src, n)
		}
	}
}

func TestRecordBatchSuccess(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	s := New(now)

	s = RecordBatch(s, wallpaper.SourceUnsplash, 3, 5, now)

	if s.TotalSent != 3 {
		t.Errorf("TotalSent = %d, want 3", s.TotalSent)
	}
	if s.SuccessfulBatches != 1 || s.FailedBatches != 0 {
		t.Errorf("batches = %d/%d, want 1/0", s.SuccessfulBatches, s.FailedBatches)
	}
	if s.FilteredImages != 2 {
		t.Errorf("FilteredImages = %d, want 2", s.FilteredImages)
	}
	if s.SourcesUsed[wallpaper.SourceUnsplash] != 3 {
		t.Errorf("unsplash total = %d, want 3", s.SourcesUsed[wallpaper.SourceUnsplash])
	}
	if s.DailyStats["2026-08-26"] != 3 {
		t.Errorf("daily bucket = %d, want 3", s.DailyStats["2026-08-26"])
	}
	if !s.LastBatchTime.Equal(now) {
		t.Errorf("LastBatchTime = %v, want %v", s.LastBatchTime, now)
	}
}

func TestRecordBatchZeroSentIsFailed(t *testing.T) {
	now := time.Now()
	s := New(now)

	s = RecordBatch(s, wallpaper.SourcePexels, 0, 5, now)

	if s.FailedBatches != 1 {
		t.Errorf("FailedBatches = %d, want 1", s.FailedBatches)
	}
	if s.SuccessfulBatches != 0 {
		t.Errorf("SuccessfulBatches = %d, want 0", s.SuccessfulBatches)
	}
	if s.FilteredImages != 5 {
		t.Errorf("FilteredImages = %d, want 5", s.FilteredImages)
	}
	if s.TotalSent != 0 {
		t.Errorf("TotalSent = %d, want 0", s.TotalSent)
	}
}

func TestDailyRetentionKeepsNewest30(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New(base)

	for i := 0; i < 31; i++ {
		s = RecordBatch(s, wallpaper.SourcePexels, 1, 1, base.AddDate(0, 0, i))
	}

	if len(s.DailyStats) != DailyRetention {
		t.Fatalf("daily map has %d entries, want %d", len(s.DailyStats), DailyRetention)
	}
	if _, ok := s.DailyStats["2026-01-01"]; ok {
		t.Error("oldest bucket should have been evicted")
	}
	if _, ok := s.DailyStats["2026-01-31"]; !ok {
		t.Error("newest bucket should be retained")
	}
	// All 30 retained dates must be the most recent ones.
	for i := 1; i < 31; i++ {
		day := base.AddDate(0, 0, i).Format("2006-01-02")
		if _, ok := s.DailyStats[day]; !ok {
			t.Errorf("expected %s to be retained", day)
		}
	}
}

func TestSuccessRate(t *testing.T) {
	now := time.Now()
	s := New(now)
	if s.SuccessRate() != 0 {
		t.Error("empty stats should report 0 success rate")
	}
	s = RecordBatch(s, wallpaper.SourcePexels, 2, 2, now)
	s = RecordBatch(s, wallpaper.SourcePexels, 0, 2, now)
	if got := s.SuccessRate(); got != 50 {
		t.Errorf("SuccessRate = %v, want 50", got)
	}
}

func TestRecentDaysNewestFirst(t *testing.T) {
	s := New(time.Now())
	for i := 1; i <= 5; i++ {
		s.DailyStats[fmt.Sprintf("2026-08-0%d", i)] = i
	}
	days := s.RecentDays(3)
	if len(days) != 3 {
		t.Fatalf("got %d days, want 3", len(days))
	}
	if days[0].Date != "2026-08-05" || days[2].Date != "2026-08-03" {
		t.Errorf("unexpected ordering: %v", days)
	}
}
