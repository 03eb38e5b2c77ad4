// Package stats aggregates per-run delivery statistics. Stats values are
// plain data: updates go through RecordBatch, persistence happens at the
// call site.
package stats

import (
	"sort"
	"time"

	"github.com/mbruegger/wallcast/internal/wallpaper"
)

// DailyRetention caps the per-day map at the most recent dates.
const DailyRetention = 30

// Stats holds cumulative delivery statistics.
type Stats struct {
	TotalSent         int
	SuccessfulBatches int
	FailedBatches     int
	FilteredImages    int
	SourcesUsed       map[wallpaper.Source]int
	DailyStats        map[string]int // ISO date -> sent count
	StartTime         time.Time
	LastBatchTime     time.Time
}

// New returns zeroed stats with every source present in SourcesUsed.
func New(now time.Time) Stats {
	used := make(map[wallpaper.Source]int, len(wallpaper.Sources()))
	for _, src := range wallpaper.Sources() {
		used[src] = 0
	}
	return Stats{
		SourcesUsed: used,
		DailyStats:  make(map[string]int),
		StartTime:   now,
	}
}

// RecordBatch folds one batch outcome into the stats. A batch that sent zero
// items counts as failed, even when candidates existed; the difference
// between candidates and sends is counted as filtered.
func RecordBatch(s Stats, source wallpaper.Source, sent, totalCandidates int, now time.Time) Stats {
	if s.SourcesUsed == nil {
		s.SourcesUsed = make(map[wallpaper.Source]int)
	}
	if s.DailyStats == nil {
		s.DailyStats = make(map[string]int)
	}

	s.TotalSent += sent
	s.SourcesUsed[source] += sent

	if sent > 0 {
		s.SuccessfulBatches++
	} else {
		s.FailedBatches++
	}

	s.FilteredImages += totalCandidates - sent
	s.LastBatchTime = now

	day := now.Format("2006-01-02")
	s.DailyStats[day] += sent
	pruneDaily(s.DailyStats)

	return s
}

// pruneDaily evicts the oldest dates until at most DailyRetention remain.
// ISO dates order lexicographically, so a plain string sort suffices.
func pruneDaily(daily map[string]int) {
	if len(daily) <= DailyRetention {
		return
	}
	dates := make([]string, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, old := range dates[:len(dates)-DailyRetention] {
		delete(daily, old)
	}
}

// Uptime returns how long the bot has been tracking stats.
func (s Stats) Uptime(now time.Time) time.Duration {
	return now.Sub(s.StartTime)
}

// SuccessRate returns the successful-batch percentage (0..100).
func (s Stats) SuccessRate() float64 {
	total := s.SuccessfulBatches + s.FailedBatches
	if total == 0 {
		return 0
	}
	return float64(s.SuccessfulBatches) / float64(total) * 100
}

// AvgDaily returns the mean sent count across tracked days.
func (s Stats) AvgDaily() float64 {
	if len(s.DailyStats) == 0 {
		return 0
	}
	sum := 0
	for _, n := range s.DailyStats {
		sum += n
	}
	return float64(sum) / float64(len(s.DailyStats))
}

// RecentDays returns up to n of the newest (date, count) pairs, newest first.
func (s Stats) RecentDays(n int) []DayCount {
	dates := make([]string, 0, len(s.DailyStats))
	for d := range s.DailyStats {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > n {
		dates = dates[:n]
	}
	out := make([]DayCount, len(dates))
	for i, d := range dates {
		out[i] = DayCount{Date: d, Sent: s.DailyStats[d]}
	}
	return out
}

// DayCount is one per-day bucket, used for reporting.
type DayCount struct {
	Date string
	Sent int
}
