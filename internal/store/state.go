package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mbruegger/wallcast/internal/rotation"
	"github.com/mbruegger/wallcast/internal/stats"
	"github.com/mbruegger/wallcast/internal/wallpaper"
)

// LoadStats returns the persisted run statistics, or zeroed defaults when
// none have been saved yet.
func (s *Store) LoadStats() (stats.Stats, error) {
	row := s.conn.QueryRow(
		`SELECT total_sent, successful_batches, failed_batches, filtered_images,
		sources_used, daily_stats, start_time, last_batch_time
		FROM bot_stats WHERE id = 1`)

	st := stats.New(time.Now())
	var sourcesJSON, dailyJSON, startTime string
	var lastBatch sql.NullString
	err := row.Scan(&st.TotalSent, &st.SuccessfulBatches, &st.FailedBatches,
		&st.FilteredImages, &sourcesJSON, &dailyJSON, &startTime, &lastBatch)
	if err == sql.ErrNoRows {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("loading stats: %w", err)
	}

	var used map[string]int
	if err := json.Unmarshal([]byte(sourcesJSON), &used); err == nil {
		for name, n := range used {
			st.SourcesUsed[wallpaper.ParseSource(name)] = n
		}
	}
	if err := json.Unmarshal([]byte(dailyJSON), &st.DailyStats); err != nil {
		st.DailyStats = make(map[string]int)
	}
	if t, err := time.Parse(time.RFC3339, startTime); err == nil {
		st.StartTime = t
	}
	if lastBatch.Valid {
		if t, err := time.Parse(time.RFC3339, lastBatch.String); err == nil {
			st.LastBatchTime = t
		}
	}
	return st, nil
}

// SaveStats upserts the full stats record.
func (s *Store) SaveStats(st stats.Stats) error {
	used := make(map[string]int, len(st.SourcesUsed))
	for src, n := range st.SourcesUsed {
		used[string(src)] = n
	}
	sourcesJSON, err := json.Marshal(used)
	if err != nil {
		return fmt.Errorf("encoding sources: %w", err)
	}
	dailyJSON, err := json.Marshal(st.DailyStats)
	if err != nil {
		return fmt.Errorf("encoding daily stats: %w", err)
	}

	var lastBatch any
	if !st.LastBatchTime.IsZero() {
		lastBatch = st.LastBatchTime.Format(time.RFC3339)
	}

	_, err = s.conn.Exec(
		`INSERT OR REPLACE INTO bot_stats
		(id, total_sent, successful_batches, failed_batches, filtered_images,
		sources_used, daily_stats, start_time, last_batch_time)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.TotalSent, st.SuccessfulBatches, st.FailedBatches, st.FilteredImages,
		string(sourcesJSON), string(dailyJSON),
		st.StartTime.Format(time.RFC3339), lastBatch)
	if err != nil {
		return fmt.Errorf("saving stats: %w", err)
	}
	return nil
}

// LoadRotation returns the persisted rotation state, defaulting to index 0.
func (s *Store) LoadRotation() (rotation.State, error) {
	row := s.conn.QueryRow(
		`SELECT current_index, last_rotated FROM source_rotation WHERE id = 1`)

	var (
		st          rotation.State
		lastRotated string
	)
	err := row.Scan(&st.Index, &lastRotated)
	if err == sql.ErrNoRows {
		return rotation.State{LastRotated: time.Now()}, nil
	}
	if err != nil {
		return st, fmt.Errorf("loading rotation: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, lastRotated); err == nil {
		st.LastRotated = t
	}
	return st, nil
}

// SaveRotation upserts the rotation state.
func (s *Store) SaveRotation(st rotation.State) error {
	_, err := s.conn.Exec(
		`INSERT OR REPLACE INTO source_rotation (id, current_index, last_rotated)
		VALUES (1, ?, ?)`,
		st.Index, st.LastRotated.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving rotation: %w", err)
	}
	return nil
}
