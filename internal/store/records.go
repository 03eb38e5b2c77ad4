package store

import (
	"fmt"
	"time"

	"github.com/mbruegger/wallcast/internal/wallpaper"
)

// LoadRecords returns all persisted sent-image records. An empty database
// yields an empty slice, not an error.
func (s *Store) LoadRecords() ([]wallpaper.SentRecord, error) {
	rows, err := s.conn.Query(
		`SELECT url, hash, source, sent_at, query, channel_id FROM sent_images`)
	if err != nil {
		return nil, fmt.Errorf("querying sent images: %w", err)
	}
	defer rows.Close()

	var records []wallpaper.SentRecord
	for rows.Next() {
		var rec wallpaper.SentRecord
		var source, sentAt string
		if err := rows.Scan(&rec.URL, &rec.Hash, &source, &sentAt, &rec.Query, &rec.ChannelID); err != nil {
			return nil, fmt.Errorf("scanning sent image: %w", err)
		}
		rec.Source = wallpaper.ParseSource(source)
		if t, err := time.Parse(time.RFC3339, sentAt); err == nil {
			rec.SentAt = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SaveRecords replaces the full persisted record set in one transaction.
// The save either fully succeeds or the prior state remains intact.
func (s *Store) SaveRecords(records []wallpaper.SentRecord) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM sent_images`); err != nil {
		tx.Rollback()
		return fmt.Errorf("clearing sent images: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO sent_images (url, hash, source, sent_at, query, channel_id)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.Exec(rec.URL, rec.Hash, string(rec.Source),
			rec.SentAt.Format(time.RFC3339), rec.Query, rec.ChannelID)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting %s: %w", rec.URL, err)
		}
	}

	return tx.Commit()
}
