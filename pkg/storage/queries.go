package storage

import (
	"fmt"
	"time"
)

// ChannelRecord is one row of the memory_channels table.
type ChannelRecord struct {
	Number      int       `json:"channel_number"`
	FrequencyHz uint64    `json:"frequency_hz"`
	Mode        string    `json:"mode"`
	Label       string    `json:"label"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SessionEvent is one row of the session_log table.
type SessionEvent struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"`
	Detail    string    `json:"detail"`
}

// ListChannels returns every stored memory channel, ordered by channel
// number.
func (s *Store) ListChannels() ([]ChannelRecord, error) {
	rows, err := s.db.Query(`
		SELECT channel_number, frequency_hz, mode, label, updated_at
		FROM memory_channels
		ORDER BY channel_number ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query channels: %w", err)
	}
	defer rows.Close()

	var channels []ChannelRecord
	for rows.Next() {
		var c ChannelRecord
		if err := rows.Scan(&c.Number, &c.FrequencyHz, &c.Mode, &c.Label, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}
		channels = append(channels, c)
	}
	return channels, rows.Err()
}

// DeleteChannel clears a previously saved memory channel.
func (s *Store) DeleteChannel(num int) error {
	_, err := s.db.Exec("DELETE FROM memory_channels WHERE channel_number = ?", num)
	if err != nil {
		return fmt.Errorf("failed to delete channel %d: %w", num, err)
	}
	return nil
}

// RecentSessionEvents retrieves the most recent session_log rows, newest
// first.
func (s *Store) RecentSessionEvents(limit int) ([]SessionEvent, error) {
	query := `
		SELECT id, timestamp, event, detail
		FROM session_log
		ORDER BY timestamp DESC, id DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query session log: %w", err)
	}
	defer rows.Close()

	var events []SessionEvent
	for rows.Next() {
		var e SessionEvent
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Event, &e.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan session event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// SessionEventCount returns the total number of logged session events.
func (s *Store) SessionEventCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM session_log").Scan(&count)
	return count, err
}
