// Package storage persists memory channels and a session audit log using
// the same SQLite driver, schema-migration, and prepared-statement style
// as the teacher's message store.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/KJ5HST/FTX-1-Hamlib/pkg/logging"
	"github.com/KJ5HST/FTX-1-Hamlib/pkg/radiomodel"
)

// Store handles persistent storage of memory channels and session events.
// It implements hamlib.ChannelStore.
type Store struct {
	db     *sql.DB
	dbPath string
	log    *logging.Logger
}

// New creates a Store with a SQLite backend at dbPath, creating the file
// and directory if needed.
func New(dbPath string, log *logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.GetGlobalLogger()
	}
	store := &Store{dbPath: dbPath, log: log}
	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	if dir := filepath.Dir(s.dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	if s.dbPath == "" {
		s.dbPath = "./ftx1hamlibd.db"
	}

	connectionString := s.dbPath + "?_busy_timeout=10000&_journal_mode=WAL&_foreign_keys=on"
	db, err := sql.Open("sqlite3", connectionString)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	s.log.Infof("storage", "opened %s", s.dbPath)
	return nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memory_channels (
		channel_number INTEGER PRIMARY KEY,
		frequency_hz   INTEGER NOT NULL,
		mode           TEXT NOT NULL,
		label          TEXT NOT NULL DEFAULT '',
		updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS session_log (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		event      TEXT NOT NULL,
		detail     TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := s.db.Exec(schema)
	if err != nil {
		return err
	}

	_, err = s.db.Exec("CREATE INDEX IF NOT EXISTS idx_session_log_timestamp ON session_log(timestamp DESC)")
	return err
}

// SaveChannel writes or overwrites a memory channel, implementing
// hamlib.ChannelStore.
func (s *Store) SaveChannel(num int, freq uint64, mode radiomodel.Mode) error {
	_, err := s.db.Exec(`
		INSERT INTO memory_channels (channel_number, frequency_hz, mode, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(channel_number) DO UPDATE SET
			frequency_hz = excluded.frequency_hz,
			mode = excluded.mode,
			updated_at = CURRENT_TIMESTAMP
	`, num, freq, string(mode))
	if err != nil {
		return fmt.Errorf("failed to save channel %d: %w", num, err)
	}
	return nil
}

// LoadChannel reads back a previously saved memory channel, implementing
// hamlib.ChannelStore.
func (s *Store) LoadChannel(num int) (uint64, radiomodel.Mode, error) {
	var freq uint64
	var mode string
	err := s.db.QueryRow(`
		SELECT frequency_hz, mode FROM memory_channels WHERE channel_number = ?
	`, num).Scan(&freq, &mode)
	if err == sql.ErrNoRows {
		return 0, "", fmt.Errorf("channel %d not set", num)
	}
	if err != nil {
		return 0, "", fmt.Errorf("failed to load channel %d: %w", num, err)
	}
	return freq, radiomodel.Mode(mode), nil
}

// LogSessionEvent appends one audit row, used for diagnosing a flaky
// serial link or a rigctl client that connects and immediately drops.
func (s *Store) LogSessionEvent(event, detail string) error {
	_, err := s.db.Exec(`
		INSERT INTO session_log (event, detail) VALUES (?, ?)
	`, event, detail)
	if err != nil {
		s.log.Warnf("storage", "failed to log session event %q: %v", event, err)
	}
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
