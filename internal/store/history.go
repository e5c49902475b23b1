// Package store persists scan history and bookmarks in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"scansector/internal/save"
)

// History records completed scans and user bookmarks.
type History struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// Scan is one recorded parse of a save file.
type Scan struct {
	ID             string
	SavePath       string
	ScannedAt      time.Time
	Systems        int
	Objects        int
	MissionObjects int
	Duration       time.Duration
}

// Bookmark is an object the user flagged in the TUI.
type Bookmark struct {
	ID        int64
	SavePath  string
	System    string
	Object    string
	Kind      save.Kind
	Mission   bool
	X, Y      float64
	CreatedAt time.Time
}

// NewHistory opens (or creates) the history database at path.
func NewHistory(path string) (*History, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	h := &History{db: db, dbPath: path}
	if err := h.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

// initialize creates the required tables.
func (h *History) initialize() error {
	scansTable := `
	CREATE TABLE IF NOT EXISTS scans (
		id TEXT PRIMARY KEY,
		save_path TEXT NOT NULL,
		scanned_at DATETIME NOT NULL,
		systems INTEGER NOT NULL,
		objects INTEGER NOT NULL,
		mission_objects INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_scans_path ON scans(save_path);
	CREATE INDEX IF NOT EXISTS idx_scans_time ON scans(scanned_at);
	`

	bookmarksTable := `
	CREATE TABLE IF NOT EXISTS bookmarks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		save_path TEXT NOT NULL,
		system TEXT NOT NULL,
		object TEXT NOT NULL,
		kind TEXT NOT NULL,
		mission INTEGER NOT NULL DEFAULT 0,
		x REAL NOT NULL,
		y REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(save_path, system, object)
	);
	CREATE INDEX IF NOT EXISTS idx_bookmarks_path ON bookmarks(save_path);
	`

	for _, table := range []string{scansTable, bookmarksTable} {
		if _, err := h.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (h *History) Close() error {
	return h.db.Close()
}

// RecordScan stores the outcome of a parsed save and returns the scan id.
func (h *History) RecordScan(s *save.Save) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.NewString()
	_, err := h.db.Exec(
		`INSERT INTO scans (id, save_path, scanned_at, systems, objects, mission_objects, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, s.Path, time.Now().UTC(), s.Stats.Systems, s.Stats.Objects,
		s.Stats.MissionObjects, s.Stats.Elapsed.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record scan: %w", err)
	}
	return id, nil
}

// RecentScans returns the latest scans, newest first.
func (h *History) RecentScans(limit int) ([]Scan, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.Query(
		`SELECT id, save_path, scanned_at, systems, objects, mission_objects, duration_ms
		 FROM scans ORDER BY scanned_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scans: %w", err)
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		var s Scan
		var ms int64
		if err := rows.Scan(&s.ID, &s.SavePath, &s.ScannedAt, &s.Systems,
			&s.Objects, &s.MissionObjects, &ms); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		s.Duration = time.Duration(ms) * time.Millisecond
		scans = append(scans, s)
	}
	return scans, rows.Err()
}

// AddBookmark flags an object. Re-bookmarking the same object refreshes
// its position rather than erroring.
func (h *History) AddBookmark(savePath, system string, o save.Object) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.db.Exec(
		`INSERT INTO bookmarks (save_path, system, object, kind, mission, x, y)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(save_path, system, object)
		 DO UPDATE SET kind = excluded.kind, mission = excluded.mission,
		               x = excluded.x, y = excluded.y`,
		savePath, system, o.Name, string(o.Kind), o.Mission, o.Pos.X, o.Pos.Y,
	)
	if err != nil {
		return fmt.Errorf("failed to add bookmark: %w", err)
	}
	return nil
}

// RemoveBookmark drops a flagged object. Removing a missing bookmark is
// not an error.
func (h *History) RemoveBookmark(savePath, system, object string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.db.Exec(
		`DELETE FROM bookmarks WHERE save_path = ? AND system = ? AND object = ?`,
		savePath, system, object)
	if err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}
	return nil
}

// Bookmarks returns the flagged objects for a save file.
func (h *History) Bookmarks(savePath string) ([]Bookmark, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rows, err := h.db.Query(
		`SELECT id, save_path, system, object, kind, mission, x, y, created_at
		 FROM bookmarks WHERE save_path = ? ORDER BY system, object`, savePath)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	var marks []Bookmark
	for rows.Next() {
		var b Bookmark
		var kind string
		if err := rows.Scan(&b.ID, &b.SavePath, &b.System, &b.Object, &kind,
			&b.Mission, &b.X, &b.Y, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		b.Kind = save.Kind(kind)
		marks = append(marks, b)
	}
	return marks, rows.Err()
}

// IsBookmarked reports whether the object is currently flagged.
func (h *History) IsBookmarked(savePath, system, object string) (bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var n int
	err := h.db.QueryRow(
		`SELECT COUNT(*) FROM bookmarks WHERE save_path = ? AND system = ? AND object = ?`,
		savePath, system, object).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query bookmark: %w", err)
	}
	return n > 0, nil
}
