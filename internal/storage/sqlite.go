package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/m2rads/e2e/pkg/types"
)

// Cache stores per-file analyses keyed by content hash so re-runs skip
// unchanged files, plus a log of generation runs. Cache failures are
// logged by callers and never fatal to a run.
type Cache struct {
	db *sql.DB
}

// Open creates (or opens) the cache database under dir.
func Open(dir string) (*Cache, error) {
	dbPath := filepath.Join(dir, "cache", "analysis.db")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=10000", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Single connection keeps locking simple for a sequential pipeline
	db.SetMaxOpenConns(1)

	c := &Cache{db: db}
	if err := c.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		path TEXT PRIMARY KEY,
		content_hash TEXT NOT NULL,
		analysis TEXT NOT NULL,
		analyzed_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		model TEXT,
		root TEXT,
		chunks INTEGER,
		artifacts INTEGER,
		started_at INTEGER,
		finished_at INTEGER
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// HashContent returns the cache key for a file's raw bytes
func HashContent(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// GetAnalysis returns the cached analysis for path when the stored
// content hash still matches.
func (c *Cache) GetAnalysis(path, contentHash string) (*types.ComponentAnalysis, bool) {
	var stored string
	var hash string
	err := c.db.QueryRow(
		`SELECT content_hash, analysis FROM analyses WHERE path = ?`, path,
	).Scan(&hash, &stored)
	if err != nil || hash != contentHash {
		return nil, false
	}

	var analysis types.ComponentAnalysis
	if err := json.Unmarshal([]byte(stored), &analysis); err != nil {
		return nil, false
	}
	return &analysis, true
}

// PutAnalysis stores (or replaces) a file's analysis.
func (c *Cache) PutAnalysis(path, contentHash string, analysis *types.ComponentAnalysis) error {
	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("marshaling analysis for %s: %w", path, err)
	}
	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO analyses (path, content_hash, analysis, analyzed_at) VALUES (?, ?, ?, ?)`,
		path, contentHash, string(data), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("storing analysis for %s: %w", path, err)
	}
	return nil
}

// RecordRun appends one generation run to the log.
func (c *Cache) RecordRun(run types.GenerationRun) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO runs (id, model, root, chunks, artifacts, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Model, run.Root, run.Chunks, run.Artifacts,
		run.StartedAt.Unix(), run.FinishedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", run.ID, err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (c *Cache) RecentRuns(limit int) ([]types.GenerationRun, error) {
	rows, err := c.db.Query(
		`SELECT id, model, root, chunks, artifacts, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []types.GenerationRun
	for rows.Next() {
		var run types.GenerationRun
		var started, finished int64
		if err := rows.Scan(&run.ID, &run.Model, &run.Root, &run.Chunks, &run.Artifacts, &started, &finished); err != nil {
			return nil, err
		}
		run.StartedAt = time.Unix(started, 0)
		run.FinishedAt = time.Unix(finished, 0)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
