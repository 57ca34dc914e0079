package memory

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDriver persists conversation runs in a local SQLite database.
type SQLiteDriver struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteDriver creates or opens the conversation database at dbPath,
// creating parent directories as needed.
func NewSQLiteDriver(dbPath string) (*SQLiteDriver, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	d := &SQLiteDriver{db: db, dbPath: dbPath}
	if err := d.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return d, nil
}

// Close closes the database connection.
func (d *SQLiteDriver) Close() error {
	return d.db.Close()
}

// Path returns the database file path.
func (d *SQLiteDriver) Path() string {
	return d.dbPath
}

func (d *SQLiteDriver) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		input TEXT NOT NULL,
		output TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	_, err := d.db.Exec(schema)
	return err
}

// Store appends one run.
func (d *SQLiteDriver) Store(run Run) error {
	_, err := d.db.Exec(
		`INSERT INTO runs (id, input, output) VALUES (?, ?, ?)`,
		run.ID, run.Input, run.Output,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Load returns all persisted runs in insertion order.
func (d *SQLiteDriver) Load() ([]Run, error) {
	rows, err := d.db.Query(`SELECT id, input, output FROM runs ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Input, &run.Output); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
