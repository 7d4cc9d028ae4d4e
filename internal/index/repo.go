package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/mdxoutline/internal/models"
)

// OutlineRow represents a row in the outlines table.
type OutlineRow struct {
	Path         string
	Checksum     string
	HeadingCount int
	UpdatedAt    time.Time
}

// SearchResult is one heading hit.
type SearchResult struct {
	Path  string `json:"path"`
	Line  int    `json:"line"`
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// UpsertOutline replaces the stored headings of one document within a transaction.
func (db *DB) UpsertOutline(row OutlineRow, headings []models.Heading) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO outlines (path, checksum, heading_count, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			checksum      = excluded.checksum,
			heading_count = excluded.heading_count,
			updated_at    = excluded.updated_at
	`, row.Path, row.Checksum, len(headings), row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert outline: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM headings WHERE path = ?`, row.Path); err != nil {
		return fmt.Errorf("index: clear headings: %w", err)
	}
	if err := ftsDelete(tx, row.Path); err != nil {
		return err
	}

	if len(headings) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO headings (path, line, level, text) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare heading insert: %w", err)
		}
		defer stmt.Close()
		for _, h := range headings {
			if _, err := stmt.Exec(row.Path, h.Line, h.Level, h.Text); err != nil {
				return fmt.Errorf("index: insert heading: %w", err)
			}
		}
	}
	if err := ftsInsert(tx, row.Path, headings); err != nil {
		return err
	}

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a document, or empty string if not indexed.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM outlines WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// Headings returns the stored headings of one document in source order.
func (db *DB) Headings(path string) ([]models.Heading, error) {
	rows, err := db.conn.Query(`SELECT line, level, text FROM headings WHERE path = ? ORDER BY line`, path)
	if err != nil {
		return nil, fmt.Errorf("index: headings: %w", err)
	}
	defer rows.Close()

	out := []models.Heading{}
	for rows.Next() {
		var h models.Heading
		if err := rows.Scan(&h.Line, &h.Level, &h.Text); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ListOutlines returns every indexed document ordered by path.
func (db *DB) ListOutlines() ([]OutlineRow, error) {
	rows, err := db.conn.Query(`SELECT path, checksum, heading_count, updated_at FROM outlines ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("index: list outlines: %w", err)
	}
	defer rows.Close()

	var out []OutlineRow
	for rows.Next() {
		var r OutlineRow
		if err := rows.Scan(&r.Path, &r.Checksum, &r.HeadingCount, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
