package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns nil if parsing fails.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	// Try RFC3339 format first (with timezone)
	t, err := time.Parse(time.RFC3339, ns.String)
	if err == nil {
		return &t
	}

	// Try SQLite datetime format (no timezone)
	t, err = time.Parse("2006-01-02 15:04:05", ns.String)
	if err == nil {
		return &t
	}

	return nil
}

// mapConstraintError converts SQLite unique-constraint violations to
// ErrDuplicate so callers don't need to know about driver error codes.
func mapConstraintError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrDuplicate
	}
	return err
}

// execer is satisfied by both *DB and *Tx so inserts can run standalone
// or inside a transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// =============================================================================
// Festival Queries
// =============================================================================

const festivalColumns = `
	id, name, name_en, lunar_month, lunar_day,
	description, is_major, created_at, updated_at
`

// scanFestival reads one festival row. Works for both QueryRow and Rows.
func scanFestival(scan func(dest ...any) error) (*Festival, error) {
	var f Festival
	var nameEn, description, createdAt, updatedAt sql.NullString

	err := scan(
		&f.ID,
		&f.Name,
		&nameEn,
		&f.LunarMonth,
		&f.LunarDay,
		&description,
		&f.IsMajor,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if nameEn.Valid {
		f.NameEn = &nameEn.String
	}
	if description.Valid {
		f.Description = &description.String
	}
	if t := parseTimestamp(createdAt); t != nil {
		f.CreatedAt = *t
	}
	if t := parseTimestamp(updatedAt); t != nil {
		f.UpdatedAt = *t
	}

	return &f, nil
}

// ListFestivals returns all festivals ordered by lunar date.
func (db *DB) ListFestivals(ctx context.Context) ([]Festival, error) {
	query := `
		SELECT ` + festivalColumns + `
		FROM festivals
		ORDER BY lunar_month, lunar_day, name
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query festivals: %w", err)
	}
	defer rows.Close()

	var festivals []Festival
	for rows.Next() {
		f, err := scanFestival(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan festival row: %w", err)
		}
		festivals = append(festivals, *f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate festival rows: %w", err)
	}

	return festivals, nil
}

// GetFestival retrieves a festival by ID.
// Returns ErrNotFound if no festival has that ID.
func (db *DB) GetFestival(ctx context.Context, id int64) (*Festival, error) {
	query := `
		SELECT ` + festivalColumns + `
		FROM festivals
		WHERE id = ?
	`

	f, err := scanFestival(db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query festival by id: %w", err)
	}

	return f, nil
}

// GetFestivalsByLunarDate returns the festivals observed on a lunar date.
// Returns an empty slice when the date has none.
//
// This backs the per-day conversion responses, so it runs on the hot path.
func (db *DB) GetFestivalsByLunarDate(ctx context.Context, month, day int) ([]Festival, error) {
	query := `
		SELECT ` + festivalColumns + `
		FROM festivals
		WHERE lunar_month = ? AND lunar_day = ?
		ORDER BY is_major DESC, name
	`

	rows, err := db.QueryContext(ctx, query, month, day)
	if err != nil {
		return nil, fmt.Errorf("query festivals by lunar date: %w", err)
	}
	defer rows.Close()

	var festivals []Festival
	for rows.Next() {
		f, err := scanFestival(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan festival row: %w", err)
		}
		festivals = append(festivals, *f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate festival rows: %w", err)
	}

	return festivals, nil
}

// createFestival inserts a festival using any execer (DB or Tx).
// Sets f.ID on success.
func createFestival(ctx context.Context, ex execer, f *Festival) error {
	query := `
		INSERT INTO festivals (
			name, name_en, lunar_month, lunar_day, description, is_major
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := ex.ExecContext(ctx, query,
		f.Name,
		f.NameEn,
		f.LunarMonth,
		f.LunarDay,
		f.Description,
		f.IsMajor,
	)
	if err != nil {
		return fmt.Errorf("insert festival: %w", mapConstraintError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get festival id: %w", err)
	}
	f.ID = id

	return nil
}

// CreateFestival inserts a new festival and sets its ID.
// Returns ErrDuplicate (wrapped) when the name is already taken.
func (db *DB) CreateFestival(ctx context.Context, f *Festival) error {
	return createFestival(ctx, db, f)
}

// CreateFestival inserts a new festival within the transaction.
func (tx *Tx) CreateFestival(ctx context.Context, f *Festival) error {
	return createFestival(ctx, tx, f)
}

// UpdateFestival updates an existing festival by ID.
// Returns ErrNotFound if the ID doesn't exist.
func (db *DB) UpdateFestival(ctx context.Context, f *Festival) error {
	query := `
		UPDATE festivals
		SET name = ?, name_en = ?, lunar_month = ?, lunar_day = ?,
		    description = ?, is_major = ?, updated_at = datetime('now')
		WHERE id = ?
	`

	result, err := db.ExecContext(ctx, query,
		f.Name,
		f.NameEn,
		f.LunarMonth,
		f.LunarDay,
		f.Description,
		f.IsMajor,
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("update festival: %w", mapConstraintError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteFestival removes a festival by ID.
// Returns ErrNotFound if the ID doesn't exist.
func (db *DB) DeleteFestival(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM festivals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete festival: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// GetFestivalStats returns counts for the health endpoint and importer.
func (db *DB) GetFestivalStats(ctx context.Context) (*FestivalStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(is_major), 0) AS major
		FROM festivals
	`

	var stats FestivalStats
	if err := db.QueryRowContext(ctx, query).Scan(&stats.Total, &stats.Major); err != nil {
		return nil, fmt.Errorf("query festival stats: %w", err)
	}

	return &stats, nil
}
