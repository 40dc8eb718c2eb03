package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
// Each migration should be idempotent (safe to run multiple times).
var migrationsSQL = map[int]string{
	1: migrationV1Festivals,
}

// migrationV1Festivals creates the festivals table.
//
// Key design decisions:
//
// 1. LUNAR DATES NOT GREGORIAN DATES
//   - A festival row stores its lunar month and day only
//   - The Gregorian occurrence shifts every year and is computed at runtime
//   - Example: Tết is always lunar 1/1; in 2024 that was February 10
//
// 2. NO LEAP MONTH COLUMN
//   - Vietnamese festivals are observed in the regular month, never the
//     leap duplicate, so a plain 1-12 month number is enough
//
// 3. UNIQUE NAME
//   - Names are the natural key people import and edit by
//   - Several festivals may share a lunar date (none in the seed data do,
//     but the schema allows it)
const migrationV1Festivals = `
-- Migration 001: festivals table

CREATE TABLE IF NOT EXISTS festivals (
    id INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Vietnamese name, e.g. "Tết Nguyên Đán"
    name TEXT NOT NULL,

    -- Optional English name, e.g. "Lunar New Year"
    name_en TEXT,

    -- Lunar date the festival falls on, regular (non-leap) month
    lunar_month INTEGER NOT NULL CHECK (lunar_month BETWEEN 1 AND 12),
    lunar_day INTEGER NOT NULL CHECK (lunar_day BETWEEN 1 AND 30),

    -- Optional free-text description
    description TEXT,

    -- Public holidays and the big traditional observances
    is_major INTEGER NOT NULL DEFAULT 0 CHECK (is_major IN (0, 1)),

    -- Timestamps for auditing
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE (name)
);

-- The common lookup: festivals on a given lunar date
CREATE INDEX IF NOT EXISTS idx_festivals_lunar_date
    ON festivals(lunar_month, lunar_day);

-- For the calendar feed, which only includes major festivals by default
CREATE INDEX IF NOT EXISTS idx_festivals_major
    ON festivals(is_major)
    WHERE is_major = 1;
`
