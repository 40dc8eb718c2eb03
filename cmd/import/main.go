// Command import loads the festival seed JSON into the SQLite database.
//
// Usage:
//
//	go run ./cmd/import -file data/festivals.json -db data/amlich.db
//
// This tool:
// 1. Creates/opens the SQLite database
// 2. Runs migrations to ensure schema is current
// 3. Parses the festival JSON file
// 4. Imports all festivals in a single transaction
//
// The import fails on duplicate festival names unless -skip is set, in
// which case existing festivals are left untouched.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lichviet/amlich-api/internal/database"
)

// seedFile is the on-disk shape of data/festivals.json.
type seedFile struct {
	Metadata struct {
		Source      string `json:"source"`
		GeneratedAt string `json:"generated_at"`
	} `json:"metadata"`
	Festivals []database.Festival `json:"festivals"`
}

// importStats tracks import statistics.
type importStats struct {
	Imported int
	Skipped  int
	Major    int
}

func main() {
	// Parse command line flags
	filePath := flag.String("file", "data/festivals.json", "Path to festival JSON file")
	dbPath := flag.String("db", "data/amlich.db", "Path to SQLite database")
	skip := flag.Bool("skip", false, "Skip festivals that already exist instead of failing")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Setup logger
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// Run import
	if err := run(*filePath, *dbPath, *skip, logger); err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import complete")
}

func run(filePath, dbPath string, skip bool, logger *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	// =========================================================================
	// Step 1: Read and parse JSON
	// =========================================================================
	logger.Info("reading festival file", slog.String("path", filePath))

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read festival file: %w", err)
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}

	logger.Info("parsed JSON",
		slog.Int("festivals", len(seed.Festivals)),
		slog.String("source", seed.Metadata.Source),
		slog.String("generated_at", seed.Metadata.GeneratedAt),
	)

	// Validate everything before touching the database
	for i := range seed.Festivals {
		if err := seed.Festivals[i].Validate(); err != nil {
			return fmt.Errorf("festival %d (%s): %w", i+1, seed.Festivals[i].Name, err)
		}
	}

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	logger.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 3: Import in a transaction
	// =========================================================================
	logger.Info("starting import")

	var stats importStats
	err = db.WithTx(ctx, func(tx *database.Tx) error {
		return importFestivals(ctx, tx, seed.Festivals, skip, logger, &stats)
	})
	if err != nil {
		return fmt.Errorf("import data: %w", err)
	}

	// =========================================================================
	// Step 4: Verify import
	// =========================================================================
	dbStats, err := db.GetFestivalStats(ctx)
	if err != nil {
		return fmt.Errorf("count festivals: %w", err)
	}

	elapsed := time.Since(startTime)

	logger.Info("import verified",
		slog.Int("total_in_db", dbStats.Total),
		slog.Int("major_in_db", dbStats.Major),
		slog.Duration("elapsed", elapsed),
	)

	// Print summary
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("Festivals imported:  %d\n", stats.Imported)
	fmt.Printf("Skipped (existing):  %d\n", stats.Skipped)
	fmt.Printf("Major festivals:     %d\n", stats.Major)
	fmt.Printf("Time elapsed:        %v\n", elapsed.Round(time.Millisecond))

	return nil
}

// importFestivals inserts all festivals, honoring the skip flag for
// names already present.
func importFestivals(ctx context.Context, tx *database.Tx, festivals []database.Festival, skip bool, logger *slog.Logger, stats *importStats) error {
	for i := range festivals {
		f := &festivals[i]

		err := tx.CreateFestival(ctx, f)
		if err != nil {
			if skip && errors.Is(err, database.ErrDuplicate) {
				stats.Skipped++
				logger.Debug("skipping existing festival", slog.String("name", f.Name))
				continue
			}
			return fmt.Errorf("create festival %d (%s): %w", i+1, f.Name, err)
		}

		stats.Imported++
		if f.IsMajor {
			stats.Major++
		}

		logger.Debug("imported festival",
			slog.String("name", f.Name),
			slog.Int("lunar_month", f.LunarMonth),
			slog.Int("lunar_day", f.LunarDay),
		)
	}

	return nil
}
