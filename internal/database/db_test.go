package database

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"
)

// testDB creates a temporary in-memory database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	cfg := Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}

	// Quiet logger for tests
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	db, err := Open(cfg, logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	// Run migrations
	ctx := context.Background()
	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// seedTestData inserts sample festivals for testing.
func seedTestData(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()

	festivals := []Festival{
		{Name: "Tết Nguyên Đán", NameEn: strPtr("Lunar New Year"), LunarMonth: 1, LunarDay: 1, IsMajor: true},
		{Name: "Tết Trung Thu", NameEn: strPtr("Mid-Autumn Festival"), LunarMonth: 8, LunarDay: 15, IsMajor: true},
		{Name: "Tết Hàn Thực", NameEn: strPtr("Cold Food Festival"), LunarMonth: 3, LunarDay: 3, IsMajor: false},
	}

	for i := range festivals {
		if err := db.CreateFestival(ctx, &festivals[i]); err != nil {
			t.Fatalf("create test festival %q: %v", festivals[i].Name, err)
		}
	}
}

func strPtr(s string) *string {
	return &s
}

// -----------------------------------------------------------------
// DB tests
// -----------------------------------------------------------------

func TestOpen(t *testing.T) {
	db := testDB(t)

	// Verify connection works
	ctx := context.Background()
	if err := db.Health(ctx); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

func TestMigrate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Migrations should have run (in testDB)
	// Running again should be a no-op
	count, err := db.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Migrate() count = %d, want 0 (already applied)", count)
	}
}

// -----------------------------------------------------------------
// Festival tests
// -----------------------------------------------------------------

func TestCreateFestival(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	f := &Festival{
		Name:       "Tết Đoan Ngọ",
		NameEn:     strPtr("Mid-Year Festival"),
		LunarMonth: 5,
		LunarDay:   5,
		IsMajor:    true,
	}

	err := db.CreateFestival(ctx, f)
	if err != nil {
		t.Fatalf("CreateFestival() error = %v", err)
	}

	if f.ID == 0 {
		t.Error("CreateFestival() did not set ID")
	}

	// Verify we can retrieve it
	got, err := db.GetFestival(ctx, f.ID)
	if err != nil {
		t.Fatalf("GetFestival() error = %v", err)
	}

	if got.Name != "Tết Đoan Ngọ" {
		t.Errorf("retrieved name = %q, want %q", got.Name, "Tết Đoan Ngọ")
	}
	if got.NameEn == nil || *got.NameEn != "Mid-Year Festival" {
		t.Errorf("retrieved name_en = %v, want %q", got.NameEn, "Mid-Year Festival")
	}
	if got.LunarMonth != 5 || got.LunarDay != 5 {
		t.Errorf("retrieved lunar date = %d/%d, want 5/5", got.LunarDay, got.LunarMonth)
	}
	if !got.IsMajor {
		t.Error("retrieved is_major = false, want true")
	}
	if got.CreatedAt.IsZero() {
		t.Error("retrieved created_at is zero")
	}
}

func TestCreateFestival_Duplicate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	f := &Festival{Name: "Tết Nguyên Đán", LunarMonth: 1, LunarDay: 1, IsMajor: true}
	if err := db.CreateFestival(ctx, f); err != nil {
		t.Fatalf("first CreateFestival() error = %v", err)
	}

	// Same name violates the unique constraint
	dup := &Festival{Name: "Tết Nguyên Đán", LunarMonth: 1, LunarDay: 2}
	err := db.CreateFestival(ctx, dup)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("CreateFestival() duplicate error = %v, want ErrDuplicate", err)
	}
}

func TestGetFestival_NotFound(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := db.GetFestival(ctx, 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetFestival() error = %v, want ErrNotFound", err)
	}
}

func TestListFestivals(t *testing.T) {
	db := testDB(t)
	seedTestData(t, db)
	ctx := context.Background()

	festivals, err := db.ListFestivals(ctx)
	if err != nil {
		t.Fatalf("ListFestivals() error = %v", err)
	}

	if len(festivals) != 3 {
		t.Fatalf("ListFestivals() returned %d festivals, want 3", len(festivals))
	}

	// Verify lunar date ordering (1/1 before 3/3 before 15/8)
	if festivals[0].Name != "Tết Nguyên Đán" {
		t.Errorf("first festival = %q, want %q", festivals[0].Name, "Tết Nguyên Đán")
	}
	if festivals[2].Name != "Tết Trung Thu" {
		t.Errorf("last festival = %q, want %q", festivals[2].Name, "Tết Trung Thu")
	}
}

func TestGetFestivalsByLunarDate(t *testing.T) {
	db := testDB(t)
	seedTestData(t, db)
	ctx := context.Background()

	festivals, err := db.GetFestivalsByLunarDate(ctx, 8, 15)
	if err != nil {
		t.Fatalf("GetFestivalsByLunarDate() error = %v", err)
	}

	if len(festivals) != 1 {
		t.Fatalf("GetFestivalsByLunarDate(8, 15) returned %d festivals, want 1", len(festivals))
	}
	if festivals[0].Name != "Tết Trung Thu" {
		t.Errorf("festival = %q, want %q", festivals[0].Name, "Tết Trung Thu")
	}

	// A date with no festivals returns an empty slice, not an error
	festivals, err = db.GetFestivalsByLunarDate(ctx, 6, 6)
	if err != nil {
		t.Fatalf("GetFestivalsByLunarDate(6, 6) error = %v", err)
	}
	if len(festivals) != 0 {
		t.Errorf("GetFestivalsByLunarDate(6, 6) returned %d festivals, want 0", len(festivals))
	}
}

func TestUpdateFestival(t *testing.T) {
	db := testDB(t)
	seedTestData(t, db)
	ctx := context.Background()

	festivals, err := db.ListFestivals(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	f := festivals[0]
	f.Description = strPtr("The most important festival of the year")
	f.IsMajor = true

	if err := db.UpdateFestival(ctx, &f); err != nil {
		t.Fatalf("UpdateFestival() error = %v", err)
	}

	got, err := db.GetFestival(ctx, f.ID)
	if err != nil {
		t.Fatalf("GetFestival() after update error = %v", err)
	}
	if got.Description == nil || *got.Description != "The most important festival of the year" {
		t.Errorf("updated description = %v, want set", got.Description)
	}
}

func TestUpdateFestival_NotFound(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	f := &Festival{ID: 9999, Name: "Ghost Festival", LunarMonth: 7, LunarDay: 15}
	err := db.UpdateFestival(ctx, f)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateFestival() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteFestival(t *testing.T) {
	db := testDB(t)
	seedTestData(t, db)
	ctx := context.Background()

	festivals, err := db.ListFestivals(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if err := db.DeleteFestival(ctx, festivals[0].ID); err != nil {
		t.Fatalf("DeleteFestival() error = %v", err)
	}

	_, err = db.GetFestival(ctx, festivals[0].ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetFestival() after delete error = %v, want ErrNotFound", err)
	}

	// Deleting again reports not found
	err = db.DeleteFestival(ctx, festivals[0].ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteFestival() second call error = %v, want ErrNotFound", err)
	}
}

func TestGetFestivalStats(t *testing.T) {
	db := testDB(t)
	seedTestData(t, db)
	ctx := context.Background()

	stats, err := db.GetFestivalStats(ctx)
	if err != nil {
		t.Fatalf("GetFestivalStats() error = %v", err)
	}

	if stats.Total != 3 {
		t.Errorf("stats.Total = %d, want 3", stats.Total)
	}
	if stats.Major != 2 {
		t.Errorf("stats.Major = %d, want 2", stats.Major)
	}
}

// -----------------------------------------------------------------
// Model validation tests
// -----------------------------------------------------------------

func TestFestival_Validate(t *testing.T) {
	tests := []struct {
		name     string
		festival Festival
		wantErr  bool
	}{
		{
			name:     "valid festival",
			festival: Festival{Name: "Tết Nguyên Đán", LunarMonth: 1, LunarDay: 1},
			wantErr:  false,
		},
		{
			name:     "missing name",
			festival: Festival{LunarMonth: 1, LunarDay: 1},
			wantErr:  true,
		},
		{
			name:     "month too low",
			festival: Festival{Name: "X", LunarMonth: 0, LunarDay: 1},
			wantErr:  true,
		},
		{
			name:     "month too high",
			festival: Festival{Name: "X", LunarMonth: 13, LunarDay: 1},
			wantErr:  true,
		},
		{
			name:     "day too low",
			festival: Festival{Name: "X", LunarMonth: 1, LunarDay: 0},
			wantErr:  true,
		},
		{
			name:     "day too high",
			festival: Festival{Name: "X", LunarMonth: 1, LunarDay: 31},
			wantErr:  true,
		},
		{
			name:     "day 30 allowed",
			festival: Festival{Name: "X", LunarMonth: 12, LunarDay: 30},
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.festival.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// -----------------------------------------------------------------
// Transaction tests
// -----------------------------------------------------------------

func TestWithTx(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Successful transaction
	err := db.WithTx(ctx, func(tx *Tx) error {
		f := &Festival{Name: "Lễ Vu Lan", LunarMonth: 7, LunarDay: 15, IsMajor: true}
		return tx.CreateFestival(ctx, f)
	})
	if err != nil {
		t.Fatalf("WithTx() success case error = %v", err)
	}

	// Verify festival was created
	festivals, err := db.GetFestivalsByLunarDate(ctx, 7, 15)
	if err != nil {
		t.Fatalf("festival not created: %v", err)
	}
	if len(festivals) != 1 {
		t.Fatalf("got %d festivals, want 1", len(festivals))
	}
}

func TestWithTx_Rollback(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Failed transaction should rollback
	err := db.WithTx(ctx, func(tx *Tx) error {
		f := &Festival{Name: "Lễ Vu Lan", LunarMonth: 7, LunarDay: 15}
		if err := tx.CreateFestival(ctx, f); err != nil {
			return err
		}
		// Force error to trigger rollback
		return ErrNotFound
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("WithTx() rollback case error = %v, want ErrNotFound", err)
	}

	// Verify festival was NOT created
	festivals, err := db.GetFestivalsByLunarDate(ctx, 7, 15)
	if err != nil {
		t.Fatalf("query after rollback: %v", err)
	}
	if len(festivals) != 0 {
		t.Errorf("festival should not exist after rollback, got %d", len(festivals))
	}
}
