package database

import (
	"errors"
	"fmt"
	"time"
)

// Festival is a recurring observance pinned to a lunar date.
// The lunar date is the canonical key; the Gregorian date of each
// occurrence is computed at request time, never stored.
type Festival struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`              // Vietnamese name: "Tết Nguyên Đán"
	NameEn      *string   `json:"name_en,omitempty"` // nullable English name
	LunarMonth  int       `json:"lunar_month"`       // 1-12, non-leap months only
	LunarDay    int       `json:"lunar_day"`         // 1-30
	Description *string   `json:"description,omitempty"`
	IsMajor     bool      `json:"is_major"` // public holidays and the big observances
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks that the festival fields are usable.
// Leap months never carry festivals, so LunarMonth is a plain 1-12.
func (f *Festival) Validate() error {
	var errs []error

	if f.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if f.LunarMonth < 1 || f.LunarMonth > 12 {
		errs = append(errs, fmt.Errorf("lunar_month must be between 1 and 12, got %d", f.LunarMonth))
	}
	if f.LunarDay < 1 || f.LunarDay > 30 {
		errs = append(errs, fmt.Errorf("lunar_day must be between 1 and 30, got %d", f.LunarDay))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// FestivalStats summarizes the festivals table.
// Used by the health endpoint and the importer.
type FestivalStats struct {
	Total int `json:"total"`
	Major int `json:"major"`
}
