package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransferWindow is an admin-defined time range during which market
// actions are permitted. Multiple rows may exist; whether the market is
// currently open is derived, not a single stored boolean.
type TransferWindow struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	IsOpen    bool      `json:"is_open"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Covers reports whether now falls within the window's time range,
// boundaries included.
func (w *TransferWindow) Covers(now time.Time) bool {
	return !now.Before(w.StartAt) && !now.After(w.EndAt)
}
