package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Notification is an in-app message for platform staff. UserID is nil for
// broadcasts addressed to every admin.
type Notification struct {
	ID        uuid.UUID       `json:"id"`
	UserID    *uuid.UUID      `json:"user_id,omitempty"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Details   json.RawMessage `json:"details,omitempty"`
	ReadAt    *time.Time      `json:"read_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
