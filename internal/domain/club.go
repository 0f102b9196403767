package domain

import (
	"time"

	"github.com/google/uuid"
)

// ClubApproval is the admin approval status for a club.
type ClubApproval string

const (
	ClubPending  ClubApproval = "pending"
	ClubApproved ClubApproval = "approved"
	ClubRejected ClubApproval = "rejected"
)

// Club represents a club on the market. OwnerUserID is nil until the
// signup is approved by an admin.
type Club struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	OwnerUserID *uuid.UUID   `json:"owner_user_id,omitempty"`
	Approval    ClubApproval `json:"approval"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// UserRole distinguishes club owners from platform admins.
type UserRole string

const (
	RoleClub  UserRole = "club"
	RoleAdmin UserRole = "admin"
)

// User is an account that can authenticate against the API.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
