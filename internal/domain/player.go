package domain

import (
	"time"

	"github.com/google/uuid"
)

// PlayerStatus is the lifecycle status of a player. Players are never
// deleted; retirement is a status flag.
type PlayerStatus string

const (
	PlayerActive  PlayerStatus = "active"
	PlayerRetired PlayerStatus = "retired"
)

// Player represents a registered player. ClubID is nil for free agents.
type Player struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	Position      string       `json:"position"`
	Age           int          `json:"age"`
	Nationality   string       `json:"nationality"`
	MarketValue   int64        `json:"market_value"` // minor units
	ContractUntil *time.Time   `json:"contract_until,omitempty"`
	HealthStatus  string       `json:"health_status,omitempty"`
	Status        PlayerStatus `json:"status"`
	ClubID        *uuid.UUID   `json:"club_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// IsFreeAgent reports whether the player has no owning club.
func (p *Player) IsFreeAgent() bool { return p.ClubID == nil }
