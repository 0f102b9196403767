package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/transfermarket/platform/internal/domain"
)

type playerRepo struct{}

// NewPlayerRepository returns a pgx-backed PlayerRepository.
func NewPlayerRepository() PlayerRepository {
	return &playerRepo{}
}

const playerColumns = `id, name, position, age, nationality, market_value,
	contract_until, health_status, status, club_id, created_at, updated_at`

func (r *playerRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Player, error) {
	row := db.QueryRow(ctx, `
		SELECT `+playerColumns+`
		FROM players WHERE id = $1`, id)
	return scanPlayer(row)
}

func (r *playerRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Player, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+playerColumns+`
		FROM players WHERE id = $1 FOR UPDATE`, id)
	return scanPlayer(row)
}

func (r *playerRepo) Create(ctx context.Context, db DBTX, p *domain.Player) error {
	_, err := db.Exec(ctx, `
		INSERT INTO players (id, name, position, age, nationality, market_value,
			contract_until, health_status, status, club_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.Name, p.Position, p.Age, p.Nationality, p.MarketValue,
		p.ContractUntil, p.HealthStatus, p.Status, p.ClubID,
	)
	if err != nil {
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

func (r *playerRepo) Update(ctx context.Context, db DBTX, p *domain.Player) error {
	_, err := db.Exec(ctx, `
		UPDATE players
		SET name = $2, position = $3, age = $4, nationality = $5,
		    market_value = $6, contract_until = $7, health_status = $8,
		    updated_at = now()
		WHERE id = $1`,
		p.ID, p.Name, p.Position, p.Age, p.Nationality,
		p.MarketValue, p.ContractUntil, p.HealthStatus,
	)
	if err != nil {
		return fmt.Errorf("update player: %w", err)
	}
	return nil
}

func (r *playerRepo) AssignClub(ctx context.Context, db DBTX, playerID uuid.UUID, clubID *uuid.UUID) error {
	_, err := db.Exec(ctx, `
		UPDATE players SET club_id = $2, updated_at = now() WHERE id = $1`,
		playerID, clubID)
	if err != nil {
		return fmt.Errorf("assign player club: %w", err)
	}
	return nil
}

func (r *playerRepo) SetStatus(ctx context.Context, db DBTX, playerID uuid.UUID, status domain.PlayerStatus) error {
	_, err := db.Exec(ctx, `
		UPDATE players SET status = $2, updated_at = now() WHERE id = $1`,
		playerID, status)
	if err != nil {
		return fmt.Errorf("set player status: %w", err)
	}
	return nil
}

func (r *playerRepo) List(ctx context.Context, db DBTX, clubID *uuid.UUID) ([]domain.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players`
	args := []interface{}{}
	if clubID != nil {
		query += ` WHERE club_id = $1`
		args = append(args, *clubID)
	}
	query += ` ORDER BY name ASC`

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		p, err := scanPlayerRow(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func (r *playerRepo) CountDuplicateIdentity(ctx context.Context, db DBTX, name string, age int, nationality string, excludeID uuid.UUID) (int, error) {
	var count int
	err := db.QueryRow(ctx, `
		SELECT COUNT(*) FROM players
		WHERE name = $1 AND age = $2 AND nationality = $3
		  AND id <> $4 AND status = 'active'`,
		name, age, nationality, excludeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count duplicate identities: %w", err)
	}
	return count, nil
}

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	err := row.Scan(&p.ID, &p.Name, &p.Position, &p.Age, &p.Nationality,
		&p.MarketValue, &p.ContractUntil, &p.HealthStatus, &p.Status,
		&p.ClubID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan player: %w", err)
	}
	return &p, nil
}

func scanPlayerRow(rows pgx.Rows) (*domain.Player, error) {
	var p domain.Player
	err := rows.Scan(&p.ID, &p.Name, &p.Position, &p.Age, &p.Nationality,
		&p.MarketValue, &p.ContractUntil, &p.HealthStatus, &p.Status,
		&p.ClubID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan player row: %w", err)
	}
	return &p, nil
}
