package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/transfermarket/platform/internal/domain"
)

type clubRepo struct{}

// NewClubRepository returns a pgx-backed ClubRepository.
func NewClubRepository() ClubRepository {
	return &clubRepo{}
}

func (r *clubRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Club, error) {
	row := db.QueryRow(ctx, `
		SELECT id, name, owner_user_id, approval, created_at, updated_at
		FROM clubs WHERE id = $1`, id)
	return scanClub(row)
}

func (r *clubRepo) FindByOwner(ctx context.Context, db DBTX, userID uuid.UUID) (*domain.Club, error) {
	row := db.QueryRow(ctx, `
		SELECT id, name, owner_user_id, approval, created_at, updated_at
		FROM clubs WHERE owner_user_id = $1`, userID)
	return scanClub(row)
}

func (r *clubRepo) Create(ctx context.Context, db DBTX, c *domain.Club) error {
	_, err := db.Exec(ctx, `
		INSERT INTO clubs (id, name, owner_user_id, approval)
		VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.OwnerUserID, c.Approval)
	if err != nil {
		return fmt.Errorf("insert club: %w", err)
	}
	return nil
}

func (r *clubRepo) UpdateApproval(ctx context.Context, db DBTX, id uuid.UUID, approval domain.ClubApproval) error {
	_, err := db.Exec(ctx, `
		UPDATE clubs SET approval = $2, updated_at = now() WHERE id = $1`,
		id, approval)
	if err != nil {
		return fmt.Errorf("update club approval: %w", err)
	}
	return nil
}

func (r *clubRepo) List(ctx context.Context, db DBTX, approval *domain.ClubApproval) ([]domain.Club, error) {
	query := `SELECT id, name, owner_user_id, approval, created_at, updated_at FROM clubs`
	args := []interface{}{}
	if approval != nil {
		query += ` WHERE approval = $1`
		args = append(args, *approval)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	defer rows.Close()

	var clubs []domain.Club
	for rows.Next() {
		var c domain.Club
		if err := rows.Scan(&c.ID, &c.Name, &c.OwnerUserID, &c.Approval, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan club row: %w", err)
		}
		clubs = append(clubs, c)
	}
	return clubs, rows.Err()
}

func scanClub(row pgx.Row) (*domain.Club, error) {
	var c domain.Club
	err := row.Scan(&c.ID, &c.Name, &c.OwnerUserID, &c.Approval, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan club: %w", err)
	}
	return &c, nil
}

type userRepo struct{}

// NewUserRepository returns a pgx-backed UserRepository.
func NewUserRepository() UserRepository {
	return &userRepo{}
}

func (r *userRepo) FindByEmail(ctx context.Context, db DBTX, email string) (*domain.User, error) {
	row := db.QueryRow(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *userRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.User, error) {
	row := db.QueryRow(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *userRepo) Create(ctx context.Context, db DBTX, u *domain.User) error {
	_, err := db.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, role)
		VALUES ($1, $2, $3, $4)`,
		u.ID, u.Email, u.PasswordHash, u.Role)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
