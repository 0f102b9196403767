package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/transfermarket/platform/internal/auth"
	"github.com/transfermarket/platform/internal/domain"
	"github.com/transfermarket/platform/internal/repository"
)

// AuthService handles club signup and login for both realms.
type AuthService struct {
	pool     *pgxpool.Pool
	userRepo repository.UserRepository
	clubRepo repository.ClubRepository
	jwtMgr   *auth.JWTManager
	logger   *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(pool *pgxpool.Pool, userRepo repository.UserRepository, clubRepo repository.ClubRepository, jwtMgr *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{pool: pool, userRepo: userRepo, clubRepo: clubRepo, jwtMgr: jwtMgr, logger: logger}
}

// SignupInput holds a club registration request.
type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	ClubName string `json:"club_name"`
}

// SignupResult is returned after a successful registration.
type SignupResult struct {
	UserID uuid.UUID           `json:"user_id"`
	ClubID uuid.UUID           `json:"club_id"`
	Status domain.ClubApproval `json:"status"`
}

// Signup registers a club account. The club starts in pending approval and
// cannot act on the market until an admin approves it.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*SignupResult, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if len(input.Password) < 8 {
		return nil, domain.ErrValidation("password must be at least 8 characters")
	}
	if err := domain.ValidateClubName(input.ClubName); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, s.pool, input.Email)
	if err != nil {
		return nil, domain.ErrInternal("lookup email", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.ErrInternal("hash password", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleClub,
	}
	club := &domain.Club{
		ID:          uuid.New(),
		Name:        input.ClubName,
		OwnerUserID: &user.ID,
		Approval:    domain.ClubPending,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.userRepo.Create(ctx, tx, user); err != nil {
		return nil, domain.ErrInternal("create user", err)
	}
	if err := s.clubRepo.Create(ctx, tx, club); err != nil {
		return nil, domain.ErrInternal("create club", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("club signed up", "user_id", user.ID, "club_id", club.ID, "club_name", club.Name)

	return &SignupResult{UserID: user.ID, ClubID: club.ID, Status: club.Approval}, nil
}

// LoginResult carries the issued token and the authenticated identity.
type LoginResult struct {
	Token  string     `json:"token"`
	UserID uuid.UUID  `json:"user_id"`
	Role   string     `json:"role"`
	ClubID *uuid.UUID `json:"club_id,omitempty"`
}

// Login authenticates a user and issues a JWT for the realm matching their
// role. Club users must belong to an approved club.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, s.pool, email)
	if err != nil {
		return nil, domain.ErrInternal("lookup user", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	switch user.Role {
	case domain.RoleAdmin:
		token, err := s.jwtMgr.GenerateToken(auth.RealmAdmin, user.ID, user.Email, string(user.Role), "")
		if err != nil {
			return nil, domain.ErrInternal("generate token", err)
		}
		return &LoginResult{Token: token, UserID: user.ID, Role: string(user.Role)}, nil

	case domain.RoleClub:
		club, err := s.clubRepo.FindByOwner(ctx, s.pool, user.ID)
		if err != nil {
			return nil, domain.ErrInternal("lookup club", err)
		}
		if club == nil {
			return nil, domain.ErrForbidden("no club linked to this account")
		}
		if club.Approval != domain.ClubApproved {
			return nil, domain.ErrForbidden("club registration is not approved")
		}

		token, err := s.jwtMgr.GenerateToken(auth.RealmClub, user.ID, user.Email, string(user.Role), club.ID.String())
		if err != nil {
			return nil, domain.ErrInternal("generate token", err)
		}
		return &LoginResult{Token: token, UserID: user.ID, Role: string(user.Role), ClubID: &club.ID}, nil

	default:
		return nil, domain.ErrForbidden("unknown role")
	}
}
