//go:build integration

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/transfermarket/platform/internal/auth"
)

// request performs an HTTP request against the test server.
func (env *TestEnv) request(method, path, token string, body interface{}) *http.Response {
	env.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			env.t.Fatalf("encode request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, env.Server.URL+path, &buf)
	if err != nil {
		env.t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := env.Server.Client().Do(req)
	if err != nil {
		env.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func (env *TestEnv) GET(path string) *http.Response {
	return env.request(http.MethodGet, path, "", nil)
}

func (env *TestEnv) POST(path string, body interface{}) *http.Response {
	return env.request(http.MethodPost, path, "", body)
}

func (env *TestEnv) AuthGET(token, path string) *http.Response {
	return env.request(http.MethodGet, path, token, nil)
}

func (env *TestEnv) AuthPOST(token, path string, body interface{}) *http.Response {
	return env.request(http.MethodPost, path, token, body)
}

func (env *TestEnv) AuthPUT(token, path string, body interface{}) *http.Response {
	return env.request(http.MethodPut, path, token, body)
}

func (env *TestEnv) AuthPATCH(token, path string, body interface{}) *http.Response {
	return env.request(http.MethodPatch, path, token, body)
}

func (env *TestEnv) AuthDELETE(token, path string) *http.Response {
	return env.request(http.MethodDelete, path, token, nil)
}

// ClubAccount is a signed-up, approved and logged-in club.
type ClubAccount struct {
	Token  string
	UserID uuid.UUID
	ClubID uuid.UUID
	Email  string
}

// RegisterClub signs up a club through the API, approves it directly in the
// database, and logs in. The club name must be unique within the test.
func (env *TestEnv) RegisterClub(name string) *ClubAccount {
	env.t.Helper()

	email := fmt.Sprintf("owner-%s@example.com", uuid.New().String()[:8])
	password := "test-password-1"

	resp := env.POST("/auth/signup", map[string]interface{}{
		"email":     email,
		"password":  password,
		"club_name": name,
	})
	AssertStatus(env.t, resp, http.StatusCreated)

	var signup struct {
		UserID uuid.UUID `json:"user_id"`
		ClubID uuid.UUID `json:"club_id"`
	}
	DecodeBody(env.t, resp, &signup)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := env.Pool.Exec(ctx,
		"UPDATE clubs SET approval = 'approved' WHERE id = $1", signup.ClubID)
	if err != nil {
		env.t.Fatalf("approve club: %v", err)
	}

	resp = env.POST("/auth/login", map[string]interface{}{
		"email":    email,
		"password": password,
	})
	AssertStatus(env.t, resp, http.StatusOK)

	var login struct {
		Token string `json:"token"`
	}
	DecodeBody(env.t, resp, &login)

	return &ClubAccount{
		Token:  login.Token,
		UserID: signup.UserID,
		ClubID: signup.ClubID,
		Email:  email,
	}
}

// AdminAccount is a seeded admin user with a minted token.
type AdminAccount struct {
	Token  string
	UserID uuid.UUID
}

// RegisterAdmin inserts an admin user directly and mints an admin-realm JWT.
func (env *TestEnv) RegisterAdmin() *AdminAccount {
	env.t.Helper()

	id := uuid.New()
	email := fmt.Sprintf("admin-%s@example.com", id.String()[:8])
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-password-1"), bcrypt.MinCost)
	if err != nil {
		env.t.Fatalf("hash password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = env.Pool.Exec(ctx,
		"INSERT INTO users (id, email, password_hash, role) VALUES ($1, $2, $3, 'admin')",
		id, email, string(hash))
	if err != nil {
		env.t.Fatalf("insert admin user: %v", err)
	}

	token, err := env.JWTMgr.GenerateToken(auth.RealmAdmin, id, email, "admin", "")
	if err != nil {
		env.t.Fatalf("mint admin token: %v", err)
	}

	return &AdminAccount{Token: token, UserID: id}
}

// SeedPlayer inserts an active player directly. clubID may be nil for a free agent.
func (env *TestEnv) SeedPlayer(clubID *uuid.UUID, name string, marketValue int64) uuid.UUID {
	env.t.Helper()
	return env.SeedPlayerIdentity(clubID, name, 25, "Brazil", marketValue)
}

// SeedPlayerIdentity inserts an active player with full identity control, for
// fraud heuristics that compare name, age and nationality.
func (env *TestEnv) SeedPlayerIdentity(clubID *uuid.UUID, name string, age int, nationality string, marketValue int64) uuid.UUID {
	env.t.Helper()

	id := uuid.New()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := env.Pool.Exec(ctx,
		`INSERT INTO players (id, name, position, age, nationality, market_value, status, club_id)
		 VALUES ($1, $2, 'Striker', $3, $4, $5, 'active', $6)`,
		id, name, age, nationality, marketValue, clubID)
	if err != nil {
		env.t.Fatalf("seed player: %v", err)
	}
	return id
}

// CloseAllWindows clears the is_open flag on every window.
func (env *TestEnv) CloseAllWindows() {
	env.t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := env.Pool.Exec(ctx, "UPDATE transfer_windows SET is_open = false"); err != nil {
		env.t.Fatalf("close windows: %v", err)
	}
}

// OpenWindow inserts an open transfer window covering the current time.
func (env *TestEnv) OpenWindow() uuid.UUID {
	env.t.Helper()

	id := uuid.New()
	now := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := env.Pool.Exec(ctx,
		`INSERT INTO transfer_windows (id, name, start_at, end_at, is_open)
		 VALUES ($1, 'Test Window', $2, $3, true)`,
		id, now.Add(-time.Hour), now.Add(24*time.Hour))
	if err != nil {
		env.t.Fatalf("seed open window: %v", err)
	}
	return id
}
