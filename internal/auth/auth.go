package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sceu/clinic/internal/models"
)

// Auth handles authentication operations
type Auth struct {
	db *pgxpool.Pool
}

// NewAuth creates a new Auth instance
func NewAuth(db *pgxpool.Pool) *Auth {
	return &Auth{db: db}
}

// RegisterUser creates a new user account with the given role.
func (a *Auth) RegisterUser(ctx context.Context, email, password, name, role string) (*models.User, error) {
	// Check if user already exists
	var existingID uuid.UUID
	err := a.db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&existingID)
	if err == nil {
		return nil, fmt.Errorf("user with email %s already exists", email)
	}
	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if !models.ValidRole(role) {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	// Hash password
	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID := uuid.New()
	now := time.Now()

	_, err = a.db.Exec(ctx,
		"INSERT INTO users (id, email, password_hash, name, role, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		userID, email, passwordHash, name, role, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return a.GetUserByID(ctx, userID)
}

// GetUserByID retrieves a user by ID
func (a *Auth) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User

	err := a.db.QueryRow(ctx,
		"SELECT id, email, password_hash, name, role, created_at, updated_at FROM users WHERE id = $1",
		id,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (a *Auth) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	err := a.db.QueryRow(ctx,
		"SELECT id, email, password_hash, name, role, created_at, updated_at FROM users WHERE email = $1",
		email,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// LoginUser authenticates a user and creates a session
func (a *Auth) LoginUser(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := a.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("invalid email or password")
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, "", fmt.Errorf("invalid email or password")
	}

	// Create session
	sessionToken, err := GenerateSessionToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	sessionID := uuid.New()
	expiresAt := CalculateExpiry()
	now := time.Now()

	_, err = a.db.Exec(ctx,
		"INSERT INTO sessions (id, user_id, token, expires_at, created_at) VALUES ($1, $2, $3, $4, $5)",
		sessionID, user.ID, sessionToken, expiresAt, now,
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	return user, sessionToken, nil
}

// ValidateSession validates a session token and returns the user
func (a *Auth) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	var userID uuid.UUID
	var expiresAt time.Time

	err := a.db.QueryRow(ctx,
		"SELECT user_id, expires_at FROM sessions WHERE token = $1",
		token,
	).Scan(&userID, &expiresAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("invalid session")
		}
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}

	// Check if session is expired
	if time.Now().After(expiresAt) {
		// Delete expired session
		a.db.Exec(ctx, "DELETE FROM sessions WHERE token = $1", token)
		return nil, fmt.Errorf("session expired")
	}

	return a.GetUserByID(ctx, userID)
}

// LogoutUser deletes a session
func (a *Auth) LogoutUser(ctx context.Context, token string) error {
	_, err := a.db.Exec(ctx, "DELETE FROM sessions WHERE token = $1", token)
	if err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions
func (a *Auth) CleanupExpiredSessions(ctx context.Context) error {
	_, err := a.db.Exec(ctx, "DELETE FROM sessions WHERE expires_at < $1", time.Now())
	if err != nil {
		return fmt.Errorf("failed to cleanup expired sessions: %w", err)
	}
	return nil
}
