package user_models

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/models/shared_models"
	"golang.org/x/crypto/argon2"
)

// Argon2id parameters.
const (
	Memory      = 64 * 1024
	Iterations  = 3
	Parallelism = 4
	SaltLength  = 16
	KeyLength   = 64
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	TokenVersion int       `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HashPassword hashes a password using Argon2id as "salt$hash" in raw base64.
func HashPassword(password string) (string, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, Iterations, Memory, uint8(Parallelism), KeyLength)
	return fmt.Sprintf("%s$%s",
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash)), nil
}

// VerifyPassword checks a password against a stored hash in constant time.
func VerifyPassword(password, storedHash string) (bool, error) {
	parts := strings.Split(storedHash, "$")
	if len(parts) != 2 {
		return false, errors.New("invalid stored hash format")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[0])
	if err != nil {
		return false, err
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(password), salt, Iterations, Memory, uint8(Parallelism), KeyLength)
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

const userColumns = `id, name, email, phone, password_hash, role, token_version, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.TokenVersion, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return u, nil
}

// CreateUser registers a user with a hashed password.
func CreateUser(ctx context.Context, conn db.DBTX, name, email, phone, password, role string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUIDv7: %w", err)
	}

	row := conn.QueryRow(ctx, `
		INSERT INTO users (id, name, email, phone, password_hash, role)
		VALUES ($1, $2, LOWER($3), $4, $5, $6)
		RETURNING `+userColumns,
		id, name, email, phone, hash, role)
	user, err := scanUser(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		logger.ErrorLogger.Errorf("Failed to create user %s: %v", email, err)
		return nil, err
	}

	logger.InfoLogger.Infof("User %s registered with role %s", user.ID, role)
	return user, nil
}

func GetUserByID(ctx context.Context, conn db.DBTX, id uuid.UUID) (*User, error) {
	return scanUser(conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func GetUserByEmail(ctx context.Context, conn db.DBTX, email string) (*User, error) {
	return scanUser(conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = LOWER($1)`, email))
}

// GetTokenVersion is the lookup the auth middleware checks tokens against.
func GetTokenVersion(ctx context.Context, conn db.DBTX, id uuid.UUID) (int, error) {
	var version int
	err := conn.QueryRow(ctx, `SELECT token_version FROM users WHERE id = $1`, id).Scan(&version)
	if err != nil {
		if db.IsNoRows(err) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to load token version: %w", err)
	}
	return version, nil
}

// IncrementTokenVersion revokes every token issued to the user so far.
func IncrementTokenVersion(ctx context.Context, conn db.DBTX, id uuid.UUID) error {
	tag, err := conn.Exec(ctx, `UPDATE users SET token_version = token_version + 1, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to bump token version: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Authenticate checks credentials. Unknown email and wrong password look the same to callers.
func Authenticate(ctx context.Context, conn db.DBTX, email, password string) (*User, error) {
	user, err := GetUserByEmail(ctx, conn, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		logger.WarnLogger.Warnf("Invalid password attempt for user %s", user.ID)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func EnsureAdmin(ctx context.Context, conn db.DBTX, email, password string) error {
	if email == "" || password == "" {
		logger.WarnLogger.Warn("ADMIN_EMAIL/ADMIN_PASSWORD not set; skipping admin bootstrap")
		return nil
	}

	existing, err := GetUserByEmail(ctx, conn, email)
	if err == nil {
		if existing.Role != shared_models.RoleAdmin {
			return fmt.Errorf("bootstrap admin email %s belongs to a non-admin user", email)
		}
		return nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	_, err = CreateUser(ctx, conn, "Administrator", email, "", password, shared_models.RoleAdmin)
	if err != nil && !errors.Is(err, ErrEmailTaken) {
		return err
	}
	logger.InfoLogger.Infof("Bootstrap admin %s ready", email)
	return nil
}
