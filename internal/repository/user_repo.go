package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"parkspot/internal/db"
	apperrors "parkspot/internal/errors"
)

const userColumns = `id, email, password_hash, first_name, last_name, role`

// ErrEmailTaken is the message reported when an email is already registered.
const ErrEmailTaken = "Email already exists"

type UserRepository struct {
	DB *sqlx.DB
}

func NewUserRepository(conn *sqlx.DB) *UserRepository {
	return &UserRepository{DB: conn}
}

func hashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(hashedPassword), nil
}

// GetByEmail returns nil, nil when no user has that email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*db.User, error) {
	var user db.User
	err := r.DB.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.Storage("get user by email", err)
	}
	return &user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*db.User, error) {
	var user db.User
	err := r.DB.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, translateLookup("get user", "User", id, err)
	}
	return &user, nil
}

// CreateUser hashes the password with bcrypt and stores the user, filling
// in its ID and hash.
func (r *UserRepository) CreateUser(ctx context.Context, user *db.User, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	user.ID = uuid.NewString()
	user.PasswordHash = hash

	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, string(user.Role),
	)
	if err != nil {
		if pqCode(err) == pqUniqueViolation {
			return apperrors.Conflict(ErrEmailTaken)
		}
		return apperrors.Storage("create user", err)
	}
	return nil
}

// UpdateUser overwrites the stored profile. A non-empty password replaces
// the stored hash.
func (r *UserRepository) UpdateUser(ctx context.Context, user *db.User, password string) error {
	if password != "" {
		hash, err := hashPassword(password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}

	result, err := r.DB.ExecContext(ctx,
		`UPDATE users SET email = $2, password_hash = $3, first_name = $4, last_name = $5, role = $6 WHERE id = $1`,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, string(user.Role),
	)
	if err != nil {
		switch pqCode(err) {
		case pqUniqueViolation:
			return apperrors.Conflict(ErrEmailTaken)
		case pqInvalidTextRepr:
			return apperrors.NotFound("User", user.ID)
		}
		return apperrors.Storage("update user", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("User", user.ID)
	}
	return nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if pqCode(err) == pqInvalidTextRepr {
			return apperrors.NotFound("User", id)
		}
		return apperrors.Storage("delete user", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("User", id)
	}
	return nil
}

func (r *UserRepository) SearchUsers(ctx context.Context, limit, offset int) ([]db.User, int64, error) {
	var total int64
	if err := r.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, 0, apperrors.Storage("count users", err)
	}

	users := []db.User{}
	err := r.DB.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users ORDER BY id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Storage("search users", err)
	}
	return users, total, nil
}
