package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/examdesk/examdesk/internal/app/models"
	"github.com/examdesk/examdesk/internal/pkg/apperrors"
	"github.com/examdesk/examdesk/internal/pkg/dberrors"
)

// UserRepository handles database operations for platform accounts
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// GetByLogin retrieves a user by login. Returns nil when no user exists.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(ctx, `
		SELECT id, login, password, first_name, last_name, registration_number, role_type, is_active, created_at, updated_at
		FROM users
		WHERE login = $1`,
		login).Scan(
		&user.ID, &user.Login, &user.Password, &user.FirstName, &user.LastName,
		&user.RegistrationNumber, &user.RoleType, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting user by login: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID. Returns nil when no user exists.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(ctx, `
		SELECT id, login, password, first_name, last_name, registration_number, role_type, is_active, created_at, updated_at
		FROM users
		WHERE id = $1`,
		id).Scan(
		&user.ID, &user.Login, &user.Password, &user.FirstName, &user.LastName,
		&user.RegistrationNumber, &user.RoleType, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting user by id: %w", err)
	}

	return user, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (login, password, first_name, last_name, registration_number, role_type, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		user.Login, user.Password, user.FirstName, user.LastName,
		user.RegistrationNumber, user.RoleType, user.IsActive).Scan(&id)

	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.NewConflictError("login or registration number already exists")
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return id, nil
}
