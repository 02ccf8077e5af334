package repository

import (
	"context"
	"fmt"

	"github.com/carelinkhq/telecare/internal/model"
	"github.com/carelinkhq/telecare/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, uuid, email, first_name, last_name, account_type, provider_id, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.UUID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.AccountType,
		&user.ProviderID,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user account.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (uuid, email, first_name, last_name, account_type, provider_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	if user.UUID == uuid.Nil {
		user.UUID = uuid.New()
	}

	err := r.pool.QueryRow(
		ctx, query,
		user.UUID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.AccountType,
		user.ProviderID,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID returns the user or nil when absent.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// GetByUUID returns the user or nil when absent.
func (r *UserRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uuid = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by uuid: %w", err)
	}

	return user, nil
}

// GetByAuthToken resolves the acting user for the HTTP auth middleware.
func (r *UserRepository) GetByAuthToken(ctx context.Context, token string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE auth_token = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, token))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by auth token: %w", err)
	}

	return user, nil
}

// ListProviders returns all provider accounts ordered by name.
func (r *UserRepository) ListProviders(ctx context.Context) ([]*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE account_type = 'p'
		ORDER BY last_name, first_name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	defer rows.Close()

	var providers []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		providers = append(providers, user)
	}

	return providers, rows.Err()
}

// SetProvider stores the patient's selected provider.
func (r *UserRepository) SetProvider(ctx context.Context, userID, providerID int64) error {
	query := `UPDATE users SET provider_id = $1 WHERE id = $2`

	result, err := r.pool.Exec(ctx, query, providerID, userID)
	if err != nil {
		return fmt.Errorf("set provider: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}
