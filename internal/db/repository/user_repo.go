package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/milboard/milboard/internal/db/sqlc"
)

type userStore interface {
	CreateUser(ctx context.Context, arg sqlcgen.CreateUserParams) (sqlcgen.User, error)
	GetUserByEmail(ctx context.Context, email string) (sqlcgen.User, error)
	GetUserByID(ctx context.Context, userID pgtype.UUID) (sqlcgen.User, error)
	UpdateUserLogin(ctx context.Context, userID pgtype.UUID) error
	UpdateUserPassword(ctx context.Context, arg sqlcgen.UpdateUserPasswordParams) error
}

// UserRepository exposes typed DB operations required by auth flows.
type UserRepository struct {
	store userStore
}

// NewUserRepository wraps sqlc Queries for user-specific operations.
func NewUserRepository(store userStore) *UserRepository {
	return &UserRepository{store: store}
}

// Create inserts a new account.
func (r *UserRepository) Create(ctx context.Context, params sqlcgen.CreateUserParams) (sqlcgen.User, error) {
	return r.store.CreateUser(ctx, params)
}

// GetByEmail fetches a user by email. Returns ErrNotFound when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (sqlcgen.User, error) {
	user, err := r.store.GetUserByEmail(ctx, email)
	return user, mapNotFound(err)
}

// GetByID fetches a user by ID. Returns ErrNotFound when absent.
func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (sqlcgen.User, error) {
	user, err := r.store.GetUserByID(ctx, PGUUID(userID))
	return user, mapNotFound(err)
}

// UpdateLogin records the last login timestamp.
func (r *UserRepository) UpdateLogin(ctx context.Context, userID uuid.UUID) error {
	return r.store.UpdateUserLogin(ctx, PGUUID(userID))
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, hash string) error {
	return r.store.UpdateUserPassword(ctx, sqlcgen.UpdateUserPasswordParams{
		UserID:       PGUUID(userID),
		PasswordHash: pgtype.Text{String: hash, Valid: true},
	})
}
