package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/digimarket/backend/internal/domain"
	"github.com/digimarket/backend/internal/port"
)

type userRepository struct {
	db DB
}

func NewUser(db DB) port.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetUser(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, email, password_hash, role, created_at FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, email, password_hash, role, created_at FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *userRepository) InsertUser(ctx context.Context, user domain.User) (uuid.UUID, error) {
	var userID uuid.UUID

	err := r.db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id`,
		user.Email, user.PasswordHash, string(user.Role),
	).Scan(&userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return uuid.Nil, fmt.Errorf("insert user: %w", domain.ErrAlreadyExists)
		}
		return uuid.Nil, fmt.Errorf("insert user: %w", err)
	}

	return userID, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u    domain.User
		role string
	)

	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return u, fmt.Errorf("scan user: %w", domain.ErrNotFound)
		}
		return u, fmt.Errorf("scan user: %w", err)
	}

	u.Role, err = domain.ToRole(role)
	if err != nil {
		return u, fmt.Errorf("domain.ToRole[%s]: %w", role, err)
	}

	return u, nil
}
