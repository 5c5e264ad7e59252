package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/dcastellanos/userboard/internal/user/domain"
)

type Repository interface {
	Create(ctx context.Context, username, email, passwordHash string) (domain.ID, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	List(ctx context.Context) ([]domain.Account, error)
	Update(ctx context.Context, id domain.ID, username, email string) error
	Delete(ctx context.Context, id domain.ID) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, username, email, passwordHash string) (domain.ID, error) {
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		username,
		email,
		passwordHash,
	)

	var id int64
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicateUser
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return domain.ID(id), nil
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE email = $1`,
		email,
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("failed to find user by email: %w", err)
	}

	return user, nil
}

func (r *PgRepository) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, username, email, created_at FROM users`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		accounts = append(accounts, a)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return accounts, nil
}

// Update overwrites unconditionally. A missing id affects zero rows and is
// not reported as an error.
func (r *PgRepository) Update(ctx context.Context, id domain.ID, username, email string) error {
	_, err := r.pool.Exec(
		ctx,
		`UPDATE users SET username = $1, email = $2 WHERE id = $3`,
		username,
		email,
		int64(id),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateUser
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Delete is idempotent in effect: deleting an absent id succeeds.
func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, int64(id)); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

var ErrUserNotFound = errors.New("user not found")

var ErrDuplicateUser = errors.New("username or email already exists")
