package accounts

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepo expects staff_accounts (id, email UNIQUE, password_hash, role, created_at).
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const uniqueViolation = "23505"

func (r *PostgresRepo) Create(ctx context.Context, a Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO staff_accounts (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, a.ID, a.Email, a.PasswordHash, a.Role, a.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrEmailTaken
	}
	return err
}

func (r *PostgresRepo) ByEmail(ctx context.Context, email string) (Account, error) {
	return r.one(ctx, `SELECT id, email, password_hash, role, created_at FROM staff_accounts WHERE email = $1`, email)
}

func (r *PostgresRepo) ByID(ctx context.Context, id string) (Account, error) {
	return r.one(ctx, `SELECT id, email, password_hash, role, created_at FROM staff_accounts WHERE id = $1`, id)
}

func (r *PostgresRepo) one(ctx context.Context, q string, arg string) (Account, error) {
	var a Account
	err := r.db.QueryRowContext(ctx, q, arg).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, err
	}
	return a, nil
}
