package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jcarranz97/colony/internal/apperr"
	"github.com/jcarranz97/colony/internal/model"
)

// uniqueViolation is the postgres error code for unique constraint violations.
const uniqueViolation = "23505"

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, preferred_currency, locale, active, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.PreferredCurrency, &u.Locale,
		&u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// FindByEmail returns the user with the given email, matched
// case-insensitively, or nil if no such user exists.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email)=lower($1)`
	return scanUser(r.DB.QueryRow(ctx, query, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.DB.QueryRow(ctx, query, id))
}

// Insert persists a new user. A unique-index violation on the email is
// reported as USER_ALREADY_EXISTS; the index is the final arbiter for
// concurrent registrations that both passed the existence check.
func (r *UserRepository) Insert(ctx context.Context, u *model.User) (*model.User, error) {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DB.Exec(ctx, query,
		u.ID, u.Email, u.PasswordHash,
		u.FirstName, u.LastName, u.PreferredCurrency, u.Locale,
		u.Active, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperr.UserAlreadyExists(u.Email).WithCause(err)
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *model.User) (*model.User, error) {
	u.UpdatedAt = time.Now()

	query := `UPDATE users
		SET email=$2, password_hash=$3, first_name=$4, last_name=$5,
		    preferred_currency=$6, locale=$7, active=$8, updated_at=$9
		WHERE id=$1`
	tag, err := r.DB.Exec(ctx, query,
		u.ID, u.Email, u.PasswordHash,
		u.FirstName, u.LastName, u.PreferredCurrency, u.Locale,
		u.Active, u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.UserNotFound()
	}
	return u, nil
}
