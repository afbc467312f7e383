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

type PaymentMethodRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentMethodRepository(db *pgxpool.Pool) *PaymentMethodRepository {
	return &PaymentMethodRepository{DB: db}
}

// PaymentMethodFilter narrows ListByUser results.
type PaymentMethodFilter struct {
	Active   *bool
	Currency *string
}

const paymentMethodColumns = `id, user_id, name, method_type, default_currency, description, active, created_at, updated_at`

func scanPaymentMethod(row pgx.Row) (*model.PaymentMethod, error) {
	var pm model.PaymentMethod
	err := row.Scan(
		&pm.ID, &pm.UserID, &pm.Name, &pm.MethodType, &pm.DefaultCurrency,
		&pm.Description, &pm.Active, &pm.CreatedAt, &pm.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &pm, nil
}

// ListByUser returns the user's payment methods, newest first.
func (r *PaymentMethodRepository) ListByUser(ctx context.Context, userID uuid.UUID, f PaymentMethodFilter) ([]model.PaymentMethod, error) {
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE user_id=$1`
	args := []any{userID}

	if f.Active != nil {
		args = append(args, *f.Active)
		query += ` AND active=$2`
	}
	if f.Currency != nil {
		args = append(args, *f.Currency)
		if f.Active != nil {
			query += ` AND default_currency=$3`
		} else {
			query += ` AND default_currency=$2`
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.PaymentMethod{}
	for rows.Next() {
		var pm model.PaymentMethod
		if err := rows.Scan(
			&pm.ID, &pm.UserID, &pm.Name, &pm.MethodType, &pm.DefaultCurrency,
			&pm.Description, &pm.Active, &pm.CreatedAt, &pm.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, pm)
	}
	return out, rows.Err()
}

// FindByID returns the payment method only if it belongs to userID,
// or nil when absent.
func (r *PaymentMethodRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.PaymentMethod, error) {
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE id=$1 AND user_id=$2`
	return scanPaymentMethod(r.DB.QueryRow(ctx, query, id, userID))
}

// FindActiveByName matches on name case-insensitively among active records.
func (r *PaymentMethodRepository) FindActiveByName(ctx context.Context, userID uuid.UUID, name string) (*model.PaymentMethod, error) {
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods
		WHERE user_id=$1 AND lower(name)=lower($2) AND active`
	return scanPaymentMethod(r.DB.QueryRow(ctx, query, userID, name))
}

func (r *PaymentMethodRepository) CountActive(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	query := `SELECT count(*) FROM payment_methods WHERE user_id=$1 AND active`
	if err := r.DB.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PaymentMethodRepository) Insert(ctx context.Context, pm *model.PaymentMethod) (*model.PaymentMethod, error) {
	now := time.Now()
	pm.CreatedAt = now
	pm.UpdatedAt = now

	query := `INSERT INTO payment_methods (` + paymentMethodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.Exec(ctx, query,
		pm.ID, pm.UserID, pm.Name, pm.MethodType, pm.DefaultCurrency,
		pm.Description, pm.Active, pm.CreatedAt, pm.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperr.PaymentMethodNameExists(pm.Name).WithCause(err)
		}
		return nil, err
	}
	return pm, nil
}

func (r *PaymentMethodRepository) Update(ctx context.Context, pm *model.PaymentMethod) (*model.PaymentMethod, error) {
	pm.UpdatedAt = time.Now()

	query := `UPDATE payment_methods
		SET name=$3, method_type=$4, default_currency=$5, description=$6, active=$7, updated_at=$8
		WHERE id=$1 AND user_id=$2`
	tag, err := r.DB.Exec(ctx, query,
		pm.ID, pm.UserID, pm.Name, pm.MethodType, pm.DefaultCurrency,
		pm.Description, pm.Active, pm.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperr.PaymentMethodNameExists(pm.Name).WithCause(err)
		}
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.PaymentMethodNotFound(pm.ID.String())
	}
	return pm, nil
}
