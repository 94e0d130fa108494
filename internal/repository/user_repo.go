package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/leyenda/storefront/internal/models"
)

// UserRepo persists accounts.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts an unverified account. A duplicate email surfaces as
// models.ErrEmailTaken.
func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, verified, verify_token, created_at)
		VALUES ($1, $2, $3, FALSE, $4, NOW())
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query, u.Name, u.Email, u.PasswordHash, u.VerifyToken).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return models.ErrEmailTaken
		}
		return err
	}
	return nil
}

// FindByEmail returns (nil, nil) when no account matches.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, verified, COALESCE(verify_token, ''), created_at
		FROM users
		WHERE email = $1
	`, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Verified, &u.VerifyToken, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// MarkVerified activates the account holding token. Returns false when the
// token matches nothing.
func (r *UserRepo) MarkVerified(ctx context.Context, token string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET verified = TRUE, verify_token = NULL
		WHERE verify_token = $1
	`, token)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
