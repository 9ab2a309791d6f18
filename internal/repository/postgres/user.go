package postgres

import (
	"context"
	"errors"

	"media-gate/internal/domain/media"
	apperrors "media-gate/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetBySessionRef(ctx context.Context, sessionRef string) (*media.Identity, error) {
	query := `
		SELECT id, dob, verified
		FROM users WHERE c_usr = $1
	`

	identity := &media.Identity{}
	err := r.db.Pool.QueryRow(ctx, query, sessionRef).Scan(
		&identity.ID, &identity.DateOfBirth, &identity.Verified,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedGetUser(err)
	}

	return identity, nil
}
