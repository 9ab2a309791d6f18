package postgres

import (
	"context"
	"errors"

	"media-gate/internal/domain/media"
	apperrors "media-gate/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type ContentRepository struct {
	db *DB
}

func NewContentRepository(db *DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) GetByUniqueID(ctx context.Context, uniqueID string) (*media.Descriptor, error) {
	query := `
		SELECT unique_id, is_adult, is_public, owner_id
		FROM files WHERE unique_id = $1
	`

	d := &media.Descriptor{}
	err := r.db.Pool.QueryRow(ctx, query, uniqueID).Scan(
		&d.UniqueID, &d.IsAdult, &d.IsPublic, &d.OwnerID,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errContentNotFound)
		}
		return nil, errFailedGetContent(err)
	}

	return d, nil
}
