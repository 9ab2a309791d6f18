package repository

import (
	"context"

	"media-gate/internal/domain/media"
)

// ContentRepository looks up content descriptors by their unique identifier.
type ContentRepository interface {
	GetByUniqueID(ctx context.Context, uniqueID string) (*media.Descriptor, error)
}

// UserRepository resolves an authenticated identity from the session
// reference carried in a verified caller token.
type UserRepository interface {
	GetBySessionRef(ctx context.Context, sessionRef string) (*media.Identity, error)
}
