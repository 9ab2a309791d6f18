package repository

import (
	"context"

	"media-gate/internal/domain/media"
	apperrors "media-gate/pkg/errors"
)

// Unavailable is the backend used when no store is configured. Every lookup
// fails with a configuration error, which the pipeline treats as not-found:
// an unconfigured store must never cause raw bytes to be served.
//
// This replaces the previous dynamically-stubbed fallback client with an
// explicit variant chosen at construction time.
type Unavailable struct{}

func (Unavailable) GetByUniqueID(ctx context.Context, uniqueID string) (*media.Descriptor, error) {
	return nil, apperrors.Configuration(msgStoreNotConfigured)
}

func (Unavailable) GetBySessionRef(ctx context.Context, sessionRef string) (*media.Identity, error) {
	return nil, apperrors.Configuration(msgStoreNotConfigured)
}

const msgStoreNotConfigured = "backing store not configured"
