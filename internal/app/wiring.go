package app

import (
	"context"
	"fmt"
	"log"

	"media-gate/internal/auth"
	"media-gate/internal/config"
	"media-gate/internal/imaging"
	"media-gate/internal/origin"
	"media-gate/internal/pipeline"
	"media-gate/internal/repository"
	"media-gate/internal/repository/postgres"
	echotransport "media-gate/internal/transport/echo"

	"golang.org/x/image/webp"
)

const (
	runtimeKeyDatabaseURL  = "DATABASE_URL"
	runtimeKeyContentOwner = "CONTENT_OWNER"
)

// wire builds the request-serving object graph from the bootstrapped
// runtime. Called once, after bootstrap has succeeded.
func (s *Service) wire(ctx context.Context) (*echotransport.Server, func(), error) {
	cleanup := func() {}

	var (
		contentRepo repository.ContentRepository
		userRepo    repository.UserRepository
	)
	if dsn, ok := s.runtime.Lookup(runtimeKeyDatabaseURL); ok {
		db, err := postgres.New(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		cleanup = db.Close
		contentRepo = postgres.NewContentRepository(db)
		userRepo = postgres.NewUserRepository(db)
	} else {
		// Without a store every lookup fails, so every request 404s. The
		// choice is fixed at construction; a refresh that later delivers
		// DATABASE_URL takes effect on the next process start.
		log.Println("warning: no database configured, serving without a backing store")
		contentRepo = repository.Unavailable{}
		userRepo = repository.Unavailable{}
	}

	fetcher, err := s.buildFetcher()
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	verifier := auth.NewVerifier(s.registry, s.config.Production())
	renderer := imaging.NewRenderer(pipeline.NewMarkProvider(s.config.Peer.BaseURL, s.assets))

	p := pipeline.New(contentRepo, userRepo, verifier, fetcher, webp.Decode, renderer)

	return echotransport.NewServer(s.config, p), cleanup, nil
}

func (s *Service) buildFetcher() (origin.Fetcher, error) {
	if s.config.Origin.Backend == config.OriginBackendS3 {
		return origin.NewS3Fetcher(&s.config.AWS)
	}

	owner := func() (string, bool) {
		return s.runtime.Lookup(runtimeKeyContentOwner)
	}
	return origin.NewHTTPFetcher(
		s.config.Origin.RawContentBase,
		s.config.Origin.ContentRepo,
		owner,
		s.config.Origin.FetchTimeout,
	), nil
}
