// Package app owns process lifecycle: configuration bootstrap from the
// trusted peer, dependency wiring, and graceful shutdown.
package app

import (
	"context"
	"log"
	"time"

	"media-gate/internal/bootstrap"
	"media-gate/internal/config"
	"media-gate/internal/infra/cache"
	"media-gate/internal/keys"
	echotransport "media-gate/internal/transport/echo"
)

const cacheCleanupInterval = 5 * time.Minute

// Service is the running application. The HTTP server only exists after
// Run has completed a successful configuration bootstrap; until then the
// process serves nothing.
type Service struct {
	config    *config.Config
	runtime   *config.Runtime
	registry  *keys.Registry
	bootstrap *bootstrap.Client
	assets    *cache.AssetCache
	server    *echotransport.Server
}

func NewService() (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	runtime := config.NewRuntime()
	registry := keys.NewRegistry(runtime)

	return &Service{
		config:    cfg,
		runtime:   runtime,
		registry:  registry,
		bootstrap: bootstrap.NewClient(cfg.Peer.BaseURL, registry, runtime),
		assets:    cache.NewAssetCache(),
	}, nil
}

// Run blocks until ctx is cancelled or the server fails. Bootstrap must
// succeed before any listener is opened.
func (s *Service) Run(ctx context.Context) error {
	log.Println("bootstrapping configuration from peer...")
	if err := s.bootstrap.Run(ctx); err != nil {
		return err
	}

	server, cleanup, err := s.wire(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	s.server = server

	go s.bootstrap.Watch(ctx)
	go s.startCacheCleanup(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("starting media gate on :%s", s.config.Server.Port)
		errCh <- server.Start(":" + s.config.Server.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func (s *Service) startCacheCleanup(ctx context.Context) {
	ticker := time.NewTicker(cacheCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.assets.Clear()
		}
	}
}
