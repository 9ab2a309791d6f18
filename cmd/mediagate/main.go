package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"media-gate/internal/app"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service, err := app.NewService()
	if err != nil {
		log.Fatalf("Failed to initialize service: %v", err)
	}

	if err := service.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Service exited: %v", err)
	}
}
