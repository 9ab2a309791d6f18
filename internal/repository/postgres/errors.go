package postgres

import "fmt"

const (
	errContentNotFound = "content not found"
	errUserNotFound    = "user not found"
)

func errFailedParseDatabaseConfig(err error) error {
	return fmt.Errorf("failed to parse database config: %w", err)
}

func errFailedCreateConnectionPool(err error) error {
	return fmt.Errorf("failed to create connection pool: %w", err)
}

func errFailedPingDatabase(err error) error {
	return fmt.Errorf("failed to ping database: %w", err)
}

func errFailedGetContent(err error) error {
	return fmt.Errorf("failed to get content descriptor: %w", err)
}

func errFailedGetUser(err error) error {
	return fmt.Errorf("failed to get user: %w", err)
}
