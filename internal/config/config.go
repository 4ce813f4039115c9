// Package config centralizes environment-driven wiring shared by the server,
// the fetcher and the scheduler binaries.
package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"VakitApp/internal/database"
	domainrepo "VakitApp/internal/domain/repository"
	infradb "VakitApp/internal/infrastructure/database"
	fsclient "VakitApp/internal/infrastructure/firestore"
	"VakitApp/internal/repository"
)

// LoadEnv reads .env when present. Missing files are fine; deployed
// environments inject variables directly.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("[Config] no .env file found, using environment variables")
	}
}

// Getenv returns the variable or a default when unset.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetenvInt returns the variable parsed as int, or the default.
func GetenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[Config] %s=%q is not a number, using %d", key, v, fallback)
		return fallback
	}
	return n
}

// GetenvDuration returns the variable parsed as milliseconds, or the default.
func GetenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[Config] %s=%q is not a number of milliseconds, using %s", key, v, fallback)
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

// CatalogPath is where the district catalog lives.
func CatalogPath() string {
	return Getenv("CATALOG_PATH", "data/districts.json")
}

// Stores bundles the two persistence namespaces the service needs: the daily
// cache and the monthly archive.
type Stores struct {
	Cache   domainrepo.Store
	Archive domainrepo.Store
	close   func() error
}

// Close releases the backing connection, if any.
func (s *Stores) Close() {
	if s.close == nil {
		return
	}
	if err := s.close(); err != nil {
		log.Printf("[Config] failed to close storage backend: %v", err)
	}
}

// NewStores builds both stores from STORAGE_BACKEND: file (default),
// postgres, firestore or supabase.
func NewStores(ctx context.Context) (*Stores, error) {
	backend := Getenv("STORAGE_BACKEND", "file")
	log.Printf("[Config] storage backend: %s", backend)

	switch backend {
	case "file":
		cache, err := repository.NewFileStore(Getenv("CACHE_DIR", "data/cache"))
		if err != nil {
			return nil, err
		}
		archive, err := repository.NewFileStore(Getenv("MONTHLY_DIR", "data/monthly"))
		if err != nil {
			return nil, err
		}
		return &Stores{Cache: cache, Archive: archive}, nil

	case "postgres":
		client, err := infradb.NewPostgreSQLClientWithRetry(5, 2*time.Second)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		cache, err := repository.NewPostgresStore(client, "daily_cache")
		if err != nil {
			client.Close()
			return nil, err
		}
		archive, err := repository.NewPostgresStore(client, "monthly_archive")
		if err != nil {
			client.Close()
			return nil, err
		}
		return &Stores{Cache: cache, Archive: archive, close: client.Close}, nil

	case "firestore":
		projectID := os.Getenv("FIRESTORE_PROJECT_ID")
		if projectID == "" {
			return nil, fmt.Errorf("FIRESTORE_PROJECT_ID environment variable is not set")
		}
		client, err := fsclient.NewFirestoreClient(ctx, projectID)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Cache:   repository.NewFirestoreStore(client, "daily_cache"),
			Archive: repository.NewFirestoreStore(client, "monthly_archive"),
			close:   client.Close,
		}, nil

	case "supabase":
		client, err := database.NewSupabaseClient()
		if err != nil {
			return nil, err
		}
		return &Stores{
			Cache:   repository.NewSupabaseStore(client, "daily_cache"),
			Archive: repository.NewSupabaseStore(client, "monthly_archive"),
		}, nil

	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", backend)
	}
}
