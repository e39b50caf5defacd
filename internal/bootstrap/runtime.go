// Package bootstrap wires up shared runtime dependencies for the commands.
package bootstrap

import (
	"fmt"

	"airtecs/internal/cache"
	"airtecs/internal/config"
	"airtecs/internal/database"
	"airtecs/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	Migrate     bool
	SeedCatalog bool
}

// InitRuntime connects to the database and Redis and optionally runs
// migrations and catalog seeding.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Redis may come up nil if unreachable; callers degrade gracefully.
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.Migrate {
		if err := database.Migrate(db); err != nil {
			return nil, nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	if opts.SeedCatalog {
		if err := seed.Catalog(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed service catalog: %w", err)
		}
	}

	return db, r, nil
}
