// Package app wires configuration, database and store for the binaries.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"lg/calorie-tracker/internal/apperr"
	"lg/calorie-tracker/internal/config"
	"lg/calorie-tracker/internal/db"
	"lg/calorie-tracker/internal/metrics"
	"lg/calorie-tracker/internal/store"
)

// DefaultCategories are created by SeedCategories when missing.
var DefaultCategories = []string{
	"Beverages",
	"Dairy",
	"Fruits",
	"Grains",
	"Meat & Poultry",
	"Seafood",
	"Snacks",
	"Vegetables",
}

// SetupLogging configures the global logrus logger.
func SetupLogging(level log.Level) {
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

// OpenStore opens and migrates the configured database and returns a store
// using the wall clock. Callers close the connection with db.Close.
func OpenStore(cfg config.AppConfig) (*store.Store, *gorm.DB, error) {
	conn, err := db.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		db.Close(conn)
		return nil, nil, errMigrate
	}
	engine := metrics.NewEngine(cfg.Nutrition, time.Now)
	return store.New(conn, engine), conn, nil
}

// SeedCategories creates every default category that does not exist yet and
// returns how many were added.
func SeedCategories(ctx context.Context, st *store.Store) (int, error) {
	existing, err := st.ListCategories(ctx)
	if err != nil {
		return 0, err
	}
	have := make(map[string]bool, len(existing))
	for _, c := range existing {
		have[c.Name] = true
	}

	added := 0
	for _, name := range DefaultCategories {
		if have[name] {
			continue
		}
		if _, errCreate := st.CreateCategory(ctx, name, nil); errCreate != nil {
			// Another process may have seeded concurrently.
			if apperr.IsValidation(errCreate) {
				continue
			}
			return added, fmt.Errorf("app: seed category %q: %w", name, errCreate)
		}
		added++
	}
	return added, nil
}
