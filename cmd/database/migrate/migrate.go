package migration

import (
	"MatSmart-Lager/pkg/store/postgres"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// Migrate creates the record store tables when running against plain Postgres.
// Supabase projects manage their schema themselves.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		slog.Warn("uuid-ossp extension unavailable", "err", err)
	}

	for _, model := range postgres.Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate %T: %w", model, err)
		}
	}

	slog.Info("database migration complete")
	return nil
}
