package config

import (
	"MatSmart-Lager/internal/utils"
	"MatSmart-Lager/pkg/store"
	"MatSmart-Lager/pkg/store/memory"
	"MatSmart-Lager/pkg/store/postgres"
	"MatSmart-Lager/pkg/store/supabase"
	"fmt"
	"log/slog"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Europe/Stockholm",
		utils.GetConfig("DB_HOST"),
		utils.GetConfig("DB_USER"),
		utils.GetConfig("DB_PASSWORD"),
		utils.GetConfig("DB_NAME"),
		utils.GetConfig("DB_PORT"),
	)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return db, nil
}

// NewStore opens the record store selected by STORE_DRIVER.
func NewStore() (store.Store, error) {
	driver := utils.GetConfig("STORE_DRIVER")
	slog.Info("opening record store", "driver", driver)

	switch driver {
	case "supabase":
		s, err := supabase.NewStore(supabase.Config{
			URL:    utils.GetConfig("SUPABASE_URL"),
			APIKey: utils.GetConfig("SUPABASE_SERVICE_KEY"),
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		db, err := ConnectDB()
		if err != nil {
			return nil, err
		}
		return postgres.NewStore(db), nil
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", driver)
	}
}
