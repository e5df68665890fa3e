package main

import (
	"MatSmart-Lager/cmd/config"
	migration "MatSmart-Lager/cmd/database/migrate"
	"MatSmart-Lager/internal/utils"
	"MatSmart-Lager/pkg/logging"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	migrate := flag.Bool("migrate", false, "create tables for the postgres driver and exit")
	flag.Parse()

	// .env may point CONFIG_PATH at a different YAML file
	_ = godotenv.Load()
	utils.LoadConfig()
	logging.Setup(utils.GetConfig("LOG_LEVEL"))

	if *migrate {
		if err := runMigrations(); err != nil {
			slog.Error("migration failed", "err", err)
			os.Exit(1)
		}
		return
	}

	s, err := config.NewStore()
	if err != nil {
		slog.Error("record store unavailable", "err", err)
		os.Exit(1)
	}

	app, err := config.NewApp(s)
	if err != nil {
		slog.Error("app setup failed", "err", err)
		os.Exit(1)
	}

	go func() {
		addr := fmt.Sprintf(":%s", utils.GetConfig("APP_PORT"))
		slog.Info("listening", "addr", addr)
		if err := app.Listen(addr); err != nil {
			slog.Error("server stopped", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		slog.Error("shutdown failed", "err", err)
	}
	if closer, ok := s.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}

func runMigrations() error {
	db, err := config.ConnectDB()
	if err != nil {
		return err
	}
	return migration.Migrate(db)
}
