// Command createadmin seeds an approved admin account.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"time"

	"github.com/Mukungiisaac/Sakeja/internal/app"
	"github.com/Mukungiisaac/Sakeja/internal/auth"
	"github.com/Mukungiisaac/Sakeja/internal/config"
	"github.com/Mukungiisaac/Sakeja/internal/db"
	"github.com/Mukungiisaac/Sakeja/internal/logger"
	"github.com/Mukungiisaac/Sakeja/internal/metrics"
	"github.com/Mukungiisaac/Sakeja/internal/schema"
	"github.com/Mukungiisaac/Sakeja/internal/user"

	"github.com/joho/godotenv"
)

func main() {
	email := flag.String("email", "admin@sakeja.com", "admin email")
	name := flag.String("name", "Admin", "admin display name")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if *password == "" {
		log.Fatal("-password is required")
	}

	_ = godotenv.Load()

	slogLogger := logger.NewWithServiceContext(app.ServiceName, app.Version)
	slog.SetDefault(slogLogger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	database, err := db.New(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close(database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.RunMigrations(ctx, database, schema.Tables()...); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	m := metrics.NewMock()
	tokens, err := auth.NewTokenManager("createadmin")
	if err != nil {
		log.Fatalf("failed to create token manager: %v", err)
	}
	service := auth.NewService(user.NewRepository(database, m), auth.NewPostgresStore(database, m), tokens, cfg.Session.TTL(), m, slogLogger)

	admin, created, err := service.CreateAdmin(ctx, *email, *name, *password)
	if err != nil {
		log.Fatalf("failed to create admin: %v", err)
	}
	if !created {
		slogLogger.Info("admin already exists", "email", admin.Email, "id", admin.ID)
		return
	}
	slogLogger.Info("admin created", "email", admin.Email, "id", admin.ID)
}
