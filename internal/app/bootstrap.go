package app

import (
	"context"
	"log"
	"time"

	"taskman/internal/config"
	"taskman/internal/repo"
	"taskman/internal/service"

	"go.mongodb.org/mongo-driver/mongo"
)

// bootstrapStorage seeds the configured user (if any) and, on mongo, runs
// the one-shot owner backfill so pre-ownership task documents get an
// owner. Both steps are idempotent across restarts.
func bootstrapStorage(cfg config.Config, client *mongo.Client, users repo.UserRepo) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cfg.Seed.Username != "" {
		userSvc := service.NewUserService(users)
		u, err := userSvc.EnsureUser(ctx, cfg.Seed.Username, cfg.Seed.Password)
		if err != nil {
			return err
		}
		log.Printf("seed user ready: %s", u.Username)
	}

	if client != nil {
		db := client.Database(cfg.Mongo.Database)
		if err := repo.MigrateTaskOwners(ctx, db, users); err != nil {
			return err
		}
	}
	return nil
}
