package repo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	migrationsCollection = "migrations"
	ownerMigrationID     = "ADD_OWNER_TO_TASKS_001"
)

// MigrateTaskOwners backfills owner_id on pre-ownership task documents,
// assigning them to the earliest-created user. A marker document in the
// migrations collection makes re-runs a no-op. An empty task set with no
// users is also a no-op, so fresh deployments start clean.
func MigrateTaskOwners(ctx context.Context, db *mongo.Database, users UserRepo) error {
	migrations := db.Collection(migrationsCollection)

	n, err := migrations.CountDocuments(ctx, bson.M{"_id": ownerMigrationID})
	if err != nil {
		return fmt.Errorf("check migration %s: %w", ownerMigrationID, err)
	}
	if n > 0 {
		log.Printf("migration %s already applied, skipping", ownerMigrationID)
		return nil
	}

	owner, err := users.First(ctx)
	if err != nil {
		if errors.Is(err, ErrNoUser) {
			// Nothing to own the orphans yet; try again next boot.
			log.Printf("migration %s: no users yet, skipping", ownerMigrationID)
			return nil
		}
		return fmt.Errorf("pick default owner: %w", err)
	}

	res, err := db.Collection(tasksCollection).UpdateMany(ctx,
		bson.M{"owner_id": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"owner_id": owner.ID.String()}},
	)
	if err != nil {
		return fmt.Errorf("backfill task owners: %w", err)
	}

	_, err = migrations.InsertOne(ctx, bson.M{
		"_id":        ownerMigrationID,
		"applied_at": time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("record migration %s: %w", ownerMigrationID, err)
	}
	log.Printf("migration %s applied: %d tasks assigned to %s", ownerMigrationID, res.ModifiedCount, owner.Username)
	return nil
}
