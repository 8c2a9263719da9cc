package repo

import (
	"context"
	"fmt"
	"time"

	dom "taskman/internal/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"

type userDocument struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (d userDocument) toDomain() (dom.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return dom.User{}, fmt.Errorf("user %q: bad id: %w", d.ID, err)
	}
	return dom.User{
		ID:           id,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}, nil
}

// MongoUserRepo stores user accounts in the "users" collection.
type MongoUserRepo struct {
	col *mongo.Collection
}

// NewMongoUserRepo returns a user repo over the given database.
func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{col: db.Collection(usersCollection)}
}

// EnsureUserIndexes creates the unique username index.
func EnsureUserIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func (r *MongoUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	var doc userDocument
	err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return dom.User{}, ErrNoUser
	}
	if err != nil {
		return dom.User{}, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain()
}

func (r *MongoUserRepo) Create(ctx context.Context, username, passwordHash string) (dom.User, error) {
	u := dom.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	doc := userDocument{
		ID:           u.ID.String(),
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return dom.User{}, ErrUsernameTaken
		}
		return dom.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (r *MongoUserRepo) First(ctx context.Context) (dom.User, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}})
	var doc userDocument
	err := r.col.FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return dom.User{}, ErrNoUser
	}
	if err != nil {
		return dom.User{}, fmt.Errorf("find first user: %w", err)
	}
	return doc.toDomain()
}
