package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"taskman/internal/config"
	"taskman/internal/repo"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type App struct {
	cfg    config.Config
	mongo  *mongo.Client
	redis  *redis.Client
	router *gin.Engine
}

// New wires the process: Redis is always required (sessions, query cache);
// the task/user backend is chosen by STORAGE_DRIVER at startup.
func New(cfg config.Config) (*App, error) {
	a := &App{cfg: cfg}

	rdb, err := newRedis(cfg.Redis)
	if err != nil {
		return nil, err
	}
	a.redis = rdb

	var tasks repo.TaskRepo
	var users repo.UserRepo
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		client, db, err := newMongo(cfg.Mongo)
		if err != nil {
			a.redis.Close()
			return nil, err
		}
		a.mongo = client
		tasks = repo.NewMongoTaskRepo(db)
		users = repo.NewMongoUserRepo(db)
		log.Printf("storage driver: mongo (%s)", cfg.Mongo.Database)
	default:
		tasks = repo.NewMemoryTaskRepo()
		users = repo.NewMemoryUserRepo()
		log.Printf("storage driver: memory")
	}

	if err := bootstrapStorage(cfg, a.mongo, users); err != nil {
		a.Close(context.Background())
		return nil, err
	}

	a.router = newRouter(cfg, tasks, users, a.redis)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.mongo != nil {
		_ = a.mongo.Disconnect(ctx)
	}
	return nil
}

func newMongo(cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	if err := repo.EnsureTaskIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	if err := repo.EnsureUserIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	return client, db, nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func newRouter(cfg config.Config, tasks repo.TaskRepo, users repo.UserRepo, rdb *redis.Client) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "Cookie"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))

	Setup(r, cfg, tasks, users, rdb)
	return r
}
