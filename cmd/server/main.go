package main

import (
	"log"

	"github.com/hobbyhub/backend/internal/config"
	"github.com/hobbyhub/backend/internal/model"
	"github.com/hobbyhub/backend/internal/server"
	"github.com/hobbyhub/backend/pkg/database"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	// Redis is optional: without it the app runs with rate limiting and
	// live notification delivery disabled.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	} else {
		log.Println("REDIS_URL not set, running without redis")
	}

	srv := server.NewServer(cfg, db, redisClient)

	log.Printf("listening on :%s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Hobby{},
		&model.Community{},
		&model.Member{},
		&model.Post{},
		&model.Comment{},
		&model.Like{},
		&model.Activity{},
	)
}
