package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/danisyahputra/taskapi/config"
	"github.com/danisyahputra/taskapi/internal/domain/entity"
	"github.com/danisyahputra/taskapi/internal/infrastructure/mongodb"
	"github.com/danisyahputra/taskapi/pkg/helpers"
)

// Seeds a demo account with a few tasks for local development.
// Safe to re-run: skips when the demo user already exists.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoConnTimeout)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDatabase)

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	users := mongodb.NewUserRepository(db)
	tasks := mongodb.NewTaskRepository(db)

	const demoEmail = "demo@example.com"
	if n, err := db.Collection(mongodb.UsersCollection).CountDocuments(ctx, bson.M{"email": demoEmail}); err != nil {
		log.Fatalf("count: %v", err)
	} else if n > 0 {
		log.Println("demo user already seeded")
		return
	}

	hash, err := helpers.HashPassword("secret123", cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hash: %v", err)
	}
	u := &entity.User{Name: "Demo User", Email: demoEmail, Password: hash, Age: 30}
	if err := users.Create(ctx, u); err != nil {
		log.Fatalf("create user: %v", err)
	}

	for _, d := range []string{"buy groceries", "write weekly report", "book dentist appointment"} {
		if err := tasks.Create(ctx, &entity.Task{Description: d, Owner: u.ID}); err != nil {
			log.Fatalf("create task: %v", err)
		}
	}
	log.Printf("seeded user %s with 3 tasks", demoEmail)
}
