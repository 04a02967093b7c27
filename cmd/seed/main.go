package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-platform/config"
	pginfra "github.com/oksasatya/go-blog-platform/internal/infrastructure/postgres"
	"github.com/oksasatya/go-blog-platform/pkg/helpers"
)

type fixture struct {
	username, name, email, password, role string
}

// fixture identities used by local development and the client login page
var fixtures = []fixture{
	{username: "johndoe", name: "John Doe", email: "1johndoe@example.com", password: "hashedpassword1", role: "user"},
	{username: "admin", name: "Site Admin", email: "admin@example.com", password: "adminpassword1", role: "admin"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, time.Minute)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	for _, f := range fixtures {
		hash, err := helpers.HashPassword(f.password)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		var id int64
		err = pool.QueryRow(ctx, `
			INSERT INTO users (username, name, email, password, role)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, role = EXCLUDED.role, updated_at = now()
			RETURNING id
		`, f.username, f.name, f.email, hash, f.role).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed %s: %v", f.email, err)
		}
		helpers.LogInfo(logger, "seeded user", logrus.Fields{"id": id, "email": f.email, "role": f.role})
	}
}
