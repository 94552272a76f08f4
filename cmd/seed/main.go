package main

import (
	"fmt"
	"log"

	"github.com/ikkim/authgate-backend/config"
	"github.com/ikkim/authgate-backend/internal/app/model"
	"github.com/ikkim/authgate-backend/internal/app/repository"
	"github.com/ikkim/authgate-backend/internal/db"
	"github.com/ikkim/authgate-backend/pkg/util"
)

// Seeds a handful of demo accounts for local development.
// All of them share the password "changeme-now".
var seedEmails = []string{
	"alice@example.com",
	"bob@example.com",
	"carol@example.com",
}

const seedPassword = "changeme-now"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())

	hash, err := util.HashPassword(seedPassword)
	if err != nil {
		log.Fatal("Failed to hash seed password:", err)
	}

	created := 0
	for _, email := range seedEmails {
		if _, err := userRepo.FindByEmail(email); err == nil {
			fmt.Printf("Skipping %s (already exists)\n", email)
			continue
		}

		user := &model.User{
			Email:        email,
			PasswordHash: hash,
		}
		if err := userRepo.Create(user); err != nil {
			log.Fatal("Failed to create seed user:", err)
		}
		fmt.Printf("Created %s (id=%d)\n", email, user.ID)
		created++
	}

	fmt.Printf("Seed completed: %d users created\n", created)
}
