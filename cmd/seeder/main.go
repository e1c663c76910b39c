package main

import (
	"log"

	"github.com/mission365/classified-marketplace/internal/config"
	"github.com/mission365/classified-marketplace/internal/database"
	"github.com/mission365/classified-marketplace/internal/models"
	"github.com/mission365/classified-marketplace/internal/seeds"
)

func main() {
	config.LoadConfig()
	database.Connect()

	if err := database.DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Message{},
	); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	users, err := seeds.SeedUsers()
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	categories, err := seeds.SeedCategories()
	if err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}

	if err := seeds.SeedProducts(users, categories); err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	log.Println("Seeding complete")
}
