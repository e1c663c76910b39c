package seeds

import (
	"log"

	"github.com/mission365/classified-marketplace/internal/database"
	"github.com/mission365/classified-marketplace/internal/models"
	"github.com/mission365/classified-marketplace/pkg/utils"
)

// SeedCategories creates the default marketplace categories
func SeedCategories() ([]models.Category, error) {
	log.Println("Seeding categories...")

	categories := []models.Category{
		{Name: "Electronics", Description: "Phones, laptops, tablets, and electronic devices", Icon: "smartphone"},
		{Name: "Vehicles", Description: "Cars, motorcycles, bicycles, and automotive parts", Icon: "car"},
		{Name: "Home & Garden", Description: "Furniture, appliances, and garden equipment", Icon: "home"},
		{Name: "Fashion", Description: "Clothing, shoes, accessories, and jewelry", Icon: "shirt"},
		{Name: "Sports & Recreation", Description: "Sports equipment, outdoor gear, and fitness items", Icon: "dumbbell"},
		{Name: "Books & Media", Description: "Books, movies, music, and educational materials", Icon: "book"},
		{Name: "Pets & Animals", Description: "Pet supplies, animals, and pet services", Icon: "heart"},
		{Name: "Services", Description: "Professional services, tutoring, and consulting", Icon: "briefcase"},
	}

	created := make([]models.Category, 0, len(categories))
	for _, cat := range categories {
		var existing models.Category
		if err := database.DB.Where("name = ?", cat.Name).First(&existing).Error; err == nil {
			created = append(created, existing)
			continue
		}

		cat.ID = utils.GenerateID()
		cat.IsActive = true
		if err := database.DB.Create(&cat).Error; err != nil {
			return nil, err
		}
		created = append(created, cat)
	}

	log.Printf("Seeded %d categories", len(created))
	return created, nil
}
