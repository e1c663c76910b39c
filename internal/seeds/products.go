package seeds

import (
	"log"

	"github.com/lib/pq"
	"github.com/mission365/classified-marketplace/internal/database"
	"github.com/mission365/classified-marketplace/internal/models"
	"github.com/mission365/classified-marketplace/pkg/utils"
)

type productSeed struct {
	Title       string
	Description string
	Price       float64
	Condition   models.Condition
	Location    string
	Latitude    float64
	Longitude   float64
	Category    string
	IsFeatured  bool
	Views       int
	Images      []string
}

// SeedProducts creates demo listings spread across the seeded sellers and
// categories
func SeedProducts(users []models.User, categories []models.Category) error {
	log.Println("Seeding products...")

	sellers := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.Role == models.RoleSeller {
			sellers = append(sellers, u)
		}
	}
	if len(sellers) == 0 {
		log.Println("No sellers to own seed products, skipping")
		return nil
	}

	categoryByName := make(map[string]models.Category, len(categories))
	for _, cat := range categories {
		categoryByName[cat.Name] = cat
	}

	seedData := []productSeed{
		{
			Title:       "iPhone 14 Pro Max - Excellent Condition",
			Description: "Barely used iPhone 14 Pro Max in excellent condition. Comes with original box, charger, and screen protector already applied. No scratches or dents. Battery health at 98%.",
			Price:       899.99, Condition: models.ConditionUsed,
			Location: "New York, NY", Latitude: 40.7128, Longitude: -74.0060,
			Category: "Electronics", IsFeatured: true, Views: 245,
			Images: []string{
				"https://images.unsplash.com/photo-1592750475338-74b7b21085ab?w=500&h=500&fit=crop",
				"https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?w=500&h=500&fit=crop",
			},
		},
		{
			Title:       "MacBook Air M2 2022 - Like New",
			Description: "MacBook Air with M2 chip, 8GB RAM, 256GB SSD. Used for only 3 months. Perfect for students and professionals. Includes original charger and box.",
			Price:       1099.00, Condition: models.ConditionUsed,
			Location: "Los Angeles, CA", Latitude: 34.0522, Longitude: -118.2437,
			Category: "Electronics", IsFeatured: true, Views: 189,
			Images: []string{
				"https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=500&h=500&fit=crop",
			},
		},
		{
			Title:       "Samsung 65\" 4K Smart TV",
			Description: "Brand new Samsung 65-inch 4K UHD Smart TV. Still in original packaging. Perfect for home entertainment setup. Latest model with all smart features.",
			Price:       649.99, Condition: models.ConditionNew,
			Location: "Chicago, IL", Latitude: 41.8781, Longitude: -87.6298,
			Category: "Electronics", Views: 98,
			Images: []string{
				"https://images.unsplash.com/photo-1593359677879-a4bb92f829d1?w=500&h=500&fit=crop",
			},
		},
		{
			Title:       "2019 Honda Civic - Low Mileage",
			Description: "Well-maintained 2019 Honda Civic with only 32,000 miles. Single owner, full service history, no accidents. New tires fitted last month.",
			Price:       18500.00, Condition: models.ConditionUsed,
			Location: "Houston, TX", Latitude: 29.7604, Longitude: -95.3698,
			Category: "Vehicles", IsFeatured: true, Views: 412,
			Images: []string{
				"https://images.unsplash.com/photo-1590362891991-f776e747a588?w=500&h=500&fit=crop",
			},
		},
		{
			Title:       "Mid-Century Modern Sofa",
			Description: "Beautiful mid-century modern three-seater sofa in teal velvet. Minor wear on one armrest, otherwise in great shape. Smoke-free home.",
			Price:       450.00, Condition: models.ConditionUsed,
			Location: "Phoenix, AZ", Latitude: 33.4484, Longitude: -112.0740,
			Category: "Home & Garden", Views: 57,
			Images: []string{
				"https://images.unsplash.com/photo-1555041469-a586c61ea9bc?w=500&h=500&fit=crop",
			},
		},
		{
			Title:       "Refurbished Trek Mountain Bike",
			Description: "Professionally refurbished Trek Marlin 7 mountain bike. New drivetrain and brake pads, fresh tune-up. Ready for trails.",
			Price:       520.00, Condition: models.ConditionRefurbished,
			Location: "New York, NY", Latitude: 40.7128, Longitude: -74.0060,
			Category: "Sports & Recreation", Views: 73,
			Images: []string{
				"https://images.unsplash.com/photo-1532298229144-0ec0c57515c7?w=500&h=500&fit=crop",
			},
		},
	}

	count := 0
	for i, seed := range seedData {
		cat, ok := categoryByName[seed.Category]
		if !ok {
			continue
		}

		var existing models.Product
		if err := database.DB.Where("title = ?", seed.Title).First(&existing).Error; err == nil {
			continue
		}

		owner := sellers[i%len(sellers)]
		lat, lon := seed.Latitude, seed.Longitude
		product := models.Product{
			ID:          utils.GenerateID(),
			UserID:      owner.ID,
			CategoryID:  cat.ID,
			Title:       seed.Title,
			Description: seed.Description,
			Price:       seed.Price,
			Condition:   seed.Condition,
			Location:    seed.Location,
			Latitude:    &lat,
			Longitude:   &lon,
			Images:      pq.StringArray(seed.Images),
			Status:      models.StatusActive,
			Views:       seed.Views,
			IsFeatured:  seed.IsFeatured,
		}
		if err := database.DB.Create(&product).Error; err != nil {
			return err
		}
		count++
	}

	log.Printf("Seeded %d products", count)
	return nil
}
