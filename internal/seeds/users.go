package seeds

import (
	"log"

	"github.com/mission365/classified-marketplace/internal/database"
	"github.com/mission365/classified-marketplace/internal/models"
	"github.com/mission365/classified-marketplace/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

func floatPtr(v float64) *float64 { return &v }

// SeedUsers creates the demo sellers and buyers if they are not present
func SeedUsers() ([]models.User, error) {
	log.Println("Seeding users...")

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := []models.User{
		{
			Name: "John Smith", Email: "john@example.com", Phone: "+1234567890",
			Address: "123 Main St, New York, NY", Latitude: floatPtr(40.7128), Longitude: floatPtr(-74.0060),
			Role: models.RoleSeller,
		},
		{
			Name: "Sarah Johnson", Email: "sarah@example.com", Phone: "+1234567891",
			Address: "456 Oak Ave, Los Angeles, CA", Latitude: floatPtr(34.0522), Longitude: floatPtr(-118.2437),
			Role: models.RoleSeller,
		},
		{
			Name: "Mike Wilson", Email: "mike@example.com", Phone: "+1234567892",
			Address: "789 Pine St, Chicago, IL", Latitude: floatPtr(41.8781), Longitude: floatPtr(-87.6298),
			Role: models.RoleSeller,
		},
		{
			Name: "Emily Davis", Email: "emily@example.com", Phone: "+1234567893",
			Address: "321 Elm St, Houston, TX", Latitude: floatPtr(29.7604), Longitude: floatPtr(-95.3698),
			Role: models.RoleBuyer,
		},
		{
			Name: "David Brown", Email: "david@example.com", Phone: "+1234567894",
			Address: "654 Maple Dr, Phoenix, AZ", Latitude: floatPtr(33.4484), Longitude: floatPtr(-112.0740),
			Role: models.RoleBuyer,
		},
	}

	created := make([]models.User, 0, len(users))
	for _, u := range users {
		var existing models.User
		if err := database.DB.Where("email = ?", u.Email).First(&existing).Error; err == nil {
			created = append(created, existing)
			continue
		}

		u.ID = utils.GenerateID()
		u.Password = string(hash)
		u.IsActive = true
		if err := database.DB.Create(&u).Error; err != nil {
			return nil, err
		}
		created = append(created, u)
	}

	log.Printf("Seeded %d users", len(created))
	return created, nil
}
