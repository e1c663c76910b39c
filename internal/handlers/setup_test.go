package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mission365/classified-marketplace/internal/config"
	"github.com/mission365/classified-marketplace/internal/database"
	"github.com/mission365/classified-marketplace/internal/models"
	"github.com/mission365/classified-marketplace/pkg/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB initializes an in-memory SQLite DB for testing
func SetupTestDB(t *testing.T) {
	t.Helper()

	config.AppConfig = &config.Config{JWTSecret: "test_secret_key"}

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	database.DB = db

	if err := database.DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Message{},
	); err != nil {
		t.Fatalf("Failed to migrate test DB: %v", err)
	}

	// The shared-cache memory DB survives across opens; start each test clean
	for _, table := range []string{"messages", "products", "categories", "users"} {
		database.DB.Exec("DELETE FROM " + table)
	}

	gin.SetMode(gin.TestMode)
}

// testContext builds a recorder-backed gin context with an optional JSON body
func testContext(t *testing.T, method, target string, body interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, target, &buf)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req

	return w, c
}

func createTestUser(t *testing.T, name, email string) models.User {
	t.Helper()
	user := models.User{
		ID:       utils.GenerateID(),
		Name:     name,
		Email:    email,
		Role:     models.RoleSeller,
		IsActive: true,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func createTestCategory(t *testing.T, name string) models.Category {
	t.Helper()
	cat := models.Category{
		ID:       utils.GenerateID(),
		Name:     name,
		IsActive: true,
	}
	if err := database.DB.Create(&cat).Error; err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}
	return cat
}

func createTestProduct(t *testing.T, p models.Product) models.Product {
	t.Helper()
	if p.ID == "" {
		p.ID = utils.GenerateID()
	}
	if p.Title == "" {
		p.Title = "Test Product " + p.ID[:8]
	}
	if p.Description == "" {
		p.Description = "A test listing"
	}
	if p.Condition == "" {
		p.Condition = models.ConditionUsed
	}
	if p.Location == "" {
		p.Location = "Testville"
	}
	if p.Status == "" {
		p.Status = models.StatusActive
	}
	if err := database.DB.Create(&p).Error; err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}
	return p
}

// listResponse mirrors the paginated listing envelope
type listResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Data        []models.Product `json:"data"`
		Total       int64            `json:"total"`
		PerPage     int              `json:"per_page"`
		CurrentPage int              `json:"current_page"`
		LastPage    int              `json:"last_page"`
	} `json:"data"`
}

func decodeListResponse(t *testing.T, w *httptest.ResponseRecorder) listResponse {
	t.Helper()
	var resp listResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode list response: %v", err)
	}
	return resp
}
