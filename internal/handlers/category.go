package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mission365/classified-marketplace/internal/database"
	"github.com/mission365/classified-marketplace/internal/models"
	"github.com/mission365/classified-marketplace/pkg/errors"
	"gorm.io/gorm"
)

// ListCategories handles GET /categories: active categories ordered by name
// with their derived product counts.
func ListCategories(c *gin.Context) {
	const cacheKey = "categories:active"

	var cached []models.Category
	if err := database.CacheGet(cacheKey, &cached); err == nil {
		respondOK(c, cached)
		return
	}

	var categories []models.Category
	err := database.DB.Where("is_active = ?", true).
		Order("name asc").
		Find(&categories).Error
	if err != nil {
		respondError(c, errors.Internal("Failed to fetch categories"))
		return
	}

	counts, err := productCountsByCategory()
	if err != nil {
		respondError(c, errors.Internal("Failed to fetch categories"))
		return
	}
	for i := range categories {
		categories[i].ProductsCount = counts[categories[i].ID]
	}

	database.CacheSet(cacheKey, categories, 5*time.Minute)
	respondOK(c, categories)
}

// GetCategory handles GET /categories/:id: the category with its active
// products, newest first.
func GetCategory(c *gin.Context) {
	id := c.Param("id")

	var category models.Category
	if err := database.DB.First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, errors.NotFound("Category not found"))
		} else {
			respondError(c, errors.Internal("Database error"))
		}
		return
	}

	var products []models.Product
	err := database.DB.Preload("User").Preload("Category").
		Where("category_id = ? AND status = ?", id, models.StatusActive).
		Order("created_at desc").
		Find(&products).Error
	if err != nil {
		respondError(c, errors.Internal("Failed to fetch category products"))
		return
	}

	category.Products = products
	category.ProductsCount = int64(len(products))

	respondOK(c, category)
}

// productCountsByCategory returns per-category product counts in one
// grouped query
func productCountsByCategory() (map[string]int64, error) {
	type row struct {
		CategoryID string
		Count      int64
	}
	var rows []row
	err := database.DB.Model(&models.Product{}).
		Select("category_id, COUNT(*) as count").
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.CategoryID] = r.Count
	}
	return counts, nil
}
