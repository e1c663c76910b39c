package handlers

import (
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/mission365/classified-marketplace/internal/database"
	"github.com/mission365/classified-marketplace/internal/models"
	"github.com/mission365/classified-marketplace/pkg/errors"
	"github.com/mission365/classified-marketplace/pkg/logger"
	"github.com/mission365/classified-marketplace/pkg/utils"
	"gorm.io/gorm"
)

const maxProductImages = 5

// -- Inputs --

type CreateProductInput struct {
	CategoryID  string   `json:"category_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Condition   string   `json:"condition"`
	Location    string   `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Images      []string `json:"images"`
}

type UpdateProductInput struct {
	CategoryID  *string   `json:"category_id"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Condition   *string   `json:"condition"`
	Location    *string   `json:"location"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Status      *string   `json:"status"`
	Images      *[]string `json:"images"`
}

// -- Handlers --

// ListProducts handles GET /products: active products joined with owner and
// category, filtered, sorted and paginated per the query params.
func ListProducts(c *gin.Context) {
	filter, verr := ParseProductFilter(c)
	if verr != nil {
		respondValidation(c, verr.Fields)
		return
	}

	query := database.DB.Model(&models.Product{}).
		Where("status = ?", models.StatusActive)
	query = filter.Apply(query)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, errors.Internal("Failed to fetch products"))
		return
	}

	var products []models.Product
	err := filter.Sort(query).
		Preload("User").Preload("Category").
		Offset((filter.Page - 1) * filter.PerPage).
		Limit(filter.PerPage).
		Find(&products).Error
	if err != nil {
		respondError(c, errors.Internal("Failed to fetch products"))
		return
	}

	respondOK(c, newPage(products, total, filter.Page, filter.PerPage))
}

// GetProduct handles GET /products/:id. Each call bumps the view counter
// with a single in-place UPDATE so concurrent reads never lose counts.
func GetProduct(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := database.DB.Preload("User").Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, errors.NotFound("Product not found"))
		} else {
			respondError(c, errors.Internal("Database error"))
		}
		return
	}

	if err := database.DB.Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error; err != nil {
		logger.Error().Err(err).Str("product_id", id).Msg("Failed to increment views")
	} else {
		product.Views++
	}

	respondOK(c, product)
}

// CreateProduct handles POST /products
func CreateProduct(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errors.BadRequest("Invalid request body"))
		return
	}

	verr := errors.NewValidationError()
	validateProductFields(verr, input.CategoryID, input.Title, input.Description, input.Price,
		input.Condition, input.Location, input.Latitude, input.Longitude, input.Images)
	if verr.HasErrors() {
		respondValidation(c, verr.Fields)
		return
	}

	product := models.Product{
		ID:          utils.GenerateID(),
		UserID:      userID,
		CategoryID:  input.CategoryID,
		Title:       input.Title,
		Description: input.Description,
		Price:       *input.Price,
		Condition:   models.Condition(input.Condition),
		Location:    input.Location,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Images:      pq.StringArray(input.Images),
		Status:      models.StatusActive,
	}

	if err := database.DB.Create(&product).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to create product")
		respondError(c, errors.Internal("Failed to create product"))
		return
	}

	database.DB.Preload("User").Preload("Category").First(&product, "id = ?", product.ID)
	invalidateListingCaches()

	respondCreated(c, "Product created successfully", product)
}

// UpdateProduct handles PUT /products/:id. Only the owner may update; any
// subset of fields may be supplied, including a direct status change.
func UpdateProduct(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	id := c.Param("id")

	var product models.Product
	if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, errors.NotFound("Product not found"))
		} else {
			respondError(c, errors.Internal("Database error"))
		}
		return
	}

	if product.UserID != userID {
		respondError(c, errors.Forbidden("You do not own this product"))
		return
	}

	var input UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errors.BadRequest("Invalid request body"))
		return
	}

	verr := errors.NewValidationError()
	updates := map[string]interface{}{}

	if input.CategoryID != nil {
		if !categoryExists(*input.CategoryID) {
			verr.Add("category_id", "The selected category does not exist")
		} else {
			updates["category_id"] = *input.CategoryID
		}
	}
	if input.Title != nil {
		if *input.Title == "" || utf8.RuneCountInString(*input.Title) > 255 {
			verr.Add("title", "The title must be between 1 and 255 characters")
		} else {
			updates["title"] = *input.Title
		}
	}
	if input.Description != nil {
		if *input.Description == "" {
			verr.Add("description", "The description field is required")
		} else {
			updates["description"] = *input.Description
		}
	}
	if input.Price != nil {
		if *input.Price < 0 {
			verr.Add("price", "The price must be at least 0")
		} else {
			updates["price"] = *input.Price
		}
	}
	if input.Condition != nil {
		if !models.ValidCondition(*input.Condition) {
			verr.Add("condition", "The condition must be one of: new, used, refurbished")
		} else {
			updates["condition"] = *input.Condition
		}
	}
	if input.Location != nil {
		if *input.Location == "" || utf8.RuneCountInString(*input.Location) > 255 {
			verr.Add("location", "The location must be between 1 and 255 characters")
		} else {
			updates["location"] = *input.Location
		}
	}
	if input.Latitude != nil {
		if *input.Latitude < -90 || *input.Latitude > 90 {
			verr.Add("latitude", "The latitude must be between -90 and 90")
		} else {
			updates["latitude"] = *input.Latitude
		}
	}
	if input.Longitude != nil {
		if *input.Longitude < -180 || *input.Longitude > 180 {
			verr.Add("longitude", "The longitude must be between -180 and 180")
		} else {
			updates["longitude"] = *input.Longitude
		}
	}
	if input.Status != nil {
		if !models.ValidStatus(*input.Status) {
			verr.Add("status", "The status must be one of: active, sold, inactive")
		} else {
			updates["status"] = *input.Status
		}
	}
	if input.Images != nil {
		if len(*input.Images) > maxProductImages {
			verr.Add("images", "A product may have at most 5 images")
		}
	}

	if verr.HasErrors() {
		respondValidation(c, verr.Fields)
		return
	}

	if input.Images != nil {
		// Replacing the image set removes the old objects from storage
		if len(product.Images) > 0 {
			deleteProductImages(product.Images)
		}
		updates["images"] = pq.StringArray(*input.Images)
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&product).Updates(updates).Error; err != nil {
			logger.Error().Err(err).Str("product_id", id).Msg("Failed to update product")
			respondError(c, errors.Internal("Failed to update product"))
			return
		}
	}

	database.DB.Preload("User").Preload("Category").First(&product, "id = ?", id)
	invalidateListingCaches()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product updated successfully",
		"data":    product,
	})
}

// DeleteProduct handles DELETE /products/:id. Hard delete; stored images
// are removed alongside the record.
func DeleteProduct(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	id := c.Param("id")

	var product models.Product
	if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, errors.NotFound("Product not found"))
		} else {
			respondError(c, errors.Internal("Database error"))
		}
		return
	}

	if product.UserID != userID {
		respondError(c, errors.Forbidden("You do not own this product"))
		return
	}

	if len(product.Images) > 0 {
		deleteProductImages(product.Images)
	}

	if err := database.DB.Delete(&product).Error; err != nil {
		logger.Error().Err(err).Str("product_id", id).Msg("Failed to delete product")
		respondError(c, errors.Internal("Failed to delete product"))
		return
	}

	invalidateListingCaches()
	respondMessage(c, "Product deleted successfully")
}

// MyProducts handles GET /my-products: the caller's own listings in any
// status, newest first.
func MyProducts(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	page, perPage := 1, defaultPerPage
	if n, err := utils.ParsePositiveInt(c.Query("page")); err == nil {
		page = n
	}
	if n, err := utils.ParsePositiveInt(c.Query("per_page")); err == nil {
		perPage = n
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	query := database.DB.Model(&models.Product{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, errors.Internal("Failed to fetch products"))
		return
	}

	var products []models.Product
	err := query.Preload("Category").
		Order("created_at desc").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&products).Error
	if err != nil {
		respondError(c, errors.Internal("Failed to fetch products"))
		return
	}

	respondOK(c, newPage(products, total, page, perPage))
}

// FeaturedProducts handles GET /products/featured: the ten newest featured
// active listings, cached for a short window.
func FeaturedProducts(c *gin.Context) {
	const cacheKey = "products:featured"

	var cached []models.Product
	if err := database.CacheGet(cacheKey, &cached); err == nil {
		respondOK(c, cached)
		return
	}

	var products []models.Product
	err := database.DB.Preload("User").Preload("Category").
		Where("status = ? AND is_featured = ?", models.StatusActive, true).
		Order("created_at desc").
		Limit(10).
		Find(&products).Error
	if err != nil {
		respondError(c, errors.Internal("Failed to fetch featured products"))
		return
	}

	database.CacheSet(cacheKey, products, 5*time.Minute)
	respondOK(c, products)
}

// -- Helpers --

func validateProductFields(verr *errors.ValidationError, categoryID, title, description string,
	price *float64, condition, location string, latitude, longitude *float64, images []string) {

	if categoryID == "" {
		verr.Add("category_id", "The category_id field is required")
	} else if !categoryExists(categoryID) {
		verr.Add("category_id", "The selected category does not exist")
	}

	if title == "" {
		verr.Add("title", "The title field is required")
	} else if utf8.RuneCountInString(title) > 255 {
		verr.Add("title", "The title may not be greater than 255 characters")
	}

	if description == "" {
		verr.Add("description", "The description field is required")
	}

	if price == nil {
		verr.Add("price", "The price field is required")
	} else if *price < 0 {
		verr.Add("price", "The price must be at least 0")
	}

	if condition == "" {
		verr.Add("condition", "The condition field is required")
	} else if !models.ValidCondition(condition) {
		verr.Add("condition", "The condition must be one of: new, used, refurbished")
	}

	if location == "" {
		verr.Add("location", "The location field is required")
	} else if utf8.RuneCountInString(location) > 255 {
		verr.Add("location", "The location may not be greater than 255 characters")
	}

	if latitude != nil && (*latitude < -90 || *latitude > 90) {
		verr.Add("latitude", "The latitude must be between -90 and 90")
	}
	if longitude != nil && (*longitude < -180 || *longitude > 180) {
		verr.Add("longitude", "The longitude must be between -180 and 180")
	}

	if len(images) > maxProductImages {
		verr.Add("images", "A product may have at most 5 images")
	}
}

func categoryExists(id string) bool {
	var count int64
	database.DB.Model(&models.Category{}).Where("id = ?", id).Count(&count)
	return count > 0
}

func invalidateListingCaches() {
	database.CacheInvalidate("products:featured*")
	database.CacheInvalidate("categories:*")
}
