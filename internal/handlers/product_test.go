package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/mission365/classified-marketplace/internal/database"
	"github.com/mission365/classified-marketplace/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestListProducts_CategoryFilter(t *testing.T) {
	SetupTestDB(t)

	seller := createTestUser(t, "Seller", "seller_cat@example.com")
	electronics := createTestCategory(t, "Electronics")
	vehicles := createTestCategory(t, "Vehicles")

	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: electronics.ID, Title: "Phone"})
	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: electronics.ID, Title: "Laptop"})
	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: vehicles.ID, Title: "Bike"})

	w, c := testContext(t, "GET", "/api/products?category_id="+electronics.ID, nil)
	ListProducts(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeListResponse(t, w)
	assert.Equal(t, int64(2), resp.Data.Total)
	for _, p := range resp.Data.Data {
		assert.Equal(t, electronics.ID, p.CategoryID)
	}
}

func TestListProducts_PriceRangeBothBounds(t *testing.T) {
	SetupTestDB(t)

	seller := createTestUser(t, "Seller", "seller_price@example.com")
	cat := createTestCategory(t, "Electronics")

	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "Cheap", Price: 10})
	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "Mid", Price: 50})
	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "Boundary", Price: 100})
	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "Expensive", Price: 250})

	w, c := testContext(t, "GET", "/api/products?min_price=50&max_price=100", nil)
	ListProducts(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeListResponse(t, w)
	assert.Equal(t, int64(2), resp.Data.Total)
	for _, p := range resp.Data.Data {
		assert.GreaterOrEqual(t, p.Price, 50.0)
		assert.LessOrEqual(t, p.Price, 100.0)
	}
}

func TestListProducts_PriceRangeSingleBoundIsNoop(t *testing.T) {
	SetupTestDB(t)

	seller := createTestUser(t, "Seller", "seller_bound@example.com")
	cat := createTestCategory(t, "Electronics")

	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "Cheap", Price: 10})
	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "Expensive", Price: 500})

	// Only one bound supplied: the range filter must not apply
	w, c := testContext(t, "GET", "/api/products?min_price=100", nil)
	ListProducts(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeListResponse(t, w)
	assert.Equal(t, int64(2), resp.Data.Total)
}

func TestListProducts_MalformedPriceRejected(t *testing.T) {
	SetupTestDB(t)

	w, c := testContext(t, "GET", "/api/products?min_price=abc&max_price=100", nil)
	ListProducts(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Success bool              `json:"success"`
		Errors  map[string]string `json:"errors"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Errors, "min_price")
}

func TestListProducts_Search(t *testing.T) {
	SetupTestDB(t)

	seller := createTestUser(t, "Seller", "seller_search@example.com")
	cat := createTestCategory(t, "Electronics")

	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "iPhone 14 Pro", Description: "Great phone"})
	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "Desk Lamp", Description: "Includes an iphone stand"})
	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "Mountain Bike", Description: "Hardly used"})

	// Case-insensitive over both title and description
	w, c := testContext(t, "GET", "/api/products?search=IPHONE", nil)
	ListProducts(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeListResponse(t, w)
	assert.Equal(t, int64(2), resp.Data.Total)
}

func TestListProducts_SortByPrice(t *testing.T) {
	SetupTestDB(t)

	seller := createTestUser(t, "Seller", "seller_sort@example.com")
	cat := createTestCategory(t, "Electronics")

	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "B", Price: 200})
	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "A", Price: 100})
	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "C", Price: 300})

	w, c := testContext(t, "GET", "/api/products?sort_by=price&sort_order=asc", nil)
	ListProducts(c)
	asc := decodeListResponse(t, w)

	w2, c2 := testContext(t, "GET", "/api/products?sort_by=price&sort_order=desc", nil)
	ListProducts(c2)
	desc := decodeListResponse(t, w2)

	assert.Len(t, asc.Data.Data, 3)
	assert.Len(t, desc.Data.Data, 3)
	for i := range asc.Data.Data {
		assert.Equal(t, asc.Data.Data[i].ID, desc.Data.Data[len(desc.Data.Data)-1-i].ID)
	}
	assert.Equal(t, 100.0, asc.Data.Data[0].Price)
	assert.Equal(t, 300.0, desc.Data.Data[0].Price)
}

func TestListProducts_FeaturedFirst(t *testing.T) {
	SetupTestDB(t)

	seller := createTestUser(t, "Seller", "seller_feat@example.com")
	cat := createTestCategory(t, "Electronics")

	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "Plain Cheap", Price: 10})
	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "Featured Expensive", Price: 900, IsFeatured: true})
	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "Plain Mid", Price: 50})
	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "Featured Cheap", Price: 5, IsFeatured: true})

	w, c := testContext(t, "GET", "/api/products?featured_first=true&sort_by=price&sort_order=asc", nil)
	ListProducts(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeListResponse(t, w)
	assert.Len(t, resp.Data.Data, 4)

	// Every featured product before every non-featured one
	assert.True(t, resp.Data.Data[0].IsFeatured)
	assert.True(t, resp.Data.Data[1].IsFeatured)
	assert.False(t, resp.Data.Data[2].IsFeatured)
	assert.False(t, resp.Data.Data[3].IsFeatured)

	// Primary sort still applies within each group
	assert.Equal(t, 5.0, resp.Data.Data[0].Price)
	assert.Equal(t, 900.0, resp.Data.Data[1].Price)
	assert.Equal(t, 10.0, resp.Data.Data[2].Price)
	assert.Equal(t, 50.0, resp.Data.Data[3].Price)
}

func TestListProducts_OnlyActiveVisible(t *testing.T) {
	SetupTestDB(t)

	seller := createTestUser(t, "Seller", "seller_status@example.com")
	cat := createTestCategory(t, "Electronics")

	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "Active"})
	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "Sold", Status: models.StatusSold})
	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "Hidden", Status: models.StatusInactive})

	w, c := testContext(t, "GET", "/api/products", nil)
	ListProducts(c)

	resp := decodeListResponse(t, w)
	assert.Equal(t, int64(1), resp.Data.Total)
	assert.Equal(t, "Active", resp.Data.Data[0].Title)
}

func TestListProducts_Pagination(t *testing.T) {
	SetupTestDB(t)

	seller := createTestUser(t, "Seller", "seller_page@example.com")
	cat := createTestCategory(t, "Electronics")
	for i := 0; i < 7; i++ {
		createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Price: float64(i)})
	}

	w, c := testContext(t, "GET", "/api/products?per_page=3&page=2&sort_by=price&sort_order=asc", nil)
	ListProducts(c)

	resp := decodeListResponse(t, w)
	assert.Equal(t, int64(7), resp.Data.Total)
	assert.Equal(t, 2, resp.Data.CurrentPage)
	assert.Equal(t, 3, resp.Data.PerPage)
	assert.Equal(t, 3, resp.Data.LastPage)
	assert.Len(t, resp.Data.Data, 3)
	assert.Equal(t, 3.0, resp.Data.Data[0].Price)
}

func TestGetProduct_IncrementsViews(t *testing.T) {
	SetupTestDB(t)

	seller := createTestUser(t, "Seller", "seller_views@example.com")
	cat := createTestCategory(t, "Electronics")
	product := createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Views: 5})

	const reads = 4
	for i := 0; i < reads; i++ {
		w, c := testContext(t, "GET", "/api/products/"+product.ID, nil)
		c.Params = gin.Params{{Key: "id", Value: product.ID}}
		GetProduct(c)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	var fresh models.Product
	database.DB.First(&fresh, "id = ?", product.ID)
	assert.Equal(t, 5+reads, fresh.Views)
}

func TestGetProduct_NotFound(t *testing.T) {
	SetupTestDB(t)

	w, c := testContext(t, "GET", "/api/products/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	GetProduct(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProduct(t *testing.T) {
	SetupTestDB(t)

	seller := createTestUser(t, "Seller", "seller_create@example.com")
	cat := createTestCategory(t, "Electronics")

	price := 49.99
	w, c := testContext(t, "POST", "/api/products", CreateProductInput{
		CategoryID:  cat.ID,
		Title:       "Bluetooth Speaker",
		Description: "Loud and clear",
		Price:       &price,
		Condition:   "new",
		Location:    "Austin, TX",
		Images:      []string{"https://img.example.com/speaker.jpg"},
	})
	c.Set("userId", seller.ID)
	CreateProduct(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool           `json:"success"`
		Data    models.Product `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, models.StatusActive, resp.Data.Status)
	assert.Equal(t, seller.ID, resp.Data.UserID)
	assert.Equal(t, cat.ID, resp.Data.Category.ID)
}

func TestCreateProduct_Validation(t *testing.T) {
	SetupTestDB(t)

	seller := createTestUser(t, "Seller", "seller_val@example.com")

	price := -5.0
	w, c := testContext(t, "POST", "/api/products", CreateProductInput{
		CategoryID: "no-such-category",
		Price:      &price,
		Condition:  "broken",
	})
	c.Set("userId", seller.ID)
	CreateProduct(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Contains(t, resp.Errors, "category_id")
	assert.Contains(t, resp.Errors, "title")
	assert.Contains(t, resp.Errors, "price")
	assert.Contains(t, resp.Errors, "condition")
	assert.Contains(t, resp.Errors, "location")
}

func TestUpdateProduct_NotOwnerForbidden(t *testing.T) {
	SetupTestDB(t)

	owner := createTestUser(t, "Owner", "owner_upd@example.com")
	other := createTestUser(t, "Other", "other_upd@example.com")
	cat := createTestCategory(t, "Electronics")
	product := createTestProduct(t, models.Product{UserID: owner.ID, CategoryID: cat.ID, Title: "Original"})

	title := "Hijacked"
	w, c := testContext(t, "PUT", "/api/products/"+product.ID, UpdateProductInput{Title: &title})
	c.Params = gin.Params{{Key: "id", Value: product.ID}}
	c.Set("userId", other.ID)
	UpdateProduct(c)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var fresh models.Product
	database.DB.First(&fresh, "id = ?", product.ID)
	assert.Equal(t, "Original", fresh.Title)
}

func TestUpdateProduct_StatusUnconstrained(t *testing.T) {
	SetupTestDB(t)

	owner := createTestUser(t, "Owner", "owner_status@example.com")
	cat := createTestCategory(t, "Electronics")
	product := createTestProduct(t, models.Product{UserID: owner.ID, CategoryID: cat.ID, Status: models.StatusSold})

	// No transition rules: sold may go straight back to active
	status := "active"
	w, c := testContext(t, "PUT", "/api/products/"+product.ID, UpdateProductInput{Status: &status})
	c.Params = gin.Params{{Key: "id", Value: product.ID}}
	c.Set("userId", owner.ID)
	UpdateProduct(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var fresh models.Product
	database.DB.First(&fresh, "id = ?", product.ID)
	assert.Equal(t, models.StatusActive, fresh.Status)
}

func TestDeleteProduct_RemovesListingAndImages(t *testing.T) {
	SetupTestDB(t)

	owner := createTestUser(t, "Owner", "owner_del@example.com")
	cat := createTestCategory(t, "Electronics")
	product := createTestProduct(t, models.Product{
		UserID:     owner.ID,
		CategoryID: cat.ID,
		Images:     pq.StringArray{"products/a.jpg", "products/b.jpg"},
	})

	var deleted []string
	original := deleteProductImages
	deleteProductImages = func(images []string) { deleted = append(deleted, images...) }
	defer func() { deleteProductImages = original }()

	w, c := testContext(t, "DELETE", "/api/products/"+product.ID, nil)
	c.Params = gin.Params{{Key: "id", Value: product.ID}}
	c.Set("userId", owner.ID)
	DeleteProduct(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"products/a.jpg", "products/b.jpg"}, deleted)

	wList, cList := testContext(t, "GET", "/api/products", nil)
	ListProducts(cList)
	assert.Equal(t, http.StatusOK, wList.Code)
	resp := decodeListResponse(t, wList)
	assert.Equal(t, int64(0), resp.Data.Total)
}

func TestDeleteProduct_NotOwnerForbidden(t *testing.T) {
	SetupTestDB(t)

	owner := createTestUser(t, "Owner", "owner_del2@example.com")
	other := createTestUser(t, "Other", "other_del2@example.com")
	cat := createTestCategory(t, "Electronics")
	product := createTestProduct(t, models.Product{UserID: owner.ID, CategoryID: cat.ID})

	w, c := testContext(t, "DELETE", "/api/products/"+product.ID, nil)
	c.Params = gin.Params{{Key: "id", Value: product.ID}}
	c.Set("userId", other.ID)
	DeleteProduct(c)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	database.DB.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestMyProducts_IncludesAllStatuses(t *testing.T) {
	SetupTestDB(t)

	owner := createTestUser(t, "Owner", "owner_mine@example.com")
	other := createTestUser(t, "Other", "other_mine@example.com")
	cat := createTestCategory(t, "Electronics")

	createTestProduct(t, models.Product{UserID: owner.ID, CategoryID: cat.ID, Title: "Mine Active"})
	createTestProduct(t, models.Product{UserID: owner.ID, CategoryID: cat.ID, Title: "Mine Sold", Status: models.StatusSold})
	createTestProduct(t, models.Product{UserID: other.ID, CategoryID: cat.ID, Title: "Not Mine"})

	w, c := testContext(t, "GET", "/api/my-products", nil)
	c.Set("userId", owner.ID)
	MyProducts(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeListResponse(t, w)
	assert.Equal(t, int64(2), resp.Data.Total)
	for _, p := range resp.Data.Data {
		assert.Equal(t, owner.ID, p.UserID)
	}
}

func TestFeaturedProducts(t *testing.T) {
	SetupTestDB(t)

	seller := createTestUser(t, "Seller", "seller_featlist@example.com")
	cat := createTestCategory(t, "Electronics")

	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "Featured", IsFeatured: true})
	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "Featured Sold", IsFeatured: true, Status: models.StatusSold})
	createTestProduct(t, models.Product{UserID: seller.ID, CategoryID: cat.ID, Title: "Plain"})

	w, c := testContext(t, "GET", "/api/products/featured", nil)
	FeaturedProducts(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.Product `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, "Featured", resp.Data[0].Title)
}
