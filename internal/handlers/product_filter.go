package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mission365/classified-marketplace/pkg/errors"
	"github.com/mission365/classified-marketplace/pkg/utils"
	"gorm.io/gorm"
)

const (
	defaultRadius  = 50.0
	defaultPerPage = 15
	maxPerPage     = 100
)

// ProductFilter is an explicit filter spec for the listing query. Every
// field is optional; absent fields leave the candidate set untouched.
type ProductFilter struct {
	Search     string
	CategoryID string
	MinPrice   *float64
	MaxPrice   *float64
	Latitude   *float64
	Longitude  *float64
	Radius     float64
	Condition  string

	SortBy        string
	SortOrder     string
	FeaturedFirst bool

	Page    int
	PerPage int
}

// ParseProductFilter reads the listing query params. Malformed numeric
// values reject the request before any query runs.
func ParseProductFilter(c *gin.Context) (*ProductFilter, *errors.ValidationError) {
	verr := errors.NewValidationError()

	f := &ProductFilter{
		Search:     c.Query("search"),
		CategoryID: c.Query("category_id"),
		Condition:  c.Query("condition"),
		Radius:     defaultRadius,
		SortBy:     c.DefaultQuery("sort_by", "created_at"),
		SortOrder:  c.DefaultQuery("sort_order", "desc"),
		Page:       1,
		PerPage:    defaultPerPage,
	}

	f.MinPrice = parseFloatParam(c, "min_price", verr)
	f.MaxPrice = parseFloatParam(c, "max_price", verr)
	f.Latitude = parseFloatParam(c, "latitude", verr)
	f.Longitude = parseFloatParam(c, "longitude", verr)

	if radius := parseFloatParam(c, "radius", verr); radius != nil {
		f.Radius = *radius
	}

	if page := c.Query("page"); page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			verr.Add("page", "The page must be a positive integer")
		} else {
			f.Page = n
		}
	}

	if perPage := c.Query("per_page"); perPage != "" {
		n, err := strconv.Atoi(perPage)
		if err != nil || n < 1 {
			verr.Add("per_page", "The per_page must be a positive integer")
		} else {
			f.PerPage = n
		}
	}
	if f.PerPage > maxPerPage {
		f.PerPage = maxPerPage
	}

	switch f.SortBy {
	case "price", "views":
	default:
		f.SortBy = "created_at"
	}
	if f.SortOrder != "asc" {
		f.SortOrder = "desc"
	}

	switch c.Query("featured_first") {
	case "1", "true":
		f.FeaturedFirst = true
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return f, nil
}

func parseFloatParam(c *gin.Context, name string, verr *errors.ValidationError) *float64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		verr.Add(name, "The "+name+" must be a number")
		return nil
	}
	return &v
}

// Apply attaches the filter predicates to query. Predicates are independent
// and AND-combined. The price range only applies when both bounds are
// supplied; a single bound is intentionally a no-op. The geo filter only
// applies when both coordinates are supplied.
func (f *ProductFilter) Apply(query *gorm.DB) *gorm.DB {
	if f.Search != "" {
		like := utils.SanitizeSearchQuery(f.Search)
		query = query.Where("(LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?))", like, like)
	}

	if f.CategoryID != "" {
		query = query.Where("category_id = ?", f.CategoryID)
	}

	if f.MinPrice != nil && f.MaxPrice != nil {
		query = query.Where("price BETWEEN ? AND ?", *f.MinPrice, *f.MaxPrice)
	}

	if f.Latitude != nil && f.Longitude != nil {
		// Haversine distance in km against the 6371 km earth radius
		query = query.Where("latitude IS NOT NULL AND longitude IS NOT NULL").
			Where(
				"(6371 * acos(cos(radians(?)) * cos(radians(latitude)) * cos(radians(longitude) - radians(?)) + sin(radians(?)) * sin(radians(latitude)))) <= ?",
				*f.Latitude, *f.Longitude, *f.Latitude, f.Radius,
			)
	}

	if f.Condition != "" {
		query = query.Where("condition = ?", f.Condition)
	}

	return query
}

// Sort attaches ordering. With featured_first set, featured products sort
// before non-featured ones and the primary key orders within each group.
func (f *ProductFilter) Sort(query *gorm.DB) *gorm.DB {
	if f.FeaturedFirst {
		query = query.Order("is_featured DESC")
	}
	return query.Order(f.SortBy + " " + f.SortOrder)
}
