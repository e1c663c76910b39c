package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mission365/classified-marketplace/pkg/errors"
)

// Page is the pagination envelope returned by list endpoints
type Page struct {
	Data        interface{} `json:"data"`
	Total       int64       `json:"total"`
	PerPage     int         `json:"per_page"`
	CurrentPage int         `json:"current_page"`
	LastPage    int         `json:"last_page"`
}

func newPage(data interface{}, total int64, page, perPage int) Page {
	lastPage := int(math.Ceil(float64(total) / float64(perPage)))
	if lastPage < 1 {
		lastPage = 1
	}
	return Page{
		Data:        data,
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    lastPage,
	}
}

// Every response carries a boolean success flag. Validation failures add a
// field-keyed errors map and render as 422.

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": message, "data": data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

func respondError(c *gin.Context, err *errors.AppError) {
	c.JSON(err.Code, gin.H{"success": false, "message": err.Message})
}

func respondValidation(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"success": false,
		"message": "Validation errors",
		"errors":  fields,
	})
}
