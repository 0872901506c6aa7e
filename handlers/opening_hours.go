package handlers

import (
	"errors"
	"net/http"

	"storehub-backend/models"
	"storehub-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OpeningHoursHandler exposes the shared interval pool as a plain CRUD
// resource. Rows are interned by (weekday, from_hour, to_hour); creating
// an interval that already exists is rejected rather than duplicated.
type OpeningHoursHandler struct {
	DB *gorm.DB
}

func (h *OpeningHoursHandler) ListOpeningHours(c *gin.Context) {
	var count int64
	if err := h.DB.Model(&models.OpeningHours{}).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count opening hours"})
		return
	}

	page := pageFromQuery(c)

	var hours []models.OpeningHours
	if err := h.DB.Order("weekday, from_hour").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&hours).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch opening hours"})
		return
	}

	c.JSON(http.StatusOK, paginatedResponse(c, count, page, hours))
}

func (h *OpeningHoursHandler) GetOpeningHours(c *gin.Context) {
	var hours models.OpeningHours
	if err := h.DB.First(&hours, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Opening hours not found"})
		return
	}
	c.JSON(http.StatusOK, hours)
}

func (h *OpeningHoursHandler) CreateOpeningHours(c *gin.Context) {
	var req openingHoursInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	hours, err := buildOpeningHours(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.OpeningHours
	err = h.DB.Where("weekday = ? AND from_hour = ? AND to_hour = ?", hours.Weekday, hours.FromHour, hours.ToHour).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "opening hours interval already exists"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check opening hours"})
		return
	}

	if err := h.DB.Create(&hours).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create opening hours"})
		return
	}

	c.JSON(http.StatusCreated, hours)
}

func (h *OpeningHoursHandler) UpdateOpeningHours(c *gin.Context) {
	var hours models.OpeningHours
	if err := h.DB.First(&hours, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Opening hours not found"})
		return
	}

	var req openingHoursInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	updated, err := buildOpeningHours(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The triple is the row's identity; refuse to collide with another row.
	var conflict models.OpeningHours
	err = h.DB.Where("weekday = ? AND from_hour = ? AND to_hour = ? AND id <> ?",
		updated.Weekday, updated.FromHour, updated.ToHour, hours.ID).
		First(&conflict).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "opening hours interval already exists"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check opening hours"})
		return
	}

	if err := h.DB.Model(&hours).Updates(map[string]interface{}{
		"weekday":   updated.Weekday,
		"from_hour": updated.FromHour,
		"to_hour":   updated.ToHour,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update opening hours"})
		return
	}

	h.DB.First(&hours, "id = ?", hours.ID)
	c.JSON(http.StatusOK, hours)
}

func (h *OpeningHoursHandler) DeleteOpeningHours(c *gin.Context) {
	var hours models.OpeningHours
	if err := h.DB.First(&hours, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Opening hours not found"})
		return
	}

	tx := h.DB.Begin()

	// Drop the association rows first; stores that pointed at this
	// interval simply lose it from their set.
	if err := tx.Exec("DELETE FROM store_opening_hours WHERE opening_hours_id = ?", hours.ID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to detach opening hours"})
		return
	}
	if err := tx.Delete(&hours).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete opening hours"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize opening hours deletion"})
		return
	}

	c.Status(http.StatusNoContent)
}
