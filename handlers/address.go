package handlers

import (
	"net/http"

	"storehub-backend/models"
	"storehub-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AddressHandler exposes addresses as a plain CRUD resource. The only
// non-trivial part is delete: removing an address also removes every
// store that references it (the cascade runs Address to Store, never the
// other way around).
type AddressHandler struct {
	DB *gorm.DB
}

func (h *AddressHandler) ListAddresses(c *gin.Context) {
	var count int64
	if err := h.DB.Model(&models.Address{}).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count addresses"})
		return
	}

	page := pageFromQuery(c)

	var addresses []models.Address
	if err := h.DB.Order("created_at").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&addresses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch addresses"})
		return
	}

	c.JSON(http.StatusOK, paginatedResponse(c, count, page, addresses))
}

func (h *AddressHandler) GetAddress(c *gin.Context) {
	var address models.Address
	if err := h.DB.First(&address, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
		return
	}
	c.JSON(http.StatusOK, address)
}

func (h *AddressHandler) CreateAddress(c *gin.Context) {
	var req addressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	address := req.model()
	if err := h.DB.Create(&address).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create address"})
		return
	}

	c.JSON(http.StatusCreated, address)
}

func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	var address models.Address
	if err := h.DB.First(&address, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
		return
	}

	var req addressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	// Full-field replace, blanks included.
	if err := h.DB.Model(&address).Updates(req.fields()).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update address"})
		return
	}

	h.DB.First(&address, "id = ?", address.ID)
	c.JSON(http.StatusOK, address)
}

func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	var address models.Address
	if err := h.DB.First(&address, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
		return
	}

	tx := h.DB.Begin()

	// Cascade: every store referencing this address goes with it. Their
	// opening-hours rows stay in the shared pool; only the association
	// rows are removed.
	var stores []models.Store
	if err := tx.Where("address_id = ?", address.ID).Find(&stores).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dependent stores"})
		return
	}
	for i := range stores {
		if err := tx.Model(&stores[i]).Association("OpeningHours").Clear(); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to detach opening hours"})
			return
		}
		if err := tx.Delete(&stores[i]).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete dependent store"})
			return
		}
	}

	if err := tx.Delete(&address).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete address"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize address deletion"})
		return
	}

	c.Status(http.StatusNoContent)
}
