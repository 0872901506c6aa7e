package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"storehub-backend/models"
	"storehub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoreHandler struct {
	DB *gorm.DB
}

type addressInput struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (in addressInput) fields() map[string]interface{} {
	return map[string]interface{}{
		"street":      in.Street,
		"city":        in.City,
		"state":       in.State,
		"postal_code": in.PostalCode,
		"country":     in.Country,
	}
}

func (in addressInput) model() models.Address {
	return models.Address{
		Street:     in.Street,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		Country:    in.Country,
	}
}

type openingHoursInput struct {
	Weekday  int    `json:"weekday"`
	FromHour string `json:"from_hour"`
	ToHour   string `json:"to_hour"`
}

// buildOpeningHours normalizes and validates one interval payload. Every
// error it returns is a client error.
func buildOpeningHours(in openingHoursInput) (models.OpeningHours, error) {
	from, err := utils.NormalizeClockTime(in.FromHour)
	if err != nil {
		return models.OpeningHours{}, err
	}
	to, err := utils.NormalizeClockTime(in.ToHour)
	if err != nil {
		return models.OpeningHours{}, err
	}

	oh := models.OpeningHours{
		Weekday:  in.Weekday,
		FromHour: from,
		ToHour:   to,
	}
	if err := oh.Validate(); err != nil {
		return models.OpeningHours{}, err
	}
	return oh, nil
}

// resolveOpeningHours returns the shared row for the interval's
// (weekday, from_hour, to_hour) triple, creating it if none exists yet.
// A create that loses the race on the unique index falls back to a second
// lookup instead of surfacing the conflict. The create runs under a
// savepoint: on Postgres a failed statement aborts the whole transaction,
// so without rolling back to the savepoint the retry lookup could not run.
func resolveOpeningHours(tx *gorm.DB, oh models.OpeningHours) (models.OpeningHours, error) {
	var existing models.OpeningHours
	err := tx.Where("weekday = ? AND from_hour = ? AND to_hour = ?", oh.Weekday, oh.FromHour, oh.ToHour).
		First(&existing).Error
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.OpeningHours{}, err
	}

	if err := tx.SavePoint("resolve_opening_hours").Error; err != nil {
		return models.OpeningHours{}, err
	}
	if createErr := tx.Create(&oh).Error; createErr != nil {
		if err := tx.RollbackTo("resolve_opening_hours").Error; err != nil {
			return models.OpeningHours{}, err
		}
		if err := tx.Where("weekday = ? AND from_hour = ? AND to_hour = ?", oh.Weekday, oh.FromHour, oh.ToHour).
			First(&existing).Error; err == nil {
			return existing, nil
		}
		return models.OpeningHours{}, createErr
	}
	return oh, nil
}

func openingHoursOrder(db *gorm.DB) *gorm.DB {
	return db.Order("weekday, from_hour")
}

// respondStore reloads the store with its associations and writes it out.
// Opening hours are always rendered as a list (never null), sorted by
// weekday then from_hour.
func (h *StoreHandler) respondStore(c *gin.Context, status int, id uuid.UUID) {
	var store models.Store
	if err := h.DB.Preload("Address").Preload("OpeningHours", openingHoursOrder).
		First(&store, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load store"})
		return
	}
	if store.OpeningHours == nil {
		store.OpeningHours = []models.OpeningHours{}
	}
	c.JSON(status, store)
}

func (h *StoreHandler) CreateStore(c *gin.Context) {
	var req struct {
		Name         string              `json:"name" binding:"required"`
		Address      *addressInput       `json:"address"`
		OpeningHours []openingHoursInput `json:"opening_hours"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	// The required binding does not catch whitespace-only names.
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	// Validate every interval up front so nothing is persisted for a
	// payload that is going to fail anyway.
	intervals := make([]models.OpeningHours, 0, len(req.OpeningHours))
	for _, in := range req.OpeningHours {
		oh, err := buildOpeningHours(in)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		intervals = append(intervals, oh)
	}

	tx := h.DB.Begin()

	store := models.Store{Name: req.Name}

	if req.Address != nil {
		addr := req.Address.model()
		if err := tx.Create(&addr).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create address"})
			return
		}
		store.AddressID = &addr.ID
	}

	if err := tx.Create(&store).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create store"})
		return
	}

	for _, oh := range intervals {
		resolved, err := resolveOpeningHours(tx, oh)
		if err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve opening hours"})
			return
		}
		if err := tx.Model(&store).Association("OpeningHours").Append(&resolved); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to associate opening hours"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize store creation"})
		return
	}

	h.respondStore(c, http.StatusCreated, store.ID)
}

func (h *StoreHandler) GetStore(c *gin.Context) {
	var store models.Store
	if err := h.DB.Preload("Address").Preload("OpeningHours", openingHoursOrder).
		First(&store, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}
	if store.OpeningHours == nil {
		store.OpeningHours = []models.OpeningHours{}
	}
	c.JSON(http.StatusOK, store)
}

func (h *StoreHandler) UpdateStore(c *gin.Context) {
	var store models.Store
	if err := h.DB.First(&store, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}

	var req struct {
		Name    *string       `json:"name"`
		Address *addressInput `json:"address"`
		// Pointer-to-slice keeps "key absent" apart from "key present
		// with an empty list": absent leaves the association set alone,
		// an empty list clears it.
		OpeningHours *[]openingHoursInput `json:"opening_hours"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	var intervals []models.OpeningHours
	if req.OpeningHours != nil {
		intervals = make([]models.OpeningHours, 0, len(*req.OpeningHours))
		for _, in := range *req.OpeningHours {
			oh, err := buildOpeningHours(in)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			intervals = append(intervals, oh)
		}
	}

	tx := h.DB.Begin()

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}

	if req.Address != nil {
		if store.AddressID != nil {
			// The store already references an address: overwrite that row
			// in place. Any other store sharing the row sees the change.
			if err := tx.Model(&models.Address{}).Where("id = ?", *store.AddressID).
				Updates(req.Address.fields()).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update address"})
				return
			}
		} else {
			addr := req.Address.model()
			if err := tx.Create(&addr).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create address"})
				return
			}
			updates["address_id"] = addr.ID
		}
	}

	if len(updates) > 0 {
		if err := tx.Model(&store).Updates(updates).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update store"})
			return
		}
	}

	if req.OpeningHours != nil {
		// Wholesale replace: drop the current association set, then
		// resolve and re-associate each entry.
		if err := tx.Model(&store).Association("OpeningHours").Clear(); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear opening hours"})
			return
		}
		for _, oh := range intervals {
			resolved, err := resolveOpeningHours(tx, oh)
			if err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve opening hours"})
				return
			}
			if err := tx.Model(&store).Association("OpeningHours").Append(&resolved); err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to associate opening hours"})
				return
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize store update"})
		return
	}

	h.respondStore(c, http.StatusOK, store.ID)
}

func (h *StoreHandler) DeleteStore(c *gin.Context) {
	var store models.Store
	if err := h.DB.First(&store, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}

	tx := h.DB.Begin()

	// Detach the shared interval rows; they stay in the pool for other
	// stores. The address row is left alone as well.
	if err := tx.Model(&store).Association("OpeningHours").Clear(); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to detach opening hours"})
		return
	}
	if err := tx.Delete(&store).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete store"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize store deletion"})
		return
	}

	c.Status(http.StatusNoContent)
}

// addressFilterColumns maps query parameters to the joined address columns
// they filter on.
var addressFilterColumns = map[string]string{
	"address.street":      "addresses.street",
	"address.city":        "addresses.city",
	"address.state":       "addresses.state",
	"address.postal_code": "addresses.postal_code",
	"address.country":     "addresses.country",
}

func (h *StoreHandler) ListStores(c *gin.Context) {
	weekdayParam := c.Query("opening_hours.weekday")
	if weekdayParam != "" {
		if _, err := strconv.Atoi(weekdayParam); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "opening_hours.weekday must be an integer"})
			return
		}
	}

	// Built twice: once for the count, once for the page of rows.
	filtered := func() *gorm.DB {
		q := h.DB.Model(&models.Store{})

		if name := c.Query("name"); name != "" {
			q = q.Where("stores.name = ?", name)
		}

		joinedAddress := false
		for param, column := range addressFilterColumns {
			value := c.Query(param)
			if value == "" {
				continue
			}
			if !joinedAddress {
				q = q.Joins("JOIN addresses ON addresses.id = stores.address_id")
				joinedAddress = true
			}
			q = q.Where(column+" = ?", value)
		}

		joinedHours := false
		joinHours := func() {
			if !joinedHours {
				q = q.Joins("JOIN store_opening_hours ON store_opening_hours.store_id = stores.id").
					Joins("JOIN opening_hours ON opening_hours.id = store_opening_hours.opening_hours_id")
				joinedHours = true
			}
		}
		if weekdayParam != "" {
			joinHours()
			weekday, _ := strconv.Atoi(weekdayParam)
			q = q.Where("opening_hours.weekday = ?", weekday)
		}
		if from := c.Query("opening_hours.from_hour"); from != "" {
			joinHours()
			if normalized, err := utils.NormalizeClockTime(from); err == nil {
				from = normalized
			}
			q = q.Where("opening_hours.from_hour = ?", from)
		}
		if to := c.Query("opening_hours.to_hour"); to != "" {
			joinHours()
			if normalized, err := utils.NormalizeClockTime(to); err == nil {
				to = normalized
			}
			q = q.Where("opening_hours.to_hour = ?", to)
		}

		return q
	}

	var count int64
	if err := filtered().Distinct("stores.id").Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count stores"})
		return
	}

	page := pageFromQuery(c)

	var stores []models.Store
	if err := filtered().Distinct("stores.*").
		Order("stores.created_at").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Preload("Address").Preload("OpeningHours", openingHoursOrder).
		Find(&stores).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stores"})
		return
	}

	for i := range stores {
		if stores[i].OpeningHours == nil {
			stores[i].OpeningHours = []models.OpeningHours{}
		}
	}

	c.JSON(http.StatusOK, paginatedResponse(c, count, page, stores))
}
